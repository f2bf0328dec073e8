package recording

import (
	"context"
	"errors"
	"io"
	"sync"
)

var (
	// ErrPermissionDenied indicates the user refused microphone access.
	ErrPermissionDenied = errors.New("recording: microphone permission denied")
	// ErrDeviceNotFound indicates that no audio input is connected.
	ErrDeviceNotFound = errors.New("recording: no microphone found")
	// ErrUnsupported indicates that the runtime cannot capture audio.
	ErrUnsupported = errors.New("recording: audio capture unsupported")
)

const defaultChunkSize = 4096

// Device grants exclusive access to an audio input.
type Device interface {
	Acquire(ctx context.Context) (Capture, error)
	IsTypeSupported(mimeType string) bool
}

// Capture is an acquired audio input. Chunks delivers captured slices until
// the input ends; Release gives the input back.
type Capture interface {
	Chunks() <-chan []byte
	Release() error
}

// Guidance returns remediation text for a device acquisition failure.
func Guidance(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "Microphone access was blocked. Open your browser's site settings, allow the microphone for this app, then try again."
	case errors.Is(err, ErrDeviceNotFound):
		return "No microphone was found. Plug in a microphone or headset and try again."
	case errors.Is(err, ErrUnsupported):
		return "Voice messages are not supported here. Switch to a current version of Chrome, Firefox, Edge or Safari."
	case errors.Is(err, ErrEmptyCapture):
		return "Nothing was recorded. Please try again."
	default:
		return "Recording failed. Please try again."
	}
}

// ReaderDevice captures audio from an io.Reader in fixed-size slices, for
// uploads and files.
type ReaderDevice struct {
	reader    io.Reader
	chunkSize int
	mimeTypes map[string]struct{}

	mu       sync.Mutex
	acquired bool
}

// NewReaderDevice wraps reader. chunkSize <= 0 selects the default slice size.
// supportedTypes lists the encodings the reader's content may be tagged with.
func NewReaderDevice(reader io.Reader, chunkSize int, supportedTypes ...string) *ReaderDevice {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	types := make(map[string]struct{}, len(supportedTypes))
	for _, mimeType := range supportedTypes {
		types[mimeType] = struct{}{}
	}
	return &ReaderDevice{reader: reader, chunkSize: chunkSize, mimeTypes: types}
}

func (d *ReaderDevice) IsTypeSupported(mimeType string) bool {
	_, ok := d.mimeTypes[mimeType]
	return ok
}

func (d *ReaderDevice) Acquire(ctx context.Context) (Capture, error) {
	if d.reader == nil {
		return nil, ErrDeviceNotFound
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.acquired {
		return nil, ErrDeviceNotFound
	}
	d.acquired = true

	capture := &readerCapture{
		chunks: make(chan []byte),
		stop:   make(chan struct{}),
	}
	go capture.pump(d.reader, d.chunkSize)
	return capture, nil
}

type readerCapture struct {
	chunks chan []byte
	stop   chan struct{}
	once   sync.Once
}

func (c *readerCapture) pump(reader io.Reader, chunkSize int) {
	defer close(c.chunks)
	for {
		buffer := make([]byte, chunkSize)
		n, err := io.ReadFull(reader, buffer)
		if n > 0 {
			select {
			case c.chunks <- buffer[:n]:
			case <-c.stop:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func (c *readerCapture) Chunks() <-chan []byte {
	return c.chunks
}

func (c *readerCapture) Release() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}
