// Package recording manages the lifecycle of a voice-message capture:
// acquire the input, tick the elapsed timer, accumulate slices, assemble a
// blob and release the input.
package recording

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State enumerates the lifecycle of a Session.
type State uint8

const (
	StateIdle State = iota
	StateRequestingDevice
	StateRecording
	StateStopped
	StateFailed
	stateStopping
	stateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequestingDevice:
		return "requesting-device"
	case StateRecording:
		return "recording"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	case stateStopping:
		return "stopping"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var (
	// ErrEmptyCapture indicates that a stopped recording holds no audio.
	ErrEmptyCapture = errors.New("recording: nothing was captured")
	// ErrSessionActive indicates a Start while a capture is in progress.
	ErrSessionActive = errors.New("recording: session already active")
	// ErrNotRecording indicates a Stop without an active capture.
	ErrNotRecording = errors.New("recording: not recording")
	// ErrSessionClosed indicates use of a session after Close.
	ErrSessionClosed = errors.New("recording: session closed")

	errMissingDevice = errors.New("recording: device is required")
)

// PreferredMIMETypes is the negotiation order for captured audio.
var PreferredMIMETypes = []string{
	"audio/webm;codecs=opus",
	"audio/webm",
	"audio/ogg;codecs=opus",
	"audio/mp4",
}

// BaselineMIMEType is used when the device supports none of the preferences.
const BaselineMIMEType = "audio/webm"

// NegotiateMIMEType returns the first preferred encoding the device supports.
func NegotiateMIMEType(device Device) string {
	for _, mimeType := range PreferredMIMETypes {
		if device.IsTypeSupported(mimeType) {
			return mimeType
		}
	}
	return BaselineMIMEType
}

// Blob is a finished recording.
type Blob struct {
	Data     []byte
	MIMEType string
	Duration time.Duration
}

// Ticker delivers periodic ticks.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc constructs a Ticker firing every interval.
type TickerFunc func(interval time.Duration) Ticker

type timeTicker struct {
	ticker *time.Ticker
}

// NewTimeTicker is the TickerFunc backed by time.Ticker.
func NewTimeTicker(interval time.Duration) Ticker {
	return &timeTicker{ticker: time.NewTicker(interval)}
}

func (t *timeTicker) C() <-chan time.Time { return t.ticker.C }

func (t *timeTicker) Stop() { t.ticker.Stop() }

// SessionConfig describes the dependencies of a Session.
type SessionConfig struct {
	Device       Device
	NewTicker    TickerFunc
	TickInterval time.Duration
	Logger       *zap.Logger
}

// Session is one capture lifecycle. A Session may be restarted after it
// stopped or failed; Close ends it for good.
type Session struct {
	device    Device
	newTicker TickerFunc
	interval  time.Duration
	logger    *zap.Logger

	mu       sync.Mutex
	state    State
	err      error
	elapsed  int
	chunks   [][]byte
	mimeType string
	capture  Capture
	ticker   Ticker
	done     chan struct{}
	drained  chan struct{}
	wg       sync.WaitGroup
}

// NewSession validates the configuration and returns an idle Session.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Device == nil {
		return nil, errMissingDevice
	}
	newTicker := cfg.NewTicker
	if newTicker == nil {
		newTicker = NewTimeTicker
	}
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		device:    cfg.Device,
		newTicker: newTicker,
		interval:  interval,
		logger:    logger,
		state:     StateIdle,
		drained:   make(chan struct{}),
	}, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the failure that moved the session to StateFailed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Elapsed returns the number of timer ticks observed while recording.
func (s *Session) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// Active reports whether the session holds or is requesting the device.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateRequestingDevice || s.state == StateRecording || s.state == stateStopping
}

// Drained is closed once the capture reports the end of its input.
func (s *Session) Drained() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drained
}

// Start acquires the device and begins capturing. The device request may
// block until the user answers the permission prompt.
func (s *Session) Start(ctx context.Context) error {
	if err := s.reserve(); err != nil {
		return err
	}
	return s.acquire(ctx)
}

// reserve moves an idle, stopped or failed session to StateRequestingDevice.
func (s *Session) reserve() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateRequestingDevice, StateRecording, stateStopping:
		return ErrSessionActive
	case stateClosed:
		return ErrSessionClosed
	}
	s.state = StateRequestingDevice
	s.err = nil
	s.elapsed = 0
	s.chunks = nil
	s.drained = make(chan struct{})
	s.mimeType = NegotiateMIMEType(s.device)
	return nil
}

func (s *Session) acquire(ctx context.Context) error {
	capture, err := s.device.Acquire(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRequestingDevice {
		if err == nil {
			releaseCapture(capture, s.logger)
		}
		return ErrSessionClosed
	}
	if err != nil {
		s.state = StateFailed
		s.err = err
		s.logger.Info("audio device acquisition failed", zap.Error(err))
		return err
	}

	s.capture = capture
	s.ticker = s.newTicker(s.interval)
	s.done = make(chan struct{})
	s.state = StateRecording
	s.wg.Add(1)
	go s.run(s.ticker, capture.Chunks(), s.done, s.drained)
	return nil
}

func (s *Session) run(ticker Ticker, chunks <-chan []byte, done <-chan struct{}, drained chan struct{}) {
	defer s.wg.Done()
	for {
		select {
		case <-done:
			return
		case <-ticker.C():
			s.mu.Lock()
			s.elapsed++
			s.mu.Unlock()
		case chunk, ok := <-chunks:
			if !ok {
				chunks = nil
				close(drained)
				continue
			}
			if len(chunk) == 0 {
				continue
			}
			s.mu.Lock()
			s.chunks = append(s.chunks, append([]byte(nil), chunk...))
			s.mu.Unlock()
		}
	}
}

// Stop ends the capture, releases the device and returns the assembled blob.
// A capture without any bytes fails with ErrEmptyCapture.
func (s *Session) Stop() (Blob, error) {
	if err := s.halt(StateStopped); err != nil {
		return Blob{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateStopping {
		return Blob{}, ErrSessionClosed
	}
	size := 0
	for _, chunk := range s.chunks {
		size += len(chunk)
	}
	if size == 0 {
		s.state = StateFailed
		s.err = ErrEmptyCapture
		return Blob{}, ErrEmptyCapture
	}
	data := make([]byte, 0, size)
	for _, chunk := range s.chunks {
		data = append(data, chunk...)
	}
	s.chunks = nil
	s.state = StateStopped
	return Blob{
		Data:     data,
		MIMEType: s.mimeType,
		Duration: time.Duration(s.elapsed) * s.interval,
	}, nil
}

// Close releases the device and timer whatever the state. It is safe to call
// more than once.
func (s *Session) Close() {
	s.mu.Lock()
	switch s.state {
	case StateRecording:
		s.mu.Unlock()
		_ = s.halt(stateClosed)
		s.mu.Lock()
	case stateStopping:
		s.mu.Unlock()
		s.wg.Wait()
		s.mu.Lock()
	}
	s.state = stateClosed
	s.chunks = nil
	s.mu.Unlock()
}

// halt stops the loop and releases the device, leaving the session in
// stateStopping for Stop or in stateClosed for Close.
func (s *Session) halt(final State) error {
	s.mu.Lock()
	if s.state != StateRecording {
		state := s.state
		s.mu.Unlock()
		if state == stateClosed {
			return ErrSessionClosed
		}
		return ErrNotRecording
	}
	capture, ticker, done := s.capture, s.ticker, s.done
	s.capture, s.ticker, s.done = nil, nil, nil
	s.state = stateStopping
	s.mu.Unlock()

	close(done)
	s.wg.Wait()
	ticker.Stop()
	releaseCapture(capture, s.logger)

	if final == stateClosed {
		s.mu.Lock()
		s.state = stateClosed
		s.mu.Unlock()
	}
	return nil
}

func releaseCapture(capture Capture, logger *zap.Logger) {
	if err := capture.Release(); err != nil {
		logger.Warn("audio device release failed", zap.Error(err))
	}
}
