package recording

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type manualTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time)}
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *manualTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type fakeCapture struct {
	chunks   chan []byte
	mu       sync.Mutex
	releases int
}

func (c *fakeCapture) Chunks() <-chan []byte { return c.chunks }

func (c *fakeCapture) Release() error {
	c.mu.Lock()
	c.releases++
	c.mu.Unlock()
	return nil
}

func (c *fakeCapture) releaseCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.releases
}

type fakeDevice struct {
	capture   *fakeCapture
	err       error
	supported map[string]bool
	acquired  chan struct{}
	gate      chan struct{}
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		capture:   &fakeCapture{chunks: make(chan []byte)},
		supported: map[string]bool{"audio/webm": true},
	}
}

func (d *fakeDevice) Acquire(ctx context.Context) (Capture, error) {
	if d.gate != nil {
		close(d.acquired)
		<-d.gate
	}
	if d.err != nil {
		return nil, d.err
	}
	return d.capture, nil
}

func (d *fakeDevice) IsTypeSupported(mimeType string) bool {
	return d.supported[mimeType]
}

func mustSession(t *testing.T, device Device, ticker *manualTicker) *Session {
	t.Helper()
	session, err := NewSession(SessionConfig{
		Device: device,
		NewTicker: func(time.Duration) Ticker {
			return ticker
		},
		Logger: zaptest.NewLogger(t),
	})
	if err != nil {
		t.Fatalf("failed to construct session: %v", err)
	}
	return session
}

func TestSessionRecordsTicksAndChunks(t *testing.T) {
	device := newFakeDevice()
	ticker := newManualTicker()
	session := mustSession(t, device, ticker)

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if session.State() != StateRecording {
		t.Fatalf("expected recording state, got %s", session.State())
	}

	device.capture.chunks <- []byte("voice-")
	for i := 0; i < 3; i++ {
		ticker.ch <- time.Now()
	}
	device.capture.chunks <- []byte("message")

	blob, err := session.Stop()
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if session.Elapsed() != 3 {
		t.Fatalf("expected elapsed 3, got %d", session.Elapsed())
	}
	if !bytes.Equal(blob.Data, []byte("voice-message")) {
		t.Fatalf("unexpected blob data %q", blob.Data)
	}
	if blob.MIMEType != "audio/webm" {
		t.Fatalf("unexpected mime type %s", blob.MIMEType)
	}
	if blob.Duration != 3*time.Second {
		t.Fatalf("unexpected duration %s", blob.Duration)
	}
	if session.State() != StateStopped {
		t.Fatalf("expected stopped state, got %s", session.State())
	}
	if device.capture.releaseCount() != 1 || !ticker.isStopped() {
		t.Fatalf("expected device and timer to be released")
	}
}

func TestSessionStopWithoutChunksFails(t *testing.T) {
	device := newFakeDevice()
	ticker := newManualTicker()
	session := mustSession(t, device, ticker)

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	_, err := session.Stop()
	if !errors.Is(err, ErrEmptyCapture) {
		t.Fatalf("expected empty capture error, got %v", err)
	}
	if session.State() != StateFailed {
		t.Fatalf("expected failed state, got %s", session.State())
	}
	if device.capture.releaseCount() != 1 {
		t.Fatalf("expected device release on empty capture")
	}
}

func TestSessionDeviceFailures(t *testing.T) {
	for _, failure := range []error{ErrPermissionDenied, ErrDeviceNotFound, ErrUnsupported} {
		t.Run(failure.Error(), func(t *testing.T) {
			device := newFakeDevice()
			device.err = failure
			session := mustSession(t, device, newManualTicker())

			err := session.Start(context.Background())
			if !errors.Is(err, failure) {
				t.Fatalf("expected %v, got %v", failure, err)
			}
			if session.State() != StateFailed || !errors.Is(session.Err(), failure) {
				t.Fatalf("expected failed state with cause, got %s / %v", session.State(), session.Err())
			}
			if Guidance(err) == Guidance(errors.New("other")) {
				t.Fatalf("expected specific guidance for %v", failure)
			}
		})
	}
}

func TestSessionRejectsSecondStart(t *testing.T) {
	device := newFakeDevice()
	session := mustSession(t, device, newManualTicker())

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := session.Start(context.Background()); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("expected active session error, got %v", err)
	}
	session.Close()
}

func TestSessionCloseReleasesWhileRecording(t *testing.T) {
	device := newFakeDevice()
	ticker := newManualTicker()
	session := mustSession(t, device, ticker)

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	session.Close()
	session.Close()

	if device.capture.releaseCount() != 1 || !ticker.isStopped() {
		t.Fatalf("expected teardown to release device and timer once")
	}
	if _, err := session.Stop(); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected closed error, got %v", err)
	}
	if err := session.Start(context.Background()); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected closed error on restart, got %v", err)
	}
}

func TestSessionCloseWhileRequestingDeviceReleasesLateGrant(t *testing.T) {
	device := newFakeDevice()
	device.acquired = make(chan struct{})
	device.gate = make(chan struct{})
	session := mustSession(t, device, newManualTicker())

	startErr := make(chan error, 1)
	go func() {
		startErr <- session.Start(context.Background())
	}()

	<-device.acquired
	if session.State() != StateRequestingDevice {
		t.Fatalf("expected requesting state, got %s", session.State())
	}
	session.Close()
	close(device.gate)

	if err := <-startErr; !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected closed error, got %v", err)
	}
	if device.capture.releaseCount() != 1 {
		t.Fatalf("expected late grant to be released")
	}
}

func TestNegotiateMIMETypeFallsBack(t *testing.T) {
	device := newFakeDevice()
	device.supported = map[string]bool{"audio/mp4": true}
	if got := NegotiateMIMEType(device); got != "audio/mp4" {
		t.Fatalf("expected mp4, got %s", got)
	}
	device.supported = map[string]bool{}
	if got := NegotiateMIMEType(device); got != BaselineMIMEType {
		t.Fatalf("expected baseline, got %s", got)
	}
}

func TestReaderDeviceDeliversFixedSlices(t *testing.T) {
	device := NewReaderDevice(bytes.NewReader([]byte("abcdefghij")), 4, "audio/ogg;codecs=opus")
	session := mustSession(t, device, newManualTicker())

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	select {
	case <-session.Drained():
	case <-time.After(5 * time.Second):
		t.Fatalf("reader was not drained")
	}
	blob, err := session.Stop()
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if string(blob.Data) != "abcdefghij" || blob.MIMEType != "audio/ogg;codecs=opus" {
		t.Fatalf("unexpected blob %q %s", blob.Data, blob.MIMEType)
	}
}
