package recording

import (
	"context"
	"errors"
	"sync"
)

// Composer names the context a recording belongs to.
type Composer string

const (
	ComposerPersonal Composer = "personal"
	ComposerGroup    Composer = "group"
)

var (
	// ErrDeviceBusy indicates that another composer holds the audio input.
	ErrDeviceBusy = errors.New("recording: audio input in use by another composer")

	errMissingFactory = errors.New("recording: session factory required")
)

// SessionFactory builds a fresh session for one capture.
type SessionFactory func() (*Session, error)

// Recorder keeps at most one active session across composers, since they all
// share the single audio input.
type Recorder struct {
	newSession SessionFactory

	mu       sync.Mutex
	sessions map[Composer]*Session
}

// NewRecorder returns a Recorder building sessions with factory. A Recorder
// without a factory only runs sessions handed to StartSession.
func NewRecorder(factory SessionFactory) *Recorder {
	return &Recorder{
		newSession: factory,
		sessions:   make(map[Composer]*Session),
	}
}

// Start begins a capture for composer on a session from the factory.
func (r *Recorder) Start(ctx context.Context, composer Composer) (*Session, error) {
	if r.newSession == nil {
		return nil, errMissingFactory
	}
	return r.start(ctx, composer, r.newSession)
}

// StartSession begins a capture for composer on a session built by the
// caller, for inputs that exist only for one request such as an upload.
func (r *Recorder) StartSession(ctx context.Context, composer Composer, session *Session) error {
	_, err := r.start(ctx, composer, func() (*Session, error) { return session, nil })
	return err
}

func (r *Recorder) start(ctx context.Context, composer Composer, build SessionFactory) (*Session, error) {
	r.mu.Lock()
	for owner, session := range r.sessions {
		if !session.Active() {
			continue
		}
		r.mu.Unlock()
		if owner == composer {
			return nil, ErrSessionActive
		}
		return nil, ErrDeviceBusy
	}
	session, err := build()
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	// The input is claimed before the lock is released so a concurrent start
	// for another composer observes it as busy.
	if err := session.reserve(); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	if previous, ok := r.sessions[composer]; ok && previous != session {
		previous.Close()
	}
	r.sessions[composer] = session
	r.mu.Unlock()

	if err := session.acquire(ctx); err != nil {
		return session, err
	}
	return session, nil
}

// Session returns the latest session of composer, if any.
func (r *Recorder) Session(composer Composer) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[composer]
	return session, ok
}

// Stop finishes the capture of composer.
func (r *Recorder) Stop(composer Composer) (Blob, error) {
	session, ok := r.Session(composer)
	if !ok {
		return Blob{}, ErrNotRecording
	}
	return session.Stop()
}

// Close tears down every session, releasing the input and timers.
func (r *Recorder) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[Composer]*Session)
	r.mu.Unlock()
	for _, session := range sessions {
		session.Close()
	}
}
