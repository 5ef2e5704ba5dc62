package temscript

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/resource"
	"github.com/wippyai/temscript/scripting"
)

// Session owns the process apartment and every wrapper created through it.
// Closing a session releases the wrappers still alive, newest first.
type Session struct {
	mu     sync.Mutex
	live   *resource.Registry
	closed bool
}

// Open enters the apartment and returns a new session.
func Open() (*Session, error) {
	hr := com.Initialize()
	if hr.Failed() {
		return nil, errors.Translate(errors.PhaseActivate, hr)
	}
	s := &Session{live: resource.NewRegistry()}
	s.live.Subscribe(lifecycleLogger{})
	return s, nil
}

type lifecycleLogger struct{}

func (lifecycleLogger) OnResourceEvent(e resource.Event) {
	Logger().Debug("session object",
		zap.Stringer("event", e.Type),
		zap.String("kind", string(e.Kind)),
		zap.Uint32("handle", uint32(e.Handle)))
}

func (s *Session) track(kind Kind, h resource.Dropper) (resource.Handle, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return 0, errors.Released(errors.PhaseActivate, "Session")
	}
	id := s.live.Insert(resource.Kind(kind), h)
	if id == 0 {
		return 0, errors.Released(errors.PhaseActivate, "Session")
	}
	return id, nil
}

// Live returns the number of unreleased wrappers per kind.
func (s *Session) Live() map[Kind]int {
	out := make(map[Kind]int)
	for k, n := range s.live.Counts() {
		out[Kind(k)] = n
	}
	return out
}

// LiveCount returns the number of unreleased wrappers.
func (s *Session) LiveCount() int {
	return s.live.Len()
}

// Close releases every live wrapper and leaves the apartment. It is safe to
// call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if n := s.live.Len(); n > 0 {
		Logger().Debug("releasing live wrappers", zap.Int("count", n), zap.Any("kinds", s.live.Counts()))
	}
	err := s.live.Close()
	com.Uninitialize()
	return err
}

// GetInstrument activates the instrument class and wraps it.
func (s *Session) GetInstrument() (*Instrument, error) {
	u, hr := com.CreateInstance(scripting.CLSIDInstrument, scripting.IIDInstrument)
	if hr.Failed() {
		return nil, errors.Translate(errors.PhaseActivate, hr, "Instrument")
	}
	iface, ok := u.(scripting.Instrument)
	if !ok {
		u.Release()
		return nil, errors.Contract(errors.PhaseActivate, "activated object does not implement Instrument")
	}
	w, err := wrapInstrument(s, iface)
	if err != nil {
		iface.Release()
		return nil, err
	}
	return w, nil
}

var (
	defaultSession   *Session
	defaultSessionMu sync.Mutex
)

// DefaultSession returns the process-wide session, opening it on first use.
func DefaultSession() (*Session, error) {
	defaultSessionMu.Lock()
	defer defaultSessionMu.Unlock()
	if defaultSession != nil && !defaultSession.isClosed() {
		return defaultSession, nil
	}
	s, err := Open()
	if err != nil {
		return nil, err
	}
	defaultSession = s
	return s, nil
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// GetInstrument returns the instrument through the default session.
func GetInstrument() (*Instrument, error) {
	s, err := DefaultSession()
	if err != nil {
		return nil, err
	}
	return s.GetInstrument()
}
