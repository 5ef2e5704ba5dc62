package mock

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/resource"
	"github.com/wippyai/temscript/scripting"
)

// Call is one recorded method invocation.
type Call struct {
	Method string
	Args   []any
}

func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Method
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprint(a)
	}
	return c.Method + "(" + strings.Join(parts, ", ") + ")"
}

type failRule struct {
	hr    com.HRESULT
	skip  int // successful calls before the rule fires
	times int // remaining failures, -1 for unlimited
}

// Server is an in-process COM server. It owns the simulated instrument
// state, counts outstanding objects and server locks, and lets tests inject
// failures into any method.
type Server struct {
	// mu guards State and all object fields.
	mu    sync.Mutex
	State *State

	objects *resource.Registry
	locks   atomic.Int32

	ctl   sync.Mutex
	rules map[string]*failRule
	calls []Call
}

// NewServer creates a server with the default simulated instrument.
func NewServer() *Server {
	return &Server{
		State:   DefaultState(),
		objects: resource.NewRegistry(),
		rules:   make(map[string]*failRule),
	}
}

// Objects exposes the outstanding object registry for observers.
func (s *Server) Objects() *resource.Registry {
	return s.objects
}

// Outstanding returns the number of live objects, class factories included.
func (s *Server) Outstanding() int {
	return s.objects.Len()
}

// OutstandingKind returns the number of live objects of one kind, e.g. "Stage".
func (s *Server) OutstandingKind(kind string) int {
	return s.objects.CountKind(resource.Kind(kind))
}

// Locks returns the LockServer count.
func (s *Server) Locks() int32 {
	return s.locks.Load()
}

// CanUnloadNow reports S_OK when no objects and no locks are outstanding.
func (s *Server) CanUnloadNow() com.HRESULT {
	if s.Outstanding() == 0 && s.Locks() == 0 {
		return com.S_OK
	}
	return com.S_FALSE
}

// Fail makes every call to method fail with hr until Clear. Methods are
// named "Kind.Method", e.g. "Stage.GetPosition".
func (s *Server) Fail(method string, hr com.HRESULT) {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.rules[method] = &failRule{hr: hr, times: -1}
}

// FailNext makes the next call to method fail with hr.
func (s *Server) FailNext(method string, hr com.HRESULT) {
	s.FailAfter(method, 0, hr)
}

// FailAfter lets n calls to method succeed and fails the following one.
func (s *Server) FailAfter(method string, n int, hr com.HRESULT) {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.rules[method] = &failRule{hr: hr, skip: n, times: 1}
}

// Clear removes the failure rule for method, or all rules when method is empty.
func (s *Server) Clear(method string) {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	if method == "" {
		s.rules = make(map[string]*failRule)
		return
	}
	delete(s.rules, method)
}

// Calls returns the recorded calls whose method starts with prefix.
func (s *Server) Calls(prefix string) []Call {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	var out []Call
	for _, c := range s.calls {
		if strings.HasPrefix(c.Method, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls forgets the call log.
func (s *Server) ResetCalls() {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.calls = nil
}

// Lock runs fn with the state lock held, for tests that inspect or edit State.
func (s *Server) Lock(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.State)
}

// enter records a call and applies failure rules. On success the state lock
// is held and must be released with exit.
func (s *Server) enter(method string, args ...any) com.HRESULT {
	s.ctl.Lock()
	s.calls = append(s.calls, Call{Method: method, Args: args})
	hr := com.S_OK
	if r, ok := s.rules[method]; ok {
		switch {
		case r.skip > 0:
			r.skip--
		case r.times != 0:
			hr = r.hr
			if r.times > 0 {
				r.times--
			}
			if r.times == 0 {
				delete(s.rules, method)
			}
		}
	}
	s.ctl.Unlock()

	if hr.Failed() {
		Logger().Debug("injected failure", zap.String("method", method), zap.Stringer("hr", hr))
		return hr
	}
	s.mu.Lock()
	return com.S_OK
}

func (s *Server) exit() {
	s.mu.Unlock()
}

// NewInstrument creates an instrument object directly, bypassing class
// activation. The caller owns the returned reference.
func (s *Server) NewInstrument() scripting.Instrument {
	return newInstrument(s)
}

// Register publishes the instrument class and the TemscriptMockObject class
// in the process class registry. The returned function revokes both.
func (s *Server) Register() (func() error, error) {
	instr := newClassFactory(s, func() com.Unknown { return newInstrument(s) })
	defer instr.Release()
	mockObj := newClassFactory(s, func() com.Unknown { return newMockObject(s) })
	defer mockObj.Release()

	c1, hr := com.RegisterClass(scripting.CLSIDInstrument, instr)
	if hr.Failed() {
		return nil, fmt.Errorf("register instrument class: %s", hr)
	}
	c2, hr := com.RegisterClass(CLSIDTemscriptMockObject, mockObj)
	if hr.Failed() {
		com.RevokeClass(c1)
		return nil, fmt.Errorf("register mock object class: %s", hr)
	}
	Logger().Debug("classes registered", zap.Uint32("instrument", c1), zap.Uint32("mock_object", c2))

	return func() error {
		var err error
		if hr := com.RevokeClass(c1); hr.Failed() {
			err = multierr.Append(err, fmt.Errorf("revoke instrument class: %s", hr))
		}
		if hr := com.RevokeClass(c2); hr.Failed() {
			err = multierr.Append(err, fmt.Errorf("revoke mock object class: %s", hr))
		}
		return err
	}, nil
}
