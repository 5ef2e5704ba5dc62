package temscript

import (
	"fmt"
	"reflect"
	"runtime"
	"sort"
	"sync"
	"weak"

	"go.uber.org/zap"

	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/resource"
)

// Kind names a wrapper type.
type Kind string

const (
	KindInstrument            Kind = "Instrument"
	KindStage                 Kind = "Stage"
	KindProjection            Kind = "Projection"
	KindIllumination          Kind = "Illumination"
	KindGun                   Kind = "Gun"
	KindVacuum                Kind = "Vacuum"
	KindGauge                 Kind = "Gauge"
	KindAcquisition           Kind = "Acquisition"
	KindCCDCamera             Kind = "CCDCamera"
	KindCCDCameraInfo         Kind = "CCDCameraInfo"
	KindCCDAcqParams          Kind = "CCDAcqParams"
	KindSTEMDetector          Kind = "STEMDetector"
	KindSTEMDetectorInfo      Kind = "STEMDetectorInfo"
	KindSTEMAcqParams         Kind = "STEMAcqParams"
	KindAcqImage              Kind = "AcqImage"
	KindConfiguration         Kind = "Configuration"
	KindBlankerShutter        Kind = "BlankerShutter"
	KindInstrumentModeControl Kind = "InstrumentModeControl"
)

// Wrapper is implemented by every object that owns a native interface.
//
// A wrapper starts with one host reference. Retain adds one, Close drops one;
// the native interface is released when the last reference is dropped or,
// failing that, when the garbage collector finds the wrapper unreachable.
// After release every accessor fails with errors.KindReleased.
type Wrapper interface {
	Kind() Kind
	Retain()
	Close() error
	Released() bool

	// Properties lists the names accepted by Get, sorted.
	Properties() []string
	// Get reads a property by name. Enums are returned as raw int32 values,
	// vectors as marshal.Vec2 and arrays as *marshal.Array.
	Get(name string) (any, error)
	// Set writes a property by name after coercing value.
	Set(name string, value any) error
}

// handle is the native side of a wrapper. It never references the wrapper
// itself, so it can be the argument of the wrapper's GC cleanup.
type handle[T com.Unknown] struct {
	mu      sync.Mutex
	kind    Kind
	iface   T
	valid   bool
	refs    int32
	deps    []Wrapper
	sess    *Session
	id      resource.Handle
	cleanup runtime.Cleanup
}

// release drops the native reference and the dependents exactly once.
// It reports whether this call did the release.
func (h *handle[T]) release() bool {
	h.mu.Lock()
	if !h.valid {
		h.mu.Unlock()
		return false
	}
	iface := h.iface
	var zero T
	h.iface = zero
	h.valid = false
	deps := h.deps
	h.deps = nil
	h.cleanup.Stop()
	h.mu.Unlock()

	for _, d := range deps {
		d.Close()
	}
	iface.Release()
	Logger().Debug("wrapper released", zap.String("kind", string(h.kind)), zap.Uint32("handle", uint32(h.id)))
	return true
}

// Drop releases the handle when the owning session closes.
func (h *handle[T]) Drop() {
	h.release()
}

func (h *handle[T]) close() {
	if h.release() && h.sess != nil {
		h.sess.live.Remove(h.id)
	}
}

// object is embedded by every wrapper. T is the native interface.
type object[T com.Unknown] struct {
	h     *handle[T]
	kind  Kind
	props properties[T]
}

// bind makes w the owner of iface. It takes over the caller's reference
// without AddRef and retains every dependent. On failure the reference stays
// with the caller.
func bind[W any, T com.Unknown](w *W, o *object[T], s *Session, kind Kind, iface T, props properties[T], deps ...Wrapper) error {
	o.kind = kind
	o.props = props
	h := &handle[T]{kind: kind, iface: iface, valid: true, refs: 1, sess: s}
	o.h = h

	if s != nil {
		id, err := s.track(kind, h)
		if err != nil {
			h.valid = false
			return err
		}
		h.id = id
	}
	for _, d := range deps {
		d.Retain()
	}
	h.deps = deps
	h.cleanup = runtime.AddCleanup(w, func(h *handle[T]) {
		Logger().Debug("wrapper collected", zap.String("kind", string(h.kind)))
		h.close()
	}, h)
	Logger().Debug("wrapper bound", zap.String("kind", string(kind)), zap.Uint32("handle", uint32(h.id)))
	return nil
}

func (o *object[T]) Kind() Kind { return o.kind }

// Retain adds a host reference. It has no effect after release.
func (o *object[T]) Retain() {
	o.h.mu.Lock()
	defer o.h.mu.Unlock()
	if o.h.valid {
		o.h.refs++
	}
}

// Close drops a host reference and releases the native interface with the
// last one. Closing a released wrapper is a no-op.
func (o *object[T]) Close() error {
	h := o.h
	h.mu.Lock()
	if !h.valid {
		h.mu.Unlock()
		return nil
	}
	h.refs--
	last := h.refs <= 0
	h.mu.Unlock()
	if last {
		h.close()
	}
	return nil
}

func (o *object[T]) Released() bool {
	o.h.mu.Lock()
	defer o.h.mu.Unlock()
	return !o.h.valid
}

func (o *object[T]) String() string {
	if o.Released() {
		return fmt.Sprintf("<%s released>", o.kind)
	}
	return fmt.Sprintf("<%s #%d>", o.kind, o.h.id)
}

// with runs fn on the native interface while holding the wrapper lock.
func (o *object[T]) with(phase errors.Phase, fn func(T) error) error {
	h := o.h
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.valid {
		return errors.Released(phase, string(o.kind))
	}
	return fn(h.iface)
}

// session returns the session the wrapper belongs to.
func (o *object[T]) session() *Session {
	return o.h.sess
}

func (o *object[T]) fail(phase errors.Phase, hr com.HRESULT, path ...string) error {
	e := errors.Translate(phase, hr, path...)
	e.Object = string(o.kind)
	return e
}

// annotate fills in the object and path of errors raised by marshallers.
func (o *object[T]) annotate(err error, path ...string) error {
	if e, ok := err.(*errors.Error); ok {
		if e.Object == "" {
			e.Object = string(o.kind)
		}
		if len(path) > 0 {
			e.Path = append(append([]string(nil), path...), e.Path...)
		}
	}
	return err
}

func (o *object[T]) Properties() []string {
	names := make([]string, 0, len(o.props))
	for n := range o.props {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (o *object[T]) Get(name string) (any, error) {
	p, ok := o.props[name]
	if !ok {
		e := errors.NotFound(errors.PhaseGet, "property", name)
		e.Object = string(o.kind)
		return nil, e
	}
	return p.get(o, name)
}

func (o *object[T]) Set(name string, value any) error {
	p, ok := o.props[name]
	if !ok {
		e := errors.NotFound(errors.PhaseSet, "property", name)
		e.Object = string(o.kind)
		return e
	}
	if p.set == nil {
		return errors.ReadOnly(string(o.kind), name)
	}
	return p.set(o, name, value)
}

// As returns w as the concrete wrapper type W when it is one.
func As[W Wrapper](w Wrapper) (W, bool) {
	v, ok := w.(W)
	return v, ok
}

// AsCCDCamera reports whether w is a camera wrapper.
func AsCCDCamera(w Wrapper) (*CCDCamera, bool) { return As[*CCDCamera](w) }

// AsSTEMDetector reports whether w is a STEM detector wrapper.
func AsSTEMDetector(w Wrapper) (*STEMDetector, bool) { return As[*STEMDetector](w) }

// describe names the wrapper kind of w for error messages. Nil interfaces and
// nil pointers are never dereferenced.
func describe(w Wrapper) string {
	if w == nil {
		return "nil"
	}
	if v := reflect.ValueOf(w); v.Kind() == reflect.Pointer && v.IsNil() {
		return fmt.Sprintf("nil %T", w)
	}
	return string(w.Kind())
}

// Weak is a weak reference to a wrapper. It never keeps the wrapper alive.
type Weak[W any] struct {
	p weak.Pointer[W]
}

// MakeWeak returns a weak reference to w.
func MakeWeak[W any](w *W) Weak[W] {
	return Weak[W]{p: weak.Make(w)}
}

// Value returns the wrapper, or nil once it was collected or released.
func (r Weak[W]) Value() *W {
	v := r.p.Value()
	if v == nil {
		return nil
	}
	if rel, ok := any(v).(interface{ Released() bool }); ok && rel.Released() {
		return nil
	}
	return v
}
