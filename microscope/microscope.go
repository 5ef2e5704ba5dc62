package microscope

import (
	"os"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/temscript"
	"github.com/wippyai/temscript/scripting"
)

// Version is reported by Microscope.Version and the HTTP facade.
const Version = "2.0.0"

// Microscope is a high level view of an instrument. Values are plain Go
// types with enum values rendered as their names.
type Microscope struct {
	mu sync.Mutex

	sess   *temscript.Session // non-nil when opened by Open
	inst   *temscript.Instrument
	gun    *temscript.Gun
	ill    *temscript.Illumination
	proj   *temscript.Projection
	stage  *temscript.Stage
	acq    *temscript.Acquisition
	vac    *temscript.Vacuum
	mode   *temscript.InstrumentModeControl
	family scripting.ProductFamily
	owned  []temscript.Wrapper
}

// Open starts a session, fetches the instrument and wraps it. Close ends
// the session.
func Open() (*Microscope, error) {
	sess, err := temscript.Open()
	if err != nil {
		return nil, err
	}
	inst, err := sess.GetInstrument()
	if err != nil {
		return nil, multierr.Append(err, sess.Close())
	}
	m, err := New(inst)
	if err != nil {
		return nil, multierr.Append(err, sess.Close())
	}
	m.sess = sess
	return m, nil
}

// New acquires the sub-systems of inst. The caller keeps ownership of inst.
func New(inst *temscript.Instrument) (*Microscope, error) {
	m := &Microscope{inst: inst}
	if err := m.acquire(); err != nil {
		return nil, multierr.Append(err, m.closeSubsystems())
	}
	return m, nil
}

func (m *Microscope) acquire() error {
	var err error
	if m.gun, err = track(m, m.inst.Gun); err != nil {
		return err
	}
	if m.ill, err = track(m, m.inst.Illumination); err != nil {
		return err
	}
	if m.proj, err = track(m, m.inst.Projection); err != nil {
		return err
	}
	if m.stage, err = track(m, m.inst.Stage); err != nil {
		return err
	}
	if m.acq, err = track(m, m.inst.Acquisition); err != nil {
		return err
	}
	if m.vac, err = track(m, m.inst.Vacuum); err != nil {
		return err
	}
	if m.mode, err = track(m, m.inst.InstrumentModeControl); err != nil {
		return err
	}

	cfg, err := m.inst.Configuration()
	if err != nil {
		return err
	}
	defer cfg.Close()
	m.family, err = cfg.ProductFamily()
	return err
}

// track fetches a sub-system and remembers it for Close.
func track[W temscript.Wrapper](m *Microscope, get func() (W, error)) (W, error) {
	w, err := get()
	if err != nil {
		return w, err
	}
	m.owned = append(m.owned, w)
	return w, nil
}

// Close releases the sub-system wrappers and, for a Microscope created by
// Open, the instrument and its session.
func (m *Microscope) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.closeSubsystems()
	if m.sess != nil {
		err = multierr.Append(err, m.inst.Close())
		err = multierr.Append(err, m.sess.Close())
		m.sess = nil
	}
	return err
}

func (m *Microscope) closeSubsystems() error {
	var err error
	for _, w := range m.owned {
		err = multierr.Append(err, w.Close())
	}
	m.owned = nil
	return err
}

func logger() *zap.Logger { return temscript.Logger().Named("microscope") }

// Instrument returns the wrapped instrument.
func (m *Microscope) Instrument() *temscript.Instrument { return m.inst }

// Family returns the product family name, e.g. "TITAN".
func (m *Microscope) Family() string { return m.family.String() }

// MicroscopeID identifies the host running the instrument.
func (m *Microscope) MicroscopeID() (string, error) {
	return os.Hostname()
}

func (m *Microscope) Version() string { return Version }

// Voltage returns the acceleration voltage in kV, or 0 when the high
// tension is not on.
func (m *Microscope) Voltage() (float64, error) {
	state, err := m.gun.HTState()
	if err != nil {
		return 0, err
	}
	if state != scripting.HightensionStateOn {
		return 0, nil
	}
	v, err := m.gun.HTValue()
	if err != nil {
		return 0, err
	}
	return v * 1e-3, nil
}
