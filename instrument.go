package temscript

import "github.com/wippyai/temscript/scripting"

// Instrument is the root of the scripting object graph. Every sub-system
// accessor returns a fresh wrapper the caller closes.
type Instrument struct {
	object[scripting.Instrument]
}

var instrumentProps = properties[scripting.Instrument]{
	"AutoNormalizeEnabled": boolProp(scripting.Instrument.GetAutoNormalizeEnabled, scripting.Instrument.PutAutoNormalizeEnabled),
}

func wrapInstrument(s *Session, iface scripting.Instrument) (*Instrument, error) {
	w := &Instrument{}
	if err := bind(w, &w.object, s, KindInstrument, iface, instrumentProps); err != nil {
		return nil, err
	}
	return w, nil
}

func (i *Instrument) Configuration() (*Configuration, error) {
	return getChild(&i.object, "Configuration", scripting.Instrument.GetConfiguration, wrapConfiguration)
}

func (i *Instrument) Projection() (*Projection, error) {
	return getChild(&i.object, "Projection", scripting.Instrument.GetProjection, wrapProjection)
}

func (i *Instrument) Illumination() (*Illumination, error) {
	return getChild(&i.object, "Illumination", scripting.Instrument.GetIllumination, wrapIllumination)
}

func (i *Instrument) Stage() (*Stage, error) {
	return getChild(&i.object, "Stage", scripting.Instrument.GetStage, wrapStage)
}

func (i *Instrument) Acquisition() (*Acquisition, error) {
	return getChild(&i.object, "Acquisition", scripting.Instrument.GetAcquisition, wrapAcquisition)
}

func (i *Instrument) Vacuum() (*Vacuum, error) {
	return getChild(&i.object, "Vacuum", scripting.Instrument.GetVacuum, wrapVacuum)
}

func (i *Instrument) Gun() (*Gun, error) {
	return getChild(&i.object, "Gun", scripting.Instrument.GetGun, wrapGun)
}

func (i *Instrument) BlankerShutter() (*BlankerShutter, error) {
	return getChild(&i.object, "BlankerShutter", scripting.Instrument.GetBlankerShutter, wrapBlankerShutter)
}

func (i *Instrument) InstrumentModeControl() (*InstrumentModeControl, error) {
	return getChild(&i.object, "InstrumentModeControl", scripting.Instrument.GetInstrumentModeControl, wrapInstrumentModeControl)
}

func (i *Instrument) AutoNormalizeEnabled() (bool, error) {
	return getBool(&i.object, "AutoNormalizeEnabled", scripting.Instrument.GetAutoNormalizeEnabled)
}

func (i *Instrument) SetAutoNormalizeEnabled(v bool) error {
	return putBool(&i.object, "AutoNormalizeEnabled", scripting.Instrument.PutAutoNormalizeEnabled, v)
}

// NormalizeAll normalizes all lenses.
func (i *Instrument) NormalizeAll() error {
	return invoke(&i.object, "NormalizeAll", scripting.Instrument.NormalizeAll)
}

type Configuration struct {
	object[scripting.Configuration]
}

var configurationProps = properties[scripting.Configuration]{
	"ProductFamily": enumProp(scripting.Configuration.GetProductFamily, nil),
}

func wrapConfiguration(s *Session, iface scripting.Configuration) (*Configuration, error) {
	w := &Configuration{}
	if err := bind(w, &w.object, s, KindConfiguration, iface, configurationProps); err != nil {
		return nil, err
	}
	return w, nil
}

func (c *Configuration) ProductFamily() (scripting.ProductFamily, error) {
	return getValue(&c.object, "ProductFamily", scripting.Configuration.GetProductFamily)
}

type BlankerShutter struct {
	object[scripting.BlankerShutter]
}

var blankerShutterProps = properties[scripting.BlankerShutter]{
	"ShutterOverrideOn": boolProp(scripting.BlankerShutter.GetShutterOverrideOn, scripting.BlankerShutter.PutShutterOverrideOn),
}

func wrapBlankerShutter(s *Session, iface scripting.BlankerShutter) (*BlankerShutter, error) {
	w := &BlankerShutter{}
	if err := bind(w, &w.object, s, KindBlankerShutter, iface, blankerShutterProps); err != nil {
		return nil, err
	}
	return w, nil
}

func (b *BlankerShutter) ShutterOverrideOn() (bool, error) {
	return getBool(&b.object, "ShutterOverrideOn", scripting.BlankerShutter.GetShutterOverrideOn)
}

func (b *BlankerShutter) SetShutterOverrideOn(v bool) error {
	return putBool(&b.object, "ShutterOverrideOn", scripting.BlankerShutter.PutShutterOverrideOn, v)
}

type InstrumentModeControl struct {
	object[scripting.InstrumentModeControl]
}

var instrumentModeControlProps = properties[scripting.InstrumentModeControl]{
	"StemAvailable":  boolProp(scripting.InstrumentModeControl.GetStemAvailable, nil),
	"InstrumentMode": enumProp(scripting.InstrumentModeControl.GetInstrumentMode, scripting.InstrumentModeControl.PutInstrumentMode),
}

func wrapInstrumentModeControl(s *Session, iface scripting.InstrumentModeControl) (*InstrumentModeControl, error) {
	w := &InstrumentModeControl{}
	if err := bind(w, &w.object, s, KindInstrumentModeControl, iface, instrumentModeControlProps); err != nil {
		return nil, err
	}
	return w, nil
}

func (m *InstrumentModeControl) StemAvailable() (bool, error) {
	return getBool(&m.object, "StemAvailable", scripting.InstrumentModeControl.GetStemAvailable)
}

func (m *InstrumentModeControl) InstrumentMode() (scripting.InstrumentMode, error) {
	return getValue(&m.object, "InstrumentMode", scripting.InstrumentModeControl.GetInstrumentMode)
}

func (m *InstrumentModeControl) SetInstrumentMode(v scripting.InstrumentMode) error {
	return putValue(&m.object, "InstrumentMode", scripting.InstrumentModeControl.PutInstrumentMode, v)
}

type Gun struct {
	object[scripting.Gun]
}

var gunProps = properties[scripting.Gun]{
	"HTState":    enumProp(scripting.Gun.GetHTState, scripting.Gun.PutHTState),
	"HTValue":    floatProp(scripting.Gun.GetHTValue, scripting.Gun.PutHTValue),
	"HTMaxValue": floatProp(scripting.Gun.GetHTMaxValue, nil),
	"Shift":      vecProp(scripting.Gun.GetShift, scripting.Gun.PutShift),
	"Tilt":       vecProp(scripting.Gun.GetTilt, scripting.Gun.PutTilt),
}

func wrapGun(s *Session, iface scripting.Gun) (*Gun, error) {
	w := &Gun{}
	if err := bind(w, &w.object, s, KindGun, iface, gunProps); err != nil {
		return nil, err
	}
	return w, nil
}

func (g *Gun) HTState() (scripting.HightensionState, error) {
	return getValue(&g.object, "HTState", scripting.Gun.GetHTState)
}

func (g *Gun) SetHTState(v scripting.HightensionState) error {
	return putValue(&g.object, "HTState", scripting.Gun.PutHTState, v)
}

// HTValue returns the acceleration voltage in volts.
func (g *Gun) HTValue() (float64, error) {
	return getValue(&g.object, "HTValue", scripting.Gun.GetHTValue)
}

func (g *Gun) SetHTValue(v float64) error {
	return putValue(&g.object, "HTValue", scripting.Gun.PutHTValue, v)
}

func (g *Gun) HTMaxValue() (float64, error) {
	return getValue(&g.object, "HTMaxValue", scripting.Gun.GetHTMaxValue)
}

func (g *Gun) Shift() (Vec2, error) { return getVec(&g.object, "Shift", scripting.Gun.GetShift) }

func (g *Gun) SetShift(v any) error {
	return putVec(&g.object, "Shift", scripting.Gun.GetShift, scripting.Gun.PutShift, v)
}

func (g *Gun) Tilt() (Vec2, error) { return getVec(&g.object, "Tilt", scripting.Gun.GetTilt) }

func (g *Gun) SetTilt(v any) error {
	return putVec(&g.object, "Tilt", scripting.Gun.GetTilt, scripting.Gun.PutTilt, v)
}
