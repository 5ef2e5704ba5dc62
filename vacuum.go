package temscript

import (
	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/marshal"
	"github.com/wippyai/temscript/scripting"
)

type Vacuum struct {
	object[scripting.Vacuum]
}

var vacuumProps = properties[scripting.Vacuum]{
	"Status":           enumProp(scripting.Vacuum.GetStatus, nil),
	"PVPRunning":       boolProp(scripting.Vacuum.GetPVPRunning, nil),
	"ColumnValvesOpen": boolProp(scripting.Vacuum.GetColumnValvesOpen, scripting.Vacuum.PutColumnValvesOpen),
}

func wrapVacuum(s *Session, iface scripting.Vacuum) (*Vacuum, error) {
	w := &Vacuum{}
	if err := bind(w, &w.object, s, KindVacuum, iface, vacuumProps); err != nil {
		return nil, err
	}
	return w, nil
}

func (v *Vacuum) Status() (scripting.VacuumStatus, error) {
	return getValue(&v.object, "Status", scripting.Vacuum.GetStatus)
}

func (v *Vacuum) PVPRunning() (bool, error) {
	return getBool(&v.object, "PVPRunning", scripting.Vacuum.GetPVPRunning)
}

func (v *Vacuum) ColumnValvesOpen() (bool, error) {
	return getBool(&v.object, "ColumnValvesOpen", scripting.Vacuum.GetColumnValvesOpen)
}

func (v *Vacuum) SetColumnValvesOpen(open bool) error {
	return putBool(&v.object, "ColumnValvesOpen", scripting.Vacuum.PutColumnValvesOpen, open)
}

// Gauges returns one wrapper per vacuum gauge in server order.
func (v *Vacuum) Gauges() ([]*Gauge, error) {
	var out []*Gauge
	err := v.with(errors.PhaseGet, func(iface scripting.Vacuum) error {
		coll, hr := iface.GetGauges()
		if hr.Failed() {
			return v.fail(errors.PhaseGet, hr, "Gauges")
		}
		gauges, err := marshal.Drain(scripting.Collection[scripting.Gauge](coll), func(g scripting.Gauge) (*Gauge, error) {
			return wrapGauge(v.session(), g)
		})
		if err != nil {
			return v.annotate(err, "Gauges")
		}
		out = gauges
		return nil
	})
	return out, err
}

func (v *Vacuum) RunBufferCycle() error {
	return invoke(&v.object, "RunBufferCycle", scripting.Vacuum.RunBufferCycle)
}

// Gauge is a single pressure gauge. Pressure is cached by the server until
// Read is called.
type Gauge struct {
	object[scripting.Gauge]
}

var gaugeProps = properties[scripting.Gauge]{
	"Name":          stringProp(scripting.Gauge.GetName),
	"Pressure":      floatProp(scripting.Gauge.GetPressure, nil),
	"Status":        enumProp(scripting.Gauge.GetStatus, nil),
	"PressureLevel": enumProp(scripting.Gauge.GetPressureLevel, nil),
}

func wrapGauge(s *Session, iface scripting.Gauge) (*Gauge, error) {
	w := &Gauge{}
	if err := bind(w, &w.object, s, KindGauge, iface, gaugeProps); err != nil {
		return nil, err
	}
	return w, nil
}

func (g *Gauge) Name() (string, error) {
	return getString(&g.object, "Name", scripting.Gauge.GetName)
}

// Pressure is in pascal.
func (g *Gauge) Pressure() (float64, error) {
	return getValue(&g.object, "Pressure", scripting.Gauge.GetPressure)
}

func (g *Gauge) Status() (scripting.GaugeStatus, error) {
	return getValue(&g.object, "Status", scripting.Gauge.GetStatus)
}

func (g *Gauge) PressureLevel() (scripting.GaugePressureLevel, error) {
	return getValue(&g.object, "PressureLevel", scripting.Gauge.GetPressureLevel)
}

// Read refreshes the cached pressure.
func (g *Gauge) Read() error {
	return invoke(&g.object, "Read", scripting.Gauge.Read)
}
