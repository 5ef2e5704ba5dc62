// Package microscope offers a task level view of an instrument on top of
// the temscript wrappers.
//
// Values come back as plain Go types: enums as their names, vectors as
// temscript.Vec2, detector parameters as Params keyed by the names used by
// the HTTP facade ("exposure(s)", "dwell_time(s)", ...). Setters accept the
// loosely typed values produced by a JSON decoder, so enum values may be
// given by name or number and vectors as two element lists or as objects
// with keys x and y.
//
//	m, err := microscope.Open()
//	if err != nil {
//		return err
//	}
//	defer m.Close()
//
//	if err := m.SetStagePosition(map[string]any{"z": 5e-6}, microscope.MoveGo); err != nil {
//		return err
//	}
//	images, err := m.Acquire("BM-Ceta")
//
// Device names are URL path escaped in every map this package returns and
// are expected in that form by the per-device methods.
package microscope
