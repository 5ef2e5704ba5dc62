// Package temscript is a Go binding for the TEM Scripting automation
// interface of transmission electron microscopes.
//
// Every native object is owned by exactly one wrapper. Wrappers are created
// by navigating from the Instrument and release their native reference when
// closed, when the owning Session closes, or when the garbage collector
// finds them unreachable.
//
// # Package Layout
//
//	temscript/           Session, Instrument and the typed wrappers
//	├── com/             Native boundary: HRESULT, BSTR, VARIANT, SAFEARRAY, class registry
//	├── scripting/       Interfaces and enums of the scripting object model
//	├── marshal/         Vector, array and collection conversion
//	├── resource/        Registry of live objects with lifecycle observers
//	├── errors/          Structured error types
//	├── mock/            In-process mock server for tests and demos
//	├── microscope/      High-level facade with plain Go values
//	└── server/          HTTP facade and client
//
// # Quick Start
//
//	sess, err := temscript.Open()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sess.Close()
//
//	inst, err := sess.GetInstrument()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close()
//
//	stage, err := inst.Stage()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer stage.Close()
//
//	err = stage.GoTo(temscript.StageTarget{Z: temscript.Float(1e-6)})
//
// # Dependent Wrappers
//
// STEM detectors share one acquisition parameter object. Each detector
// retains it, so the parameters stay valid until the last detector and the
// last explicit holder are closed.
//
// # Dynamic Properties
//
// Every wrapper also exposes its properties by name through Get and Set.
// Enum values travel as raw int32, vectors as Vec2 and arrays as
// *marshal.Array. Assigning to a read-only property fails with
// errors.KindReadOnly.
//
// # Thread Safety
//
// Each wrapper serializes access to its native interface. A Session is safe
// for concurrent use, but the underlying server processes calls one at a
// time.
package temscript
