// Package resource tracks live native objects.
//
// A Registry maps integer handles to values tagged with a Kind. It backs the
// outstanding-object accounting of the mock server and the live wrapper
// table of a binding session:
//
//	reg := resource.NewRegistry()
//
//	// Register an object, get a handle
//	h := reg.Insert("Stage", obj)
//
//	// Kind-checked retrieval
//	v, ok := reg.GetKind(h, "Stage")
//
//	// Remove; values implementing Dropper are dropped
//	v, ok = reg.Remove(h)
//
// # Observers
//
// Observers receive EventCreated and EventDropped notifications
// synchronously, on the goroutine that inserted or removed the object.
//
// # Accounting
//
// Len, CountKind and Counts report what is still alive, which is what leak
// tests assert on. Close removes everything that is left and rejects further
// inserts.
package resource
