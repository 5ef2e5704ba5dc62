// Package mock implements an in-process COM server for the TEM Scripting
// interfaces.
//
// The server publishes two classes through the com class registry: the
// instrument class, backed by a simulated microscope, and the small
// TemscriptMockObject class with one integer value and a child object.
// Every object it hands out is reference counted and recorded in a
// resource.Registry, so tests can assert that a sequence of operations
// returns the outstanding object count to its baseline:
//
//	srv := mock.NewServer()
//	base := srv.Outstanding()
//	... exercise the binding ...
//	if srv.Outstanding() != base { t.Fatal("leak") }
//
// Methods can be made to fail with Fail, FailNext and FailAfter. Method
// names have the form "Kind.Method", for example "Gauges.GetItem".
package mock
