// Package scripting declares the TEM Scripting automation interfaces exposed
// by the microscope server, together with their enumerations and identifiers.
//
// The declarations follow the native calling convention: getters return the
// value and an HRESULT, setters take the value and return an HRESULT.
// Interface-typed results carry one reference owned by the caller.
package scripting
