// Package marshal converts between native automation values and Go values.
//
// It covers scalar coercion of host input, the fetch-mutate-store protocol
// for two component vectors, SAFEARRAY to Array copies and draining of
// indexed collections. Every transient native object is released on every
// exit path, including failures.
package marshal
