// Package versioning builds version entries for print-shop records, diffs
// snapshots field by field, and formats stored timestamps for display.
//
// Everything here is pure apart from reading the injected clock, so the
// functions are safe to call from any number of goroutines.
package versioning
