// Package standard owns the standard message catalogue.
//
// Ownership boundary:
// - message IDs and headers
// - register name/value wire forms
// - per-message encode and decode with range validation
//
// Every message is a plain value: no identity, no sharing. Decoders return
// nil on any mismatch (unknown ID, length out of range, invalid field);
// nothing here panics on well-formed byte input.
package standard
