// Package link glues the transport parser and emitters onto a byte stream.
//
// Ownership boundary:
// - frame send/receive over an io.ReadWriter
// - standard message framing and dispatch
// - link-level logging and counters
//
// An Endpoint is a value object; the caller serializes all access.
package link
