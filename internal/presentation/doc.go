// Package presentation owns the positional byte-stream codec used by the
// standard message catalogue.
//
// Ownership boundary:
// - little-endian primitive encode/fetch
// - offset bookkeeping, padding, bounded ASCII strings
//
// The stream carries no type tags; layout is positional and known to both
// sides.
package presentation
