// Package transport owns the byte-level frame contract.
//
// Ownership boundary:
// - frame delimiting and escaping
// - CRC-32C computation and residue validation
// - streaming parser and frame emitters
package transport
