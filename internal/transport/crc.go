package transport

import "hash/crc32"

// CRCResidue is the CRC-32C shift-register state reached after a message
// followed by its own little-endian CRC has been consumed.
const CRCResidue uint32 = 0xB798B438

var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

// CRC computes CRC-32C (Castagnoli) incrementally. The zero value is ready
// to use.
type CRC struct {
	crc uint32
}

// Add folds one byte into the checksum.
func (c *CRC) Add(b byte) {
	c.crc = crc32.Update(c.crc, castagnoliTable, []byte{b})
}

// AddBytes folds a byte run into the checksum.
func (c *CRC) AddBytes(p []byte) {
	c.crc = crc32.Update(c.crc, castagnoliTable, p)
}

// Get returns the checksum of the bytes added so far.
func (c *CRC) Get() uint32 {
	return c.crc
}

// ResidueCorrect reports whether the internal state equals the CRC-32C
// residue. It holds exactly when the added bytes are a message followed by
// that message's CRC in little-endian order, which validates a frame without
// comparing checksums explicitly.
func (c *CRC) ResidueCorrect() bool {
	// hash/crc32 stores the register inverted between updates.
	return c.crc^0xFFFFFFFF == CRCResidue
}

// Reset returns the computer to its initial state.
func (c *CRC) Reset() {
	c.crc = 0
}
