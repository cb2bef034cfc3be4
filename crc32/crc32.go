/*
Package crc32 implements the standard 32-bit cyclic redundancy check, or
CRC-32, checksum as used by zip, gzip, PNG and friends.

The register starts as all ones, message bits are consumed least
significant first and the result is complemented, so the output matches
every other CRC-32 tool.
*/
package crc32

import (
	"hash"
	crc "hash/crc32"
	"io"
	"math/bits"
)

// Normal form of the generator with the x^32 term dropped
const polynomial = 0x04c11db7

const bufferSize = 32 << 10

func makeTable(poly uint32) *crc.Table {
	t := new(crc.Table)
	for i := 0; i < 256; i++ {
		crc := uint32(i)
		for j := 0; j < 8; j++ {
			if crc&1 != 0 {
				crc = crc>>1 ^ poly
			} else {
				crc >>= 1
			}
		}
		t[i] = crc
	}
	return t
}

// The register is kept reflected so the polynomial is too
var table = makeTable(bits.Reverse32(polynomial))

type digest struct {
	crc uint32
	tab *crc.Table
}

// New creates a new hash.Hash32 computing the CRC-32 checksum. Its Sum
// method will lay the value out in big-endian byte order.
func New() hash.Hash32 {
	return &digest{0, table}
}

func (d *digest) Size() int { return crc.Size }

func (d *digest) BlockSize() int { return 1 }

func (d *digest) Reset() { d.crc = 0 }

func update(crc uint32, tab *crc.Table, p []byte) uint32 {
	crc = ^crc
	for _, v := range p {
		crc = tab[byte(crc)^v] ^ crc>>8
	}
	return ^crc
}

// Update returns the result of adding the bytes in p to the crc.
func Update(crc uint32, p []byte) uint32 {
	return update(crc, table, p)
}

func (d *digest) Write(p []byte) (n int, err error) {
	d.crc = update(d.crc, d.tab, p)
	return len(p), nil
}

func (d *digest) Sum32() uint32 { return d.crc }

func (d *digest) Sum(in []byte) []byte {
	s := d.Sum32()
	return append(in, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}

// Checksum returns the CRC-32 checksum of data.
func Checksum(data []byte) uint32 { return Update(0, data) }

// ChecksumReader rewinds r and returns the CRC-32 checksum of everything
// up to EOF. Each call starts from scratch so it can be used repeatedly
// on the same file.
func ChecksumReader(r io.ReadSeeker) (uint32, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	h := New()
	if _, err := io.CopyBuffer(h, r, make([]byte, bufferSize)); err != nil {
		return 0, err
	}

	return h.Sum32(), nil
}
