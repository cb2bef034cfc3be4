package crc32

import (
	"bytes"
	"math/rand"
	"testing"

	klauspost "github.com/klauspost/crc32"
	"github.com/snksoft/crc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	tables := []struct {
		input []byte
		crc   uint32
	}{
		{[]byte{}, 0x00000000},
		{[]byte("a"), 0xe8b7be43},
		{[]byte("123456789"), 0xcbf43926},
		{[]byte("The quick brown fox jumps over the lazy dog"), 0x414fa339},
		{[]byte{0x00, 0x00, 0x00, 0x00}, 0x2144df1c},
	}

	for _, table := range tables {
		assert.Equal(t, table.crc, Checksum(table.input), string(table.input))
	}
}

func TestStandardImplementations(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, n := range []int{1, 3, 4, 255, 4096, 100000} {
		b := make([]byte, n)
		r.Read(b)

		sum := Checksum(b)
		assert.Equal(t, klauspost.ChecksumIEEE(b), sum)
		assert.Equal(t, uint32(crc.CalculateCRC(crc.CRC32, b)), sum)
	}
}

func TestHash(t *testing.T) {
	h := New()
	assert.Equal(t, 4, h.Size())
	assert.Equal(t, 1, h.BlockSize())

	h.Write([]byte("12345"))
	h.Write([]byte("6789"))
	assert.Equal(t, uint32(0xcbf43926), h.Sum32())
	assert.Equal(t, []byte{0xcb, 0xf4, 0x39, 0x26}, h.Sum(nil))

	h.Reset()
	assert.Equal(t, uint32(0), h.Sum32())

	assert.Equal(t, uint32(0xcbf43926), Update(Update(0, []byte("1234")), []byte("56789")))
}

func TestChecksumReader(t *testing.T) {
	b := make([]byte, 3*bufferSize+17)
	rand.New(rand.NewSource(2)).Read(b)
	r := bytes.NewReader(b)

	// Leave the reader somewhere in the middle
	r.Seek(1234, 0)

	sum, err := ChecksumReader(r)
	require.Nil(t, err)
	assert.Equal(t, Checksum(b), sum)

	again, err := ChecksumReader(r)
	require.Nil(t, err)
	assert.Equal(t, sum, again)
}
