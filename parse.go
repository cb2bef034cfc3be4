package forcecrc32

import (
	"strconv"
	"strings"
)

const crcDigits = 8

// ParseOffset parses an unsigned decimal byte offset.
func ParseOffset(s string) (uint64, error) {
	offset, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidOffset
	}
	return offset, nil
}

// ParseCRC parses a CRC-32 value written as exactly eight hexadecimal
// digits, for example "DEADBEEF".
func ParseCRC(s string) (uint32, error) {
	if len(s) != crcDigits || strings.ContainsAny(s, "+-") {
		return 0, ErrInvalidCRC
	}
	crc, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, ErrInvalidCRC
	}
	return uint32(crc), nil
}
