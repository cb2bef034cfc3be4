package forcecrc32

import (
	"bytes"
	"fmt"
	"io"
	"math/bits"
	"os"
	"path/filepath"
	"time"

	"github.com/bodgit/forcecrc32/crc32"
	"github.com/bodgit/forcecrc32/gf2"
)

const windowSize = 4

// Patch describes four bytes rewritten in a file.
type Patch struct {
	// ID is the journal identifier, zero if the patch wasn't recorded
	ID          int64
	File        string
	Offset      uint64
	OriginalCRC uint32
	NewCRC      uint32
	Before      [windowSize]byte
	After       [windowSize]byte
	Created     time.Time
}

func (p *Patch) String() string {
	return fmt.Sprintf("%s@%d %08X -> %08X (% X -> % X)", p.File, p.Offset, p.OriginalCRC, p.NewCRC, p.Before[:], p.After[:])
}

func fileSize(s io.Seeker) (uint64, error) {
	size, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	return uint64(size), nil
}

func readWindow(rs io.ReadSeeker, offset uint64) ([windowSize]byte, error) {
	var b [windowSize]byte
	if _, err := rs.Seek(int64(offset), io.SeekStart); err != nil {
		return b, err
	}
	_, err := io.ReadFull(rs, b[:])
	return b, err
}

func writeWindow(ws io.WriteSeeker, offset uint64, b [windowSize]byte) error {
	if _, err := ws.Seek(int64(offset), io.SeekStart); err != nil {
		return err
	}
	if _, err := ws.Write(b[:]); err != nil {
		return err
	}
	if s, ok := ws.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

// patchValue returns the 32-bit value to XOR into the window so the CRC-32
// changes by delta. bitsRemaining counts the bits from the start of the
// window to the end of the file.
func patchValue(delta uint32, bitsRemaining uint64) (uint32, error) {
	// CRC-32 is reflected, the polynomial arithmetic isn't
	d := gf2.Poly(bits.Reverse32(delta))

	// Flipping a bit n bits from the end changes the CRC by x^n mod G
	multiplier, err := gf2.ReciprocalMod(gf2.PowMod(2, bitsRemaining))
	if err != nil {
		return 0, err
	}

	return bits.Reverse32(uint32(gf2.MultiplyMod(multiplier, d))), nil
}

// Force patches the four bytes at offset so the CRC-32 of everything in rw
// becomes crc.
func (f *Forcer) Force(rw io.ReadWriteSeeker, offset uint64, crc uint32) (*Patch, error) {
	size, err := fileSize(rw)
	if err != nil {
		return nil, err
	}

	if size < windowSize || offset > size-windowSize {
		return nil, ErrOffsetRange
	}

	original, err := crc32.ChecksumReader(rw)
	if err != nil {
		return nil, err
	}
	f.logger.Printf("Original CRC-32: %08X\n", original)

	k, err := patchValue(original^crc, (size-offset)*8)
	if err != nil {
		return nil, err
	}

	p := &Patch{
		Offset:      offset,
		OriginalCRC: original,
		NewCRC:      crc,
	}

	if p.Before, err = readWindow(rw, offset); err != nil {
		return nil, err
	}

	for i := range p.After {
		p.After[i] = p.Before[i] ^ byte(k>>uint(i*8))
	}

	if err := writeWindow(rw, offset, p.After); err != nil {
		return nil, err
	}
	f.logger.Println("Computed and wrote patch")

	verify, err := crc32.ChecksumReader(rw)
	if err != nil {
		return nil, err
	}
	if verify != crc {
		return nil, &AssertionError{Want: crc, Got: verify}
	}
	f.logger.Println("New CRC-32 successfully verified")

	return p, nil
}

func openFile(name string) (*os.File, error) {
	info, err := os.Stat(name)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: %s", ErrNotFile, name)
	case err != nil:
		return nil, err
	case !info.Mode().IsRegular():
		return nil, fmt.Errorf("%w: %s", ErrNotFile, name)
	}
	return os.OpenFile(name, os.O_RDWR, 0)
}

// ForceFile opens the named file and calls Force on it. If the Forcer has
// a journal the patch is recorded. Should recording fail the file is still
// patched and the Patch is returned along with the error.
func (f *Forcer) ForceFile(name string, offset uint64, crc uint32) (*Patch, error) {
	file, err := filepath.Abs(name)
	if err != nil {
		return nil, err
	}

	fh, err := openFile(file)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	p, err := f.Force(fh, offset, crc)
	if err != nil {
		return nil, err
	}
	p.File = file

	if f.journal != nil {
		if p.ID, err = f.journal.Record(p); err != nil {
			return p, err
		}
		f.logger.Printf("Recorded patch %d\n", p.ID)
	}

	return p, nil
}

// Revert undoes the most recent journalled patch of the named file and
// removes it from the journal.
func (f *Forcer) Revert(name string) (*Patch, error) {
	if f.journal == nil {
		return nil, ErrNoJournal
	}

	file, err := filepath.Abs(name)
	if err != nil {
		return nil, err
	}

	p, err := f.journal.Last(file)
	if err != nil {
		return nil, err
	}

	fh, err := openFile(file)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	size, err := fileSize(fh)
	if err != nil {
		return nil, err
	}
	if size < windowSize || p.Offset > size-windowSize {
		return nil, ErrModified
	}

	current, err := crc32.ChecksumReader(fh)
	if err != nil {
		return nil, err
	}
	if current != p.NewCRC {
		return nil, fmt.Errorf("%w: CRC-32 is %08X, expected %08X", ErrModified, current, p.NewCRC)
	}

	b, err := readWindow(fh, p.Offset)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(b[:], p.After[:]) {
		return nil, fmt.Errorf("%w: bytes at offset %d differ", ErrModified, p.Offset)
	}

	if err := writeWindow(fh, p.Offset, p.Before); err != nil {
		return nil, err
	}
	f.logger.Println("Restored original bytes")

	verify, err := crc32.ChecksumReader(fh)
	if err != nil {
		return nil, err
	}
	if verify != p.OriginalCRC {
		return nil, &AssertionError{Want: p.OriginalCRC, Got: verify}
	}
	f.logger.Printf("Original CRC-32 %08X successfully verified\n", verify)

	if err := f.journal.Delete(p.ID); err != nil {
		return nil, err
	}

	return p, nil
}

// History returns the journalled patches of the named file, oldest first.
func (f *Forcer) History(name string) ([]*Patch, error) {
	if f.journal == nil {
		return nil, ErrNoJournal
	}

	file, err := filepath.Abs(name)
	if err != nil {
		return nil, err
	}

	return f.journal.History(file)
}
