/*
Package forcecrc32 is a library for forcing the CRC-32 of a file to any
chosen value by rewriting four bytes at a chosen offset.

The file keeps its length and every byte outside the four byte window is
left untouched, which makes it useful for fixing up checksum fields in
archives and firmware images.
*/
package forcecrc32

import (
	"io/ioutil"
	"log"
	"os"
)

// Forcer patches files, optionally recording each patch in a Journal so it
// can be reverted later.
type Forcer struct {
	journal *Journal
	logger  *log.Logger
}

// New returns a Forcer. journal may be nil in which case patches aren't
// recorded.
func New(journal *Journal, logger *log.Logger) *Forcer {
	return &Forcer{
		journal: journal,
		logger:  logger,
	}
}

// ModifyFile forces the CRC-32 of the named file to crc by patching the
// four bytes at offset. If verbose is set, progress is written to standard
// output.
func ModifyFile(name string, offset uint64, crc uint32, verbose bool) error {
	logger := log.New(ioutil.Discard, "", 0)
	if verbose {
		logger.SetOutput(os.Stdout)
	}

	_, err := New(nil, logger).ForceFile(name, offset, crc)
	return err
}
