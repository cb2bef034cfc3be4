package forcecrc32

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/forcecrc32/crc32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal(t *testing.T) {
	dir, err := ioutil.TempDir("", "forcecrc32")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	j, err := NewJournal(filepath.Join(dir, "journal.db"))
	require.Nil(t, err)
	defer j.Close()

	_, err = j.Last("/nonexistent")
	assert.True(t, errors.Is(err, ErrNoPatch))

	patches, err := j.History("/nonexistent")
	require.Nil(t, err)
	assert.Len(t, patches, 0)

	p := &Patch{
		File:        "/some/file",
		Offset:      1 << 40,
		OriginalCRC: 0xffffffff,
		NewCRC:      0x80000000,
		Before:      [4]byte{1, 2, 3, 4},
		After:       [4]byte{5, 6, 7, 8},
	}
	id, err := j.Record(p)
	require.Nil(t, err)
	assert.False(t, p.Created.IsZero())

	q := *p
	q.Offset = 0
	id2, err := j.Record(&q)
	require.Nil(t, err)
	assert.NotEqual(t, id, id2)

	last, err := j.Last("/some/file")
	require.Nil(t, err)
	assert.Equal(t, id2, last.ID)
	assert.Equal(t, uint64(0), last.Offset)

	patches, err = j.History("/some/file")
	require.Nil(t, err)
	require.Len(t, patches, 2)
	assert.Equal(t, id, patches[0].ID)
	assert.Equal(t, p.File, patches[0].File)
	assert.Equal(t, p.Offset, patches[0].Offset)
	assert.Equal(t, p.OriginalCRC, patches[0].OriginalCRC)
	assert.Equal(t, p.NewCRC, patches[0].NewCRC)
	assert.Equal(t, p.Before, patches[0].Before)
	assert.Equal(t, p.After, patches[0].After)
	assert.Equal(t, p.Created.UnixNano(), patches[0].Created.UnixNano())

	require.Nil(t, j.Delete(id2))

	last, err = j.Last("/some/file")
	require.Nil(t, err)
	assert.Equal(t, id, last.ID)
}

func TestRevert(t *testing.T) {
	dir, err := ioutil.TempDir("", "forcecrc32")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	j, err := NewJournal(filepath.Join(dir, "journal.db"))
	require.Nil(t, err)
	defer j.Close()

	f := New(j, discard())

	original := []byte("The quick brown fox jumps over the lazy dog")
	file := tempFile(t, dir, original)

	_, err = f.ForceFile(file, 4, 0x11111111)
	require.Nil(t, err)
	p, err := f.ForceFile(file, 20, 0x22222222)
	require.Nil(t, err)
	assert.NotEqual(t, int64(0), p.ID)

	patches, err := f.History(file)
	require.Nil(t, err)
	require.Len(t, patches, 2)

	// Undo in reverse order
	p, err = f.Revert(file)
	require.Nil(t, err)
	assert.Equal(t, uint64(20), p.Offset)

	b, err := ioutil.ReadFile(file)
	require.Nil(t, err)
	assert.Equal(t, uint32(0x11111111), crc32.Checksum(b))

	_, err = f.Revert(file)
	require.Nil(t, err)

	b, err = ioutil.ReadFile(file)
	require.Nil(t, err)
	assert.Equal(t, original, b)

	_, err = f.Revert(file)
	assert.True(t, errors.Is(err, ErrNoPatch))
}

func TestRevertModified(t *testing.T) {
	dir, err := ioutil.TempDir("", "forcecrc32")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	j, err := NewJournal(filepath.Join(dir, "journal.db"))
	require.Nil(t, err)
	defer j.Close()

	f := New(j, discard())

	file := tempFile(t, dir, make([]byte, 32))

	_, err = f.ForceFile(file, 8, 0xdeadbeef)
	require.Nil(t, err)

	require.Nil(t, ioutil.WriteFile(file, make([]byte, 32), 0644))

	_, err = f.Revert(file)
	assert.True(t, errors.Is(err, ErrModified))
	assert.True(t, IsInvalidArgument(err))

	// Still journalled
	patches, err := f.History(file)
	require.Nil(t, err)
	assert.Len(t, patches, 1)
}

func TestNoJournal(t *testing.T) {
	f := New(nil, discard())

	_, err := f.Revert("file")
	assert.Equal(t, ErrNoJournal, err)

	_, err = f.History("file")
	assert.Equal(t, ErrNoJournal, err)
}

func TestForceFileRecordFailure(t *testing.T) {
	dir, err := ioutil.TempDir("", "forcecrc32")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	j, err := NewJournal(filepath.Join(dir, "journal.db"))
	require.Nil(t, err)
	require.Nil(t, j.Close())

	file := tempFile(t, dir, make([]byte, 16))

	// The file is patched even though the journal can't record it
	p, err := New(j, discard()).ForceFile(file, 0, 0xdeadbeef)
	assert.NotNil(t, err)
	require.NotNil(t, p)
	assert.Equal(t, uint32(0xdeadbeef), p.NewCRC)
	assert.Equal(t, [4]byte{}, p.Before)

	b, err := ioutil.ReadFile(file)
	require.Nil(t, err)
	assert.Equal(t, uint32(0xdeadbeef), crc32.Checksum(b))
	assert.Equal(t, b[:4], p.After[:])
}
