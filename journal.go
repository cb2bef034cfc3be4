package forcecrc32

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Journal is an SQLite database of applied patches.
type Journal struct {
	db *sql.DB
}

// NewJournal opens the journal stored in file, creating it if necessary.
func NewJournal(file string) (*Journal, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS patch (id INTEGER PRIMARY KEY NOT NULL, file TEXT NOT NULL, byte_offset INTEGER NOT NULL, original_crc INTEGER NOT NULL, new_crc INTEGER NOT NULL, original_bytes BLOB NOT NULL, patched_bytes BLOB NOT NULL, created INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE INDEX IF NOT EXISTS patch_file ON patch (file)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Journal{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores p and returns its identifier.
func (j *Journal) Record(p *Patch) (int64, error) {
	created := p.Created
	if created.IsZero() {
		created = time.Now()
	}

	result, err := j.db.Exec("INSERT INTO patch (file, byte_offset, original_crc, new_crc, original_bytes, patched_bytes, created) VALUES (?, ?, ?, ?, ?, ?, ?)", p.File, int64(p.Offset), int64(p.OriginalCRC), int64(p.NewCRC), p.Before[:], p.After[:], created.UnixNano())
	if err != nil {
		return 0, err
	}
	p.Created = created

	return result.LastInsertId()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPatch(s scanner) (*Patch, error) {
	var (
		p                Patch
		offset, created  int64
		originalCRC, crc int64
		before, after    []byte
	)

	if err := s.Scan(&p.ID, &p.File, &offset, &originalCRC, &crc, &before, &after, &created); err != nil {
		return nil, err
	}

	if len(before) != windowSize || len(after) != windowSize {
		return nil, fmt.Errorf("corrupt journal entry %d", p.ID)
	}

	p.Offset = uint64(offset)
	p.OriginalCRC = uint32(originalCRC)
	p.NewCRC = uint32(crc)
	copy(p.Before[:], before)
	copy(p.After[:], after)
	p.Created = time.Unix(0, created)

	return &p, nil
}

// History returns every recorded patch for file, oldest first.
func (j *Journal) History(file string) ([]*Patch, error) {
	rows, err := j.db.Query("SELECT id, file, byte_offset, original_crc, new_crc, original_bytes, patched_bytes, created FROM patch WHERE file = ? ORDER BY id", file)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patches []*Patch
	for rows.Next() {
		p, err := scanPatch(rows)
		if err != nil {
			return nil, err
		}
		patches = append(patches, p)
	}

	return patches, rows.Err()
}

// Last returns the most recent patch recorded for file.
func (j *Journal) Last(file string) (*Patch, error) {
	row := j.db.QueryRow("SELECT id, file, byte_offset, original_crc, new_crc, original_bytes, patched_bytes, created FROM patch WHERE file = ? ORDER BY id DESC LIMIT 1", file)
	switch p, err := scanPatch(row); err {
	case sql.ErrNoRows:
		return nil, fmt.Errorf("%w: %s", ErrNoPatch, file)
	case nil:
		return p, nil
	default:
		return nil, err
	}
}

// Delete removes the patch with the given identifier.
func (j *Journal) Delete(id int64) error {
	if _, err := j.db.Exec("DELETE FROM patch WHERE id = ?", id); err != nil {
		return err
	}
	return nil
}
