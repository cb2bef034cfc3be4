package forcecrc32

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bodgit/forcecrc32/crc32"
)

const scanWorkers = 10

type checksum struct {
	file string
	crc  uint32
}

func checksumFile(file string) (uint32, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return crc32.ChecksumReader(f)
}

func (f *Forcer) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories below the base
			if file != base && strings.HasPrefix(info.Name(), ".") {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (f *Forcer) checksumWorker(in <-chan string, add func(checksum)) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			crc, err := checksumFile(file)
			if err != nil {
				errc <- err
				return
			}
			f.logger.Printf("%08X %s\n", crc, file)
			add(checksum{file, crc})
		}
	}()
	return errc, nil
}

// firstError drains every channel and returns the first non-nil error
// seen, or nil once they have all closed. cancel is called on the first
// error so the rest of the pipeline winds down.
func firstError(cancel context.CancelFunc, errs ...<-chan error) error {
	var (
		wg   sync.WaitGroup
		once sync.Once
		err  error
	)
	wg.Add(len(errs))
	for _, c := range errs {
		go func(c <-chan error) {
			defer wg.Done()
			for e := range c {
				if e != nil {
					once.Do(func() {
						err = e
						cancel()
					})
				}
			}
		}(c)
	}
	wg.Wait()
	return err
}

// Scan walks path and writes the CRC-32 of every regular file to w, one
// per line and sorted by name. Hidden files and directories are skipped.
func (f *Forcer) Scan(ctx context.Context, path string, w io.Writer) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var (
		mu      sync.Mutex
		results []checksum
	)
	add := func(c checksum) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, c)
	}

	var errcList []<-chan error

	files, errc, err := f.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < scanWorkers; i++ {
		errc, err := f.checksumWorker(files, add)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	if err := firstError(cancelFunc, errcList...); err != nil {
		return err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].file < results[j].file })

	for _, c := range results {
		rel, err := filepath.Rel(dir, c.file)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%08X  %s\n", c.crc, filepath.ToSlash(rel)); err != nil {
			return err
		}
	}

	return nil
}
