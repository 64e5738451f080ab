// Package filedb is an append-only jsonl journal kept in a single file.
package filedb

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"coinsreg/pkg/xlog"

	"github.com/nxadm/tail"
)

var logger = xlog.GetLogger()

var ErrClosed = errors.New("filedb closed")

type Filedb struct {
	mu       sync.Mutex
	File     *os.File
	FilePath string
}

func New(filePath string) (fdb *Filedb, err error) {
	fdb = &Filedb{
		FilePath: filePath,
	}
	err = fdb.Open()

	return
}

func (f *Filedb) Open() (err error) {
	err = os.MkdirAll(filepath.Dir(f.FilePath), 0755)
	if err != nil {
		return
	}

	f.File, err = os.OpenFile(f.FilePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	return
}

func (f *Filedb) Close() (err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.File == nil {
		return
	}

	err = f.File.Close()
	f.File = nil

	return
}

// WriteLine appends s and a trailing newline when s has none
func (f *Filedb) WriteLine(s string) (err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.File == nil {
		return ErrClosed
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err = f.File.WriteString(s)
	if err != nil {
		logger.Errorf("WriteLine %s err: %v", f.FilePath, err)
	}

	return
}

// ReadLastLine reads the last non-empty line of the file, "" for an empty file
func (f *Filedb) ReadLastLine() (s string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.File == nil {
		return "", ErrClosed
	}
	stat, err := f.File.Stat()
	if err != nil {
		return
	}

	// read backwards in 1k chunks until a full line is in the buffer
	const chunk = 1024
	size := stat.Size()
	var buf []byte
	for off := size; off > 0; {
		n := int64(chunk)
		if off < n {
			n = off
		}
		off -= n
		b := make([]byte, n)
		if _, err = f.File.ReadAt(b, off); err != nil && err != io.EOF {
			return
		}
		err = nil
		buf = append(b, buf...)

		txt := strings.TrimRight(string(buf), " \n")
		if i := strings.LastIndexByte(txt, '\n'); i >= 0 {
			return txt[i+1:], nil
		}
		if off == 0 {
			return txt, nil
		}
	}

	return
}

// ReadFirstLine reads the first non-empty line of the file
func (f *Filedb) ReadFirstLine() (s string, err error) {
	err = f.ReadLines(func(line string) error {
		s = line
		return io.EOF
	})
	if err == io.EOF && s != "" {
		err = nil
	} else if err == nil {
		err = io.EOF
	}
	return
}

// ReadLines calls fn with every non-empty line from the start of the file, stops at the first error
func (f *Filedb) ReadLines(fn func(line string) error) (err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.File == nil {
		return ErrClosed
	}

	r, err := os.Open(f.FilePath)
	if err != nil {
		return
	}
	defer r.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err = fn(line); err != nil {
			return
		}
	}

	return scanner.Err()
}

// Tailf follows the file and sends complete lines to ch until ctx is done
func (f *Filedb) Tailf(ctx context.Context, ch chan<- string, fromStart bool) (err error) {
	loc := &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	if fromStart {
		loc = nil
	}
	ta, err := tail.TailFile(f.FilePath, tail.Config{
		Follow:        true,
		ReOpen:        true,
		Location:      loc,
		CompleteLines: true,
		Logger:        tail.DiscardingLogger,
	})
	if err != nil {
		return
	}
	defer ta.Cleanup()
	defer ta.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-ta.Lines:
			if !ok {
				return ta.Err()
			}
			if line.Err != nil {
				// stop on a bad line, skipping it would reorder the journal for the reader
				return line.Err
			}
			select {
			case ch <- line.Text:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

type Stats struct {
	Name      string
	FirstTime time.Time
	LastTime  time.Time
	Size      int
}

// Rate lines per second between the first and last batch
func (s Stats) Rate() int64 {
	d := s.LastTime.Sub(s.FirstTime).Seconds()
	if d <= 0 {
		return 0
	}
	return int64(float64(s.Size) / d)
}

// Consume drains ch in batches of up to batchSize and hands each batch to handler
//
//	the batch is whatever is already buffered in ch, at least one line. Returns when ch is
//	closed or handler fails.
func Consume(ch <-chan string, batchSize int, handler func([]string) error) (stats Stats, err error) {
	if batchSize < 1 {
		batchSize = 1
	}
	ss := make([]string, batchSize)

	for {
		size := 1
		if n := len(ch); n > 1 {
			size = min(n, batchSize)
		}

		var ok bool
		for i := 0; i < size; i++ {
			ss[i], ok = <-ch
			if !ok {
				if i > 0 {
					err = handler(ss[:i])
				}
				return
			}
		}

		if stats.FirstTime.IsZero() {
			stats.FirstTime = time.Now()
		}

		if err = handler(ss[:size]); err != nil {
			return
		}

		stats.LastTime = time.Now()
		stats.Size += size
	}
}
