package capture

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// maxLineBytes bounds a single capture line
const maxLineBytes = 1024 * 1024

// Reader streams the lines of one capture file, decompressing .gz and .zst transparently
type Reader struct {
	path    string
	file    *os.File
	gz      *gzip.Reader
	zr      *zstd.Decoder
	scanner *bufio.Scanner
	lines   int
}

// Open opens a capture file for line reading
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}

	r := &Reader{path: path, file: file}
	var src io.Reader = file

	switch {
	case strings.HasSuffix(strings.ToLower(path), ".gz"):
		r.gz, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
		}
		src = r.gz
	case strings.HasSuffix(strings.ToLower(path), ".zst"):
		r.zr, err = zstd.NewReader(file, zstd.WithDecoderConcurrency(0))
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to open zstd stream %s: %w", path, err)
		}
		src = r.zr
	}

	r.scanner = bufio.NewScanner(src)
	r.scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return r, nil
}

// Next advances to the next line. It returns false at end of input or on error.
func (r *Reader) Next() bool {
	if !r.scanner.Scan() {
		return false
	}
	r.lines++
	return true
}

// Line returns the current line
func (r *Reader) Line() string {
	return r.scanner.Text()
}

// Lines returns the number of lines read so far
func (r *Reader) Lines() int {
	return r.lines
}

// Err returns the first read error, if any
func (r *Reader) Err() error {
	if err := r.scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", r.path, err)
	}
	return nil
}

// Close releases the decompressor and the underlying file
func (r *Reader) Close() error {
	if r.zr != nil {
		r.zr.Close()
	}
	if r.gz != nil {
		if err := r.gz.Close(); err != nil {
			r.file.Close()
			return err
		}
	}
	return r.file.Close()
}
