package gff

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Reader streams data lines from an annotation file, skipping comment lines
// (leading "#") and blank lines. Plain and gzipped input are both supported;
// gzip is detected by magic bytes or a .gz suffix.
//
// Lines are capped at 1MB. A longer line stops the scan and surfaces
// bufio.ErrTooLong through Err; it is not counted as a skippable record.
type Reader struct {
	scanner    *bufio.Scanner
	file       *os.File
	gzipReader *gzip.Reader
	line       string
	lineNumber int
	dataLines  int
}

// NewReader opens the annotation file at path. "-" reads from stdin.
func NewReader(path string) (*Reader, error) {
	if path == "-" {
		return NewReaderFrom(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotation file: %w", err)
	}

	r := &Reader{file: file}

	// Check for gzip magic bytes (0x1f, 0x8b)
	buf := make([]byte, 2)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read annotation file: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek annotation file: %w", err)
	}

	if (n == 2 && buf[0] == 0x1f && buf[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		r.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.scanner = newScanner(r.gzipReader)
	} else {
		r.scanner = newScanner(file)
	}

	return r, nil
}

// NewReaderFrom creates a reader from an io.Reader (e.g. stdin).
func NewReaderFrom(r io.Reader) *Reader {
	return &Reader{scanner: newScanner(r)}
}

func newScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	// Annotation lines can exceed the default token size
	buf := make([]byte, 0, 64*1024)
	s.Buffer(buf, 1024*1024)
	return s
}

// Scan advances to the next data line, reporting false at end of input or on
// error. Comment and blank lines are consumed silently.
func (r *Reader) Scan() bool {
	for r.scanner.Scan() {
		r.lineNumber++
		line := r.scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		r.line = line
		r.dataLines++
		return true
	}
	return false
}

// Text returns the current data line.
func (r *Reader) Text() string {
	return r.line
}

// Err returns the first error encountered while scanning, if any.
func (r *Reader) Err() error {
	if err := r.scanner.Err(); err != nil {
		return fmt.Errorf("scan annotation file: %w", err)
	}
	return nil
}

// LineNumber returns the physical line number of the current line.
func (r *Reader) LineNumber() int {
	return r.lineNumber
}

// DataLines returns the number of non-comment, non-blank lines seen so far.
func (r *Reader) DataLines() int {
	return r.dataLines
}

// Close closes the reader and the underlying file.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
