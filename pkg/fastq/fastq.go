package fastq

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	// "compress/gzip"
	gzip "github.com/klauspost/pgzip"
)

const (
	// MaxLineSize bounds a single FASTQ line, long reads included.
	// A longer line makes its record malformed.
	MaxLineSize = 64 * 1024 * 1024
	initBufSize = 64 * 1024
)

var gzipMagic = []byte{0x1f, 0x8b}

// ErrMalformed is wrapped by every ParseError
var ErrMalformed = errors.New("malformed fastq record")

// ParseError reports one malformed record, or one damaged span of lines.
// The reader has already moved to the next plausible header, so the caller may keep reading.
type ParseError struct {
	Record int // 0-based record index
	Line   int // 1-based line number of the record header
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("fastq: record %d at line %d: %s", e.Record, e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformed
}

// Record is one FASTQ entry. Slices are reused by the next call to Reader.Next.
type Record struct {
	Name []byte
	Seq  []byte
	Qual []byte
}

type line struct {
	text    []byte
	num     int
	tooLong bool
}

type Reader struct {
	br      *bufio.Reader
	closers []io.Closer

	buf         []byte
	pending     []line
	maxLineSize int

	record Record
	index  int
	line   int
}

// Open opens a plain or gzip FASTQ file, gzip is detected from its magic bytes.
func Open(path string) (*Reader, error) {
	var file, err = os.Open(path)
	if err != nil {
		return nil, err
	}
	reader, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	reader.closers = append(reader.closers, file)
	return reader, nil
}

// NewReader wraps r, decompressing it when it starts with a gzip header.
func NewReader(r io.Reader) (*Reader, error) {
	var (
		br     = bufio.NewReaderSize(r, initBufSize)
		reader = &Reader{br: br, maxLineSize: MaxLineSize}
	)

	var magic, err = br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if bytes.Equal(magic, gzipMagic) {
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("gzip header: %w", err)
		}
		reader.closers = append(reader.closers, gr)
		reader.br = bufio.NewReaderSize(gr, initBufSize)
	}
	return reader, nil
}

// scan reads one line without its line ending. A line over maxLineSize is
// consumed whole and returned empty with tooLong set.
func (r *Reader) scan() (line, error) {
	r.buf = r.buf[:0]
	var (
		read    int
		tooLong bool
	)
	for {
		var chunk, err = r.br.ReadSlice('\n')
		read += len(chunk)
		if !tooLong {
			r.buf = append(r.buf, chunk...)
			// room for "\r\n"
			if len(r.buf) > r.maxLineSize+2 {
				tooLong = true
				r.buf = r.buf[:0]
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == io.EOF && read > 0 {
			err = nil
		}
		if err != nil {
			return line{}, err
		}
		r.line++
		var text = bytes.TrimSuffix(bytes.TrimSuffix(r.buf, []byte("\n")), []byte("\r"))
		if len(text) > r.maxLineSize {
			tooLong = true
			text = text[:0]
		}
		return line{text: text, num: r.line, tooLong: tooLong}, nil
	}
}

// readLine returns pushed back lines first. The text is valid until the next call.
func (r *Reader) readLine() (line, error) {
	if len(r.pending) > 0 {
		var l = r.pending[0]
		r.pending = r.pending[1:]
		return l, nil
	}
	return r.scan()
}

// unread pushes lines back in front of the stream, in order
func (r *Reader) unread(lines ...line) {
	var back = make([]line, 0, len(lines)+len(r.pending))
	for _, l := range lines {
		l.text = bytes.Clone(l.text)
		back = append(back, l)
	}
	r.pending = append(back, r.pending...)
}

func isHeader(l line) bool {
	return !l.tooLong && len(l.text) > 0 && l.text[0] == '@'
}

func isSeparator(l line) bool {
	return !l.tooLong && len(l.text) > 0 && l.text[0] == '+'
}

// resync drops lines up to the next '@' line that has a '+' line two lines
// below it, and leaves that header unread. Near the end of input a lone '@'
// line is kept so it surfaces as a truncated record.
func (r *Reader) resync() error {
	for {
		var l, err = r.readLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !isHeader(l) {
			continue
		}
		var lines = []line{{text: bytes.Clone(l.text), num: l.num}}
		for len(lines) < 3 {
			var next, err = r.readLine()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			next.text = bytes.Clone(next.text)
			lines = append(lines, next)
		}
		if len(lines) < 3 || isSeparator(lines[2]) {
			r.unread(lines...)
			return nil
		}
		r.unread(lines[1:]...)
	}
}

// Next returns the next record, io.EOF at the end of input, a *ParseError for a
// malformed record, or any other error from the underlying stream.
func (r *Reader) Next() (*Record, error) {
	var header line
	// blank lines between records are tolerated
	for {
		var l, err = r.readLine()
		if err != nil {
			return nil, err
		}
		if l.tooLong || len(l.text) > 0 {
			header = l
			break
		}
	}

	var index = r.index
	r.index++
	var fail = func(reason string, unread ...line) (*Record, error) {
		r.unread(unread...)
		if err := r.resync(); err != nil {
			return nil, err
		}
		return nil, &ParseError{Record: index, Line: header.num, Reason: reason}
	}
	var truncated = func(err error) (*Record, error) {
		if err != io.EOF {
			return nil, err
		}
		return nil, &ParseError{Record: index, Line: header.num, Reason: "truncated record"}
	}

	if header.tooLong {
		return fail("line longer than MaxLineSize")
	}
	if header.text[0] != '@' {
		return fail("header does not start with '@'")
	}
	r.record.Name = append(r.record.Name[:0], header.text[1:]...)

	seq, err := r.readLine()
	if err != nil {
		return truncated(err)
	}
	if seq.tooLong {
		return fail("line longer than MaxLineSize")
	}
	r.record.Seq = append(r.record.Seq[:0], seq.text...)
	seq.text = r.record.Seq

	sep, err := r.readLine()
	if err != nil {
		return truncated(err)
	}
	if !isSeparator(sep) {
		// the header may have lost its sequence line, rescan both
		return fail("missing '+' separator", seq, sep)
	}

	qual, err := r.readLine()
	if err != nil {
		return truncated(err)
	}
	if qual.tooLong {
		return fail("line longer than MaxLineSize")
	}
	r.record.Qual = append(r.record.Qual[:0], qual.text...)
	qual.text = r.record.Qual

	switch {
	case len(r.record.Seq) == 0:
		return nil, &ParseError{Record: index, Line: header.num, Reason: "empty sequence"}
	case len(r.record.Qual) != len(r.record.Seq):
		// a lost quality line leaves the next header here
		return fail(
			fmt.Sprintf("quality length %d != sequence length %d", len(r.record.Qual), len(r.record.Seq)),
			qual,
		)
	}
	return &r.record, nil
}

// Records is the number of records consumed so far. Malformed records and
// damaged spans count once each.
func (r *Reader) Records() int {
	return r.index
}

func (r *Reader) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	r.closers = nil
	return errors.Join(errs...)
}
