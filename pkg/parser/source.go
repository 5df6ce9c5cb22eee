package parser

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// maxLineSize bounds a single log line. Longer lines are skipped.
const maxLineSize = 1024 * 1024

// FileSource implements EventSource for a single log file.
// Bytes are decoded with the given encoding before matching; malformed
// sequences come out as U+FFFD instead of failing the read.
type FileSource struct {
	path   string
	file   io.Closer
	reader *bufio.Reader
	line   []byte
	log    zerolog.Logger
	stats  SourceStats
}

// SourceOption configures a FileSource.
type SourceOption func(*FileSource)

// WithLogger sets the logger used to report skipped lines.
func WithLogger(log zerolog.Logger) SourceOption {
	return func(s *FileSource) {
		s.log = log
	}
}

// OpenFile opens a log file and decodes it with enc.
// A nil enc reads the bytes as they are.
func OpenFile(path string, enc encoding.Encoding, opts ...SourceOption) (*FileSource, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	src := NewSource(f, path, enc, opts...)
	src.file = f
	return src, nil
}

// NewSource creates an EventSource over r. name is used in error messages.
func NewSource(r io.Reader, name string, enc encoding.Encoding, opts ...SourceOption) *FileSource {
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}

	s := &FileSource{
		path:   name,
		reader: bufio.NewReaderSize(r, 64*1024),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next returns the next matched event.
// Returns io.EOF when the file is exhausted.
func (s *FileSource) Next(ctx context.Context) (*LogEvent, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line, oversized, err := s.readLine()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.path, err)
		}
		s.stats.LinesRead++

		if oversized {
			s.stats.LinesOversized++
			s.log.Warn().
				Str("file", s.path).
				Int("line", s.stats.LinesRead).
				Int("limit", maxLineSize).
				Msg("Skipping oversized line")
			continue
		}

		ev, err := ParseLine(string(line))
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", s.path, s.stats.LinesRead, err)
		}
		if ev == nil {
			continue
		}

		s.stats.LinesMatched++
		ev.LineNum = s.stats.LinesRead
		return ev, nil
	}
}

// readLine returns the next line without its line ending. A line longer
// than maxLineSize is consumed up to its newline and reported as oversized
// with no content. Returns io.EOF only when no bytes are left.
func (s *FileSource) readLine() (line []byte, oversized bool, err error) {
	s.line = s.line[:0]
	consumed := 0
	for {
		chunk, err := s.reader.ReadSlice('\n')
		consumed += len(chunk)

		if !oversized {
			if len(s.line)+len(chunk) > maxLineSize+len("\r\n") {
				oversized = true
				s.line = s.line[:0]
			} else {
				s.line = append(s.line, chunk...)
			}
		}

		switch {
		case err == nil:
			return trimEOL(s.line), oversized, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if consumed == 0 {
				return nil, false, io.EOF
			}
			return trimEOL(s.line), oversized, nil
		default:
			return nil, false, err
		}
	}
}

func trimEOL(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte("\n"))
	return bytes.TrimSuffix(b, []byte("\r"))
}

// Stats returns line counters.
func (s *FileSource) Stats() SourceStats {
	return s.stats
}

// Path returns the file path or name this source reads from.
func (s *FileSource) Path() string {
	return s.path
}

// Close releases the underlying file.
func (s *FileSource) Close() error {
	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		return err
	}
	return nil
}
