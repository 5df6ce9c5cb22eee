package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Writer writes report files into one directory in a fixed encoding.
type Writer struct {
	dir string
	enc encoding.Encoding
}

// NewWriter creates dir if needed. A nil enc writes UTF-8.
func NewWriter(dir string, enc encoding.Encoding) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return &Writer{dir: dir, enc: enc}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Path returns the full path of a report file name.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// WriteLines replaces the named file with lines, one per line.
// Characters the encoding cannot represent are replaced.
func (w *Writer) WriteLines(name string, lines []string) (string, error) {
	path := w.Path(name)
	f, err := os.Create(path) // #nosec G304 -- output path comes from configuration
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	if err := w.encodeLines(f, lines); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}

func (w *Writer) encodeLines(dst io.Writer, lines []string) error {
	var tw *transform.Writer
	if w.enc != nil {
		tw = transform.NewWriter(dst, encoding.ReplaceUnsupported(w.enc.NewEncoder()))
		dst = tw
	}

	out := bufio.NewWriter(dst)
	for _, line := range lines {
		if _, err := out.WriteString(line); err != nil {
			return err
		}
		if err := out.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := out.Flush(); err != nil {
		return err
	}
	if tw != nil {
		return tw.Close()
	}
	return nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// FunctionFileName returns the per-function report name for a function code.
func FunctionFileName(code string) string {
	return "requests_func_" + unsafeName.ReplaceAllString(code, "_") + ".txt"
}
