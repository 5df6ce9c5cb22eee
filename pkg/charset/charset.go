// Package charset selects the text encoding used to read server logs and write reports.
package charset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// SampleSize is the number of leading bytes inspected when detecting an encoding.
const SampleSize = 4096

// DefaultLabel is the fixed encoding used when detection is off or inconclusive.
// The WHATWG index resolves gb2312 to GBK, a superset.
const DefaultLabel = "gb2312"

// ErrNotDetected is returned when the sample gives no usable charset.
var ErrNotDetected = errors.New("encoding not detected")

// detectorNames maps detector charset names that the WHATWG index does not know.
var detectorNames = map[string]string{
	"gb-18030":    "gb18030",
	"iso-2022-cn": "gb18030",
}

// Selection is the encoding chosen for a file.
type Selection struct {
	// Encoding decodes the file contents.
	Encoding encoding.Encoding

	// Name is the canonical encoding name.
	Name string

	// Detected is true when the encoding came from sampling the file.
	Detected bool

	// Confidence is the detector confidence (0-100), zero for fixed encodings.
	Confidence int
}

// Lookup resolves an encoding label such as "gb2312", "utf-8" or "GB-18030".
func Lookup(label string) (encoding.Encoding, string, error) {
	key := strings.ToLower(strings.TrimSpace(label))
	if mapped, ok := detectorNames[key]; ok {
		key = mapped
	}

	enc, err := htmlindex.Get(key)
	if err != nil {
		return nil, "", fmt.Errorf("unsupported encoding %q: %w", label, err)
	}

	name, err := htmlindex.Name(enc)
	if err != nil {
		name = key
	}
	return enc, name, nil
}

// Detect guesses the charset of up to SampleSize bytes read from r.
func Detect(r io.Reader) (*chardet.Result, error) {
	sample, err := io.ReadAll(io.LimitReader(r, SampleSize))
	if err != nil {
		return nil, fmt.Errorf("reading sample: %w", err)
	}
	if len(sample) == 0 {
		return nil, ErrNotDetected
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDetected, err)
	}
	return result, nil
}

// DetectFile guesses the charset of the file at path.
func DetectFile(path string) (*chardet.Result, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return Detect(f)
}

// Select picks the encoding for path. With autoDetect off the fallback label is used as is.
// With autoDetect on, a failed or unsupported detection falls back with a warning;
// only an unreadable file or an invalid fallback label is an error.
func Select(path string, autoDetect bool, fallback string, log zerolog.Logger) (Selection, error) {
	if fallback == "" {
		fallback = DefaultLabel
	}

	fixed := func() (Selection, error) {
		enc, name, err := Lookup(fallback)
		if err != nil {
			return Selection{}, err
		}
		return Selection{Encoding: enc, Name: name}, nil
	}

	if !autoDetect {
		return fixed()
	}

	result, err := DetectFile(path)
	if err != nil {
		if !errors.Is(err, ErrNotDetected) {
			return Selection{}, err
		}
		log.Warn().Str("file", path).Err(err).Str("fallback", fallback).Msg("encoding detection failed")
		return fixed()
	}

	enc, name, err := Lookup(result.Charset)
	if err != nil {
		log.Warn().Str("file", path).Str("charset", result.Charset).Str("fallback", fallback).
			Msg("detected encoding is not supported")
		return fixed()
	}

	log.Debug().Str("file", path).Str("encoding", name).Int("confidence", result.Confidence).
		Msg("detected encoding")

	return Selection{
		Encoding:   enc,
		Name:       name,
		Detected:   true,
		Confidence: result.Confidence,
	}, nil
}
