package charset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		label    string
		wantName string
		wantErr  bool
	}{
		{"gb2312", "gbk", false},
		{"GBK", "gbk", false},
		{"GB-18030", "gb18030", false},
		{"utf-8", "utf-8", false},
		{" UTF8 ", "utf-8", false},
		{"Big5", "big5", false},
		{"klingon", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			enc, name, err := Lookup(tt.label)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Lookup(%q) expected error", tt.label)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup(%q) error = %v", tt.label, err)
			}
			if enc == nil {
				t.Fatal("Lookup() returned nil encoding")
			}
			if name != tt.wantName {
				t.Errorf("Lookup(%q) name = %q, want %q", tt.label, name, tt.wantName)
			}
		})
	}
}

func TestDetect_Empty(t *testing.T) {
	_, err := Detect(bytes.NewReader(nil))
	if !errors.Is(err, ErrNotDetected) {
		t.Errorf("Detect(empty) error = %v, want ErrNotDetected", err)
	}
}

func TestDetect_UTF8(t *testing.T) {
	text := strings.Repeat("服务器日志 请求处理完成 耗时统计 ", 40)
	result, err := Detect(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if result.Charset != "UTF-8" {
		t.Errorf("Charset = %q, want UTF-8", result.Charset)
	}
}

func TestSelect_Fixed(t *testing.T) {
	sel, err := Select("/does/not/matter", false, "", zerolog.Nop())
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.Detected {
		t.Error("Detected = true for fixed encoding")
	}
	if sel.Name != "gbk" {
		t.Errorf("Name = %q, want gbk", sel.Name)
	}
}

func TestSelect_FixedInvalidLabel(t *testing.T) {
	if _, err := Select("/does/not/matter", false, "klingon", zerolog.Nop()); err == nil {
		t.Error("Select() expected error for invalid label")
	}
}

func TestSelect_AutoDetect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.log")
	text := strings.Repeat("服务器日志 请求处理完成 耗时统计 应答成功\n", 60)
	encoded, err := simplifiedchinese.GB18030.NewEncoder().String(text)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(encoded), 0644); err != nil {
		t.Fatal(err)
	}

	sel, err := Select(path, true, "utf-8", zerolog.Nop())
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if !sel.Detected {
		t.Fatal("Detected = false, want true")
	}
	if sel.Name != "gb18030" {
		t.Errorf("Name = %q, want gb18030", sel.Name)
	}
}

func TestSelect_AutoDetectEmptyFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.log")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	sel, err := Select(path, true, "utf-8", zerolog.New(&buf))
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.Detected {
		t.Error("Detected = true for empty file")
	}
	if sel.Name != "utf-8" {
		t.Errorf("Name = %q, want utf-8", sel.Name)
	}
	if !strings.Contains(buf.String(), "encoding detection failed") {
		t.Errorf("expected fallback warning, got %q", buf.String())
	}
}

func TestSelect_AutoDetectMissingFile(t *testing.T) {
	if _, err := Select("/nonexistent/server.log", true, "", zerolog.Nop()); err == nil {
		t.Error("Select() expected error for missing file")
	}
}
