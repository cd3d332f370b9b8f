package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shubhrat1234/pdftoimage/images"
	"github.com/shubhrat1234/pdftoimage/internal/pdftest"
)

func writeDocument(t *testing.T) string {
	t.Helper()
	b := pdftest.Document([]pdftest.Page{
		{Resources: "<</XObject <</Im1 10 0 R>>>>"},
		{Resources: "<</XObject <</Im2 11 0 R /Im3 12 0 R>>>>"},
	}, " /PageLabels <</Nums [0 <</S /r>>]>>")
	b.Stream(10, " /Subtype /Image /Width 1 /Height 1 /BitsPerComponent 8 /ColorSpace /DeviceRGB /Filter /DCTDecode", []byte("jpeg"))
	b.Stream(11, " /Subtype /Image /Width 2 /Height 1 /BitsPerComponent 8 /ColorSpace /DeviceGray", []byte{0, 255})
	b.Stream(12, " /Subtype /Image /Filter /JPXDecode", []byte("jp2"))
	data := b.XRefTable(" /Root 1 0 R").Bytes()

	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunWritesImages(t *testing.T) {
	doc := writeDocument(t)
	out := t.TempDir()

	var stdout, stderr bytes.Buffer
	if code := run([]string{doc, out}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr:\n%s", code, stderr.String())
	}

	want := map[string]string{
		"Page i Im1.jpg":  "jpeg",
		"Page ii Im2.raw": "\x00\xff",
		"Page ii Im3.jp2": "jp2",
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[string]string)
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(out, e.Name()))
		if err != nil {
			t.Fatal(err)
		}
		got[e.Name()] = string(data)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("written files mismatch (-want +got):\n%s", diff)
	}
}

func TestRunList(t *testing.T) {
	doc := writeDocument(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-list", "-f", "2", doc}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr:\n%s", code, stderr.String())
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header and 2 images:\n%s", len(lines), stdout.String())
	}
	if !strings.Contains(lines[1], "Im2") || !strings.Contains(lines[1], "DeviceGray") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "Im3") || !strings.Contains(lines[2], "JPXDecode") {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestRunVerbose(t *testing.T) {
	doc := writeDocument(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-v", "-list", doc}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr:\n%s", code, stderr.String())
	}
	for _, want := range []string{"opened document", "objects=", "scanning page"} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr.String())
		}
	}
}

func TestRunWriteFailureContinues(t *testing.T) {
	doc := writeDocument(t)
	missing := filepath.Join(t.TempDir(), "does", "not", "exist")

	var stdout, stderr bytes.Buffer
	if code := run([]string{doc, missing}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}
	if n := strings.Count(stderr.String(), "writing image"); n != 3 {
		t.Errorf("logged %d write failures, want 3:\n%s", n, stderr.String())
	}
}

func TestRunErrors(t *testing.T) {
	doc := writeDocument(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "no arguments", args: nil, want: 2},
		{name: "bad flag", args: []string{"-x", doc}, want: 2},
		{name: "bad range", args: []string{"-f", "2", "-l", "1", doc}, want: 2},
		{name: "missing file", args: []string{filepath.Join(t.TempDir(), "none.pdf")}, want: 1},
		{name: "range past the end", args: []string{"-list", "-l", "5", doc}, want: 1},
		{name: "start past the end", args: []string{"-list", "-f", "5", doc}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if got := run(tt.args, &stdout, &stderr); got != tt.want {
				t.Errorf("run() = %d, want %d; stderr:\n%s", got, tt.want, stderr.String())
			}
		})
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		page string
		rec  images.Record
		want string
	}{
		{"1", images.Record{Name: "Im1", Format: images.FormatJPEG}, "Page 1 Im1.jpg"},
		{"A-3", images.Record{Name: "X", Format: images.FormatRaw}, "Page A-3 X.raw"},
		{"1/2", images.Record{Name: "Im0", Format: images.FormatJPEG2000}, "Page 1_2 Im0.jp2"},
	}
	for _, tt := range tests {
		if got := fileName(tt.page, &tt.rec); got != tt.want {
			t.Errorf("fileName(%q, %s) = %q, want %q", tt.page, tt.rec.Name, got, tt.want)
		}
	}
}
