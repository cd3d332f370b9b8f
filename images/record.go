package images

import (
	"fmt"
	"strings"

	"github.com/shubhrat1234/pdftoimage/core"
)

// Format says how Record.Data is encoded.
type Format int

const (
	// FormatRaw data is the decoded image samples.
	FormatRaw Format = iota
	// FormatJPEG data is a complete JPEG (DCT) file.
	FormatJPEG
	// FormatJPEG2000 data is a JPEG 2000 file or codestream.
	FormatJPEG2000
)

func formatOf(f core.DataFormat) Format {
	switch f {
	case core.FormatJPEG:
		return FormatJPEG
	case core.FormatJPEG2000:
		return FormatJPEG2000
	}
	return FormatRaw
}

func (f Format) String() string {
	switch f {
	case FormatRaw:
		return "Raw"
	case FormatJPEG:
		return "JPEG"
	case FormatJPEG2000:
		return "JPEG2000"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extension returns the usual file extension for data in this format,
// without a dot.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return "jpg"
	case FormatJPEG2000:
		return "jp2"
	}
	return "raw"
}

// Record describes one image XObject.
type Record struct {
	Name        string   // key in the page's /XObject dictionary
	ColorSpaces []string // in declaration order
	Filters     []string // in application order
	Format      Format
	Data        []byte

	// Geometry from the image dictionary, zero when absent.
	Width            int
	Height           int
	BitsPerComponent int
	ImageMask        bool
}

func (r *Record) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", r.Name)
	fmt.Fprintf(&b, "Color spaces: %s\n", joinOrNone(r.ColorSpaces))
	fmt.Fprintf(&b, "Format: %s\n", r.Format)
	fmt.Fprintf(&b, "Filters: %s\n", joinOrNone(r.Filters))
	if r.Width > 0 && r.Height > 0 {
		fmt.Fprintf(&b, "Size: %dx%d, %s\n", r.Width, r.Height, byteCount(len(r.Data)))
	} else {
		fmt.Fprintf(&b, "Size: %s\n", byteCount(len(r.Data)))
	}
	return b.String()
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// byteCount formats n with binary units: 512 B, 1.5 KiB, 3.0 MiB.
func byteCount(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := int64(n) / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
