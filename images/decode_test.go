package images

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shubhrat1234/pdftoimage/core"
	"github.com/shubhrat1234/pdftoimage/internal/pdftest"
)

func imageStream(extra core.Dict, data []byte) *core.Stream {
	dict := core.Dict{"Subtype": core.Name("Image")}
	for k, v := range extra {
		dict[k] = v
	}
	return &core.Stream{Dict: dict, Data: data}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		obj      core.Object
		resolver refs
		want     *Record
	}{
		{
			name: "not a stream",
			obj:  core.Dict{"Subtype": core.Name("Image")},
		},
		{
			name: "stream without dictionary",
			obj:  &core.Stream{Data: []byte{1}},
		},
		{
			name: "form",
			obj:  &core.Stream{Dict: core.Dict{"Subtype": core.Name("Form")}},
		},
		{
			name: "subtype is case sensitive",
			obj:  &core.Stream{Dict: core.Dict{"Subtype": core.Name("image")}},
		},
		{
			name: "subtype as string",
			obj:  &core.Stream{Dict: core.Dict{"Subtype": core.String("Image")}},
		},
		{
			name:     "indirect subtype resolving to a string",
			obj:      &core.Stream{Dict: core.Dict{"Subtype": core.IndirectRef{Number: 4}}},
			resolver: refs{4: core.String("Image")},
		},
		{
			name:     "indirect subtype resolving to a name",
			obj:      &core.Stream{Dict: core.Dict{"Subtype": core.IndirectRef{Number: 4}}, Data: []byte{7}},
			resolver: refs{4: core.Name("Image")},
			want: &Record{
				Name:   "X",
				Format: FormatRaw,
				Data:   []byte{7},
			},
		},
		{
			name: "no filter",
			obj:  imageStream(core.Dict{"ColorSpace": core.Name("DeviceRGB")}, []byte{1, 2, 3}),
			want: &Record{
				Name:        "X",
				ColorSpaces: []string{"DeviceRGB"},
				Format:      FormatRaw,
				Data:        []byte{1, 2, 3},
			},
		},
		{
			name: "color space array",
			obj: imageStream(core.Dict{
				"ColorSpace": core.Array{core.Name("Indexed"), core.Name("DeviceRGB"), core.Int(1), core.String("\x00\x00\x00\xff\xff\xff")},
				"Width":      core.Int(4),
				"Height":     core.Int(2),
			}, []byte{0x0f}),
			want: &Record{
				Name:        "X",
				ColorSpaces: []string{"Indexed", "DeviceRGB"},
				Format:      FormatRaw,
				Data:        []byte{0x0f},
				Width:       4,
				Height:      2,
			},
		},
		{
			name: "filter chain ending in JPX",
			obj: imageStream(core.Dict{
				"Filter": core.Array{core.Name("ASCIIHexDecode"), core.Name("JPXDecode")},
			}, []byte("00 0C 6A 50>")),
			want: &Record{
				Name:    "X",
				Filters: []string{"ASCIIHexDecode", "JPXDecode"},
				Format:  FormatJPEG2000,
				Data:    []byte{0x00, 0x0c, 0x6a, 0x50},
			},
		},
		{
			name: "flate",
			obj: imageStream(core.Dict{
				"Filter":     core.Name("FlateDecode"),
				"ColorSpace": core.Name("DeviceGray"),
			}, pdftest.Deflate([]byte("samples"))),
			want: &Record{
				Name:        "X",
				ColorSpaces: []string{"DeviceGray"},
				Filters:     []string{"FlateDecode"},
				Format:      FormatRaw,
				Data:        []byte("samples"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify("X", NewRef(tt.obj, tt.resolver))
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassifyDecodeFailure(t *testing.T) {
	obj := imageStream(core.Dict{"Filter": core.Array{core.Name("DCTDecode"), core.Name("FlateDecode")}}, []byte{1})

	rec, err := Classify("Im9", NewRef(obj, nil))
	if rec != nil {
		t.Errorf("Classify() record = %v, want nil", rec)
	}
	var ie *ImageError
	if !errors.As(err, &ie) {
		t.Fatalf("Classify() error = %v, want *ImageError", err)
	}
	if ie.Name != "Im9" || !errors.Is(err, ErrStreamDecodeFailed) {
		t.Errorf("Classify() error = %+v", ie)
	}
	if !strings.Contains(err.Error(), "Im9") {
		t.Errorf("error message %q does not name the image", err)
	}
}

type refs map[int]core.Object

func (r refs) Resolve(obj core.Object) (core.Object, error) {
	ref, ok := obj.(core.IndirectRef)
	if !ok {
		return obj, nil
	}
	if target, ok := r[ref.Number]; ok {
		return target, nil
	}
	return nil, errors.New("dangling reference")
}

func TestRef(t *testing.T) {
	objs := refs{
		1: core.Name("DeviceCMYK"),
		2: core.Array{core.Name("CalRGB"), core.IndirectRef{Number: 3}},
		3: core.Dict{"Gamma": core.Array{}},
	}
	root := NewRef(core.Dict{
		"Single":   core.Name("DeviceGray"),
		"Indirect": core.IndirectRef{Number: 1},
		"Array":    core.IndirectRef{Number: 2},
		"Dangling": core.IndirectRef{Number: 9},
		"Mixed":    core.Array{core.Int(1), core.Name("A"), core.Null{}, core.IndirectRef{Number: 1}},
		"Number":   core.Int(7),
		"Flag":     core.Bool(true),
	}, objs)

	names := map[string][]string{
		"Single":   {"DeviceGray"},
		"Indirect": {"DeviceCMYK"},
		"Array":    {"CalRGB"},
		"Mixed":    {"A", "DeviceCMYK"},
		"Number":   nil,
		"Dangling": nil,
		"Missing":  nil,
	}
	for key, want := range names {
		if diff := cmp.Diff(want, root.Get(key).Names()); diff != "" {
			t.Errorf("Get(%q).Names() mismatch (-want +got):\n%s", key, diff)
		}
	}

	kinds := map[string]Kind{
		"Single":   KindName,
		"Array":    KindArray,
		"Dangling": KindNull,
		"Missing":  KindNull,
		"Number":   KindScalar,
		"Flag":     KindScalar,
	}
	for key, want := range kinds {
		if got := root.Get(key).Kind(); got != want {
			t.Errorf("Get(%q).Kind() = %v, want %v", key, got, want)
		}
	}

	if got := root.Get("Array").Index(1).Kind(); got != KindDict {
		t.Errorf("nested reference kind = %v, want dictionary", got)
	}
	if n, ok := root.Get("Number").Int(); !ok || n != 7 {
		t.Errorf("Int() = %d, %v", n, ok)
	}
	if _, ok := root.Get("Number").Name(); ok {
		t.Error("Name() of a number succeeded")
	}
	if b, ok := root.Get("Flag").Bool(); !ok || !b {
		t.Errorf("Bool() = %v, %v", b, ok)
	}
	if got := root.Get("Missing").Get("Deeper").Index(3).Len(); got != 0 {
		t.Errorf("Len() through missing entries = %d", got)
	}
	if got := root.Len(); got != 7 {
		t.Errorf("Len() = %d, want 7", got)
	}
	if _, _, err := root.Decode(); err == nil {
		t.Error("Decode() of a dictionary succeeded")
	}

	seen := 0
	for range root.Keys() {
		seen++
	}
	if seen != 7 {
		t.Errorf("Keys() yielded %d keys, want 7", seen)
	}
}

func TestRecordString(t *testing.T) {
	rec := &Record{
		Name:        "Im1",
		ColorSpaces: []string{"ICCBased"},
		Filters:     []string{"FlateDecode", "DCTDecode"},
		Format:      FormatJPEG,
		Data:        make([]byte, 1536),
		Width:       32,
		Height:      16,
	}
	want := "Name: Im1\n" +
		"Color spaces: ICCBased\n" +
		"Format: JPEG\n" +
		"Filters: FlateDecode, DCTDecode\n" +
		"Size: 32x16, 1.5 KiB\n"
	if got := rec.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	bare := (&Record{Name: "Im2", Data: []byte{1}}).String()
	if !strings.Contains(bare, "Filters: none\n") || !strings.Contains(bare, "Size: 1 B\n") {
		t.Errorf("String() = %q", bare)
	}
}

func TestByteCount(t *testing.T) {
	tests := map[int]string{
		0:               "0 B",
		1023:            "1023 B",
		1024:            "1.0 KiB",
		3 * 1024 * 1024: "3.0 MiB",
	}
	for n, want := range tests {
		if got := byteCount(n); got != want {
			t.Errorf("byteCount(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		format Format
		name   string
		ext    string
	}{
		{FormatRaw, "Raw", "raw"},
		{FormatJPEG, "JPEG", "jpg"},
		{FormatJPEG2000, "JPEG2000", "jp2"},
	}
	for _, tt := range tests {
		if got := tt.format.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.format.Extension(); got != tt.ext {
			t.Errorf("%s.Extension() = %q, want %q", tt.name, got, tt.ext)
		}
	}
}
