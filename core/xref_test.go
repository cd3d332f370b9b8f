package core

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/shubhrat1234/pdftoimage/internal/pdftest"
)

func xrefParser(data []byte) *XRefParser {
	return NewXRefParser(bytes.NewReader(data), int64(len(data)))
}

func TestFindXRef(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"lf", "%PDF-1.4\n...\nstartxref\n9\n%%EOF\n", 9},
		{"cr only", "%PDF-1.4\r...\rstartxref\r9\r%%EOF\r", 9},
		{"same line", "%PDF-1.4\n...\nstartxref 9 %%EOF", 9},
		{"last one wins", "%PDF-1.4\nstartxref\n3\n%%EOF\nstartxref\n12\n%%EOF\n", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := xrefParser([]byte(tt.input)).FindXRef()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("FindXRef = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFindXRefErrors(t *testing.T) {
	for _, input := range []string{
		"%PDF-1.4\nno keyword here",
		"%PDF-1.4\nstartxref\n",
		"%PDF-1.4\nstartxref\nabc\n",
		"%PDF-1.4\nstartxref\n99999\n%%EOF",
	} {
		if _, err := xrefParser([]byte(input)).FindXRef(); err == nil {
			t.Errorf("FindXRef(%q): expected error", input)
		}
	}
}

func TestParseXRefTable(t *testing.T) {
	data := pdftest.New().
		Object(1, "<</Type /Catalog>>").
		Object(2, "42").
		XRefTable(" /Root 1 0 R").
		Bytes()

	table, err := xrefParser(data).ParseAll()
	if err != nil {
		t.Fatal(err)
	}
	if table.Size() != 3 {
		t.Errorf("Size = %d, want 3", table.Size())
	}

	entry, ok := table.Get(2)
	if !ok || !entry.InUse || entry.Compressed {
		t.Fatalf("entry 2 = %+v", entry)
	}
	if !bytes.HasPrefix(data[entry.Offset:], []byte("2 0 obj")) {
		t.Errorf("entry 2 offset %d does not point at the object", entry.Offset)
	}
	if free, _ := table.Get(0); free.InUse {
		t.Error("object 0 should be free")
	}
	if ref, ok := table.Trailer.GetIndirectRef("Root"); !ok || ref.Number != 1 {
		t.Errorf("trailer /Root = %v", table.Trailer.Get("Root"))
	}
}

func TestParseXRefTableMultipleSubsections(t *testing.T) {
	input := "xref\n0 2\n0000000000 65535 f \n0000000017 00000 n \n5 1\n0000000099 00002 n \ntrailer\n<</Size 6>>\n"
	table, err := xrefParser([]byte(input)).ParseXRef(0)
	if err != nil {
		t.Fatal(err)
	}
	if e, _ := table.Get(1); e == nil || e.Offset != 17 {
		t.Errorf("entry 1 = %+v", e)
	}
	if e, _ := table.Get(5); e == nil || e.Offset != 99 || e.Generation != 2 {
		t.Errorf("entry 5 = %+v", e)
	}
}

func TestParseXRefTableErrors(t *testing.T) {
	for _, input := range []string{
		"xref\n0 1\n0000000000 65535 x\ntrailer\n<<>>\n",
		"xref\n0 2\n0000000000 65535 f\ntrailer\n<<>>\n",
		"xref\n0 1\n0000000000 65535 f\ntrailer\n[1]\n",
		"nonsense",
	} {
		if _, err := xrefParser([]byte(input)).ParseXRef(0); err == nil {
			t.Errorf("ParseXRef(%q): expected error", input)
		}
	}
}

func TestParseXRefStream(t *testing.T) {
	data := pdftest.New().
		Object(1, "<</Type /Catalog>>").
		ObjectStream(4, map[int]string{2: "<</Type /Pages>>", 3: "7"}).
		XRefStream(5, " /Root 1 0 R").
		Bytes()

	table, err := xrefParser(data).ParseAll()
	if err != nil {
		t.Fatal(err)
	}

	if e, _ := table.Get(1); e == nil || !e.InUse || e.Compressed {
		t.Errorf("entry 1 = %+v", e)
	}
	e, _ := table.Get(3)
	if e == nil || !e.Compressed || e.StreamNum != 4 || e.StreamIndex != 1 {
		t.Errorf("entry 3 = %+v", e)
	}
	if table.Trailer.Has("W") || table.Trailer.Has("Length") {
		t.Errorf("stream keys leaked into trailer: %v", table.Trailer)
	}
	if !table.Trailer.Has("Root") {
		t.Error("trailer lost /Root")
	}
}

func TestParseAllIncrementalUpdate(t *testing.T) {
	b := pdftest.New().
		Object(1, "<</Type /Catalog>>").
		Object(2, "(old)").
		XRefTable(" /Root 1 0 R /Info 9 0 R")
	b.Object(2, "(new)").XRefTable(" /Root 1 0 R")
	data := b.Bytes()

	table, err := xrefParser(data).ParseAll()
	if err != nil {
		t.Fatal(err)
	}
	e, _ := table.Get(2)
	if !bytes.HasPrefix(data[e.Offset:], []byte("2 0 obj\n(new)")) {
		t.Errorf("object 2 resolves to the old revision at %d", e.Offset)
	}
	if _, ok := table.Get(1); !ok {
		t.Error("object 1 from the first revision was lost")
	}
	if !table.Trailer.Has("Info") {
		t.Error("trailer keys of the older revision were not merged")
	}
	if table.Trailer.Has("Prev") {
		t.Error("/Prev should be dropped from the merged trailer")
	}
}

func TestParseAllPrevLoop(t *testing.T) {
	head := "%PDF-1.4\n"
	start := strconv.Itoa(len(head))
	input := head + "xref\n0 1\n0000000000 65535 f \ntrailer\n<</Size 1 /Prev " + start + ">>\nstartxref\n" + start + "\n%%EOF\n"

	if _, err := xrefParser([]byte(input)).ParseAll(); err == nil {
		t.Error("expected error for a /Prev chain that loops")
	}
}
