package pages

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shubhrat1234/pdftoimage/core"
)

func flatTree(n int) (core.Dict, objects) {
	objs := objects{}
	kids := core.Array{}
	for i := 0; i < n; i++ {
		objs[100+i] = core.Dict{"Type": core.Name("Page")}
		kids = append(kids, ref(100+i))
	}
	return core.Dict{"Type": core.Name("Pages"), "Kids": kids}, objs
}

func treeLabels(t *testing.T, n int, labels core.Object, objs objects) []string {
	t.Helper()
	root, pageObjs := flatTree(n)
	for k, v := range objs {
		pageObjs[k] = v
	}
	all, err := NewPageTree(root, pageObjs, WithPageLabels(labels)).Pages()
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, p := range all {
		got = append(got, p.Label())
	}
	return got
}

func TestPageLabels(t *testing.T) {
	// roman front matter, arabic body from 1, then an appendix with a prefix
	labels := core.Dict{"Nums": core.Array{
		core.Int(0), core.Dict{"S": core.Name("r")},
		core.Int(3), core.Dict{"S": core.Name("D")},
		core.Int(5), core.Dict{"S": core.Name("A"), "P": core.String("App-"), "St": core.Int(1)},
	}}

	got := treeLabels(t, 7, labels, nil)
	want := []string{"i", "ii", "iii", "1", "2", "App-A", "App-B"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}
}

func TestPageLabelsKids(t *testing.T) {
	objs := objects{
		40: core.Dict{"Nums": core.Array{core.Int(0), ref(42)}},
		41: core.Dict{"Nums": core.Array{core.Int(2), core.Dict{"P": core.String("cover")}}},
		42: core.Dict{"S": core.Name("D"), "St": core.Int(10)},
	}
	labels := core.Dict{"Kids": core.Array{ref(41), ref(40)}}

	got := treeLabels(t, 4, labels, objs)
	want := []string{"10", "11", "cover", "cover"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}
}

func TestPageLabelsFallback(t *testing.T) {
	tests := []struct {
		name   string
		labels core.Object
		want   []string
	}{
		{"no labels", nil, []string{"1", "2", "3"}},
		{"unreadable tree", core.Int(5), []string{"1", "2", "3"}},
		{"first range starts late", core.Dict{"Nums": core.Array{core.Int(1), core.Dict{"S": core.Name("R")}}}, []string{"1", "I", "II"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := treeLabels(t, 3, tt.labels, nil)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("labels (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		style core.Name
		n     int
		want  string
	}{
		{"D", 42, "42"},
		{"R", 1994, "MCMXCIV"},
		{"r", 4, "iv"},
		{"A", 1, "A"},
		{"A", 26, "Z"},
		{"A", 27, "AA"},
		{"a", 54, "bbb"},
		{"", 3, ""},
		{"X", 3, ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s%d", tt.style, tt.n), func(t *testing.T) {
			if got := formatNumber(tt.style, tt.n); got != tt.want {
				t.Errorf("formatNumber(%q, %d) = %q, want %q", tt.style, tt.n, got, tt.want)
			}
		})
	}
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		in   core.String
		want string
	}{
		{"ascii", "Page", "Page"},
		{"latin-1", "caf\xe9", "café"},
		{"pdfdoc specials", "\x80\x84\xa0", "•—€"},
		{"utf-16be", "\xfe\xff\x00A\x03\xa9", "AΩ"},
		{"utf-8", "\xef\xbb\xbfA\xce\xa9", "AΩ"},
		{"undefined code", "\x9f", "�"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeText(tt.in); got != tt.want {
				t.Errorf("DecodeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
