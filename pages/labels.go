package pages

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shubhrat1234/pdftoimage/core"
)

// labelRange is one entry of the /PageLabels number tree: the pages from
// start on are numbered in style, after prefix, beginning at first.
type labelRange struct {
	start  int
	style  core.Name
	prefix string
	first  int
}

// readLabelRanges collects the ranges of a /PageLabels number tree, sorted
// by first page. A nil tree yields no ranges.
func readLabelRanges(tree core.Object, resolver ObjectResolver) ([]labelRange, error) {
	if tree == nil {
		return nil, nil
	}

	var ranges []labelRange
	seen := make(map[core.IndirectRef]bool)
	stack := []core.Object{tree}
	for len(stack) > 0 {
		obj := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if ref, ok := obj.(core.IndirectRef); ok {
			if seen[ref] {
				return nil, fmt.Errorf("number tree node %s is reachable twice", ref)
			}
			seen[ref] = true
		}
		resolved, err := resolver.Resolve(obj)
		if err != nil {
			return nil, err
		}
		node, ok := resolved.(core.Dict)
		if !ok {
			return nil, fmt.Errorf("number tree node is %s, not a dictionary", objectType(resolved))
		}

		if nums, err := resolveArray(node.Get("Nums"), resolver); err != nil {
			return nil, err
		} else if nums != nil {
			for i := 0; i+1 < nums.Len(); i += 2 {
				key, ok := nums.GetInt(i)
				if !ok || key < 0 {
					return nil, fmt.Errorf("number tree key %s is not a page index", nums.Get(i))
				}
				r, err := readLabelDict(nums.Get(i+1), resolver)
				if err != nil {
					return nil, fmt.Errorf("label for page %d: %w", key, err)
				}
				r.start = int(key)
				ranges = append(ranges, r)
			}
		}

		kids, err := resolveArray(node.Get("Kids"), resolver)
		if err != nil {
			return nil, err
		}
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}

	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })
	return ranges, nil
}

func resolveArray(obj core.Object, resolver ObjectResolver) (core.Array, error) {
	if obj == nil {
		return nil, nil
	}
	resolved, err := resolver.Resolve(obj)
	if err != nil {
		return nil, err
	}
	arr, ok := resolved.(core.Array)
	if !ok {
		return nil, fmt.Errorf("expected an array, got %s", objectType(resolved))
	}
	return arr, nil
}

func readLabelDict(obj core.Object, resolver ObjectResolver) (labelRange, error) {
	r := labelRange{first: 1}
	resolved, err := resolver.Resolve(obj)
	if err != nil {
		return r, err
	}
	dict, ok := resolved.(core.Dict)
	if !ok {
		return r, fmt.Errorf("page label is %s, not a dictionary", objectType(resolved))
	}

	r.style, _ = dict.GetName("S")
	if p, err := resolver.Resolve(dict.Get("P")); err == nil {
		if s, ok := p.(core.String); ok {
			r.prefix = DecodeText(s)
		}
	}
	if st, ok := dict.GetInt("St"); ok && st >= 1 {
		r.first = int(st)
	}
	return r, nil
}

// labelFor returns the label of page index. Pages before the first range,
// and every page when there are no ranges, are labelled with their 1-based
// page number.
func labelFor(ranges []labelRange, index int) string {
	i := sort.Search(len(ranges), func(i int) bool { return ranges[i].start > index }) - 1
	if i < 0 {
		return strconv.Itoa(index + 1)
	}
	r := ranges[i]
	return r.prefix + formatNumber(r.style, r.first+index-r.start)
}

// formatNumber renders n in one of the page label numbering styles. An
// absent or unknown style renders nothing, leaving only the prefix.
func formatNumber(style core.Name, n int) string {
	switch style {
	case "D":
		return strconv.Itoa(n)
	case "R":
		return roman(n)
	case "r":
		return strings.ToLower(roman(n))
	case "A":
		return letters(n)
	case "a":
		return strings.ToLower(letters(n))
	}
	return ""
}

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(n int) string {
	var b strings.Builder
	for _, r := range romanNumerals {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}

// letters numbers A to Z, then AA to ZZ, then AAA and so on.
func letters(n int) string {
	if n < 1 {
		return ""
	}
	letter := byte('A' + (n-1)%26)
	return strings.Repeat(string(letter), (n-1)/26+1)
}
