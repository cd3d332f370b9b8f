package core

import (
	"errors"
	"fmt"

	"github.com/shubhrat1234/pdftoimage/internal/filters"
)

// DataFormat describes the bytes returned by Stream.DecodeData.
type DataFormat int

const (
	// FormatRaw means every filter was applied.
	FormatRaw DataFormat = iota
	// FormatJPEG means decoding stopped at DCTDecode; the bytes are a JPEG file.
	FormatJPEG
	// FormatJPEG2000 means decoding stopped at JPXDecode; the bytes are a
	// JPEG 2000 codestream or file.
	FormatJPEG2000
)

func (f DataFormat) String() string {
	switch f {
	case FormatRaw:
		return "raw"
	case FormatJPEG:
		return "JPEG"
	case FormatJPEG2000:
		return "JPEG2000"
	}
	return fmt.Sprintf("DataFormat(%d)", int(f))
}

// ErrUnsupportedFilter is returned for filters this package cannot decode.
var ErrUnsupportedFilter = errors.New("unsupported filter")

// filter is one step of a stream's filter chain.
type filter struct {
	name   string
	params Dict
}

// filterChain returns the stream's filter chain in application order, pairing
// every filter with its decode parameters.
func (s *Stream) filterChain() ([]filter, error) {
	var names []Name
	switch f := s.Dict.Get("Filter").(type) {
	case nil:
		return nil, nil
	case Name:
		names = []Name{f}
	case Array:
		for i, elem := range f {
			name, ok := elem.(Name)
			if !ok {
				return nil, fmt.Errorf("filter %d is %s, not a name", i, objectString(elem))
			}
			names = append(names, name)
		}
	default:
		return nil, fmt.Errorf("invalid /Filter %s", f)
	}

	chain := make([]filter, len(names))
	parms := s.Dict.Get("DecodeParms")
	if parms == nil {
		parms = s.Dict.Get("DP")
	}
	for i, name := range names {
		chain[i].name = expandFilterName(string(name))
		switch p := parms.(type) {
		case Dict:
			if i == 0 {
				chain[i].params = p
			}
		case Array:
			chain[i].params, _ = p.Get(i).(Dict)
		}
	}
	return chain, nil
}

// expandFilterName maps the abbreviations allowed in inline images to the
// full filter names.
func expandFilterName(name string) string {
	switch name {
	case "Fl":
		return "FlateDecode"
	case "AHx":
		return "ASCIIHexDecode"
	case "A85":
		return "ASCII85Decode"
	case "LZW":
		return "LZWDecode"
	case "RL":
		return "RunLengthDecode"
	case "CCF":
		return "CCITTFaxDecode"
	case "DCT":
		return "DCTDecode"
	}
	return name
}

// Decode applies the complete filter chain. DCT and JPX data cannot be
// decoded to samples here, so a chain containing them fails; use
// DecodeData for image streams.
func (s *Stream) Decode() ([]byte, error) {
	data, format, err := s.DecodeData()
	if err != nil {
		return nil, err
	}
	if format != FormatRaw {
		return nil, fmt.Errorf("%w: cannot decode %s data", ErrUnsupportedFilter, format)
	}
	return data, nil
}

// DecodeData applies the filter chain up to a DCTDecode or JPXDecode filter,
// which must be the last filter of the chain. The returned format says
// whether the data is fully decoded or still compressed image data.
func (s *Stream) DecodeData() ([]byte, DataFormat, error) {
	chain, err := s.filterChain()
	if err != nil {
		return nil, FormatRaw, err
	}

	data := s.Data
	for i, f := range chain {
		switch f.name {
		case "DCTDecode", "JPXDecode":
			if i != len(chain)-1 {
				return nil, FormatRaw, fmt.Errorf("filter %d (%s) is not last in the chain", i, f.name)
			}
			if f.name == "DCTDecode" {
				return data, FormatJPEG, nil
			}
			return data, FormatJPEG2000, nil
		}

		data, err = decodeWithFilter(data, f)
		if err != nil {
			return nil, FormatRaw, fmt.Errorf("filter %d (%s): %w", i, f.name, err)
		}
	}
	return data, FormatRaw, nil
}

// decodeWithFilter applies a single filter.
func decodeWithFilter(data []byte, f filter) ([]byte, error) {
	switch f.name {
	case "FlateDecode":
		return filters.FlateDecode(data, dictToParams(f.params))
	case "LZWDecode":
		return filters.LZWDecode(data, dictToParams(f.params))
	case "ASCIIHexDecode":
		return filters.ASCIIHexDecode(data)
	case "ASCII85Decode":
		return filters.ASCII85Decode(data)
	case "RunLengthDecode":
		return filters.RunLengthDecode(data)
	case "CCITTFaxDecode":
		return filters.CCITTFaxDecode(data, dictToParams(f.params))
	case "Crypt":
		// only the Identity crypt filter is meaningful without a security handler
		if name, ok := f.params.GetName("Name"); !ok || name == "Identity" {
			return data, nil
		}
		return nil, fmt.Errorf("%w: Crypt filter %s", ErrUnsupportedFilter, objectString(f.params.Get("Name")))
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFilter, f.name)
}

// dictToParams converts a decode parameter dictionary to the plain Go values
// the filters package works with. Values of other types are dropped.
func dictToParams(dict Dict) filters.Params {
	if len(dict) == 0 {
		return nil
	}

	params := make(filters.Params, len(dict))
	for k, v := range dict {
		switch obj := v.(type) {
		case Int:
			params[k] = int(obj)
		case Real:
			params[k] = float64(obj)
		case Bool:
			params[k] = bool(obj)
		case String:
			params[k] = string(obj)
		case Name:
			params[k] = string(obj)
		}
	}
	return params
}
