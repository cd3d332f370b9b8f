package filters

import (
	"bytes"
	stdlzw "compress/lzw"
	"errors"
	"fmt"
	"io"

	tifflzw "golang.org/x/image/tiff/lzw"
)

// LZWDecode expands LZW data and then reverses any predictor.
//
// With the default EarlyChange of 1 the code width grows one code early, as
// TIFF writers do, which is what golang.org/x/image/tiff/lzw implements.
// EarlyChange 0 is the GIF-style variant handled by compress/lzw.
func LZWDecode(data []byte, params Params) ([]byte, error) {
	var r io.ReadCloser
	if params.Int("EarlyChange", 1) == 0 {
		r = stdlzw.NewReader(bytes.NewReader(data), stdlzw.MSB, 8)
	} else {
		r = tifflzw.NewReader(bytes.NewReader(data), tifflzw.MSB, 8)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil && !(errors.Is(err, io.ErrUnexpectedEOF) && len(out) > 0) {
		return nil, fmt.Errorf("lzw: %w", err)
	}
	return Unpredict(out, params)
}
