package filters

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// FlateDecode inflates zlib data and then reverses any predictor named in
// params.
//
// Truncated streams are common in the wild. When inflation stops early with
// io.ErrUnexpectedEOF, whatever was recovered is kept.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("flate: %w", err)
	}
	defer zr.Close()

	inflated, err := io.ReadAll(zr)
	if err != nil && !(errors.Is(err, io.ErrUnexpectedEOF) && len(inflated) > 0) {
		return nil, fmt.Errorf("flate: %w", err)
	}

	return Unpredict(inflated, params)
}
