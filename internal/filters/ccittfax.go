package filters

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/image/ccitt"
)

// maxFaxColumns bounds /Columns; the decoder keeps whole rows in memory.
const maxFaxColumns = 1 << 20

// CCITTFaxDecode expands Group 3 or Group 4 fax data into one bit per pixel,
// MSB first. K selects the encoding (negative for Group 4). Columns defaults
// to 1728 and a missing or zero Rows means the height is found from the data.
// Rows are byte aligned; 0 is black unless BlackIs1 is set.
func CCITTFaxDecode(data []byte, params Params) ([]byte, error) {
	columns := params.Int("Columns", 1728)
	if columns < 1 || columns > maxFaxColumns {
		return nil, fmt.Errorf("ccitt: invalid Columns %d", columns)
	}
	rows := params.Int("Rows", 0)
	if rows <= 0 {
		rows = ccitt.AutoDetectHeight
	}

	sf := ccitt.Group3
	if params.Int("K", 0) < 0 {
		sf = ccitt.Group4
	}

	opts := &ccitt.Options{
		Invert: params.Bool("BlackIs1", false),
		Align:  params.Bool("EncodedByteAlign", false),
	}

	out, err := io.ReadAll(ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, sf, columns, rows, opts))
	if err != nil {
		return nil, fmt.Errorf("ccitt: %w", err)
	}
	return out, nil
}
