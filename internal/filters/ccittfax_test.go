package filters

import (
	"bytes"
	"testing"
)

func TestCCITTFaxDecode(t *testing.T) {
	// eight all-white Group 4 rows (one V0 code each) followed by EOFB
	g4White := []byte{0xff, 0x00, 0x10, 0x01}

	tests := []struct {
		name   string
		params Params
		want   []byte
	}{
		{
			name:   "black is 0",
			params: Params{"K": -1, "Columns": 8, "Rows": 8},
			want:   bytes.Repeat([]byte{0xff}, 8),
		},
		{
			name:   "black is 1",
			params: Params{"K": -1, "Columns": 8, "Rows": 8, "BlackIs1": true},
			want:   make([]byte, 8),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CCITTFaxDecode(g4White, tt.params)
			if err != nil {
				t.Fatalf("CCITTFaxDecode failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got % x, want % x", got, tt.want)
			}
		})
	}
}

func TestCCITTFaxDecodeInvalidColumns(t *testing.T) {
	for _, columns := range []int{0, -8, 1 << 40} {
		if _, err := CCITTFaxDecode([]byte{0xff}, Params{"K": -1, "Columns": columns}); err == nil {
			t.Errorf("Columns %d: expected error", columns)
		}
	}
}
