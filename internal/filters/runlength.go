package filters

import "fmt"

// RunLengthDecode expands PackBits-style runs. A length byte L of 0..127
// copies the next L+1 bytes, 129..255 repeats the next byte 257-L times and
// 128 ends the data.
func RunLengthDecode(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data)*2)
	for i := 0; i < len(data); {
		n := int(data[i])
		i++
		switch {
		case n == 128:
			return out, nil
		case n < 128:
			if i+n+1 > len(data) {
				return nil, fmt.Errorf("runlength: literal run of %d bytes at offset %d overruns data", n+1, i-1)
			}
			out = append(out, data[i:i+n+1]...)
			i += n + 1
		default:
			if i >= len(data) {
				return nil, fmt.Errorf("runlength: repeat run at offset %d has no byte", i-1)
			}
			for range 257 - n {
				out = append(out, data[i])
			}
			i++
		}
	}
	return out, nil
}
