package filters

import (
	"fmt"
	"math"
)

// Predictor values from a /DecodeParms dictionary.
const (
	PredictorNone = 1
	PredictorTIFF = 2
	// 10 through 15 select PNG prediction; the real algorithm is chosen by
	// the tag byte in front of every row.
	PredictorPNGNone    = 10
	PredictorPNGOptimum = 15
)

// maxRowBits bounds colors * bpc * columns. PDF allows at most 32 color
// components; rows wider than this come only from corrupt parameters.
const maxRowBits = math.MaxInt32

// rowGeometry describes the sample layout the predictor works on.
type rowGeometry struct {
	colors  int
	bpc     int
	columns int
}

func geometryOf(params Params) rowGeometry {
	return rowGeometry{
		colors:  params.Int("Colors", 1),
		bpc:     params.Int("BitsPerComponent", 8),
		columns: params.Int("Columns", 1),
	}
}

// pixelBytes is the distance, in bytes, to the corresponding byte of the
// previous pixel. It is at least one.
func (g rowGeometry) pixelBytes() int {
	return max(1, (g.colors*g.bpc+7)/8)
}

func (g rowGeometry) rowBytes() int {
	return (g.colors*g.bpc*g.columns + 7) / 8
}

// Unpredict reverses the predictor selected by params. Data is returned
// unchanged when no predictor is set.
func Unpredict(data []byte, params Params) ([]byte, error) {
	predictor := params.Int("Predictor", PredictorNone)
	if predictor == PredictorNone {
		return data, nil
	}

	g := geometryOf(params)
	if g.colors < 1 || g.columns < 1 {
		return nil, fmt.Errorf("predictor: invalid geometry colors=%d columns=%d", g.colors, g.columns)
	}
	switch g.bpc {
	case 1, 2, 4, 8, 16:
	default:
		return nil, fmt.Errorf("predictor: invalid BitsPerComponent %d", g.bpc)
	}
	if g.colors > 32 || g.columns > maxRowBits/(g.colors*g.bpc) {
		return nil, fmt.Errorf("predictor: row of %d columns by %d colors is too large", g.columns, g.colors)
	}

	switch {
	case predictor == PredictorTIFF:
		return unpredictTIFF(data, g)
	case predictor >= PredictorPNGNone && predictor <= PredictorPNGOptimum:
		return unpredictPNG(data, g)
	}
	return nil, fmt.Errorf("predictor: unsupported value %d", predictor)
}

// unpredictPNG undoes per-row PNG filtering. A short final row is decoded as
// far as it goes.
func unpredictPNG(data []byte, g rowGeometry) ([]byte, error) {
	rowLen := g.rowBytes()
	bpp := g.pixelBytes()
	// a row longer than the data can only be a short final row, and its
	// decoded bytes do not depend on the missing tail
	rowLen = min(rowLen, len(data))

	out := make([]byte, 0, len(data)/(rowLen+1)*rowLen)
	prev := make([]byte, rowLen)
	cur := make([]byte, rowLen)

	for row := 0; len(data) > 0; row++ {
		tag := data[0]
		n := min(rowLen, len(data)-1)
		clear(cur)
		copy(cur, data[1:1+n])
		data = data[1+n:]

		switch tag {
		case 0:
		case 1: // Sub
			for i := bpp; i < rowLen; i++ {
				cur[i] += cur[i-bpp]
			}
		case 2: // Up
			for i := range cur {
				cur[i] += prev[i]
			}
		case 3: // Average
			for i := range cur {
				var left int
				if i >= bpp {
					left = int(cur[i-bpp])
				}
				cur[i] += byte((left + int(prev[i])) / 2)
			}
		case 4: // Paeth
			for i := range cur {
				var left, upLeft byte
				if i >= bpp {
					left = cur[i-bpp]
					upLeft = prev[i-bpp]
				}
				cur[i] += paeth(left, prev[i], upLeft)
			}
		default:
			return nil, fmt.Errorf("predictor: unknown PNG row filter %d in row %d", tag, row)
		}

		out = append(out, cur[:n]...)
		prev, cur = cur, prev
	}
	return out, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// unpredictTIFF undoes TIFF predictor 2, where each component is stored as
// the difference from the same component of the pixel to its left.
func unpredictTIFF(data []byte, g rowGeometry) ([]byte, error) {
	rowLen := g.rowBytes()
	if rowLen == 0 || len(data)%rowLen != 0 {
		return nil, fmt.Errorf("predictor: %d bytes is not a whole number of %d-byte rows", len(data), rowLen)
	}

	out := make([]byte, len(data))
	copy(out, data)

	for start := 0; start < len(out); start += rowLen {
		row := out[start : start+rowLen]
		switch g.bpc {
		case 8:
			for i := g.colors; i < len(row); i++ {
				row[i] += row[i-g.colors]
			}
		case 16:
			step := 2 * g.colors
			for i := step; i+1 < len(row); i += 2 {
				v := uint16(row[i])<<8 | uint16(row[i+1])
				left := uint16(row[i-step])<<8 | uint16(row[i-step+1])
				v += left
				row[i], row[i+1] = byte(v>>8), byte(v)
			}
		default:
			unpredictTIFFBits(row, g)
		}
	}
	return out, nil
}

// unpredictTIFFBits handles components narrower than a byte.
func unpredictTIFFBits(row []byte, g rowGeometry) {
	mask := 1<<g.bpc - 1
	get := func(i int) int {
		bit := i * g.bpc
		shift := 8 - g.bpc - bit%8
		return int(row[bit/8]>>shift) & mask
	}
	set := func(i, v int) {
		bit := i * g.bpc
		shift := 8 - g.bpc - bit%8
		row[bit/8] = row[bit/8]&^byte(mask<<shift) | byte((v&mask)<<shift)
	}

	samples := g.columns * g.colors
	for i := g.colors; i < samples; i++ {
		set(i, get(i)+get(i-g.colors))
	}
}
