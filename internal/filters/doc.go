// Package filters implements the PDF stream decoding filters used for image
// data and object streams.
//
// # Filters
//
//   - [FlateDecode]: zlib, followed by an optional predictor
//   - [LZWDecode]: LZW with either EarlyChange convention, followed by an
//     optional predictor
//   - [ASCIIHexDecode] and [ASCII85Decode]: text encodings
//   - [RunLengthDecode]: byte-oriented run-length encoding
//   - [CCITTFaxDecode]: Group 3 and Group 4 fax, one bit per pixel
//
// DCT and JPX data are not decoded here; callers keep those bytes as
// JPEG and JPEG 2000 files.
//
// # Decode Parameters
//
// Filters take their /DecodeParms entries as a [Params] map:
//
//	params := filters.Params{
//	    "Predictor": 12,
//	    "Columns":   100,
//	    "Colors":    3,
//	}
//	decoded, err := filters.FlateDecode(data, params)
//
// [Unpredict] reverses TIFF predictor 2 and the PNG predictors for any
// component depth PDF allows.
package filters
