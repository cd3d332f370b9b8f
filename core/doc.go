// Package core implements the PDF object model and the low-level file
// syntax: tokens, objects, cross-reference data and stream filters.
//
// # Object Types
//
// Every value of a document satisfies [Object]:
//
//   - [Null], [Bool], [Int], [Real], [String] and [Name]
//   - [Array] and [Dict], with non-panicking typed getters
//   - [Stream], a dictionary plus its encoded bytes
//   - [IndirectRef], a "num gen R" reference
//
// # Parsing
//
// [Lexer] splits input into tokens and [Parser] assembles objects, including
// "num gen obj" definitions and stream bodies. A stream whose /Length is an
// indirect reference is measured through a [ReferenceResolver].
//
// # Cross-Reference Data
//
// [XRefParser] reads classic xref tables and PDF 1.5 cross-reference
// streams, and [XRefParser.ParseAll] follows /Prev and /XRefStm so that
// incrementally updated and hybrid files resolve to their latest revision.
// Objects stored in object streams are read through [ObjectStream].
//
// # Stream Decoding
//
// [Stream.DecodeData] applies a stream's filters up to a DCTDecode or
// JPXDecode filter and reports the resulting [DataFormat]:
//
//	data, format, err := stream.DecodeData()
//	if format == core.FormatJPEG {
//	    // data is a complete JPEG file
//	}
//
// [Stream.Decode] requires the chain to decode completely.
package core
