// Package images finds the raster images placed on the pages of a PDF
// document and recovers their encoded bytes.
//
// For every page, the page's resource dictionary is resolved (following
// page tree inheritance) and each entry of its /XObject dictionary is
// examined. Entries whose /Subtype is /Image become a [Record]: the image's
// color spaces and filters, its data and the format that data is in.
//
// # Extracting Images
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	err = images.Extract(r, func(page string, rec *images.Record) {
//	    fmt.Printf("page %s: %s (%s)\n", page, rec.Name, rec.Format)
//	})
//
// Records are handed to the sink as soon as they are found, in page order.
// Within a page the order follows the XObject dictionary, which is
// unordered; [WithSortedNames] sorts by name instead.
//
// # Data Formats
//
// Image data passes through every filter of its chain except a final
// DCTDecode or JPXDecode. Such data is returned still compressed, tagged
// [FormatJPEG] or [FormatJPEG2000]; everything else is [FormatRaw], the
// decoded samples. Samples are never converted to an image file format.
//
// # Errors
//
// A page that cannot be read stops extraction with a [*PageError]. An image
// whose data cannot be decoded produces an [*ImageError], which goes to the
// error handler; the default handler logs it and extraction continues.
package images
