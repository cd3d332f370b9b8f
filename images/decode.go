package images

// Classify builds the record for an XObject. Objects that are not image
// streams give a nil record and a nil error. An image whose data cannot be
// decoded gives an *ImageError wrapping ErrStreamDecodeFailed.
func Classify(name string, obj Ref) (*Record, error) {
	s := obj.Stream()
	if s == nil || s.Dict == nil {
		return nil, nil
	}
	// a missing or non-name /Subtype, direct or behind a reference, is not an image
	if subtype, _ := obj.Get("Subtype").Name(); subtype != "Image" {
		return nil, nil
	}

	rec := &Record{
		Name:        name,
		ColorSpaces: obj.Get("ColorSpace").Names(),
		Filters:     obj.Get("Filter").Names(),
	}
	rec.Width, _ = obj.Get("Width").Int()
	rec.Height, _ = obj.Get("Height").Int()
	rec.BitsPerComponent, _ = obj.Get("BitsPerComponent").Int()
	rec.ImageMask, _ = obj.Get("ImageMask").Bool()

	data, format, err := obj.Decode()
	if err != nil {
		return nil, &ImageError{Name: name, Err: ErrStreamDecodeFailed, Cause: err}
	}
	rec.Data = data
	rec.Format = format
	return rec, nil
}
