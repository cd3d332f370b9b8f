// Package reader opens PDF files and resolves their objects and pages.
//
// # Opening PDF Files
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
// [NewReader] reads from any io.ReaderAt, such as a bytes.Reader.
//
// Files with classic xref tables, cross-reference streams, object streams
// and incremental updates are supported. Encrypted files are rejected with
// [ErrEncrypted].
//
// # Pages
//
//	n, _ := r.PageCount()
//	page, _ := r.GetPage(0) // first page
//
// # Object Resolution
//
//   - GetObject(objNum) loads an object by number
//   - Resolve(obj) follows indirect references
//   - ResolveDeep(obj) expands every nested reference
//
// Loaded objects are cached for the lifetime of the Reader.
package reader
