// Package pages flattens the PDF page tree into an ordered list of pages.
//
// # Page Tree
//
// [PageTree] walks the tree below the catalog's /Pages node on first use:
//
//	tree := pages.NewPageTree(root, resolver, pages.WithPageLabels(catalog.PageLabels()))
//	count, _ := tree.Count()
//	page, _ := tree.GetPage(0) // 0-indexed
//
// # Pages
//
// A [Page] knows its position ([Page.Index]) and its label ([Page.Label]).
// Inheritable attributes such as /Resources and /MediaBox are looked up
// through every ancestor node with [Page.Inherited].
//
// # Page Labels
//
// When the catalog has a /PageLabels number tree, pages are labelled with
// its styles: decimal (D), upper and lower roman (R, r) and upper and lower
// letters (A, a), each with an optional prefix and start value. Prefixes
// are text strings and are decoded with [DecodeText]. Without labels, a
// page's label is its 1-based page number.
package pages
