// pdfimages saves the images embedded in a PDF file.
//
// JPEG and JPEG 2000 images are written as .jpg and .jp2 files. Other
// images are written as .raw files holding the decoded samples; use -list
// to see their dimensions and color spaces.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shubhrat1234/pdftoimage/images"
	"github.com/shubhrat1234/pdftoimage/reader"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(fs *flag.FlagSet, w io.Writer) func() {
	return func() {
		fmt.Fprintf(w, "Usage: pdfimages [options] <PDF-file> [<output-dir>]\n")
		fmt.Fprintf(w, "\nOptions:\n")
		fs.PrintDefaults()
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pdfimages", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(fs, stderr)

	firstPage := fs.Int("f", 1, "first page to scan")
	lastPage := fs.Int("l", 0, "last page to scan (0 for the last page)")
	list := fs.Bool("list", false, "list images instead of writing them")
	verbose := fs.Bool("v", false, "log every page scanned")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return 2
	}
	if *firstPage < 1 || (*lastPage != 0 && *lastPage < *firstPage) {
		fmt.Fprintf(stderr, "pdfimages: invalid page range %d-%d\n", *firstPage, *lastPage)
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	outDir := "."
	if fs.NArg() == 2 {
		outDir = fs.Arg(1)
	}

	doc, err := reader.Open(fs.Arg(0))
	if err != nil {
		logger.Error("opening document", "file", fs.Arg(0), "error", err)
		return 1
	}
	defer doc.Close()
	logger.Debug("opened document",
		"file", fs.Arg(0),
		"version", doc.Version().String(),
		"objects", doc.NumObjects(),
		"bytes", doc.FileSize())

	out := writeSink(outDir, logger)
	if *list {
		out = listSink(stdout)
	}

	opts := []images.Option{
		images.WithLogger(logger),
		images.WithSortedNames(),
		images.WithPageRange(*firstPage-1, *lastPage-1),
	}
	if err := images.Extract(doc, out.deliver, opts...); err != nil {
		logger.Error("extracting images", "file", fs.Arg(0), "error", err)
		return 1
	}

	if !*list {
		logger.Info("done", "written", out.written, "failed", out.failed)
	}
	return 0
}

type sink struct {
	deliver images.Sink
	written int
	failed  int
}

// writeSink saves every image into dir. A file that cannot be written is
// logged and skipped.
func writeSink(dir string, logger *slog.Logger) *sink {
	s := &sink{}
	s.deliver = func(page string, rec *images.Record) {
		path := filepath.Join(dir, fileName(page, rec))
		if err := os.WriteFile(path, rec.Data, 0o644); err != nil {
			logger.Error("writing image", "file", path, "error", err)
			s.failed++
			return
		}
		logger.Debug("wrote image", "file", path, "bytes", len(rec.Data))
		s.written++
	}
	return s
}

func listSink(w io.Writer) *sink {
	s := &sink{}
	fmt.Fprintf(w, "%-6s %-12s %-8s %6s %6s %3s  %-24s %s\n", "page", "name", "format", "width", "height", "bpc", "color", "filters")
	s.deliver = func(page string, rec *images.Record) {
		fmt.Fprintf(w, "%-6s %-12s %-8s %6d %6d %3d  %-24s %s\n",
			page, rec.Name, rec.Format, rec.Width, rec.Height, rec.BitsPerComponent,
			dashIfEmpty(rec.ColorSpaces), dashIfEmpty(rec.Filters))
		s.written++
	}
	return s
}

// fileName returns "Page <label> <name>.<ext>". Page labels are free text,
// so path separators in them are replaced.
func fileName(page string, rec *images.Record) string {
	name := fmt.Sprintf("Page %s %s.%s", page, rec.Name, rec.Format.Extension())
	return strings.NewReplacer("/", "_", "\\", "_").Replace(name)
}

func dashIfEmpty(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}
