// Command pdftoroff is the non-interactive batch counterpart to
// cmd/hovacui: it runs pdftext.Extract over every page of a document
// and writes the formatted result to stdout, the same job the
// original ships as a standalone tool (_examples/original_source/
// pdftoroff.c) alongside the windowed viewer. Supplemented from the
// original beyond spec.md's distillation — see SPEC_FULL.md §6.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/wudi/hovacui/pdf/native"
	"github.com/wudi/hovacui/pdftext"
)

type options struct {
	pdfPath  string
	password string
	method   pdftext.Method
	format   pdftext.Format
	measure  pdftext.Measure
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdftoroff: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "pdftoroff: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: pdftoroff [flags] <pdf>\n")
		flag.PrintDefaults()
	}
	format := flag.String("format", "roff", "Output format: roff, html, tex, text")
	method := flag.String("method", "blocks", "Text-area method: page, bbox, blocks")
	password := flag.String("password", "", "Password to open encrypted PDFs")
	distance := flag.Float64("distance", pdftext.DefaultMeasure.BlockDistance, "Text-area block distance threshold (negative: adaptive)")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing pdf path")
	}

	f, ok := formatByName(*format)
	if !ok {
		return options{}, fmt.Errorf("unknown format %q", *format)
	}
	m, ok := methodByName(*method)
	if !ok {
		return options{}, fmt.Errorf("unknown method %q", *method)
	}
	measure := pdftext.DefaultMeasure
	measure.BlockDistance = *distance

	opts.pdfPath = flag.Arg(0)
	opts.password = *password
	opts.format = f
	opts.method = m
	opts.measure = measure
	return opts, nil
}

func formatByName(name string) (pdftext.Format, bool) {
	switch name {
	case "roff":
		return pdftext.FormatRoff, true
	case "html":
		return pdftext.FormatHTML, true
	case "tex":
		return pdftext.FormatTeX, true
	case "text":
		return pdftext.FormatPlain, true
	}
	return pdftext.Format{}, false
}

func methodByName(name string) (pdftext.Method, bool) {
	switch name {
	case "page":
		return pdftext.MethodPage, true
	case "bbox":
		return pdftext.MethodBBox, true
	case "blocks":
		return pdftext.MethodBlocks, true
	}
	return 0, false
}

func run(opts options, out *os.File) error {
	ctx := context.Background()
	f, err := os.Open(opts.pdfPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", opts.pdfPath, err)
	}
	defer f.Close()

	doc, err := native.Open(ctx, f, opts.password, nil)
	if err != nil {
		return fmt.Errorf("parse %s: %w", opts.pdfPath, err)
	}
	defer doc.Close()

	for i := 0; i < doc.PageCount(); i++ {
		page, err := doc.Page(i)
		if err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}
		text, err := pdftext.Extract(ctx, page, opts.method, opts.measure, opts.format)
		if err != nil {
			return fmt.Errorf("extract page %d: %w", i, err)
		}
		if _, err := fmt.Fprint(out, text); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}
