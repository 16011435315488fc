// Command labelscan extracts shipment metadata from shipping-label PDFs
// and prints it as JSON.
//
//	labelscan label.pdf
//	labelscan -split -out pages manifest.pdf
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/shipdeck/labelscan"
)

type options struct {
	pdfPath string
	split   bool
	outDir  string
	verbose bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "labelscan: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "labelscan: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: labelscan [flags] <pdf>\n")
		flag.PrintDefaults()
	}
	flag.BoolVar(&opts.split, "split", false, "Treat the input as a multi-page manifest: split and extract every page")
	flag.StringVar(&opts.outDir, "out", "pages", "Directory for split single-page PDFs (with -split)")
	flag.BoolVar(&opts.verbose, "v", false, "Log pipeline stages to stderr")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("exactly one PDF path is required")
	}
	opts.pdfPath = flag.Arg(0)
	return opts, nil
}

func run(opts options) error {
	log := zerolog.Nop()
	if opts.verbose {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	ext := labelscan.New(labelscan.WithLogger(log))
	defer ext.Pool().Shutdown()

	ctx := context.Background()

	var out any
	if opts.split {
		results, err := ext.SplitAndExtract(ctx, opts.pdfPath, opts.outDir)
		if err != nil {
			return err
		}
		out = results
	} else {
		result, err := ext.Extract(ctx, opts.pdfPath)
		if err != nil {
			return err
		}
		out = result
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
