// Package labelscan extracts structured shipment metadata from scanned or
// rendered courier shipping-label PDFs: courier identity, product line
// items, and a unique dedup key (order/AWB number).
//
// Labels vary wildly in layout, font, and scan quality, and many carry no
// machine-readable text layer at all, so extraction degrades gracefully:
// native text layer first, then whole-page optical recognition, then
// targeted pixel-region recognition with layout-aware line segmentation.
//
// Basic usage:
//
//	result, err := labelscan.ExtractLabelMetadata(ctx, "label.pdf")
//	if err != nil {
//	    // the PDF could not be read at all
//	}
//	fmt.Println(result.CourierName, result.OrderNumber)
//
// Fields the pipeline cannot identify come back empty on a successful
// result; only an unreadable source PDF is an error.
//
// Full OCR support requires Tesseract and the "ocr" build tag (see the
// ocr sub-package); without it, extraction still works for labels with a
// usable native text layer.
package labelscan

import (
	"context"
	"sync"
)

var (
	defaultOnce sync.Once
	defaultExt  *Extractor
)

// defaultExtractor is shared so all package-level calls amortize one OCR
// engine through a single pool.
func defaultExtractor() *Extractor {
	defaultOnce.Do(func() {
		defaultExt = New()
	})
	return defaultExt
}

// ExtractLabelMetadata runs the full extraction pipeline on a single-page
// label PDF using a process-wide default Extractor.
func ExtractLabelMetadata(ctx context.Context, pdfPath string) (*ExtractionResult, error) {
	return defaultExtractor().Extract(ctx, pdfPath)
}

// SplitAndExtract splits a multi-page manifest PDF into single-page files
// under outputDir and extracts each page independently using the
// process-wide default Extractor.
func SplitAndExtract(ctx context.Context, pdfPath, outputDir string) ([]PageResult, error) {
	return defaultExtractor().SplitAndExtract(ctx, pdfPath, outputDir)
}
