package labelscan

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/png" // raster renders are decoded from PNG

	"github.com/rs/zerolog"

	"github.com/shipdeck/labelscan/barcode"
	"github.com/shipdeck/labelscan/fields"
	"github.com/shipdeck/labelscan/ocr"
	"github.com/shipdeck/labelscan/pdftext"
	"github.com/shipdeck/labelscan/region"
	"github.com/shipdeck/labelscan/render"
	"github.com/shipdeck/labelscan/segment"
)

const (
	// minNativeTextLen is the text-layer length below which a document is
	// treated as image-only and extraction falls back to full-page OCR.
	minNativeTextLen = 40

	// minOCRTextLen is the minimum usable length of a full-page OCR text
	// surrogate.
	minOCRTextLen = 20

	// renderScalePx is the target pixel size of the longer page edge when
	// rasterizing for segmentation and targeted OCR.
	renderScalePx = 6000

	// fullPageOCREdge caps the raster size fed to whole-page recognition.
	fullPageOCREdge = 3000

	// topBandHeightPct is the top-of-page band used for the final
	// courier-only OCR attempt.
	topBandHeightPct = 18.0

	// blobPadRows pads each segmented line blob before recognition so
	// ascenders and descenders clipped by thresholding are kept.
	blobPadRows = 6

	ocrLanguage = "eng"
)

// Renderer rasterizes page 1 of a PDF into a directory and returns the
// path of the image it produced. Implemented by render.Renderer.
type Renderer interface {
	Page(ctx context.Context, pdfPath, outDir string, scaleTo int) (string, error)
}

// TextExtractor pulls the native text layer of a PDF.
type TextExtractor func(path string) (string, error)

// Extractor is the extraction pipeline orchestrator. It is safe for
// concurrent use; concurrent calls share only the OCR worker pool, which
// serializes its own bookkeeping.
type Extractor struct {
	log         zerolog.Logger
	pool        *ocr.Pool
	renderer    Renderer
	extractText TextExtractor
	tempRoot    string
}

// New creates an Extractor. Without options it renders via pdftoppm,
// reads text layers via pdftext, and builds Tesseract engines on demand.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		log:         zerolog.Nop(),
		renderer:    &render.Renderer{},
		extractText: pdftext.Extract,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pool == nil {
		e.pool = ocr.NewPool(func() (ocr.Engine, error) {
			return ocr.NewEngine(ocrLanguage)
		}, ocr.WithLogger(e.log))
	}
	return e
}

// Pool returns the extractor's OCR worker pool, so batch callers can share
// it or shut it down at process exit.
func (e *Extractor) Pool() *ocr.Pool { return e.pool }

// document tracks per-call state: the source path, the scratch directory,
// and the lazily produced raster. The raster is rendered and decoded at
// most once per call and never shared across calls.
type document struct {
	path   string
	tmpDir string

	rendered bool
	img      image.Image
	imgErr   error
}

// Extract runs the full pipeline on a single-page label PDF.
//
// The only fatal outcome is an unreadable source PDF, reported as
// ErrDocumentRead. Every other failure leaves the affected field empty on
// a successful result. All temporary files are removed before Extract
// returns, on every path.
func (e *Extractor) Extract(ctx context.Context, pdfPath string) (*ExtractionResult, error) {
	info, err := os.Stat(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentRead, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrDocumentRead, pdfPath)
	}

	tmpDir, err := os.MkdirTemp(e.tempRoot, "labelscan-")
	if err != nil {
		return nil, fmt.Errorf("labelscan: create scratch dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	return e.run(ctx, &document{path: pdfPath, tmpDir: tmpDir})
}

func (e *Extractor) run(ctx context.Context, doc *document) (*ExtractionResult, error) {
	log := e.log.With().Str("pdf", filepath.Base(doc.path)).Logger()
	res := &ExtractionResult{Products: []ProductLine{}}

	// Stage 1: native text attempt.
	native, nativeErr := e.extractText(doc.path)
	if nativeErr != nil {
		log.Debug().Err(nativeErr).Msg("native text layer unavailable")
		native = ""
	}
	text := strings.TrimSpace(native)

	// Stage 2: OCR fallback for image-only documents. The recovered text
	// stands in for the native layer in all subsequent field extraction.
	if len(text) < minNativeTextLen {
		log.Debug().Int("chars", len(text)).Msg("text layer below threshold, trying full-page OCR")
		ocrText, err := e.fullPageOCR(ctx, doc)
		switch {
		case err == nil && len(strings.TrimSpace(ocrText)) >= minOCRTextLen:
			text = strings.TrimSpace(ocrText)
		case err != nil:
			log.Warn().Err(err).Msg("full-page OCR failed")
			if nativeErr != nil {
				// Neither the text layer nor the pixels are readable.
				return nil, fmt.Errorf("%w: %v", ErrDocumentRead, nativeErr)
			}
		}
	}
	in := fields.NewInput(text)

	// Stage 3: courier resolution, with a top-of-page OCR as last resort.
	if courier, strategy, ok := fields.First(in, fields.CourierChain()); ok {
		res.CourierName = courier
		log.Debug().Str("courier", courier).Str("strategy", strategy).Msg("courier resolved")
	} else if courier, ok := e.courierFromTopBand(ctx, doc); ok {
		res.CourierName = courier
		log.Debug().Str("courier", courier).Str("strategy", "top-band-ocr").Msg("courier resolved")
	}

	profile := fields.ProfileFor(res.CourierName)

	// Stage 4: format override. Formats known to print unreliable text
	// layers go straight to pixel segmentation, and that result wins.
	if profile.SegmentationFirst {
		items, err := e.productsFromBand(ctx, doc, profile.Band)
		if err != nil {
			log.Warn().Err(err).Msg("segmentation pass failed")
		} else if len(items) > 0 {
			res.Products = items
			log.Debug().Int("products", len(items)).Str("strategy", "band-segmentation").Msg("products extracted")
		}
	}

	// Stage 5: generic product table extraction.
	if len(res.Products) == 0 {
		if items, strategy, ok := fields.First(in, fields.ProductChain()); ok {
			res.Products = items
			log.Debug().Int("products", len(items)).Str("strategy", strategy).Msg("products extracted")
		}
	}

	// Stage 6: order number resolution, independent of the stages above.
	if num, strategy, ok := fields.First(in, fields.OrderNumberChain()); ok {
		res.OrderNumber = num
		log.Debug().Str("strategy", strategy).Msg("order number resolved")
	} else if num, ok := e.orderNumberFromBarcode(ctx, doc); ok {
		res.OrderNumber = num
		log.Debug().Str("strategy", "barcode").Msg("order number resolved")
	}

	return res, nil
}

// raster renders and decodes page 1 at most once per document. The result
// (or the failure) is cached so the full-page OCR, top-band, segmentation,
// and barcode passes all reuse one render.
func (e *Extractor) raster(ctx context.Context, doc *document) (image.Image, error) {
	if doc.rendered {
		return doc.img, doc.imgErr
	}
	doc.rendered = true

	path, err := e.renderer.Page(ctx, doc.path, doc.tmpDir, renderScalePx)
	if err != nil {
		doc.imgErr = err
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		doc.imgErr = fmt.Errorf("open raster: %w", err)
		return nil, doc.imgErr
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		doc.imgErr = fmt.Errorf("decode raster: %w", err)
		return nil, doc.imgErr
	}
	doc.img = img
	return img, nil
}

func (e *Extractor) fullPageOCR(ctx context.Context, doc *document) (string, error) {
	img, err := e.raster(ctx, doc)
	if err != nil {
		return "", err
	}
	buf, err := region.EncodePNG(region.Shrink(img, fullPageOCREdge))
	if err != nil {
		return "", err
	}

	lease, err := e.pool.Acquire()
	if err != nil {
		return "", err
	}
	defer lease.Release()
	return lease.Recognize(buf)
}

// courierFromTopBand crops the top of the page and re-runs the courier
// name table against its OCR output. Any failure counts as unresolved.
func (e *Extractor) courierFromTopBand(ctx context.Context, doc *document) (string, bool) {
	img, err := e.raster(ctx, doc)
	if err != nil {
		return "", false
	}
	crop, err := region.Crop(img, region.Bounds{Left: 0, Top: 0, Width: 100, Height: topBandHeightPct})
	if err != nil {
		return "", false
	}
	buf, err := region.EncodePNG(crop)
	if err != nil {
		return "", false
	}

	lease, err := e.pool.Acquire()
	if err != nil {
		e.log.Warn().Err(err).Msg("ocr unavailable for top-band courier pass")
		return "", false
	}
	defer lease.Release()

	text, err := lease.Recognize(buf)
	if err != nil {
		e.log.Warn().Err(err).Msg("top-band recognition failed")
		return "", false
	}
	return fields.MatchCourier(text)
}

// productsFromBand runs the segmentation+OCR pipeline over a vertical page
// band: split the band into line blobs, recognize each blob independently,
// find the "Item description" header blob, then parse the blobs adjacent
// to it as item rows.
func (e *Extractor) productsFromBand(ctx context.Context, doc *document, band region.Bounds) ([]ProductLine, error) {
	img, err := e.raster(ctx, doc)
	if err != nil {
		return nil, err
	}
	crop, err := region.Crop(img, band)
	if err != nil {
		if errors.Is(err, region.ErrInvalidRegion) {
			return nil, nil // no data in this region
		}
		return nil, err
	}

	blobs := segment.Lines(region.Grayscale(crop))
	if len(blobs) == 0 {
		return nil, nil
	}

	lease, err := e.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer lease.Release()

	var items []ProductLine
	seenHeader := false
	for _, b := range blobs {
		line, err := e.recognizeBlob(lease, crop, b)
		if err != nil {
			e.log.Warn().Err(err).Int("row", b.StartRow).Msg("blob recognition failed")
			continue
		}
		if !seenHeader {
			seenHeader = fields.IsItemHeader(line)
			continue
		}
		item, ok := fields.ParseItemRow(line)
		if !ok {
			if len(items) > 0 {
				break // past the table body
			}
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// recognizeBlob crops one padded line blob out of the band and recognizes
// it in isolation.
func (e *Extractor) recognizeBlob(lease *ocr.Lease, bandImg image.Image, b segment.Blob) (string, error) {
	h := bandImg.Bounds().Dy()
	top := b.StartRow - blobPadRows
	if top < 0 {
		top = 0
	}
	bottom := b.EndRow() + blobPadRows
	if bottom > h {
		bottom = h
	}

	bounds := region.Bounds{
		Left:   0,
		Top:    float64(top) / float64(h) * 100,
		Width:  100,
		Height: float64(bottom-top) / float64(h) * 100,
	}
	crop, err := region.Crop(bandImg, bounds)
	if err != nil {
		return "", err
	}
	buf, err := region.EncodePNG(crop)
	if err != nil {
		return "", err
	}
	return lease.Recognize(buf)
}

// orderNumberFromBarcode decodes the label's 1D barcode as a final dedup
// key source. Barcode payloads are the tracking numbers the priority
// order prefers, just read from pixels instead of text.
func (e *Extractor) orderNumberFromBarcode(ctx context.Context, doc *document) (string, bool) {
	img, err := e.raster(ctx, doc)
	if err != nil {
		return "", false
	}
	payload, err := barcode.Decode(img)
	if err != nil {
		if !errors.Is(err, barcode.ErrNotFound) {
			e.log.Debug().Err(err).Msg("barcode pass failed")
		}
		return "", false
	}
	payload = strings.ReplaceAll(payload, " ", "")
	if len(payload) < 8 {
		return "", false
	}
	return payload, true
}
