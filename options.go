package labelscan

import (
	"github.com/rs/zerolog"

	"github.com/shipdeck/labelscan/ocr"
)

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the extractor's logger. The default discards all output.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Extractor) { e.log = l }
}

// WithPool injects a shared OCR worker pool. Extractors that should share
// one engine (e.g. across a batch split) must share one pool. Passing a
// pool with a fake engine factory is also how tests exercise the OCR
// paths without Tesseract.
func WithPool(p *ocr.Pool) Option {
	return func(e *Extractor) { e.pool = p }
}

// WithRenderer replaces the external-process rasterizer.
func WithRenderer(r Renderer) Option {
	return func(e *Extractor) { e.renderer = r }
}

// WithTextExtractor replaces the native text layer extractor.
func WithTextExtractor(fn TextExtractor) Option {
	return func(e *Extractor) { e.extractText = fn }
}

// WithTempDir sets the parent directory for per-document scratch
// directories. Empty means the system temp dir.
func WithTempDir(dir string) Option {
	return func(e *Extractor) { e.tempRoot = dir }
}
