//go:build !ocr

package ocr

import "errors"

// ErrNotEnabled is returned when recognition is requested but OCR support
// was not compiled in. Rebuild with -tags ocr to enable it.
var ErrNotEnabled = errors.New("ocr: support not enabled; rebuild with -tags ocr")

// NewEngine returns ErrNotEnabled when built without the "ocr" tag.
// Extraction still works for documents with a usable native text layer;
// only the OCR fallback paths are unavailable.
func NewEngine(language string) (Engine, error) {
	return nil, ErrNotEnabled
}
