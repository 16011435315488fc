package labelscan

import "errors"

// ErrDocumentRead is the only document-fatal error: the source PDF cannot
// be read or parsed at all. Every other failure (rasterization, OCR,
// invalid crop regions) degrades to empty fields on a successful result.
var ErrDocumentRead = errors.New("labelscan: cannot read document")
