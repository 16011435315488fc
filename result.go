package labelscan

import "github.com/shipdeck/labelscan/fields"

// ProductLine is one recognized product row on a label.
type ProductLine = fields.ProductLine

// ExtractionResult is the pipeline's sole output contract. Fields the
// pipeline could not identify are empty, never missing: ambiguity is
// represented as data, not as failure.
type ExtractionResult struct {
	// CourierName is the resolved logistics vendor, or "" if no strategy
	// could identify one.
	CourierName string `json:"courierName"`

	// BrandName is reserved for the seller brand column. Brand
	// resolution is currently disabled and the field is always empty.
	BrandName string `json:"brandName"`

	// Products lists recognized product rows in label order. Never nil;
	// a label with no recognizable products yields an empty slice.
	Products []ProductLine `json:"products"`

	// OrderNumber is the dedup key (AWB, tracking number, or order ID),
	// or "" if unresolved.
	OrderNumber string `json:"orderNumber"`
}

// PageResult pairs one page of a split manifest with its extraction
// outcome. Pages fail independently; Error carries a page-level failure
// without blocking sibling pages.
type PageResult struct {
	PageNumber int               `json:"pageNumber"`
	FilePath   string            `json:"filePath"`
	Filename   string            `json:"filename"`
	Result     *ExtractionResult `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
}
