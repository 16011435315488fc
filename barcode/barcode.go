// Package barcode decodes one-dimensional barcodes from label rasters.
//
// Shipping labels print the AWB as a 1D barcode (Code128 on most Indian
// couriers, ITF on some older formats). When the text strategies cannot
// find a dedup key, decoding the barcode directly from pixels recovers
// exactly the barcode-backed tracking number the priority order prefers.
package barcode

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
)

// ErrNotFound is returned when no reader could decode a barcode.
var ErrNotFound = errors.New("barcode: no decodable barcode found")

// Decode scans img for a 1D barcode and returns its payload. Readers are
// tried in order of how common each symbology is on courier labels.
func Decode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("barcode: build bitmap: %w", err)
	}

	readers := []gozxing.Reader{
		oned.NewCode128Reader(),
		oned.NewITFReader(),
		oned.NewCode39Reader(),
	}

	for _, r := range readers {
		result, err := r.Decode(bmp, nil)
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(result.GetText()); text != "" {
			return text, nil
		}
	}
	return "", ErrNotFound
}
