// Package segment partitions a grayscale image region into candidate text
// lines using per-row dark-pixel density analysis.
//
// OCR engines are slow and most reliable on small, tightly cropped
// single-line inputs. Segmenting a region into lines first and recognizing
// each line independently is far more accurate than recognizing a full
// paragraph region, at the cost of one extra image pass.
package segment

import "image"

// Blob is a contiguous vertical band of rows identified as a likely line of
// text. StartRow and Height are in pixels relative to the analyzed region.
type Blob struct {
	StartRow int
	Height   int
}

// EndRow returns the first row below the blob.
func (b Blob) EndRow() int { return b.StartRow + b.Height }

// Options control the density analysis.
type Options struct {
	// SampleStride samples every Nth pixel per row, bounding cost on very
	// wide images.
	SampleStride int

	// DarkThreshold is the luminance (0-255) below which a pixel counts
	// as dark.
	DarkThreshold int

	// MinRowDensity is the number of dark samples a row needs to be
	// considered part of a text line.
	MinRowDensity int

	// MinBlobHeight filters out noise and horizontal rules; blobs must be
	// strictly taller than this to be kept.
	MinBlobHeight int
}

// DefaultOptions returns the thresholds tuned against courier label scans
// rendered at the pipeline's default resolution.
func DefaultOptions() Options {
	return Options{
		SampleStride:  10,
		DarkThreshold: 200,
		MinRowDensity: 2,
		MinBlobHeight: 8,
	}
}

// Lines analyzes g with DefaultOptions.
func Lines(g *image.Gray) []Blob {
	return LinesWith(g, DefaultOptions())
}

// LinesWith walks the per-row density profile of g top to bottom and returns
// the retained blobs ordered by ascending start row. Blobs never overlap: a
// blob opens when row density reaches MinRowDensity and closes on the first
// row that drops below it.
func LinesWith(g *image.Gray, o Options) []Blob {
	if o.SampleStride <= 0 {
		o.SampleStride = 1
	}

	density := rowDensity(g, o)

	var blobs []Blob
	open := false
	start := 0
	for row, d := range density {
		if !open && d >= o.MinRowDensity {
			open = true
			start = row
			continue
		}
		if open && d < o.MinRowDensity {
			open = false
			if h := row - start; h > o.MinBlobHeight {
				blobs = append(blobs, Blob{StartRow: start, Height: h})
			}
		}
	}
	if open {
		if h := len(density) - start; h > o.MinBlobHeight {
			blobs = append(blobs, Blob{StartRow: start, Height: h})
		}
	}
	return blobs
}

// rowDensity counts dark samples per row, visiting every SampleStride-th
// pixel directly through the Pix buffer.
func rowDensity(g *image.Gray, o Options) []int {
	h := g.Rect.Dy()
	w := g.Rect.Dx()
	density := make([]int, h)
	for row := 0; row < h; row++ {
		base := row * g.Stride
		count := 0
		for x := 0; x < w; x += o.SampleStride {
			if int(g.Pix[base+x]) < o.DarkThreshold {
				count++
			}
		}
		density[row] = count
	}
	return density
}
