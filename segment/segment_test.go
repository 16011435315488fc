package segment

import (
	"image"
	"testing"
)

// makeGray builds a white grayscale image with the given dark row ranges
// (inclusive start, exclusive end) filled black across the full width.
func makeGray(width, height int, darkRanges [][2]int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, width, height))
	for i := range g.Pix {
		g.Pix[i] = 255
	}
	for _, r := range darkRanges {
		for row := r[0]; row < r[1]; row++ {
			base := row * g.Stride
			for x := 0; x < width; x++ {
				g.Pix[base+x] = 0
			}
		}
	}
	return g
}

func TestLines_Empty(t *testing.T) {
	g := makeGray(100, 60, nil)
	blobs := Lines(g)
	if len(blobs) != 0 {
		t.Errorf("Expected no blobs on a blank image, got %d", len(blobs))
	}
}

func TestLines_TwoBands(t *testing.T) {
	g := makeGray(100, 60, [][2]int{{10, 26}, {40, 56}})
	blobs := Lines(g)

	if len(blobs) != 2 {
		t.Fatalf("Expected 2 blobs, got %d: %+v", len(blobs), blobs)
	}
	if blobs[0].StartRow != 10 || blobs[0].Height != 16 {
		t.Errorf("Blob 0: expected {10 16}, got %+v", blobs[0])
	}
	if blobs[1].StartRow != 40 || blobs[1].Height != 16 {
		t.Errorf("Blob 1: expected {40 16}, got %+v", blobs[1])
	}
}

func TestLines_MinHeightFiltersNoise(t *testing.T) {
	// A 4-row band is a horizontal rule or noise, not a text line.
	g := makeGray(100, 60, [][2]int{{10, 26}, {30, 34}})
	blobs := Lines(g)

	if len(blobs) != 1 {
		t.Fatalf("Expected thin band filtered out, got %d blobs: %+v", len(blobs), blobs)
	}
	if blobs[0].StartRow != 10 {
		t.Errorf("Expected surviving blob at row 10, got %+v", blobs[0])
	}
}

func TestLines_BandTouchingBottom(t *testing.T) {
	g := makeGray(100, 60, [][2]int{{48, 60}})
	blobs := Lines(g)

	if len(blobs) != 1 {
		t.Fatalf("Expected 1 blob, got %d", len(blobs))
	}
	if blobs[0].StartRow != 48 || blobs[0].Height != 12 {
		t.Errorf("Expected {48 12}, got %+v", blobs[0])
	}
}

// Blobs must be strictly ordered by ascending start row and never overlap,
// regardless of input.
func TestLines_OrderedAndDisjoint(t *testing.T) {
	g := makeGray(200, 300, [][2]int{{5, 20}, {30, 45}, {60, 80}, {100, 140}, {200, 280}})
	blobs := Lines(g)

	if len(blobs) != 5 {
		t.Fatalf("Expected 5 blobs, got %d", len(blobs))
	}
	for i := 1; i < len(blobs); i++ {
		if blobs[i].StartRow <= blobs[i-1].StartRow {
			t.Errorf("Blobs not strictly ordered at %d: %+v then %+v", i, blobs[i-1], blobs[i])
		}
		if blobs[i].StartRow < blobs[i-1].EndRow() {
			t.Errorf("Blobs overlap at %d: %+v then %+v", i, blobs[i-1], blobs[i])
		}
	}
}

func TestLinesWith_DensityThreshold(t *testing.T) {
	// Only a few dark samples per row: below MinRowDensity, no blob.
	g := makeGray(100, 60, nil)
	for row := 10; row < 30; row++ {
		g.Pix[row*g.Stride] = 0 // single dark sample per row
	}

	opts := DefaultOptions()
	opts.MinRowDensity = 2
	if blobs := LinesWith(g, opts); len(blobs) != 0 {
		t.Errorf("Expected sparse rows below density threshold to yield no blobs, got %+v", blobs)
	}

	opts.MinRowDensity = 1
	if blobs := LinesWith(g, opts); len(blobs) != 1 {
		t.Errorf("Expected 1 blob with lowered threshold, got %+v", blobs)
	}
}
