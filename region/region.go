// Package region extracts sub-rectangles of raster images by percentage
// bounds and prepares them for density analysis or as OCR input.
package region

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/sunshineplan/imgconv"
	xdraw "golang.org/x/image/draw"
)

// ErrInvalidRegion is returned when a crop request resolves to zero or
// negative pixel dimensions after clamping.
var ErrInvalidRegion = errors.New("region: crop resolves to empty area")

// Bounds describes a crop rectangle as percentages of the source image,
// each in the range 0-100.
type Bounds struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// FullPage covers the entire source image.
var FullPage = Bounds{Left: 0, Top: 0, Width: 100, Height: 100}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Crop returns a copy of the sub-rectangle of img described by b.
// Bounds are clamped to the image dimensions before cropping.
func Crop(img image.Image, b Bounds) (image.Image, error) {
	r := img.Bounds()
	w := float64(r.Dx())
	h := float64(r.Dy())

	left := clampPct(b.Left)
	top := clampPct(b.Top)
	width := clampPct(b.Width)
	height := clampPct(b.Height)

	x0 := r.Min.X + int(w*left/100)
	y0 := r.Min.Y + int(h*top/100)
	cw := int(w * width / 100)
	ch := int(h * height / 100)

	if x0+cw > r.Max.X {
		cw = r.Max.X - x0
	}
	if y0+ch > r.Max.Y {
		ch = r.Max.Y - y0
	}
	if cw <= 0 || ch <= 0 {
		return nil, ErrInvalidRegion
	}

	dst := image.NewRGBA(image.Rect(0, 0, cw, ch))
	xdraw.Copy(dst, image.Point{}, img, image.Rect(x0, y0, x0+cw, y0+ch), xdraw.Src, nil)
	return dst, nil
}

// Grayscale converts img to an 8-bit grayscale buffer. The returned
// image.Gray exposes raw pixels via Pix and the row stride via Stride,
// which is what the line segmenter consumes.
func Grayscale(img image.Image) *image.Gray {
	r := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	xdraw.Copy(dst, image.Point{}, img, r, xdraw.Src, nil)
	return dst
}

// EncodePNG encodes img into a PNG buffer suitable as OCR input.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imgconv.Write(&buf, img, &imgconv.FormatOption{Format: imgconv.PNG}); err != nil {
		return nil, fmt.Errorf("region: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Shrink downscales img so its longer edge does not exceed maxEdge.
// Images already within the limit are returned unchanged. OCR engines get
// slower and no more accurate past a certain input size, so full-page
// recognition runs on a shrunk copy while targeted crops stay full size.
func Shrink(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	longer := b.Dx()
	if b.Dy() > longer {
		longer = b.Dy()
	}
	if maxEdge <= 0 || longer <= maxEdge {
		return img
	}
	scale := float64(maxEdge) / float64(longer)
	return imgconv.Resize(img, &imgconv.ResizeOption{
		Width:  int(float64(b.Dx()) * scale),
		Height: int(float64(b.Dy()) * scale),
	})
}
