// Package pdftext extracts the native (embedded) text layer of a PDF
// without rasterization, rebuilding visual lines from fragment coordinates.
//
// Line reconstruction matters downstream: the courier header scan splits
// lines on wide whitespace gaps to separate a brand column from a courier
// column, so horizontal gaps between fragments must survive as multiple
// spaces instead of collapsing into one.
package pdftext

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// yTolerance groups fragments whose baselines differ by less than
	// this many points onto one visual line.
	yTolerance = 2.0

	// wordGapFactor times the font size is the horizontal gap that
	// separates two words.
	wordGapFactor = 0.25

	// columnGapFactor times the font size is the gap treated as a column
	// boundary and rendered as a wide separator.
	columnGapFactor = 2.5

	fallbackFontSize = 10.0
)

// Extract returns the text layer of all pages of the PDF at path, one
// reconstructed visual line per output line.
func Extract(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("pdftext: open %s: %w", path, err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, line := range assembleLines(p.Content().Text) {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// Lines is like Extract but returns the reconstructed lines directly.
func Lines(path string) ([]string, error) {
	text, err := Extract(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n"), nil
}

// assembleLines groups raw text fragments into visual lines: fragments are
// bucketed by baseline Y (within yTolerance), lines ordered top to bottom
// (descending Y, PDF origin is bottom-left), fragments within a line ordered
// left to right.
func assembleLines(texts []pdf.Text) []string {
	if len(texts) == 0 {
		return nil
	}

	type lineGroup struct {
		y     float64
		frags []pdf.Text
	}

	var groups []lineGroup
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		placed := false
		for i := range groups {
			if abs(groups[i].y-t.Y) < yTolerance {
				groups[i].frags = append(groups[i].frags, t)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, lineGroup{y: t.Y, frags: []pdf.Text{t}})
		}
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].y > groups[j].y })

	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		sort.Slice(g.frags, func(i, j int) bool { return g.frags[i].X < g.frags[j].X })
		if line := joinFragments(g.frags); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// joinFragments concatenates a line's fragments, turning small horizontal
// gaps into single spaces and column-sized gaps into wide separators.
func joinFragments(frags []pdf.Text) string {
	var b strings.Builder
	var cursor float64
	for i, f := range frags {
		if i > 0 {
			size := f.FontSize
			if size <= 0 {
				size = fallbackFontSize
			}
			gap := f.X - cursor
			switch {
			case gap > columnGapFactor*size:
				b.WriteString("    ")
			case gap > wordGapFactor*size:
				b.WriteByte(' ')
			}
		}
		b.WriteString(f.S)
		cursor = f.X + f.W
	}
	return strings.TrimRight(b.String(), " ")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
