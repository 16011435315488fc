// Package fields derives structured shipment values (courier, product
// lines, order number) from label text via ordered strategy chains.
//
// Each field has its own chain: an explicit, ordered list of pure
// functions tried in sequence until one succeeds. Priority lives in the
// list order, not in control flow, so each policy is a first-class,
// independently testable value.
package fields

import "strings"

// Input is the text a strategy operates on: the raw block plus its lines.
type Input struct {
	Text  string
	Lines []string
}

// NewInput splits text into trimmed lines, dropping empty ones.
func NewInput(text string) Input {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimRight(strings.TrimSuffix(l, "\r"), " \t")
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return Input{Text: text, Lines: lines}
}

// Strategy derives one field value from label text. Implementations must
// be pure; they may be retried against different text surrogates (native
// layer, full-page OCR output) within one extraction call.
type Strategy[T any] struct {
	Name    string
	Extract func(Input) (T, bool)
}

// First runs the chain in order and returns the first hit along with the
// name of the strategy that produced it.
func First[T any](in Input, chain []Strategy[T]) (T, string, bool) {
	for _, s := range chain {
		if v, ok := s.Extract(in); ok {
			return v, s.Name, true
		}
	}
	var zero T
	return zero, "", false
}
