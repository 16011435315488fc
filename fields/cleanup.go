package fields

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Transform is one named product-name cleanup step. Cleanup is an explicit
// ordered list of transforms applied in sequence, so each step can be unit
// tested against known garbled-OCR fixtures on its own.
type Transform struct {
	Name  string
	Apply func(string) string
}

// CleanupTransforms returns the product-name cleanup pipeline in
// application order. SKU stripping runs before duplicate collapsing: a
// SKU fragment that happens to repeat a word should be removed as a SKU,
// not merely deduplicated.
func CleanupTransforms() []Transform {
	return []Transform{
		{Name: "normalize-unicode", Apply: normalizeUnicode},
		{Name: "strip-tax-fragments", Apply: stripTaxFragments},
		{Name: "strip-sku-tokens", Apply: stripSKUTokens},
		{Name: "strip-duplicate-words", Apply: stripDuplicateWords},
		{Name: "collapse-whitespace", Apply: collapseWhitespace},
		{Name: "trim", Apply: strings.TrimSpace},
	}
}

var cleanupChain = CleanupTransforms()

// CleanProductName applies the full cleanup pipeline to a candidate
// product name or name fragment.
func CleanProductName(s string) string {
	for _, t := range cleanupChain {
		s = t.Apply(s)
	}
	return s
}

// stripMarks decomposes, removes combining marks, and recomposes, so OCR
// output like "Sprayér" normalizes to plain ASCII where possible.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeUnicode(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

var taxFragmentRe = regexp.MustCompile(`(?i)\b(?:HSN|SAC)\s*[:#-]?\s*\d*\b|\bGSTIN?\s*[:#-]?\s*[0-9A-Z]*\b|\b[CSI]GST\b\s*[:#-]?\s*[\d.%]*`)

func stripTaxFragments(s string) string {
	return taxFragmentRe.ReplaceAllString(s, " ")
}

// skuTokenRe matches SKU-looking tokens at the start of a fragment:
// all-caps alphanumeric runs mixing letters and digits, like "SKB0071GRN"
// or "FSN1A2B3C".
var skuTokenRe = regexp.MustCompile(`^\s*(?:[A-Z0-9_]*\d[A-Z0-9_]*[A-Z][A-Z0-9_]*|[A-Z0-9_]*[A-Z][A-Z0-9_]*\d[A-Z0-9_]*)\s+`)

func stripSKUTokens(s string) string {
	for {
		stripped := skuTokenRe.ReplaceAllString(s, "")
		if stripped == s {
			return s
		}
		s = stripped
	}
}

// stripDuplicateWords collapses consecutive repeats of the same uppercase
// token, a common artifact of OCR re-reading bold text.
func stripDuplicateWords(s string) string {
	words := strings.Fields(s)
	out := words[:0]
	var prev string
	for _, w := range words {
		if w == prev && w == strings.ToUpper(w) && len(w) > 1 {
			continue
		}
		out = append(out, w)
		prev = w
	}
	return strings.Join(out, " ")
}

var spaceRunRe = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return spaceRunRe.ReplaceAllString(s, " ")
}
