package fields

import (
	"regexp"
	"strings"
)

// courierPattern maps a canonical courier name to a full-text pattern.
// Patterns deliberately accept known OCR garblings of each name: low-res
// thermal prints routinely turn "Ekart" into "EKort" or "3kart" and
// "Valmo" into "Vaimo".
type courierPattern struct {
	name string
	re   *regexp.Regexp
}

var courierTable = []courierPattern{
	{"Ekart", regexp.MustCompile(`(?i)\be[\s._-]?kart\b|\bekort\b|\b[3e]kart\b`)},
	{"Delhivery", regexp.MustCompile(`(?i)\bdelh?[il1]very\b|\bdelhiverv\b`)},
	{"XpressBees", regexp.MustCompile(`(?i)\bxpress\s?bees?\b|\bxpressbe[se]s\b`)},
	{"Ecom Express", regexp.MustCompile(`(?i)\becom\s?express\b`)},
	{"Blue Dart", regexp.MustCompile(`(?i)\bblue\s?dart\b`)},
	{"Shadowfax", regexp.MustCompile(`(?i)\bshadow\s?fax\b`)},
	{"Valmo", regexp.MustCompile(`(?i)\bva[l1i]mo\b`)},
	{"Amazon Transport", regexp.MustCompile(`(?i)\bamazon\s(transport|shipping)\b|\bATS\b`)},
	{"India Post", regexp.MustCompile(`(?i)\bindia post\b|\bspeed post\b`)},
	{"DTDC", regexp.MustCompile(`(?i)\bdtdc\b`)},
}

// Tracking-ID shapes. Ekart's alphanumeric prefix is the strongest signal;
// the numeric AWB shapes only identify a courier when no stronger competing
// pattern is present, which the chain encodes by matching Ekart first.
var (
	ekartTrackingRe     = regexp.MustCompile(`\bFMP[CP][A-Z0-9]{6,}\b`)
	shadowfaxTrackingRe = regexp.MustCompile(`\bSF[0-9]{8,}\b`)
	xpressbeesAWBRe     = regexp.MustCompile(`\b1[34][0-9]{12}\b`)
	delhiveryAWBRe      = regexp.MustCompile(`\b[12][0-9]{13}\b`)
)

// Tokens that disqualify a header column from being a courier or brand
// name: address fragments and order-detail keywords.
var headerNoiseRe = regexp.MustCompile(`(?i)\b(address|deliver|ship(ping)?|order|invoice|date|qty|quantity|price|amount|total|awb|tracking|pincode|phone|mobile|gst|road|street|nagar|floor)\b`)

const headerScanLines = 6

// CourierChain returns the ordered courier identification strategies that
// operate on text. The final fallback, OCR of the top-of-page region, is
// impure and lives with the orchestrator; it feeds its output back through
// MatchCourier.
func CourierChain() []Strategy[string] {
	return []Strategy[string]{
		{Name: "name-pattern", Extract: courierByName},
		{Name: "tracking-shape", Extract: courierByTrackingShape},
		{Name: "header-columns", Extract: courierByHeaderColumns},
	}
}

// MatchCourier runs the courier name table against arbitrary text. Used to
// re-check OCR output from the top-of-page region.
func MatchCourier(text string) (string, bool) {
	for _, p := range courierTable {
		if p.re.MatchString(text) {
			return p.name, true
		}
	}
	return "", false
}

func courierByName(in Input) (string, bool) {
	return MatchCourier(in.Text)
}

func courierByTrackingShape(in Input) (string, bool) {
	switch {
	case ekartTrackingRe.MatchString(in.Text):
		return "Ekart", true
	case shadowfaxTrackingRe.MatchString(in.Text):
		return "Shadowfax", true
	case xpressbeesAWBRe.MatchString(in.Text):
		return "XpressBees", true
	case delhiveryAWBRe.MatchString(in.Text):
		return "Delhivery", true
	}
	return "", false
}

// courierByHeaderColumns scans the first few lines for the common
// "<brand>    <courier>" header layout, splitting on wide whitespace gaps.
// The rightmost column is the courier candidate; the left column is the
// seller brand and is ignored here.
func courierByHeaderColumns(in Input) (string, bool) {
	limit := headerScanLines
	if len(in.Lines) < limit {
		limit = len(in.Lines)
	}
	for _, line := range in.Lines[:limit] {
		cols := SplitColumns(line)
		if len(cols) < 2 {
			continue
		}
		candidate := strings.TrimSpace(cols[len(cols)-1])
		if candidate == "" || headerNoiseRe.MatchString(candidate) {
			continue
		}
		if !looksLikeName(candidate) {
			continue
		}
		return candidate, true
	}
	return "", false
}

var columnGapRe = regexp.MustCompile(`\s{2,}`)

// SplitColumns splits a reconstructed line on wide whitespace gaps.
func SplitColumns(line string) []string {
	parts := columnGapRe.Split(strings.TrimSpace(line), -1)
	cols := parts[:0]
	for _, p := range parts {
		if p != "" {
			cols = append(cols, p)
		}
	}
	return cols
}

var nameShapeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z .&-]{2,24}$`)

func looksLikeName(s string) bool {
	return nameShapeRe.MatchString(s)
}
