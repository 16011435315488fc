package fields

import (
	"regexp"
	"strings"
)

// Order-number extraction prefers barcode-backed tracking identifiers over
// vendor order IDs: tracking numbers are lower-collision and present on
// every label format, while order IDs are sometimes reused or ambiguous
// for split shipments. The chain order encodes that priority.

var (
	// Courier-specific tracking literals, the strongest dedup keys.
	trackingPrefixRe = regexp.MustCompile(`\b(FMP[CP][A-Z0-9]{6,}|SF[0-9]{8,}[A-Z]{0,4}|AMZ[A-Z0-9]{8,})\b`)

	// Generic labeled AWB / tracking / waybill fields.
	labeledAWBRe = regexp.MustCompile(`(?i)\b(?:awb|waybill|tracking)\s*(?:id|no\.?|num(?:ber)?)?\s*[:#-]?\s*([A-Za-z0-9]{8,22})\b`)

	// Bare long-numeric tokens (barcode payload range).
	bareNumericRe = regexp.MustCompile(`\b\d{12,20}\b`)

	// Weakest signal: labeled order IDs.
	labeledOrderRe = regexp.MustCompile(`(?i)\border\s*(?:id|no\.?|num(?:ber)?)\s*[:#-]?\s*([A-Za-z0-9_-]{4,30})\b`)
)

// OrderNumberChain returns the dedup-key strategies in priority order.
func OrderNumberChain() []Strategy[string] {
	return []Strategy[string]{
		{Name: "tracking-prefix", Extract: orderByTrackingPrefix},
		{Name: "labeled-awb", Extract: orderByLabeledAWB},
		{Name: "bare-numeric", Extract: orderByBareNumeric},
		{Name: "labeled-order-id", Extract: orderByLabeledOrderID},
	}
}

func orderByTrackingPrefix(in Input) (string, bool) {
	if m := trackingPrefixRe.FindString(in.Text); m != "" {
		return m, true
	}
	return "", false
}

func orderByLabeledAWB(in Input) (string, bool) {
	if m := labeledAWBRe.FindStringSubmatch(in.Text); m != nil {
		return strings.ToUpper(m[1]), true
	}
	return "", false
}

// orderByBareNumeric picks the first 12-20 digit token that does not look
// like a phone number.
func orderByBareNumeric(in Input) (string, bool) {
	for _, m := range bareNumericRe.FindAllString(in.Text, -1) {
		if looksLikePhone(m) {
			continue
		}
		return m, true
	}
	return "", false
}

func orderByLabeledOrderID(in Input) (string, bool) {
	if m := labeledOrderRe.FindStringSubmatch(in.Text); m != nil {
		return m[1], true
	}
	return "", false
}

// looksLikePhone reports whether a numeric token is a 10-digit subscriber
// number behind a country-code-like prefix ("91..." or "091...", "0...").
func looksLikePhone(s string) bool {
	switch len(s) {
	case 12:
		return strings.HasPrefix(s, "91")
	case 13:
		return strings.HasPrefix(s, "091")
	default:
		return false
	}
}
