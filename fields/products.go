package fields

import (
	"regexp"
	"strconv"
	"strings"
)

// ProductLine is one recognized product row. Order in a result reflects
// label line order; there is no identity beyond position.
type ProductLine struct {
	Name     string  `json:"productName"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

var (
	productHeaderRe = regexp.MustCompile(`(?i)\b(product|item|descri[pb]tion)\b`)
	columnHeaderRe  = regexp.MustCompile(`(?i)\b(sku|qty|quantity|price|amount|rate)\b`)
	terminatorRe    = regexp.MustCompile(`(?i)^\s*(sub\s?-?total|total|grand\s?total|tax\s?invoice|declaration|all\s+disputes|thank\s+you)\b`)

	// A product row ends in two numeric tokens: quantity and price, in
	// either order depending on the label's column layout.
	trailingPairRe = regexp.MustCompile(`^(.*?)\s+(\d+(?:\.\d{1,2})?)\s+(\d+(?:\.\d{1,2})?)\s*$`)

	// Valmo-style manifests carry an "Item description" table whose rows
	// read "<index> <name> QTY-<n>" with no price column.
	itemDescHeaderRe = regexp.MustCompile(`(?i)\bitem\s+descri[pb]t?ion\b`)
	itemQtyRowRe     = regexp.MustCompile(`(?i)^\s*(?:(\d{1,3})[.)]?\s+)?(.+?)\s+QTY[-:\s]?(\d{1,4})\s*$`)
)

// ProductChain returns the ordered product extraction strategies. The
// vendor-specific "Item description" pass runs before the generic table
// scanner because its field order and quantity marker differ materially.
func ProductChain() []Strategy[[]ProductLine] {
	return []Strategy[[]ProductLine]{
		{Name: "item-description-table", Extract: itemDescriptionTable},
		{Name: "generic-table", Extract: genericTable},
	}
}

// itemDescriptionTable handles the "Item description" layout: rows follow
// the header until a terminator or end of text, each carrying an optional
// index, the product name, and a QTY-<n> marker. Price is not printed on
// these labels, so it is reported as zero.
func itemDescriptionTable(in Input) ([]ProductLine, bool) {
	start := -1
	for i, line := range in.Lines {
		if itemDescHeaderRe.MatchString(line) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, false
	}

	var items []ProductLine
	for _, line := range in.Lines[start:] {
		if terminatorRe.MatchString(line) {
			break
		}
		item, ok := ParseItemRow(line)
		if !ok {
			if len(items) > 0 {
				break
			}
			continue
		}
		items = append(items, item)
	}
	return items, len(items) > 0
}

// IsItemHeader reports whether a line is the "Item description" table
// header, tolerating common OCR garblings of "description".
func IsItemHeader(line string) bool {
	return itemDescHeaderRe.MatchString(line)
}

// ParseItemRow parses one "<index> <name> QTY-<n>" row. Exported because
// the orchestrator parses OCR output of individual segmented line blobs
// through the same grammar.
func ParseItemRow(line string) (ProductLine, bool) {
	m := itemQtyRowRe.FindStringSubmatch(line)
	if m == nil {
		return ProductLine{}, false
	}
	qty, err := strconv.Atoi(m[3])
	if err != nil || qty < 1 {
		return ProductLine{}, false
	}
	name := CleanProductName(m[2])
	if name == "" {
		return ProductLine{}, false
	}
	return ProductLine{Name: name, Quantity: qty, Price: 0}, true
}

// genericTable locates a product table header, then consumes body lines
// until a terminator. Rows ending in a qty/price pair close out a product;
// rows without one continue the current product's name unless they look
// like noise (SKU fragments, tax codes), which is stripped rather than
// appended.
func genericTable(in Input) ([]ProductLine, bool) {
	body := findTableBody(in.Lines)
	if body < 0 {
		return nil, false
	}

	var items []ProductLine
	var acc []string
	for _, line := range in.Lines[body:] {
		if terminatorRe.MatchString(line) {
			break
		}
		if name, qty, price, ok := splitTrailingPair(line); ok {
			if name != "" {
				acc = append(acc, name)
			}
			full := CleanProductName(strings.Join(acc, " "))
			acc = acc[:0]
			if full != "" {
				items = append(items, ProductLine{Name: full, Quantity: qty, Price: price})
			}
			continue
		}
		if frag := CleanProductName(line); frag != "" {
			acc = append(acc, frag)
		}
	}
	return items, len(items) > 0
}

// findTableBody returns the index of the first body line after the product
// table header, or -1. The header needs a product/item token plus at least
// one column token, and may be split across two adjacent lines (e.g.
// "Product" on one line, "Name  Qty  Price" on the next).
func findTableBody(lines []string) int {
	for i, line := range lines {
		if !productHeaderRe.MatchString(line) {
			continue
		}
		if columnHeaderRe.MatchString(line) {
			return i + 1
		}
		if i+1 < len(lines) && columnHeaderRe.MatchString(lines[i+1]) && !isProductRow(lines[i+1]) {
			return i + 2
		}
	}
	return -1
}

func isProductRow(line string) bool {
	_, _, _, ok := splitTrailingPair(line)
	return ok
}

// splitTrailingPair matches a line ending in two numeric tokens and decides
// which is the quantity and which the price. A token with a decimal point
// is always the price; when both are bare integers the label's dominant
// "qty then price" column order is assumed.
func splitTrailingPair(line string) (name string, qty int, price float64, ok bool) {
	m := trailingPairRe.FindStringSubmatch(line)
	if m == nil {
		return "", 0, 0, false
	}
	name = strings.TrimSpace(m[1])
	a, b := m[2], m[3]

	aDec := strings.Contains(a, ".")
	bDec := strings.Contains(b, ".")

	var qtyTok, priceTok string
	switch {
	case aDec && !bDec:
		priceTok, qtyTok = a, b
	case bDec && !aDec:
		qtyTok, priceTok = a, b
	case aDec && bDec:
		return "", 0, 0, false
	default:
		qtyTok, priceTok = a, b
	}

	q, err := strconv.Atoi(qtyTok)
	if err != nil || q < 1 || q > 9999 {
		return "", 0, 0, false
	}
	p, err := strconv.ParseFloat(priceTok, 64)
	if err != nil || p < 0 {
		return "", 0, 0, false
	}
	return name, q, p, true
}
