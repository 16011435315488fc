package fields

import (
	"reflect"
	"testing"
)

func TestCourierChain_NamePattern(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"BrandStore    Ekart\nProduct Name  Qty  Price", "Ekart"},
		{"shipped via e-kart logistics", "Ekart"},
		{"EKORT", "Ekart"},
		{"3kart surface", "Ekart"},
		{"Dellvery Surface 5kg", "Delhivery"},
		{"Delhiverv", "Delhivery"},
		{"XpressBees courier partner", "XpressBees"},
		{"Xpress Bees", "XpressBees"},
		{"Ecom Express Pvt Ltd", "Ecom Express"},
		{"BLUE DART EXPRESS", "Blue Dart"},
		{"Shadow Fax last mile", "Shadowfax"},
		{"VALMO", "Valmo"},
		{"Va1mo", "Valmo"},
		{"Vaimo", "Valmo"},
		{"handover to amazon transport", "Amazon Transport"},
		{"Speed Post parcel", "India Post"},
		{"DTDC Courier & Cargo", "DTDC"},
	}
	for _, tc := range cases {
		got, strat, ok := First(NewInput(tc.text), CourierChain())
		if !ok {
			t.Errorf("%q: expected a courier, got none", tc.text)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: expected %q, got %q", tc.text, tc.want, got)
		}
		if strat != "name-pattern" {
			t.Errorf("%q: expected name-pattern strategy, got %q", tc.text, strat)
		}
	}
}

func TestCourierChain_TrackingShape(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"AWB FMPC1234567890", "Ekart"},
		{"AWB SF1234567890", "Shadowfax"},
		{"13456789012345", "XpressBees"},
		{"29876543210987", "Delhivery"},
	}
	for _, tc := range cases {
		got, strat, ok := First(NewInput(tc.text), CourierChain())
		if !ok || got != tc.want {
			t.Errorf("%q: expected %q, got %q (ok=%v)", tc.text, tc.want, got, ok)
		}
		if strat != "tracking-shape" {
			t.Errorf("%q: expected tracking-shape strategy, got %q", tc.text, strat)
		}
	}
}

// An Ekart-prefixed tracking ID must win even when a weaker numeric shape
// is also present in the text.
func TestCourierChain_TrackingPrecedence(t *testing.T) {
	got, _, ok := First(NewInput("FMPP8877665544 ref 29876543210987"), CourierChain())
	if !ok || got != "Ekart" {
		t.Errorf("Expected Ekart to win over numeric AWB shape, got %q (ok=%v)", got, ok)
	}
}

func TestCourierChain_HeaderColumns(t *testing.T) {
	text := "AcmeStore    Speedy Couriers\nSold By: AcmeStore\nQty 1"
	got, strat, ok := First(NewInput(text), CourierChain())
	if !ok {
		t.Fatal("Expected header column courier, got none")
	}
	if got != "Speedy Couriers" {
		t.Errorf("Expected rightmost header column, got %q", got)
	}
	if strat != "header-columns" {
		t.Errorf("Expected header-columns strategy, got %q", strat)
	}
}

func TestCourierChain_HeaderNoiseRejected(t *testing.T) {
	cases := []string{
		"Customer Name    Order Details",
		"Ship To    Customer Address",
		"Invoice Date    Total Amount",
		"just a plain line of prose with no columns",
	}
	for _, text := range cases {
		if got, _, ok := First(NewInput(text), CourierChain()); ok {
			t.Errorf("%q: expected no courier, got %q", text, got)
		}
	}
}

func TestMatchCourier_NoMatch(t *testing.T) {
	if got, ok := MatchCourier("handwritten note, no courier here"); ok {
		t.Errorf("Expected no match, got %q", got)
	}
}

func TestSplitColumns(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{"BrandStore    Ekart", []string{"BrandStore", "Ekart"}},
		{"  a  b   c  ", []string{"a", "b", "c"}},
		{"single column line", []string{"single column line"}},
		{"", nil},
	}
	for _, tc := range cases {
		got := SplitColumns(tc.line)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SplitColumns(%q) = %v, expected %v", tc.line, got, tc.want)
		}
	}
}
