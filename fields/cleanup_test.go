package fields

import "testing"

func transformByName(t *testing.T, name string) Transform {
	t.Helper()
	for _, tr := range CleanupTransforms() {
		if tr.Name == name {
			return tr
		}
	}
	t.Fatalf("No cleanup transform named %q", name)
	return Transform{}
}

func TestCleanupTransforms_Order(t *testing.T) {
	want := []string{
		"normalize-unicode",
		"strip-tax-fragments",
		"strip-sku-tokens",
		"strip-duplicate-words",
		"collapse-whitespace",
		"trim",
	}
	got := CleanupTransforms()
	if len(got) != len(want) {
		t.Fatalf("Expected %d transforms, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("Transform %d: expected %q, got %q", i, name, got[i].Name)
		}
	}
}

func TestNormalizeUnicode(t *testing.T) {
	tr := transformByName(t, "normalize-unicode")
	if got := tr.Apply("Café Sprayér"); got != "Cafe Sprayer" {
		t.Errorf("Expected accents stripped, got %q", got)
	}
	if got := tr.Apply("Plain Name"); got != "Plain Name" {
		t.Errorf("ASCII input changed to %q", got)
	}
}

func TestStripSKUTokens(t *testing.T) {
	tr := transformByName(t, "strip-sku-tokens")
	cases := []struct {
		in   string
		want string
	}{
		{"SKB0071GRN Garden Sprayer", "Garden Sprayer"},
		{"AB12CD XY34 Ceramic Mug", "Ceramic Mug"}, // repeated leading SKUs
		{"Garden Sprayer", "Garden Sprayer"},
		{"GRN Bottle", "GRN Bottle"}, // caps without digits is not a SKU
	}
	for _, tc := range cases {
		if got := tr.Apply(tc.in); got != tc.want {
			t.Errorf("strip-sku-tokens(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestStripDuplicateWords(t *testing.T) {
	tr := transformByName(t, "strip-duplicate-words")
	cases := []struct {
		in   string
		want string
	}{
		{"STEEL STEEL Rack", "STEEL Rack"},
		{"RACK RACK RACK of Steel", "RACK of Steel"},
		{"nice nice towel", "nice nice towel"}, // only uppercase repeats collapse
		{"Steel Rack", "Steel Rack"},
	}
	for _, tc := range cases {
		if got := tr.Apply(tc.in); got != tc.want {
			t.Errorf("strip-duplicate-words(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanProductName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"SKB0071GRN Revolving Spice   Rack HSN 9403", "Revolving Spice Rack"},
		{"Garden  Manual   Sprayer", "Garden Manual Sprayer"},
		{"  Towel Set GSTIN: 29ABCDE1234F1Z5  ", "Towel Set"},
		{"STEEL STEEL Bottle", "STEEL Bottle"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CleanProductName(tc.in); got != tc.want {
			t.Errorf("CleanProductName(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}
