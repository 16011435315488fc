package fields

import "github.com/shipdeck/labelscan/region"

// Profile describes how labels from one courier are best extracted,
// replacing scattered courier-identity branches in the pipeline with a
// single tagged value looked up once after courier resolution.
type Profile struct {
	// Courier is the canonical courier name, or "" for the default
	// profile.
	Courier string

	// SegmentationFirst marks formats whose text layer (when present at
	// all) is unreliable for products: the pixel segmentation + OCR path
	// runs unconditionally and its result is preferred.
	SegmentationFirst bool

	// Band is the vertical page band the product table occupies on this
	// format, used as the segmentation crop.
	Band region.Bounds
}

// defaultBand covers the middle band where product tables sit on most
// label layouts (empirically ~35%-55% of page height).
var defaultBand = region.Bounds{Left: 0, Top: 35, Width: 100, Height: 20}

var profiles = map[string]Profile{
	"Valmo": {
		Courier:           "Valmo",
		SegmentationFirst: true,
		Band:              region.Bounds{Left: 0, Top: 35, Width: 100, Height: 22},
	},
}

// ProfileFor returns the format profile for a resolved courier, or the
// default profile when the courier is unknown or has no special handling.
func ProfileFor(courier string) Profile {
	if p, ok := profiles[courier]; ok {
		return p
	}
	return Profile{Courier: courier, Band: defaultBand}
}
