package domain

// Product is a solar equipment listing (panels, inverters, batteries).
type Product struct {
	Syncable
	Name        string `json:"name"`
	Price       float64 `json:"price"`
	Capacity    string `json:"capacity,omitempty"` // e.g. "550W", "5kWh"
	Description string `json:"description,omitempty"`

	// Details is a free-form JSON object of technical specifications keyed
	// by label ("Cell Type": "Monocrystalline", ...). The admin console
	// submits it as raw JSON text; see service.ParseDetails for the
	// parse-failure policy.
	Details map[string]any `json:"details,omitempty"`

	// Images are served upload paths, first entry is the card image.
	Images []string `json:"images"`

	// ImageHashes are BlurHash placeholders parallel to Images, computed
	// at upload time. An entry is empty when hashing failed for that image.
	ImageHashes []string `json:"image_hashes,omitempty"`
}

// CardImage returns the image shown on product listing cards, or empty
// string when the product has no images yet.
func (p *Product) CardImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
