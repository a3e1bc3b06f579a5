// Package theme turns a stored theme record into the flat set of named
// style variables the storefront inherits. Merging against the fixed
// defaults happens here, at projection time; the store keeps exactly what
// the admin submitted.
package theme

import "github.com/suncrest/suncrest-server/internal/domain"

// Merged is a fully-populated theme: every group present, every key that
// has a default filled in. Produced by Merge, consumed by Project.
type Merged struct {
	Primary   domain.PaletteGroup
	Secondary domain.PaletteGroup
	Header    domain.SurfaceGroup
	Footer    domain.SurfaceGroup
	Body      domain.SurfaceGroup
	Card      domain.SurfaceGroup
	Button    domain.ButtonGroup
	Accent    domain.AccentGroup
}

// Defaults returns the fixed default theme. Merge copies this record, so
// callers may mutate the result freely.
func Defaults() Merged {
	return Merged{
		Primary: domain.PaletteGroup{
			Default: "#2563eb",
			Active:  "#1d4ed8",
			Light:   "#dbeafe",
			Clarity: "#2563eb33",
			Inverse: "#ffffff",
		},
		Secondary: domain.PaletteGroup{
			Default: "#f8fafc",
			Active:  "#f1f5f9",
			Light:   "#e2e8f0",
			Clarity: "#f8fafc33",
			Inverse: "#0f172a",
		},
		Header: domain.SurfaceGroup{Background: "#ffffff", Text: "#000000", Border: "transparent"},
		Footer: domain.SurfaceGroup{Background: "#111827", Text: "#ffffff"},
		Body:   domain.SurfaceGroup{Background: "#f3f4f6", Text: "#1f2937"},
		Card:   domain.SurfaceGroup{Background: "#ffffff", Text: "#1f2937", Border: "transparent"},
		Button: domain.ButtonGroup{
			Background:      "#f59e0b",
			Text:            "#000000",
			Border:          "transparent",
			HoverBackground: "#fbbf24",
			HoverText:       "#000000",
			HoverBorder:     "transparent",
		},
		Accent: domain.AccentGroup{Color: "#fcd34d"},
	}
}

// Merge deep-merges spec over the defaults, one group at a time. A group
// that is nil keeps the full default group; inside a present group only the
// non-empty keys override, so supplying header.background alone leaves
// header.text at its default. A nil spec yields the defaults unchanged.
func Merge(spec *domain.ThemeSpec) Merged {
	m := Defaults()
	if spec == nil {
		return m
	}
	mergePalette(&m.Primary, spec.Primary)
	mergePalette(&m.Secondary, spec.Secondary)
	mergeSurface(&m.Header, spec.Header)
	mergeSurface(&m.Footer, spec.Footer)
	mergeSurface(&m.Body, spec.Body)
	mergeSurface(&m.Card, spec.Card)
	mergeButton(&m.Button, spec.Button)
	if spec.Accent != nil && spec.Accent.Color != "" {
		m.Accent.Color = spec.Accent.Color
	}
	return m
}

func mergePalette(dst *domain.PaletteGroup, src *domain.PaletteGroup) {
	if src == nil {
		return
	}
	override(&dst.Default, src.Default)
	override(&dst.Active, src.Active)
	override(&dst.Light, src.Light)
	override(&dst.Clarity, src.Clarity)
	override(&dst.Inverse, src.Inverse)
}

func mergeSurface(dst *domain.SurfaceGroup, src *domain.SurfaceGroup) {
	if src == nil {
		return
	}
	override(&dst.Background, src.Background)
	override(&dst.Text, src.Text)
	override(&dst.Border, src.Border)
	override(&dst.HoverBackground, src.HoverBackground)
	override(&dst.HoverText, src.HoverText)
	override(&dst.HoverBorder, src.HoverBorder)
}

func mergeButton(dst *domain.ButtonGroup, src *domain.ButtonGroup) {
	if src == nil {
		return
	}
	override(&dst.Background, src.Background)
	override(&dst.Text, src.Text)
	override(&dst.Border, src.Border)
	override(&dst.HoverBackground, src.HoverBackground)
	override(&dst.HoverText, src.HoverText)
	override(&dst.HoverBorder, src.HoverBorder)
}

func override(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}
