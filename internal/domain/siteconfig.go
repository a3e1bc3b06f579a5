package domain

import "time"

// SiteConfig is the server-owned site configuration.
// Stored as a single key in Badger; replaced wholesale on every save or
// reset, never patched field-by-field.
type SiteConfig struct {
	AppName          string         `json:"appName"`
	AppLogo          AppLogo        `json:"appLogo"`
	HeroImage        string         `json:"heroImage,omitempty"`
	ContactImage     string         `json:"contactImage,omitempty"`
	ProductPageImage string         `json:"productPageImage,omitempty"`
	SliderImages     []string       `json:"sliderImages"`
	HeroText         HeroText       `json:"heroText"`
	CompanyDetails   CompanyDetails `json:"companyDetails"`
	Leadership       []Leader       `json:"leadership"`
	AppTheme         *ThemeSpec     `json:"appTheme,omitempty"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// NewSiteConfig returns the default site configuration served before any
// admin customization and restored by a reset.
func NewSiteConfig() *SiteConfig {
	return &SiteConfig{
		AppName:      "Solar",
		SliderImages: []string{},
		Leadership:   []Leader{},
		AppTheme: &ThemeSpec{
			Primary: &PaletteGroup{
				Default: "#2563eb",
				Active:  "#1d4ed8",
				Light:   "#dbeafe",
				Clarity: "#2563eb33",
				Inverse: "#ffffff",
			},
			Secondary: &PaletteGroup{
				Default: "#f8fafc",
				Active:  "#f1f5f9",
				Light:   "#e2e8f0",
				Clarity: "#f8fafc33",
				Inverse: "#0f172a",
			},
		},
		UpdatedAt: time.Now().UTC(),
	}
}

// AppLogo holds the three logo slots. Each is an image reference (a served
// upload path) and each is independently optional.
type AppLogo struct {
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
	Favicon   string `json:"favicon,omitempty"`
}

// HeroText is the landing page hero copy. Description may contain embedded
// newlines which clients render as literal line breaks.
type HeroText struct {
	TopText     string `json:"topText,omitempty"`
	Headline    string `json:"headline,omitempty"`
	Description string `json:"description,omitempty"`
}

// CompanyDetails holds the business contact block shown in the footer and on
// the About page. All fields are optional; clients substitute their own
// defaults when a field is absent.
type CompanyDetails struct {
	Name        string `json:"name,omitempty"`
	Tagline     string `json:"tagline,omitempty"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	FoundedYear string `json:"foundedYear,omitempty"`
}

// Leader is one entry of the leadership roster on the About page.
// ID is a stable identifier assigned at creation time; image uploads are
// keyed by it so removing an entry cannot misattribute a queued upload.
type Leader struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Phone string `json:"phone,omitempty"`
	Image string `json:"image,omitempty"`
}

// ThemeSpec is the stored theme record. Any group or key may be absent;
// the stored record keeps exactly what the admin submitted and defaults are
// merged in at projection time, never at persistence time.
type ThemeSpec struct {
	Primary   *PaletteGroup `json:"primary,omitempty"`
	Secondary *PaletteGroup `json:"secondary,omitempty"`
	Header    *SurfaceGroup `json:"header,omitempty"`
	Footer    *SurfaceGroup `json:"footer,omitempty"`
	Body      *SurfaceGroup `json:"body,omitempty"`
	Card      *SurfaceGroup `json:"card,omitempty"`
	Button    *ButtonGroup  `json:"button,omitempty"`
	Accent    *AccentGroup  `json:"accent,omitempty"`
}

// PaletteGroup is a brand color family (primary or secondary).
type PaletteGroup struct {
	Default string `json:"default,omitempty"`
	Active  string `json:"active,omitempty"`
	Light   string `json:"light,omitempty"`
	Clarity string `json:"clarity,omitempty"`
	Inverse string `json:"inverse,omitempty"`
}

// SurfaceGroup colors a page region (header, footer, body, card).
type SurfaceGroup struct {
	Background      string `json:"background,omitempty"`
	Text            string `json:"text,omitempty"`
	Border          string `json:"border,omitempty"`
	HoverBackground string `json:"hoverBackground,omitempty"`
	HoverText       string `json:"hoverText,omitempty"`
	HoverBorder     string `json:"hoverBorder,omitempty"`
}

// ButtonGroup colors the call-to-action buttons including hover states.
type ButtonGroup struct {
	Background      string `json:"background,omitempty"`
	Text            string `json:"text,omitempty"`
	Border          string `json:"border,omitempty"`
	HoverBackground string `json:"hoverBackground,omitempty"`
	HoverText       string `json:"hoverText,omitempty"`
	HoverBorder     string `json:"hoverBorder,omitempty"`
}

// AccentGroup holds the single accent highlight color.
type AccentGroup struct {
	Color string `json:"color,omitempty"`
}
