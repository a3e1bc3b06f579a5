package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suncrest/suncrest-server/internal/domain"
)

func TestMerge_NilSpecYieldsDefaults(t *testing.T) {
	m := Merge(nil)

	assert.Equal(t, Defaults(), m)
	assert.Equal(t, "#2563eb", m.Primary.Default)
	assert.Equal(t, "#fcd34d", m.Accent.Color)
}

func TestMerge_PartialGroupKeepsSiblingDefaults(t *testing.T) {
	spec := &domain.ThemeSpec{
		Header: &domain.SurfaceGroup{Background: "#111111"},
	}

	m := Merge(spec)

	assert.Equal(t, "#111111", m.Header.Background)
	assert.Equal(t, "#000000", m.Header.Text)
	assert.Equal(t, "transparent", m.Header.Border)
	// untouched groups stay fully default
	assert.Equal(t, Defaults().Footer, m.Footer)
	assert.Equal(t, Defaults().Button, m.Button)
}

func TestMerge_OverridesEveryProvidedKey(t *testing.T) {
	spec := &domain.ThemeSpec{
		Primary: &domain.PaletteGroup{Default: "#ff0000", Inverse: "#000000"},
		Button:  &domain.ButtonGroup{HoverBackground: "#123456"},
		Accent:  &domain.AccentGroup{Color: "#abcdef"},
	}

	m := Merge(spec)

	assert.Equal(t, "#ff0000", m.Primary.Default)
	assert.Equal(t, "#000000", m.Primary.Inverse)
	assert.Equal(t, "#1d4ed8", m.Primary.Active)
	assert.Equal(t, "#123456", m.Button.HoverBackground)
	assert.Equal(t, "#f59e0b", m.Button.Background)
	assert.Equal(t, "#abcdef", m.Accent.Color)
}

func TestMerge_DoesNotMutateSpec(t *testing.T) {
	spec := &domain.ThemeSpec{
		Header: &domain.SurfaceGroup{Background: "#111111"},
	}

	Merge(spec)

	assert.Equal(t, "", spec.Header.Text)
	assert.Nil(t, spec.Primary)
}

func TestProject_EmitsFullVariableSetForPartialTheme(t *testing.T) {
	sink := MapSink{}
	Project(Merge(&domain.ThemeSpec{
		Primary: &domain.PaletteGroup{Default: "#ff0000"},
	}), sink)

	assert.Equal(t, "#ff0000", sink["--color-primary"])
	assert.Equal(t, "#ff0000", sink["--accent-color"])
	assert.Equal(t, "#dbeafe", sink["--color-primary-light"])
	assert.Equal(t, "#ffffff", sink["--color-primary-inverse"])
	assert.Equal(t, "#ffffff", sink["--text-dynamic-black"])
	assert.Equal(t, "#ffffff", sink["--text-dynamic-white"])
	assert.Equal(t, "0 0% 100%", sink["--foreground"])
	assert.Equal(t, "0 0% 100%", sink["--primary-foreground"])
	assert.Equal(t, "#f8fafc", sink["--color-secondary"])
	assert.Equal(t, "#ffffff", sink["--header-bg"])
	assert.Equal(t, "#111827", sink["--footer-bg"])
	assert.Equal(t, "#f3f4f6", sink["--body-bg"])
	assert.Equal(t, "#ffffff", sink["--card-bg"])
	assert.Equal(t, "#f59e0b", sink["--btn-bg"])
	assert.Equal(t, "#fbbf24", sink["--btn-hover-bg"])
	assert.Equal(t, "#fcd34d", sink["--color-accent"])
}

func TestProject_HoverVariablesOnlyWhenSet(t *testing.T) {
	sink := MapSink{}
	Project(Merge(nil), sink)

	_, ok := sink["--header-hover-bg"]
	assert.False(t, ok)
	_, ok = sink["--footer-hover-text"]
	assert.False(t, ok)

	sink = MapSink{}
	Project(Merge(&domain.ThemeSpec{
		Header: &domain.SurfaceGroup{HoverBackground: "#222222"},
	}), sink)

	assert.Equal(t, "#222222", sink["--header-hover-bg"])
}

func TestProject_Idempotent(t *testing.T) {
	m := Merge(&domain.ThemeSpec{
		Primary: &domain.PaletteGroup{Default: "#336699", Inverse: "#112233"},
		Footer:  &domain.SurfaceGroup{Background: "#0a0a0a"},
	})

	first := MapSink{}
	second := MapSink{}
	Project(m, first)
	Project(m, second)

	assert.Equal(t, first, second)
}

func TestProject_MalformedColorPassesThrough(t *testing.T) {
	sink := MapSink{}
	Project(Merge(&domain.ThemeSpec{
		Primary: &domain.PaletteGroup{Default: "not-a-color", Inverse: "bogus"},
	}), sink)

	assert.Equal(t, "not-a-color", sink["--color-primary"])
	assert.Equal(t, "bogus", sink["--foreground"])
}

func TestHexToHSL(t *testing.T) {
	tests := []struct {
		name     string
		hex      string
		expected string
	}{
		{name: "white", hex: "#ffffff", expected: "0 0% 100%"},
		{name: "black", hex: "#000000", expected: "0 0% 0%"},
		{name: "pure red", hex: "#ff0000", expected: "0 100% 50%"},
		{name: "pure green", hex: "#00ff00", expected: "120 100% 50%"},
		{name: "pure blue", hex: "#0000ff", expected: "240 100% 50%"},
		{name: "default primary", hex: "#2563eb", expected: "221 83% 53%"},
		{name: "no hash prefix", hex: "ffffff", expected: "0 0% 100%"},
		{name: "keyword passes through", hex: "transparent", expected: "transparent"},
		{name: "short hex passes through", hex: "#fff", expected: "#fff"},
		{name: "empty passes through", hex: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HexToHSL(tt.hex))
		})
	}
}

func TestCSS_StableAndComplete(t *testing.T) {
	m := Merge(nil)

	css := CSS(m)

	require.True(t, strings.HasPrefix(css, ":root {\n"))
	require.True(t, strings.HasSuffix(css, "}\n"))
	assert.Contains(t, css, "  --color-primary: #2563eb;\n")
	assert.Contains(t, css, "  --color-accent: #fcd34d;\n")
	assert.Equal(t, css, CSS(m))

	// emission order is fixed: primary family before secondary before surfaces
	assert.Less(t,
		strings.Index(css, "--color-primary:"),
		strings.Index(css, "--color-secondary:"))
	assert.Less(t,
		strings.Index(css, "--color-secondary:"),
		strings.Index(css, "--header-bg:"))
}
