package theme

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Sink receives projected style variables. The HTTP layer plugs in a sink
// that accumulates a CSS snapshot; tests plug in a map.
type Sink interface {
	SetVar(name, value string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(name, value string)

func (f SinkFunc) SetVar(name, value string) { f(name, value) }

// MapSink collects variables into a plain map.
type MapSink map[string]string

func (m MapSink) SetVar(name, value string) { m[name] = value }

// Var is one projected variable. Vars returns them in emission order so the
// rendered CSS is stable across runs.
type Var struct {
	Name  string
	Value string
}

// Project emits every theme variable for m into sink. Projecting the same
// merged theme twice produces identical values; values are written as
// submitted, a malformed color string passes through untouched.
func Project(m Merged, sink Sink) {
	for _, v := range Vars(m) {
		sink.SetVar(v.Name, v.Value)
	}
}

// Vars flattens a merged theme into the full ordered variable list.
func Vars(m Merged) []Var {
	vars := make([]Var, 0, 40)
	add := func(name, value string) {
		vars = append(vars, Var{Name: name, Value: value})
	}
	addIf := func(name, value string) {
		if value != "" {
			add(name, value)
		}
	}

	add("--color-primary", m.Primary.Default)
	add("--color-primary-light", m.Primary.Light)
	add("--color-primary-active", m.Primary.Active)
	add("--color-primary-clarity", m.Primary.Clarity)
	add("--color-primary-inverse", m.Primary.Inverse)
	add("--accent-color", m.Primary.Default)
	add("--text-dynamic-black", m.Primary.Inverse)
	add("--text-dynamic-white", "#ffffff")
	add("--foreground", HexToHSL(m.Primary.Inverse))
	add("--primary-foreground", HexToHSL(m.Primary.Inverse))

	add("--color-secondary", m.Secondary.Default)
	add("--color-secondary-light", m.Secondary.Light)
	add("--color-secondary-active", m.Secondary.Active)
	add("--color-secondary-clarity", m.Secondary.Clarity)
	add("--color-secondary-inverse", m.Secondary.Inverse)

	add("--header-bg", m.Header.Background)
	add("--header-text", m.Header.Text)
	add("--header-border", m.Header.Border)
	addIf("--header-hover-bg", m.Header.HoverBackground)
	addIf("--header-hover-text", m.Header.HoverText)

	add("--footer-bg", m.Footer.Background)
	add("--footer-text", m.Footer.Text)
	addIf("--footer-hover-bg", m.Footer.HoverBackground)
	addIf("--footer-hover-text", m.Footer.HoverText)

	add("--body-bg", m.Body.Background)
	add("--body-text", m.Body.Text)

	add("--card-bg", m.Card.Background)
	add("--card-text", m.Card.Text)
	add("--card-border", m.Card.Border)

	add("--btn-bg", m.Button.Background)
	add("--btn-text", m.Button.Text)
	add("--btn-border", m.Button.Border)
	add("--btn-hover-bg", m.Button.HoverBackground)
	add("--btn-hover-text", m.Button.HoverText)
	add("--btn-hover-border", m.Button.HoverBorder)

	add("--color-accent", m.Accent.Color)

	return vars
}

// CSS renders a merged theme as a :root rule suitable for serving as a
// stylesheet.
func CSS(m Merged) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, v := range Vars(m) {
		fmt.Fprintf(&b, "  %s: %s;\n", v.Name, v.Value)
	}
	b.WriteString("}\n")
	return b.String()
}

// HexToHSL converts a 6-digit hex color to an "H S% L%" triple with each
// component rounded to the nearest integer. Anything that does not parse as
// a hex color is returned unchanged.
func HexToHSL(hex string) string {
	clean := strings.TrimPrefix(hex, "#")
	n, err := strconv.ParseUint(clean, 16, 32)
	if err != nil || len(clean) != 6 {
		return hex
	}

	r := float64((n>>16)&0xff) / 255
	g := float64((n>>8)&0xff) / 255
	b := float64(n&0xff) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l := (max + min) / 2

	var h, s float64
	if max != min {
		d := max - min
		if l > 0.5 {
			s = d / (2 - max - min)
		} else {
			s = d / (max + min)
		}
		switch max {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		default:
			h = (r-g)/d + 4
		}
		h /= 6
	}

	return fmt.Sprintf("%d %d%% %d%%",
		int(math.Round(h*360)),
		int(math.Round(s*100)),
		int(math.Round(l*100)))
}
