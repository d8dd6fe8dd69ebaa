package docx

import (
	"fmt"
	"strconv"
	"strings"
)

var namedColors = map[string]string{
	"black":   "000000",
	"white":   "FFFFFF",
	"red":     "FF0000",
	"green":   "008000",
	"blue":    "0000FF",
	"gray":    "808080",
	"grey":    "808080",
	"navy":    "000080",
	"maroon":  "800000",
	"silver":  "C0C0C0",
	"teal":    "008080",
	"purple":  "800080",
	"orange":  "FFA500",
	"yellow":  "FFFF00",
	"inherit": "",
}

// parseColor returns the first color in value as RRGGBB. Gradients and
// shorthands are searched token by token.
func parseColor(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	lower := strings.ToLower(value)
	if lower == "transparent" || lower == "none" || lower == "inherit" || lower == "currentcolor" {
		return "", false
	}

	for i := 0; i < len(lower); i++ {
		switch {
		case lower[i] == '#':
			j := i + 1
			for j < len(lower) && isHex(lower[j]) {
				j++
			}
			if hex, ok := expandHex(lower[i+1 : j]); ok {
				return hex, true
			}
		case strings.HasPrefix(lower[i:], "rgb"):
			open := strings.IndexByte(lower[i:], '(')
			if open < 0 {
				continue
			}
			end := matchingParen(lower, i+open)
			if end < 0 {
				return "", false
			}
			if hex, ok := rgbToHex(lower[i+open+1 : end]); ok {
				return hex, true
			}
			i = end
		}
	}
	for _, f := range strings.FieldsFunc(lower, func(r rune) bool { return r == ' ' || r == ',' || r == '(' || r == ')' }) {
		if hex, ok := namedColors[f]; ok && hex != "" {
			return hex, true
		}
	}
	return "", false
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}

func expandHex(h string) (string, bool) {
	switch len(h) {
	case 3, 4:
		return strings.ToUpper(string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})), true
	case 6, 8:
		return strings.ToUpper(h[:6]), true
	}
	return "", false
}

func rgbToHex(args string) (string, bool) {
	parts := strings.FieldsFunc(args, func(r rune) bool { return r == ',' || r == ' ' || r == '/' })
	if len(parts) < 3 {
		return "", false
	}
	var rgb [3]int
	for i := 0; i < 3; i++ {
		p := parts[i]
		var v float64
		var err error
		if strings.HasSuffix(p, "%") {
			v, err = strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
			v = v * 255 / 100
		} else {
			v, err = strconv.ParseFloat(p, 64)
		}
		if err != nil {
			return "", false
		}
		rgb[i] = clamp(int(v+0.5), 0, 255)
	}
	return fmt.Sprintf("%02X%02X%02X", rgb[0], rgb[1], rgb[2]), true
}

// lengthPt converts a CSS length to points. em and % are relative to
// parentPt. Unitless zero is accepted.
func lengthPt(value string, parentPt float64) (float64, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return 0, false
	}
	units := []struct {
		suffix string
		factor float64
	}{
		{"rem", 11}, {"pt", 1}, {"px", 0.75}, {"in", 72}, {"cm", 72 / 2.54}, {"mm", 72 / 25.4},
		{"em", parentPt},
	}
	if strings.HasSuffix(v, "%") {
		n, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return 0, false
		}
		return n * parentPt / 100, true
	}
	for _, u := range units {
		if strings.HasSuffix(v, u.suffix) {
			n, err := strconv.ParseFloat(strings.TrimSuffix(v, u.suffix), 64)
			if err != nil {
				return 0, false
			}
			return n * u.factor, true
		}
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n != 0 {
		return 0, false
	}
	return 0, true
}

// lengthPx converts a CSS length to CSS pixels (96 per inch).
func lengthPx(value string) (float64, bool) {
	pt, ok := lengthPt(value, 0)
	if !ok || pt <= 0 {
		return 0, false
	}
	return pt / 0.75, true
}

// border is a paragraph border edge in WordprocessingML units.
type border struct {
	style string // single, dashed, dotted, double
	size  int    // eighths of a point
	color string
}

// parseBorder reads a border shorthand like "2px solid #2d3c77". A zero
// width or none style yields ok with a nil border, which clears any
// inherited edge.
func parseBorder(value string) (*border, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, false
	}
	b := &border{style: "single", size: 4, color: "auto"}
	for _, f := range strings.Fields(strings.ToLower(v)) {
		switch f {
		case "none", "hidden":
			return nil, true
		case "solid":
			b.style = "single"
		case "dashed", "dotted", "double":
			b.style = f
		default:
			if pt, ok := lengthPt(f, 11); ok {
				if pt == 0 {
					return nil, true
				}
				b.size = clamp(int(pt*8+0.5), 2, 96)
				continue
			}
			if c, ok := parseColor(f); ok {
				b.color = c
			}
		}
	}
	return b, true
}

// firstFamily returns the first font family of a font-family list.
func firstFamily(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	var b strings.Builder
	var quote byte
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case quote != 0 && c == '\\' && i+1 < len(v):
			i++
			b.WriteByte(v[i])
		case quote != 0 && c == quote:
			return strings.TrimSpace(b.String())
		case quote == 0 && (c == '"' || c == '\''):
			if b.Len() == 0 {
				quote = c
			} else {
				b.WriteByte(c)
			}
		case quote == 0 && c == ',':
			return strings.TrimSpace(b.String())
		default:
			b.WriteByte(c)
		}
	}
	return strings.TrimSpace(b.String())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
