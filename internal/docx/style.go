package docx

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// runProps are character properties of a run.
type runProps struct {
	font      string
	sizeHalf  int // half-points
	color     string
	bold      bool
	italic    bool
	underline bool
	strike    bool
	caps      bool
}

// computed is the resolved style of one element.
type computed struct {
	vars    map[string]string
	decl    map[string]string
	run     runProps
	sizePt  float64
	align   string
	fill    string
	display string
}

var headingSizes = map[string]float64{"h1": 20, "h2": 16, "h3": 13, "h4": 12, "h5": 11, "h6": 10}

// rootStyle is the style above <html>.
func rootStyle() computed {
	return computed{vars: map[string]string{}, sizePt: 11, run: runProps{sizeHalf: 22}}
}

// compute cascades n's declarations over its parent's inherited values.
func (s *styleSheet) compute(n *html.Node, parent computed) computed {
	st := computed{
		vars:   parent.vars,
		run:    parent.run,
		sizePt: parent.sizePt,
		align:  parent.align,
		fill:   parent.fill,
	}
	applyTagDefaults(n.Data, &st)

	raw := s.declared(n, "")
	ownVars := false
	for k, v := range raw {
		if !strings.HasPrefix(k, "--") {
			continue
		}
		if !ownVars {
			st.vars = copyVars(parent.vars)
			ownVars = true
		}
		st.vars[k] = v
	}
	if ownVars {
		for k, v := range st.vars {
			st.vars[k] = resolveVars(v, st.vars)
		}
	}

	st.decl = make(map[string]string, len(raw))
	for k, v := range raw {
		if strings.HasPrefix(k, "--") {
			continue
		}
		st.decl[k] = resolveVars(v, st.vars)
	}
	st.apply(parent)
	return st
}

func copyVars(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src)+4)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func applyTagDefaults(tag string, st *computed) {
	switch tag {
	case "strong", "b", "th":
		st.run.bold = true
	case "em", "i", "cite":
		st.run.italic = true
	case "u", "ins", "a":
		st.run.underline = true
	case "s", "del", "strike":
		st.run.strike = true
	case "h1", "h2", "h3", "h4", "h5", "h6":
		st.run.bold = true
		st.sizePt = headingSizes[tag]
	case "small":
		st.sizePt *= 0.85
	}
	st.run.sizeHalf = int(st.sizePt*2 + 0.5)
}

func (st *computed) apply(parent computed) {
	d := st.decl
	if v, ok := d["color"]; ok {
		if c, ok := parseColor(v); ok {
			st.run.color = c
		}
	}
	if v, ok := d["font-family"]; ok {
		if f := firstFamily(v); f != "" && !isGenericFamily(f) {
			st.run.font = f
		}
	}
	if v, ok := d["font-size"]; ok {
		if pt, ok := lengthPt(v, parent.sizePt); ok && pt > 0 {
			st.sizePt = pt
			st.run.sizeHalf = int(pt*2 + 0.5)
		}
	}
	if v, ok := d["font-weight"]; ok {
		st.run.bold = isBoldWeight(v)
	}
	if v, ok := d["font-style"]; ok {
		v = strings.ToLower(v)
		st.run.italic = v == "italic" || v == "oblique"
	}
	if v, ok := d["text-decoration"]; ok {
		v = strings.ToLower(v)
		st.run.underline = strings.Contains(v, "underline")
		st.run.strike = strings.Contains(v, "line-through")
	}
	if v, ok := d["text-transform"]; ok {
		st.run.caps = strings.EqualFold(strings.TrimSpace(v), "uppercase")
	}
	if v, ok := d["text-align"]; ok {
		if a := alignment(v); a != "" {
			st.align = a
		}
	}
	for _, prop := range []string{"background-color", "background"} {
		if v, ok := d[prop]; ok {
			if c, ok := parseColor(v); ok {
				st.fill = c
			} else if strings.EqualFold(strings.TrimSpace(v), "none") {
				st.fill = ""
			}
			break
		}
	}
	st.display = strings.ToLower(strings.TrimSpace(d["display"]))
}

func isGenericFamily(f string) bool {
	switch strings.ToLower(f) {
	case "serif", "sans-serif", "monospace", "cursive", "fantasy", "system-ui", "inherit", "initial":
		return true
	}
	return false
}

func isBoldWeight(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "bold", "bolder":
		return true
	case "normal", "lighter":
		return false
	}
	n, err := strconv.Atoi(v)
	return err == nil && n >= 600
}

func alignment(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "left", "start":
		return "left"
	case "right", "end":
		return "right"
	case "center":
		return "center"
	case "justify":
		return "both"
	}
	return ""
}
