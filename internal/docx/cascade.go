package docx

import (
	"sort"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// compound is one simple selector sequence, e.g. "div.letter-body#x".
type compound struct {
	tag     string
	id      string
	classes []string
	root    bool
}

// selector is a chain of compounds read right to left. combinators[i]
// joins parts[i] to parts[i+1] and is one of ' ', '>', '+', '~'.
type selector struct {
	parts       []compound
	combinators []byte
	pseudo      string
	specificity int
}

type rule struct {
	sel   selector
	decls []*css.Declaration
	order int
}

type styleSheet struct {
	rules []rule
}

// collectStyles returns the text of every <style> element in document order.
func collectStyles(root *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "style" {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					b.WriteString(c.Data)
					b.WriteByte('\n')
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return b.String()
}

// parseSheet parses CSS text. Unparseable input yields an empty sheet and
// unsupported selectors are dropped individually.
func parseSheet(text string) *styleSheet {
	sheet := &styleSheet{}
	if strings.TrimSpace(text) == "" {
		return sheet
	}
	parsed, err := parser.Parse(text)
	if err != nil {
		return sheet
	}
	sheet.addRules(parsed.Rules)
	return sheet
}

func (s *styleSheet) addRules(rules []*css.Rule) {
	for _, r := range rules {
		if r.Kind == css.AtRule {
			name := strings.TrimPrefix(strings.ToLower(r.Name), "@")
			if name == "media" && mediaApplies(r.Prelude) {
				s.addRules(r.Rules)
			}
			continue
		}
		for _, raw := range r.Selectors {
			sel, ok := parseSelector(raw)
			if !ok {
				continue
			}
			s.rules = append(s.rules, rule{sel: sel, decls: r.Declarations, order: len(s.rules)})
		}
	}
}

// mediaApplies accepts print and all media queries.
func mediaApplies(prelude string) bool {
	p := strings.ToLower(prelude)
	return strings.Contains(p, "print") || strings.Contains(p, "all")
}

func parseSelector(raw string) (selector, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return selector{}, false
	}
	// Pad combinators so fields split cleanly.
	for _, c := range []string{">", "+", "~"} {
		raw = strings.ReplaceAll(raw, c, " "+c+" ")
	}
	fields := strings.Fields(raw)

	var sel selector
	pending := byte(0)
	for i, f := range fields {
		if f == ">" || f == "+" || f == "~" {
			if len(sel.parts) == 0 || pending != 0 {
				return selector{}, false
			}
			pending = f[0]
			continue
		}
		if len(sel.parts) > 0 {
			if pending == 0 {
				pending = ' '
			}
			sel.combinators = append(sel.combinators, pending)
			pending = 0
		}
		if idx := strings.Index(f, "::"); idx >= 0 {
			if i != len(fields)-1 {
				return selector{}, false
			}
			sel.pseudo = strings.ToLower(f[idx+2:])
			if sel.pseudo != "before" && sel.pseudo != "after" {
				return selector{}, false
			}
			f = f[:idx]
			if f == "" {
				f = "*"
			}
		}
		c, spec, ok := parseCompound(f)
		if !ok {
			return selector{}, false
		}
		sel.parts = append(sel.parts, c)
		sel.specificity += spec
	}
	if pending != 0 || len(sel.parts) == 0 {
		return selector{}, false
	}
	return sel, true
}

// parseCompound parses tag, #id and .class pieces. Pseudo-classes other
// than :root are unsupported.
func parseCompound(s string) (compound, int, bool) {
	var c compound
	spec := 0
	if strings.EqualFold(s, ":root") {
		c.root = true
		return c, 10, true
	}
	if strings.Contains(s, ":") || strings.Contains(s, "[") {
		return c, 0, false
	}
	i := 0
	for i < len(s) && s[i] != '.' && s[i] != '#' {
		i++
	}
	if tag := strings.ToLower(s[:i]); tag != "" && tag != "*" {
		c.tag = tag
		spec++
	}
	for i < len(s) {
		kind := s[i]
		j := i + 1
		for j < len(s) && s[j] != '.' && s[j] != '#' {
			j++
		}
		name := s[i+1 : j]
		if name == "" {
			return c, 0, false
		}
		if kind == '#' {
			c.id = name
			spec += 100
		} else {
			c.classes = append(c.classes, name)
			spec += 10
		}
		i = j
	}
	return c, spec, true
}

func (c compound) matches(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if c.root {
		return n.Data == "html"
	}
	if c.tag != "" && c.tag != n.Data {
		return false
	}
	if c.id != "" && attr(n, "id") != c.id {
		return false
	}
	if len(c.classes) > 0 {
		have := strings.Fields(attr(n, "class"))
		for _, want := range c.classes {
			if !contains(have, want) {
				return false
			}
		}
	}
	return true
}

func (s selector) matches(n *html.Node) bool {
	return s.matchFrom(n, len(s.parts)-1)
}

func (s selector) matchFrom(n *html.Node, i int) bool {
	if !s.parts[i].matches(n) {
		return false
	}
	if i == 0 {
		return true
	}
	switch s.combinators[i-1] {
	case '>':
		return s.matchFrom(elementParent(n), i-1)
	case '+':
		return s.matchFrom(prevElement(n), i-1)
	case '~':
		for p := prevElement(n); p != nil; p = prevElement(p) {
			if s.matchFrom(p, i-1) {
				return true
			}
		}
		return false
	default:
		for p := elementParent(n); p != nil; p = elementParent(p) {
			if s.matchFrom(p, i-1) {
				return true
			}
		}
		return false
	}
}

// declared returns the cascaded declarations for n (pseudo empty) or for
// one of its ::before/::after boxes. Inline style attributes apply to the
// element itself only.
func (s *styleSheet) declared(n *html.Node, pseudo string) map[string]string {
	type hit struct {
		spec, order int
		decls       []*css.Declaration
	}
	var hits []hit
	for _, r := range s.rules {
		if r.sel.pseudo != pseudo || !r.sel.matches(n) {
			continue
		}
		hits = append(hits, hit{r.sel.specificity, r.order, r.decls})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].spec != hits[j].spec {
			return hits[i].spec < hits[j].spec
		}
		return hits[i].order < hits[j].order
	})

	out := map[string]string{}
	var inline []*css.Declaration
	if pseudo == "" {
		if style := strings.TrimSpace(attr(n, "style")); style != "" {
			if !strings.HasSuffix(style, ";") {
				style += ";"
			}
			inline, _ = parser.ParseDeclarations(style)
		}
	}
	for _, important := range []bool{false, true} {
		for _, h := range hits {
			assignDecls(out, h.decls, important)
		}
		assignDecls(out, inline, important)
	}
	return out
}

func assignDecls(out map[string]string, decls []*css.Declaration, important bool) {
	for _, d := range decls {
		if d == nil || d.Important != important {
			continue
		}
		prop := strings.TrimSpace(d.Property)
		if !strings.HasPrefix(prop, "--") {
			prop = strings.ToLower(prop)
		}
		out[prop] = strings.TrimSpace(d.Value)
	}
}

// resolveVars substitutes var(--name, fallback) references, nested ones
// included. Unknown names without fallback resolve to the empty string.
func resolveVars(value string, vars map[string]string) string {
	for depth := 0; depth < 16; depth++ {
		start := strings.Index(value, "var(")
		if start < 0 {
			return value
		}
		end := matchingParen(value, start+3)
		if end < 0 {
			return value
		}
		inner := value[start+4 : end]
		name, fallback, _ := strings.Cut(inner, ",")
		repl, ok := vars[strings.TrimSpace(name)]
		if !ok {
			repl = strings.TrimSpace(fallback)
		}
		value = value[:start] + repl + value[end+1:]
	}
	return value
}

func matchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func elementParent(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return p
		}
	}
	return nil
}

func prevElement(n *html.Node) *html.Node {
	for p := n.PrevSibling; p != nil; p = p.PrevSibling {
		if p.Type == html.ElementNode {
			return p
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
