package pipeline

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parsedMarkup is markup parsed either as a full document or as a body
// fragment, so it renders back in the same shape.
type parsedMarkup struct {
	root       *html.Node
	isFragment bool
}

// isFullDocument reports whether content starts with a doctype or <html>.
func isFullDocument(content string) bool {
	lower := strings.ToLower(strings.TrimSpace(content))
	return strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html")
}

func parseMarkup(content string) (*parsedMarkup, error) {
	if isFullDocument(content) {
		doc, err := html.Parse(strings.NewReader(content))
		if err != nil {
			return nil, err
		}
		return &parsedMarkup{root: doc}, nil
	}

	// Parsing in body context keeps the parser from adding html/head/body.
	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, err
	}
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return &parsedMarkup{root: container, isFragment: true}, nil
}

// document wraps the tree for goquery selection.
func (p *parsedMarkup) document() *goquery.Document {
	return goquery.NewDocumentFromNode(p.root)
}

func (p *parsedMarkup) render() (string, error) {
	var buf strings.Builder
	if p.isFragment {
		for c := p.root.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}
	if err := html.Render(&buf, p.root); err != nil {
		return "", err
	}
	return buf.String(), nil
}
