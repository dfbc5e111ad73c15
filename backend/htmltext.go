package backend

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ignoredTags contains HTML tags whose content is never translated.
var ignoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}

// htmlText is a parsed HTML input with its translatable text nodes.
type htmlText struct {
	doc      *goquery.Document
	fragment bool         // Input had no <html> or <body>; render body contents only
	nodes    []*html.Node // Translatable text nodes in document order
	texts    []string     // Unique trimmed texts in first-seen order
}

// parseHTMLText parses content and collects its translatable text nodes.
func parseHTMLText(content string) (*htmlText, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(content)
	h := &htmlText{
		doc:      doc,
		fragment: !strings.Contains(lower, "<html") && !strings.Contains(lower, "<body"),
	}

	seen := make(map[string]bool)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipElement(n) {
			return
		}

		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				h.nodes = append(h.nodes, n)
				if !seen[trimmed] {
					seen[trimmed] = true
					h.texts = append(h.texts, trimmed)
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range doc.Nodes {
		walk(n)
	}

	return h, nil
}

func skipElement(n *html.Node) bool {
	if ignoredTags[strings.ToLower(n.Data)] {
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key == "data-no-translate" {
			return true
		}
	}
	return false
}

// Texts returns the unique translatable texts.
func (h *htmlText) Texts() []string {
	return h.texts
}

// PlainText joins the translatable texts for language detection.
func (h *htmlText) PlainText() string {
	return strings.Join(h.texts, " ")
}

// Apply replaces each text node with its translation, keeping the original
// surrounding whitespace, and renders the document.
func (h *htmlText) Apply(translations map[string]string) (string, error) {
	for _, n := range h.nodes {
		if translated, ok := translations[strings.TrimSpace(n.Data)]; ok {
			n.Data = preserveWhitespace(n.Data, translated)
		}
	}

	if h.fragment {
		return h.doc.Find("body").Html()
	}
	return h.doc.Html()
}

// preserveWhitespace preserves the original leading/trailing whitespace.
func preserveWhitespace(original, translated string) string {
	leadingLen := len(original) - len(strings.TrimLeft(original, " \t\n\r"))
	leading := original[:leadingLen]

	trailingLen := len(original) - len(strings.TrimRight(original, " \t\n\r"))
	trailing := ""
	if trailingLen > 0 {
		trailing = original[len(original)-trailingLen:]
	}

	return leading + translated + trailing
}
