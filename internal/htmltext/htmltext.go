// Package htmltext turns parsed markup into plain text.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

//nolint:gochecknoglobals // Lookup table.
var blockElements = map[atom.Atom]bool{
	atom.Address:    true,
	atom.Article:    true,
	atom.Blockquote: true,
	atom.Br:         true,
	atom.Dd:         true,
	atom.Div:        true,
	atom.Dl:         true,
	atom.Dt:         true,
	atom.Fieldset:   true,
	atom.Figcaption: true,
	atom.Figure:     true,
	atom.Form:       true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Header:     true,
	atom.Hr:         true,
	atom.Li:         true,
	atom.Main:       true,
	atom.Ol:         true,
	atom.P:          true,
	atom.Pre:        true,
	atom.Section:    true,
	atom.Table:      true,
	atom.Tr:         true,
	atom.Ul:         true,
}

// Remove drops every subtree under sel whose element name is one of tags.
func Remove(sel *goquery.Selection, tags ...string) {
	if len(tags) == 0 {
		return
	}

	sel.Find(strings.Join(tags, ", ")).Remove()
}

// Words returns every text node under sel joined by single spaces,
// with runs of whitespace collapsed.
func Words(sel *goquery.Selection) string {
	var b strings.Builder

	for _, n := range sel.Nodes {
		walkText(n, func(data string) {
			b.WriteString(data)
			b.WriteByte(' ')
		})
	}

	return collapse(b.String())
}

// Paragraphs returns the text under sel grouped by block-level elements.
// Groups are whitespace-collapsed and separated by a blank line.
func Paragraphs(sel *goquery.Selection) string {
	var (
		blocks []string
		cur    strings.Builder
	)

	flush := func() {
		if text := collapse(cur.String()); text != "" {
			blocks = append(blocks, text)
		}
		cur.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			cur.WriteString(n.Data)
		case html.ElementNode, html.DocumentNode:
			block := blockElements[n.DataAtom]
			cell := n.DataAtom == atom.Td || n.DataAtom == atom.Th
			if block {
				flush()
			}
			if cell {
				cur.WriteByte(' ')
			}

			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}

			if cell {
				cur.WriteByte(' ')
			}
			if block {
				flush()
			}
		default:
		}
	}

	for _, n := range sel.Nodes {
		walk(n)
	}
	flush()

	return strings.Join(blocks, "\n\n")
}

func walkText(n *html.Node, fn func(string)) {
	if n.Type == html.TextNode {
		fn(n.Data)
		return
	}

	if n.Type != html.ElementNode && n.Type != html.DocumentNode {
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, fn)
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
