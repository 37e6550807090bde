// Package docs prepares mod documentation for terminal display.
package docs

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	htmlHint   = regexp.MustCompile(`(?i)<(html|body|p|div|br|h[1-6]|ul|ol|li|a|pre|table)[\s/>]`)
	blankLines = regexp.MustCompile(`\n{3,}`)
	spaces     = regexp.MustCompile(`[ \t\r\n\f]+`)
)

// IsHTML reports whether doc looks like an HTML document or fragment.
func IsHTML(doc string) bool {
	return htmlHint.MatchString(doc)
}

// Render returns doc as plain text. HTML is flattened (headings, lists,
// links and preformatted blocks keep a readable shape); anything else is
// returned with trailing whitespace trimmed.
func Render(doc string) string {
	if !IsHTML(doc) {
		return strings.TrimRight(doc, " \t\r\n")
	}

	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		// html.Parse only fails on reader errors; keep the source.
		return doc
	}

	var w textWriter
	w.walk(root)
	out := blankLines.ReplaceAllString(w.b.String(), "\n\n")
	return strings.TrimSpace(out)
}

type textWriter struct {
	b   strings.Builder
	pre int
}

func (w *textWriter) newline() {
	s := w.b.String()
	if s == "" || strings.HasSuffix(s, "\n") {
		return
	}
	w.b.WriteByte('\n')
}

func (w *textWriter) paragraph() {
	w.newline()
	if !strings.HasSuffix(w.b.String(), "\n\n") && w.b.Len() > 0 {
		w.b.WriteByte('\n')
	}
}

func (w *textWriter) text(s string) {
	if w.pre > 0 {
		w.b.WriteString(s)
		return
	}
	s = spaces.ReplaceAllString(s, " ")
	if s == " " || s == "" {
		cur := w.b.String()
		if cur != "" && !strings.HasSuffix(cur, " ") && !strings.HasSuffix(cur, "\n") {
			w.b.WriteByte(' ')
		}
		return
	}
	cur := w.b.String()
	if strings.HasPrefix(s, " ") && (cur == "" || strings.HasSuffix(cur, " ") || strings.HasSuffix(cur, "\n")) {
		s = s[1:]
	}
	w.b.WriteString(s)
}

func (w *textWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *textWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.ElementNode:
	default:
		w.children(n)
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head:
		return
	case atom.Br:
		w.b.WriteByte('\n')
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		w.paragraph()
		w.b.WriteString(strings.Repeat("#", int(n.Data[1]-'0')) + " ")
		w.children(n)
		w.paragraph()
	case atom.P, atom.Div, atom.Table, atom.Ul, atom.Ol, atom.Blockquote:
		w.paragraph()
		w.children(n)
		w.paragraph()
	case atom.Li:
		w.newline()
		w.b.WriteString("• ")
		w.children(n)
		w.newline()
	case atom.Tr:
		w.newline()
		w.children(n)
		w.newline()
	case atom.Td, atom.Th:
		w.children(n)
		w.b.WriteString("  ")
	case atom.Pre:
		w.paragraph()
		w.pre++
		w.children(n)
		w.pre--
		w.paragraph()
	case atom.A:
		start := w.b.Len()
		w.children(n)
		label := strings.TrimSpace(w.b.String()[start:])
		if href := attr(n, "href"); href != "" && href != label && !strings.HasPrefix(href, "#") {
			w.b.WriteString(" (" + href + ")")
		}
	case atom.Img:
		if alt := attr(n, "alt"); alt != "" {
			w.text("[" + alt + "]")
		}
	default:
		w.children(n)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
