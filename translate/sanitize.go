package translate

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/rtlslide/content"
)

// blockElements end a line when markup is flattened to text.
var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "tr": true,
}

// Sanitize cleans a translated string: markup the translator added is
// flattened to text, character references are decoded, Markdown code
// fences are dropped, line endings become "\n" and the result is NFC
// normalised and trimmed.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = stripFences(s)
	if strings.ContainsAny(s, "<&") {
		s = flatten(s)
	}
	return strings.TrimSpace(norm.NFC.String(s))
}

// SanitizeDocument applies Sanitize to every text of doc.
func SanitizeDocument(doc content.Document) content.Document {
	out := content.Document{Context: doc.Context, Elements: make([]content.Record, len(doc.Elements))}
	for i, rec := range doc.Elements {
		r := rec
		r.Text = Sanitize(rec.Text)
		r.Paragraphs = make([]content.Paragraph, len(rec.Paragraphs))
		for j, p := range rec.Paragraphs {
			p.Text = Sanitize(p.Text)
			r.Paragraphs[j] = p
		}
		out.Elements[i] = r
	}
	return out
}

func stripFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") || !strings.HasSuffix(t, "```") || len(t) < 6 {
		return s
	}
	t = strings.TrimSuffix(strings.TrimPrefix(t, "```"), "```")
	// Drop a language tag on the opening fence.
	if nl := strings.IndexByte(t, '\n'); nl >= 0 && !strings.ContainsAny(t[:nl], " \t") {
		t = t[nl+1:]
	}
	return t
}

// flatten parses s as an HTML fragment and returns its text content.
func flatten(s string) string {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return s
	}
	var sb strings.Builder
	for _, n := range nodes {
		writeText(&sb, n)
	}
	return sb.String()
}

func writeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style":
			return
		case "br":
			sb.WriteByte('\n')
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}
	if n.Type == html.ElementNode && blockElements[n.Data] && openLine(sb) {
		sb.WriteByte('\n')
	}
}

// openLine reports whether the builder holds text not already ending a
// line.
func openLine(sb *strings.Builder) bool {
	s := sb.String()
	return s != "" && !strings.HasSuffix(s, "\n")
}
