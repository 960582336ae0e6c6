package speech

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var mdParser = goldmark.New().Parser()

// PlainText strips markdown so it can be spoken. Code blocks and raw HTML
// are dropped; block elements end with a sentence break.
func PlainText(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}
	source := []byte(markdown)
	doc := mdParser.Parse(text.NewReader(source))

	var buf strings.Builder
	walkPlain(doc, source, &buf)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func walkPlain(node ast.Node, source []byte, buf *strings.Builder) {
	switch n := node.(type) {
	case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock, *ast.RawHTML:
		return

	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		if n.SoftLineBreak() || n.HardLineBreak() {
			buf.WriteByte(' ')
		}
		return

	case *ast.String:
		buf.Write(n.Value)
		return

	case *ast.AutoLink:
		buf.Write(n.Label(source))
		return

	case *ast.Heading, *ast.Paragraph, *ast.ListItem:
		walkChildren(n, source, buf)
		endSentence(buf)
		return

	case *ast.ThematicBreak:
		endSentence(buf)
		return
	}

	walkChildren(node, source, buf)
}

func walkChildren(node ast.Node, source []byte, buf *strings.Builder) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		walkPlain(c, source, buf)
	}
}

// endSentence terminates the text written so far unless it already ends in
// punctuation.
func endSentence(buf *strings.Builder) {
	s := strings.TrimRight(buf.String(), " ")
	if s == "" {
		return
	}
	buf.Reset()
	buf.WriteString(s)
	switch s[len(s)-1] {
	case '.', '!', '?', ':', ';':
		buf.WriteByte(' ')
	default:
		buf.WriteString(". ")
	}
}
