package layout

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/wudi/pdfwriter/document"
)

const (
	listIndent  = 15.0
	quoteIndent = 20.0
)

// Markdown lays out a Markdown source and returns the resulting document.
func Markdown(source []byte, opts ...Option) (*document.Document, error) {
	e := NewEngine(opts...)
	if err := e.RenderMarkdown(string(source)); err != nil {
		return nil, err
	}
	doc := e.Document()
	if len(doc.Pages) == 0 {
		// An empty source still yields one blank page.
		doc.Pages = []document.Page{{MediaBox: document.Rectangle{URX: e.pageWidth, URY: e.pageHeight}}}
	}
	return doc, nil
}

// RenderMarkdown renders a markdown string onto the engine's pages using goldmark.
func (e *Engine) RenderMarkdown(source string) error {
	md := goldmark.New()
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	e.walkMarkdown(doc, src, e.Margins.Left)
	return nil
}

func (e *Engine) walkMarkdown(node ast.Node, source []byte, x float64) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Heading:
			e.renderMarkdownHeader(n, source, x)
		case *ast.Paragraph, *ast.TextBlock:
			e.renderSpans(e.inlineSpans(n, source, e.DefaultFont), x, e.DefaultFontSize*e.LineHeight)
			e.renderParagraphSpacing()
		case *ast.List:
			e.renderMarkdownList(n, source, x)
			e.renderParagraphSpacing()
		case *ast.FencedCodeBlock:
			e.renderMarkdownCode(n.Lines(), source, x)
		case *ast.CodeBlock:
			e.renderMarkdownCode(n.Lines(), source, x)
		case *ast.Blockquote:
			e.walkMarkdown(n, source, x+quoteIndent)
		case *ast.ThematicBreak:
			lineHeight := e.DefaultFontSize * e.LineHeight
			e.checkPageBreak(lineHeight)
			y := e.cursorY - lineHeight/2
			e.drawLine(x, y, e.pageWidth-e.Margins.Right, y)
			e.cursorY -= lineHeight
		}
	}
}

func (e *Engine) renderMarkdownHeader(n *ast.Heading, source []byte, x float64) {
	fontSize := e.DefaultFontSize * 2.0
	if n.Level == 2 {
		fontSize = e.DefaultFontSize * 1.5
	} else if n.Level >= 3 {
		fontSize = e.DefaultFontSize * 1.25
	}
	spans := e.inlineSpans(n, source, e.BoldFont)
	if n.Level == 1 && e.title == "" {
		var sb strings.Builder
		for _, s := range spans {
			sb.WriteString(s.Text)
		}
		e.title = strings.TrimSpace(sb.String())
	}
	for i := range spans {
		spans[i].FontSize = fontSize
	}
	e.renderSpans(spans, x, fontSize*e.LineHeight)
	e.renderParagraphSpacing()
}

func (e *Engine) renderMarkdownList(n *ast.List, source []byte, x float64) {
	fontSize := e.DefaultFontSize
	number := n.Start
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "•"
		if n.IsOrdered() {
			marker = strconv.Itoa(number) + "."
			number++
		}
		e.checkPageBreak(fontSize * e.LineHeight)
		e.drawText(marker, x, e.cursorY-fontSize, e.DefaultFont, fontSize)
		e.walkMarkdown(item, source, x+listIndent)
	}
}

func (e *Engine) renderMarkdownCode(lines *text.Segments, source []byte, x float64) {
	fontSize := e.DefaultFontSize * 0.9
	lineHeight := fontSize * e.LineHeight
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(source)), "\r\n")
		line = strings.ReplaceAll(line, "\t", "    ")
		e.checkPageBreak(lineHeight)
		if strings.TrimSpace(line) != "" {
			e.drawText(line, x, e.cursorY-fontSize, e.CodeFont, fontSize)
		}
		e.cursorY -= lineHeight
	}
	e.renderParagraphSpacing()
}

// inlineSpans flattens the inline children of n into styled spans. Strong
// emphasis uses the bold font, other emphasis the italic font and code
// spans the code font.
func (e *Engine) inlineSpans(n ast.Node, source []byte, font string) []TextSpan {
	var spans []TextSpan
	var walk func(node ast.Node, font string)
	walk = func(node ast.Node, font string) {
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			switch c := child.(type) {
			case *ast.Text:
				s := string(c.Segment.Value(source))
				if c.SoftLineBreak() || c.HardLineBreak() {
					s += " "
				}
				spans = append(spans, TextSpan{Text: s, Font: font})
			case *ast.String:
				spans = append(spans, TextSpan{Text: string(c.Value), Font: font})
			case *ast.CodeSpan:
				walk(c, e.CodeFont)
			case *ast.Emphasis:
				if c.Level >= 2 {
					walk(c, e.BoldFont)
				} else {
					walk(c, e.ItalicFont)
				}
			case *ast.AutoLink:
				spans = append(spans, TextSpan{Text: string(c.URL(source)), Font: font})
			default:
				walk(c, font)
			}
		}
	}
	walk(n, font)
	return spans
}
