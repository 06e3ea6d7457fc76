package layout

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/wudi/pdfwriter/cos"
	"github.com/wudi/pdfwriter/document"
	"github.com/wudi/pdfwriter/encoding"
)

// Engine lays structured text out onto pages using the standard fonts.
type Engine struct {
	// Configuration
	DefaultFont     string
	BoldFont        string
	ItalicFont      string
	CodeFont        string
	DefaultFontSize float64
	LineHeight      float64 // Multiplier, e.g., 1.2
	Margins         Margins

	// State
	pages       []document.Page
	current     *pageState
	cursorY     float64
	pageWidth   float64
	pageHeight  float64
	title       string
	resourceIDs map[string]string
}

type pageState struct {
	ops   bytes.Buffer
	fonts map[string]document.Font
}

// Margins defines page margins in points.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// Option defines a configuration option for the Engine.
type Option func(*Engine)

// WithDefaultFont sets the body font.
func WithDefaultFont(font string) Option {
	return func(e *Engine) {
		e.DefaultFont = font
	}
}

// WithDefaultFontSize sets the default font size.
func WithDefaultFontSize(size float64) Option {
	return func(e *Engine) {
		e.DefaultFontSize = size
	}
}

// WithLineHeight sets the line height multiplier.
func WithLineHeight(height float64) Option {
	return func(e *Engine) {
		e.LineHeight = height
	}
}

// WithMargins sets the page margins.
func WithMargins(margins Margins) Option {
	return func(e *Engine) {
		e.Margins = margins
	}
}

// WithPageSize sets the page dimensions.
func WithPageSize(width, height float64) Option {
	return func(e *Engine) {
		e.pageWidth = width
		e.pageHeight = height
	}
}

// NewEngine creates a new layout engine with optional configuration.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		DefaultFont:     "Helvetica",
		BoldFont:        "Helvetica-Bold",
		ItalicFont:      "Helvetica-Oblique",
		CodeFont:        "Courier",
		DefaultFontSize: 12,
		LineHeight:      1.2,
		Margins: Margins{
			Top:    50,
			Bottom: 50,
			Left:   50,
			Right:  50,
		},
		pageWidth:   document.A4.Width(),
		pageHeight:  document.A4.Height(),
		resourceIDs: make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Document finishes the current page and returns everything laid out so
// far. The first level one heading, if any, becomes the title.
func (e *Engine) Document() *document.Document {
	e.finishPage()
	doc := &document.Document{Pages: e.pages}
	doc.Info.Title = e.title
	return doc
}

// ensurePage makes sure there is a current page and the cursor is valid.
func (e *Engine) ensurePage() {
	if e.current == nil {
		e.newPage()
	}
}

// newPage starts a new page and resets the cursor.
func (e *Engine) newPage() {
	e.current = &pageState{fonts: make(map[string]document.Font)}
	e.cursorY = e.pageHeight - e.Margins.Top
}

func (e *Engine) finishPage() {
	if e.current == nil {
		return
	}
	page := document.Page{
		MediaBox:  document.Rectangle{URX: e.pageWidth, URY: e.pageHeight},
		Resources: document.Resources{Fonts: e.current.fonts},
	}
	if e.current.ops.Len() > 0 {
		page.Contents = [][]byte{bytes.TrimSuffix(e.current.ops.Bytes(), []byte("\n"))}
	}
	e.pages = append(e.pages, page)
	e.current = nil
}

// checkPageBreak checks if there is enough space for height; if not, adds a new page.
func (e *Engine) checkPageBreak(height float64) {
	if e.current == nil {
		e.newPage()
		return
	}
	if e.cursorY-height < e.Margins.Bottom {
		e.finishPage()
		e.newPage()
	}
}

// fontResource returns the resource name for font on the current page.
// Names are stable across pages: F1 is the first font the engine used.
func (e *Engine) fontResource(font string) string {
	id, ok := e.resourceIDs[font]
	if !ok {
		id = "F" + strconv.Itoa(len(e.resourceIDs)+1)
		e.resourceIDs[font] = id
	}
	e.current.fonts[id] = document.Font{BaseFont: font, Encoding: encoding.WinAnsi.Name().String()}
	return id
}

// drawText shows text with its baseline origin at (x, y). Characters
// outside WinAnsiEncoding are replaced by '?'.
func (e *Engine) drawText(text string, x, y float64, font string, size float64) {
	e.ensurePage()
	res := e.fontResource(font)
	str := cos.NewBytes(encoding.EncodeLossy(encoding.WinAnsi, text, '?')).WithFormat(cos.FormatLiteral)
	e.op("BT")
	e.op("Tf", cos.MustName(res), cos.Float(size))
	e.op("Td", cos.Float(x), cos.Float(y))
	e.op("Tj", str)
	e.op("ET")
}

// drawLine strokes a one point line from (x1, y1) to (x2, y2).
func (e *Engine) drawLine(x1, y1, x2, y2 float64) {
	e.ensurePage()
	e.op("w", cos.Int(1))
	e.op("m", cos.Float(x1), cos.Float(y1))
	e.op("l", cos.Float(x2), cos.Float(y2))
	e.op("S")
}

// op appends one content stream operation.
func (e *Engine) op(operator string, operands ...cos.Value) {
	buf := &e.current.ops
	b := buf.AvailableBuffer()
	for _, v := range operands {
		b = cos.AppendValue(b, v)
		b = append(b, ' ')
	}
	b = append(b, operator...)
	b = append(b, '\n')
	buf.Write(b)
}

// TextSpan represents a segment of text with specific styling.
type TextSpan struct {
	Text     string
	Font     string
	FontSize float64
}

func (e *Engine) renderParagraphSpacing() {
	if e.current != nil {
		e.cursorY -= e.DefaultFontSize * e.LineHeight / 2
	}
}

func (e *Engine) renderTextWrapped(text string, x float64, fontSize, lineHeight float64) {
	e.renderSpans([]TextSpan{{
		Text:     text,
		Font:     e.DefaultFont,
		FontSize: fontSize,
	}}, x, lineHeight)
}

// renderSpans flows spans into lines no wider than the space right of x,
// breaking at spaces and, for words longer than a line, between
// characters.
func (e *Engine) renderSpans(spans []TextSpan, x, lineHeight float64) {
	if len(spans) == 0 {
		return
	}

	maxWidth := e.pageWidth - e.Margins.Right - x

	type wordSpan struct {
		text  string
		span  TextSpan
		width float64
	}

	var currentLine []wordSpan
	currentLineWidth := 0.0

	flushLine := func() {
		// Drop a trailing space so it does not push the next line.
		for len(currentLine) > 0 && currentLine[len(currentLine)-1].text == " " {
			currentLine = currentLine[:len(currentLine)-1]
		}
		if len(currentLine) == 0 {
			return
		}
		e.checkPageBreak(lineHeight)

		curX := x
		for _, ws := range currentLine {
			if ws.text != " " {
				e.drawText(ws.text, curX, e.cursorY-ws.span.FontSize, ws.span.Font, ws.span.FontSize)
			}
			curX += ws.width
		}
		e.cursorY -= lineHeight
		currentLine = nil
		currentLineWidth = 0
	}

	for _, span := range spans {
		if span.Text == "" {
			continue
		}
		if span.Font == "" {
			span.Font = e.DefaultFont
		}
		if span.FontSize == 0 {
			span.FontSize = e.DefaultFontSize
		}
		spaceW := MeasureText(" ", span.FontSize, span.Font)

		for _, token := range tokenize(span.Text) {
			if token == " " {
				if len(currentLine) == 0 {
					continue
				}
				if currentLineWidth+spaceW > maxWidth {
					flushLine()
				} else {
					currentLine = append(currentLine, wordSpan{text: " ", span: span, width: spaceW})
					currentLineWidth += spaceW
				}
				continue
			}

			w := MeasureText(token, span.FontSize, span.Font)
			switch {
			case currentLineWidth+w <= maxWidth:
				currentLine = append(currentLine, wordSpan{text: token, span: span, width: w})
				currentLineWidth += w
			case w <= maxWidth:
				flushLine()
				currentLine = append(currentLine, wordSpan{text: token, span: span, width: w})
				currentLineWidth = w
			default:
				flushLine()
				var sub strings.Builder
				subWidth := 0.0
				for _, r := range token {
					rw := MeasureText(string(r), span.FontSize, span.Font)
					if subWidth+rw > maxWidth && sub.Len() > 0 {
						currentLine = append(currentLine, wordSpan{text: sub.String(), span: span, width: subWidth})
						flushLine()
						sub.Reset()
						subWidth = 0
					}
					sub.WriteRune(r)
					subWidth += rw
				}
				if sub.Len() > 0 {
					currentLine = append(currentLine, wordSpan{text: sub.String(), span: span, width: subWidth})
					currentLineWidth = subWidth
				}
			}
		}
	}
	flushLine()
}

// tokenize splits text into words and single-space separators.
func tokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			if len(tokens) == 0 || tokens[len(tokens)-1] != " " {
				tokens = append(tokens, " ")
			}
			continue
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// MeasureText estimates the advance of text. Courier is monospaced at 0.6
// em; proportional fonts are approximated at half an em per character.
func MeasureText(text string, size float64, font string) float64 {
	em := 0.5
	if strings.HasPrefix(font, "Courier") {
		em = 0.6
	}
	return float64(len([]rune(text))) * size * em
}
