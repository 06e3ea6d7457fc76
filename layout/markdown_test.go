package layout

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/wudi/pdfwriter/document"
	"github.com/wudi/pdfwriter/writer"
)

const sample = `
# Header 1
## Header 2

Paragraph with **bold** and *italic* text and ` + "`code`" + `.

- List item 1
- List item 2

1. first
2. second

> quoted

---

` + "```go" + `
func main() {
	fmt.Println("Hello")
}
` + "```" + `
`

func pageText(doc *document.Document) string {
	var sb strings.Builder
	for _, p := range doc.Pages {
		for _, c := range p.Contents {
			sb.Write(c)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func fontFor(doc *document.Document, word string) string {
	for _, p := range doc.Pages {
		for _, c := range p.Contents {
			lines := strings.Split(string(c), "\n")
			for i, line := range lines {
				if line == "("+word+") Tj" && i >= 2 {
					res := strings.TrimPrefix(strings.Fields(lines[i-2])[0], "/")
					return p.Resources.Fonts[res].BaseFont
				}
			}
		}
	}
	return ""
}

func TestMarkdown_Features(t *testing.T) {
	doc, err := Markdown([]byte(sample))
	if err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("expected one page, got %d", len(doc.Pages))
	}
	if doc.Info.Title != "Header 1" {
		t.Errorf("title = %q", doc.Info.Title)
	}

	cases := map[string]string{
		"Header":    "Helvetica-Bold",
		"bold":      "Helvetica-Bold",
		"italic":    "Helvetica-Oblique",
		"code":      "Courier",
		"Paragraph": "Helvetica",
		"quoted":    "Helvetica",
		"\x95":      "Helvetica",
		"2.":        "Helvetica",
		"}":         "Courier",
	}
	for word, want := range cases {
		if got := fontFor(doc, word); got != want {
			t.Errorf("%q drawn with %q, want %q", word, got, want)
		}
	}

	text := pageText(doc)
	if !strings.Contains(text, "/F1 24 Tf") {
		t.Errorf("level one heading should be 24pt:\n%s", text)
	}
	if !strings.Contains(text, "(    fmt.Println\\(\"Hello\"\\)) Tj") {
		t.Errorf("code block line missing:\n%s", text)
	}
	if !strings.Contains(text, " l\nS") {
		t.Errorf("thematic break not stroked")
	}
}

func TestMarkdown_Indentation(t *testing.T) {
	doc, err := Markdown([]byte("- item\n\n> quote\n"))
	if err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	text := pageText(doc)
	if !strings.Contains(text, "\n65 ") || !strings.Contains(text, "\n70 ") {
		t.Fatalf("expected list text at x=65 and quote at x=70:\n%s", text)
	}
}

func TestMarkdown_Paginates(t *testing.T) {
	var src bytes.Buffer
	for i := 0; i < 200; i++ {
		src.WriteString("A paragraph of text that is long enough to wrap onto more than one line of the page.\n\n")
	}
	doc, err := Markdown(src.Bytes())
	if err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	if len(doc.Pages) < 5 {
		t.Fatalf("expected several pages, got %d", len(doc.Pages))
	}
	for i, p := range doc.Pages {
		if len(p.Contents) == 0 {
			t.Fatalf("page %d is empty", i+1)
		}
	}
}

func TestMarkdown_Empty(t *testing.T) {
	doc, err := Markdown(nil)
	if err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	if len(doc.Pages) != 1 || len(doc.Pages[0].Contents) != 0 {
		t.Fatalf("expected a single blank page, got %+v", doc.Pages)
	}
}

func TestMarkdown_WritesFile(t *testing.T) {
	doc, err := Markdown([]byte(sample), WithDefaultFontSize(10))
	if err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	tbl, err := document.Assemble(doc)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	var out bytes.Buffer
	if err := writer.NewWriter().Write(context.Background(), tbl, &out, writer.Config{Compression: 6}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	for _, want := range []string{"/BaseFont /Helvetica-Bold", "/BaseFont /Courier", "/Title (Header 1)", "/Filter /FlateDecode"} {
		if !bytes.Contains(out.Bytes(), []byte(want)) {
			t.Errorf("output missing %s", want)
		}
	}
}
