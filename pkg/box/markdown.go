package box

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Span is a run of text with uniform styling. Only emphasis and links carry
// over into slides; headings and list markers render as plain text.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
	Link   string
}

// Plain wraps a string in a single unstyled span.
func Plain(s string) []Span { return []Span{{Text: s}} }

// Markdown probes. Text is treated as markdown when any of these match, so
// that plain prose never takes the parsing detour.
var mdProbes = []*regexp.Regexp{
	regexp.MustCompile(`(#{1,8}\s)(.*)`),                      // heading
	regexp.MustCompile(`(\*|_)+(\S+)(\*|_)+`),                 // emphasis
	regexp.MustCompile(`(\[.*\])(\((http)(s)?(://).*\))`),     // link
	regexp.MustCompile(`(!\[.*\])(\(.*\))`),                   // image
	regexp.MustCompile(`(?m)(^([-*+])(\s)(.*)(?:$)?)+`),       // unordered list
	regexp.MustCompile(`(?m)(^(\d+\.)(\s)(.*)(?:$)?)+`),       // ordered list
}

// DetectMarkdown reports whether s contains markdown constructs.
func DetectMarkdown(s string) bool {
	for _, re := range mdProbes {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// ParseSpans converts markdown into styled spans. Bold, italic and links are
// preserved; images collapse to their alt text; everything else becomes
// plain text with block boundaries as newlines.
func ParseSpans(s string) []Span {
	src := []byte(s)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var spans []Span
	var bold, italic int
	var link string

	emit := func(t string) {
		if t == "" {
			return
		}
		spans = append(spans, Span{Text: t, Bold: bold > 0, Italic: italic > 0, Link: link})
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Emphasis:
			delta := 1
			if !entering {
				delta = -1
			}
			if node.Level >= 2 {
				bold += delta
			} else {
				italic += delta
			}
		case *ast.Link:
			if entering {
				link = string(node.Destination)
			} else {
				link = ""
			}
		case *ast.Image:
			if entering {
				emit(plainText(node, src))
				return ast.WalkSkipChildren, nil
			}
		case *ast.Text:
			if entering {
				emit(string(node.Segment.Value(src)))
				if node.SoftLineBreak() || node.HardLineBreak() {
					emit("\n")
				}
			}
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			if !entering {
				spans = append(spans, Span{Text: "\n"})
			}
		}
		return ast.WalkContinue, nil
	})

	for len(spans) > 0 && spans[len(spans)-1].Text == "\n" {
		spans = spans[:len(spans)-1]
	}
	return spans
}

// plainText flattens a node's text content, dropping all styling.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			b.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// JoinSpans flattens spans back into plain text, used for measuring.
func JoinSpans(spans []Span) string {
	var b strings.Builder
	for _, sp := range spans {
		b.WriteString(sp.Text)
	}
	return b.String()
}
