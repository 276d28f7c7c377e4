package box

import "testing"

func TestDetectMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "Plain", in: "just a sentence about results", want: false},
		{name: "Heading", in: "# Results", want: true},
		{name: "Bold", in: "a **strong** claim", want: true},
		{name: "Italic", in: "an _aside_ here", want: true},
		{name: "Link", in: "see [docs](https://example.com/docs)", want: true},
		{name: "UnorderedList", in: "- first\n- second", want: true},
		{name: "OrderedList", in: "1. first\n2. second", want: true},
		{name: "Empty", in: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMarkdown(tt.in); got != tt.want {
				t.Errorf("DetectMarkdown(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseSpansEmphasis(t *testing.T) {
	spans := ParseSpans("plain **bold** and *italic* end")

	var bold, italic []string
	for _, sp := range spans {
		if sp.Bold {
			bold = append(bold, sp.Text)
		}
		if sp.Italic {
			italic = append(italic, sp.Text)
		}
	}
	if len(bold) != 1 || bold[0] != "bold" {
		t.Errorf("bold spans = %v, want [bold]", bold)
	}
	if len(italic) != 1 || italic[0] != "italic" {
		t.Errorf("italic spans = %v, want [italic]", italic)
	}
	if got := JoinSpans(spans); got != "plain bold and italic end" {
		t.Errorf("flattened = %q", got)
	}
}

func TestParseSpansLink(t *testing.T) {
	spans := ParseSpans("see [the docs](https://example.com)")

	var linked *Span
	for i := range spans {
		if spans[i].Link != "" {
			linked = &spans[i]
		}
	}
	if linked == nil {
		t.Fatal("no linked span found")
	}
	if linked.Text != "the docs" || linked.Link != "https://example.com" {
		t.Errorf("linked span = %+v", *linked)
	}
}

func TestParseSpansImageAltText(t *testing.T) {
	spans := ParseSpans("before ![a chart](chart.png) after")
	if got := JoinSpans(spans); got != "before a chart after" {
		t.Errorf("flattened = %q, want alt text inline", got)
	}
}

func TestParseSpansHeadingBecomesPlain(t *testing.T) {
	spans := ParseSpans("# Title\n\nbody text")
	for _, sp := range spans {
		if sp.Bold || sp.Italic || sp.Link != "" {
			t.Errorf("span %+v should be plain", sp)
		}
	}
	if got := JoinSpans(spans); got != "Title\nbody text" {
		t.Errorf("flattened = %q", got)
	}
}

func TestParseSpansListItems(t *testing.T) {
	spans := ParseSpans("- first\n- second")
	if got := JoinSpans(spans); got != "first\nsecond" {
		t.Errorf("flattened = %q, want one item per line", got)
	}
}
