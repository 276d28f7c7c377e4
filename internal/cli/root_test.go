package cli

import (
	"io"
	"testing"

	"github.com/deckgrid/deckgrid/pkg/report"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"build", "export", "inspect", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing %q", name)
		}
	}
}

func TestConfigNeedsPDF(t *testing.T) {
	entry := func(s string) report.StringOrList {
		return report.StringOrList{report.String(s)}
	}

	withPDF := report.Config{Slides: []report.Parameters{{Content: entry("report.PDF")}}}
	if !configNeedsPDF(withPDF) {
		t.Error("pdf content not detected")
	}

	withoutPDF := report.Config{Slides: []report.Parameters{{Content: entry("figure.png")}}}
	if configNeedsPDF(withoutPDF) {
		t.Error("image content flagged as pdf")
	}

	inDefaults := report.Config{Defaults: &report.Parameters{Content: entry("deck.pdf")}}
	if !configNeedsPDF(inDefaults) {
		t.Error("pdf content in defaults not detected")
	}
}
