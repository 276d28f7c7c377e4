package report

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/deckgrid/deckgrid/pkg/box"
)

func TestConfigExportMinimal(t *testing.T) {
	r, _ := newTestReport(t, Parameters{})
	if err := r.AddSlide(Parameters{Title: String("One"), Content: contentList("hello")}); err != nil {
		t.Fatal(err)
	}

	cfg, err := r.Config(ConfigOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Defaults != nil {
		t.Error("empty defaults should be omitted")
	}
	if len(cfg.Slides) != 1 {
		t.Fatalf("exported %d slides, want 1", len(cfg.Slides))
	}
	if cfg.Slides[0].NColumns != nil {
		t.Error("minimal export carries unset parameters")
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["size"] != SizeStandard {
		t.Errorf("size = %v, want the preset name", decoded["size"])
	}
}

func TestConfigExportSplitSlideOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png", pngHeader)
	writeFile(t, dir, "b.png", pngHeader)

	split := SplitEach()
	r, sink := newTestReport(t, Parameters{})
	err := r.AddSlide(Parameters{
		Content: contentList(filepath.Join(dir, "*.png")),
		Split:   &split,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sink.slides) != 2 {
		t.Fatalf("built %d slides", len(sink.slides))
	}

	// One AddSlide call exports as one config entry however many slides
	// splitting produced.
	cfg, err := r.Config(ConfigOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Slides) != 1 {
		t.Errorf("exported %d entries, want 1", len(cfg.Slides))
	}
}

func TestConfigExportFull(t *testing.T) {
	r, _ := newTestReport(t, Parameters{NColumns: Int(3)})
	if err := r.AddSlide(Parameters{Content: contentList("text"), FontSize: Float(20)}); err != nil {
		t.Fatal(err)
	}

	cfg, err := r.Config(ConfigOptions{Full: true})
	if err != nil {
		t.Fatal(err)
	}
	slide := cfg.Slides[0]
	if slide.NColumns == nil || *slide.NColumns != 3 {
		t.Error("full export lost the report default")
	}
	if slide.FontSize == nil || *slide.FontSize != 20 {
		t.Error("full export lost the slide parameter")
	}
	if slide.OuterMargin == nil || *slide.OuterMargin != 2.0 {
		t.Error("full export lost the built-in default")
	}
	if slide.MissingFile == nil || *slide.MissingFile != "raise" {
		t.Error("full export lost the missing-file policy")
	}
}

func TestConfigExportExpand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fig1.png", pngHeader)
	writeFile(t, dir, "fig2.png", pngHeader)

	r, _ := newTestReport(t, Parameters{})
	if err := r.AddSlide(Parameters{Content: contentList(filepath.Join(dir, "fig*.png"))}); err != nil {
		t.Fatal(err)
	}

	cfg, err := r.Config(ConfigOptions{Expand: true})
	if err != nil {
		t.Fatal(err)
	}
	got := cfg.Slides[0].Content.Strings()
	want := []string{filepath.Join(dir, "fig1.png"), filepath.Join(dir, "fig2.png")}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("expanded content = %v, want %v", got, want)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	split := SplitBy(2)
	r, sink := newTestReport(t, Parameters{NColumns: Int(3)})
	if err := r.AddSlide(Parameters{Title: String("A"), Content: contentList("one", "two")}); err != nil {
		t.Fatal(err)
	}
	if err := r.AddSlide(Parameters{Content: contentList("x", "y", "z"), Split: &split}); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "report.json")
	if err := r.WriteConfig(path, ConfigOptions{}); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	sink2 := &fakeSink{size: DefaultSize()}
	r2, err := FromConfig(cfg, Options{Sink: sink2, Filler: r.filler})
	if err != nil {
		t.Fatal(err)
	}

	if r2.SlideCount() != r.SlideCount() {
		t.Errorf("rebuilt %d slides, want %d", r2.SlideCount(), r.SlideCount())
	}
	for i := range sink.slides {
		if sink2.slides[i].title != sink.slides[i].title {
			t.Errorf("slide %d title = %q, want %q", i, sink2.slides[i].title, sink.slides[i].title)
		}
		if len(sink2.slides[i].texts) != len(sink.slides[i].texts) {
			t.Errorf("slide %d has %d texts, want %d",
				i, len(sink2.slides[i].texts), len(sink.slides[i].texts))
		}
	}

	// Exporting the rebuilt report reproduces the file.
	again, err := r2.Config(ConfigOptions{})
	if err != nil {
		t.Fatal(err)
	}
	first, _ := json.Marshal(cfg)
	second, _ := json.Marshal(again)
	if string(first) != string(second) {
		t.Errorf("round trip changed config:\n%s\n%s", first, second)
	}
}

func TestFromConfigDefaultsOverride(t *testing.T) {
	cfg := Config{
		Defaults: &Parameters{NColumns: Int(4)},
		Slides:   []Parameters{{Content: contentList("a", "b", "c", "d")}},
	}
	filler, err := box.NewFiller(box.Options{Prober: fakeProber{}, Fitter: fakeFitter{}})
	if err != nil {
		t.Fatal(err)
	}
	sink2 := &fakeSink{size: DefaultSize()}
	r2, err := FromConfig(cfg, Options{Sink: sink2, Filler: filler, Defaults: Parameters{NColumns: Int(1)}})
	if err != nil {
		t.Fatal(err)
	}

	// Config defaults beat option defaults: four columns put the boxes on
	// one row.
	tops := map[int64]bool{}
	for _, frame := range sink2.slides[0].texts {
		tops[int64(frame.Rect.Top)] = true
	}
	if len(tops) != 1 {
		t.Errorf("boxes on %d rows, want 1", len(tops))
	}
	if r2.SlideCount() != 1 {
		t.Errorf("SlideCount() = %d", r2.SlideCount())
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("missing file expected error")
	}

	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", []byte("{not json"))
	if _, err := LoadConfig(bad); err == nil {
		t.Error("malformed file expected error")
	}
}
