package content

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestResolveGroupedPairs(t *testing.T) {
	dir := t.TempDir()
	catImg := writeFile(t, dir, "cat_image.png", pngHeader)
	dogImg := writeFile(t, dir, "dog_image.png", pngHeader)
	catTxt := writeFile(t, dir, "cat_notes.txt", []byte("about cats"))
	dogTxt := writeFile(t, dir, "dog_notes.txt", []byte("about dogs"))

	r := newTestResolver(t, Options{})
	groups, err := r.ResolveGrouped([]string{
		filepath.Join(dir, `(\w+)_image\.png`),
		filepath.Join(dir, `(\w+)_notes\.txt`),
	})
	if err != nil {
		t.Fatalf("ResolveGrouped() error: %v", err)
	}

	if len(groups) != 2 {
		t.Fatalf("ResolveGrouped() returned %d groups, want 2", len(groups))
	}
	if groups[0].Name != "cat" || groups[1].Name != "dog" {
		t.Fatalf("group names = %q, %q, want cat, dog", groups[0].Name, groups[1].Name)
	}

	wantEntries := [][]string{{catImg, catTxt}, {dogImg, dogTxt}}
	for g, group := range groups {
		if len(group.Entries) != 2 {
			t.Fatalf("group %q has %d entries, want 2", group.Name, len(group.Entries))
		}
		for i, entry := range group.Entries {
			if entry == nil || *entry != wantEntries[g][i] {
				t.Errorf("group %q entry %d = %v, want %q", group.Name, i, entry, wantEntries[g][i])
			}
		}
	}
}

func TestResolveGroupedNaturalOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"run10_plot.png", "run2_plot.png", "run1_plot.png"} {
		writeFile(t, dir, name, pngHeader)
	}

	r := newTestResolver(t, Options{})
	groups, err := r.ResolveGrouped([]string{filepath.Join(dir, `(run\d+)_plot\.png`)})
	if err != nil {
		t.Fatalf("ResolveGrouped() error: %v", err)
	}

	got := []string{}
	for _, g := range groups {
		got = append(got, g.Name)
	}
	want := []string{"run1", "run2", "run10"}
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("group order = %v, want %v", got, want)
	}
}

func TestResolveGroupedLiteralPattern(t *testing.T) {
	// A pattern with no capture group, or one that matches nothing, repeats
	// as literal text in every group.
	dir := t.TempDir()
	writeFile(t, dir, "cat_image.png", pngHeader)
	writeFile(t, dir, "dog_image.png", pngHeader)

	r := newTestResolver(t, Options{})
	groups, err := r.ResolveGrouped([]string{
		filepath.Join(dir, `(\w+)_image\.png`),
		"A shared caption",
	})
	if err != nil {
		t.Fatalf("ResolveGrouped() error: %v", err)
	}

	if len(groups) != 2 {
		t.Fatalf("ResolveGrouped() returned %d groups, want 2", len(groups))
	}
	for _, g := range groups {
		if len(g.Entries) != 2 {
			t.Fatalf("group %q has %d entries, want 2", g.Name, len(g.Entries))
		}
		if g.Entries[1] == nil || *g.Entries[1] != "A shared caption" {
			t.Errorf("group %q caption = %v, want literal", g.Name, g.Entries[1])
		}
	}
}

func TestResolveGroupedMissingPolicies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cat_image.png", pngHeader)
	writeFile(t, dir, "dog_image.png", pngHeader)
	writeFile(t, dir, "cat_notes.txt", []byte("about cats"))

	patterns := []string{
		filepath.Join(dir, `(\w+)_image\.png`),
		filepath.Join(dir, `(\w+)_notes\.txt`),
	}

	t.Run("Raise", func(t *testing.T) {
		r := newTestResolver(t, Options{MissingFile: MissingRaise})
		if _, err := r.ResolveGrouped(patterns); !errors.Is(err, ErrNotFound) {
			t.Errorf("ResolveGrouped() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		r := newTestResolver(t, Options{MissingFile: MissingEmpty})
		groups, err := r.ResolveGrouped(patterns)
		if err != nil {
			t.Fatalf("ResolveGrouped() error: %v", err)
		}
		dog := groups[1]
		if len(dog.Entries) != 2 || dog.Entries[1] != nil {
			t.Errorf("dog entries = %+v, want nil second slot", dog.Entries)
		}
	})

	t.Run("Skip", func(t *testing.T) {
		r := newTestResolver(t, Options{MissingFile: MissingSkip})
		groups, err := r.ResolveGrouped(patterns)
		if err != nil {
			t.Fatalf("ResolveGrouped() error: %v", err)
		}
		dog := groups[1]
		if len(dog.Entries) != 1 {
			t.Errorf("dog entries = %+v, want the image only", dog.Entries)
		}
	})
}

func TestResolveGroupedTooManyCaptureGroups(t *testing.T) {
	dir := t.TempDir()
	r := newTestResolver(t, Options{})
	_, err := r.ResolveGrouped([]string{filepath.Join(dir, `(\w+)_(\w+)\.png`)})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("ResolveGrouped() error = %v, want ErrInvalid", err)
	}
}
