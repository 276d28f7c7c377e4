package content

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/maruel/natural"
)

// Group is one discovered content group: a name (the shared capture-group
// value) and one entry per input pattern, nil where the pattern had no file
// for the group.
type Group struct {
	Name    string
	Entries []*string
}

// ResolveGrouped pairs files across patterns by a shared capture-group
// value. Each pattern must be a regex with exactly one capture group; the
// group's value names the group a matched file belongs to. Patterns without
// a capture group, or that match no file at all, contribute their literal
// string to every group instead, so fixed text can sit alongside per-group
// files.
//
// The result has one Group per distinct group name, in natural sort order.
// Within a group, entries keep the pattern order. A pattern that matched
// elsewhere but has no file for a particular group yields an entry per the
// missing-file policy: raise errors, empty inserts nil, skip leaves the
// slot out.
func (r *Resolver) ResolveGrouped(patterns []string) ([]Group, error) {
	type patternMatches struct {
		literal string            // non-empty when the pattern is literal for every group
		byGroup map[string]string // group name -> matched file
	}

	matches := make([]patternMatches, len(patterns))
	groupNames := map[string]bool{}

	for i, pattern := range patterns {
		nGroups, err := captureGroupCount(pattern)
		if err != nil {
			return nil, err
		}
		if nGroups > 1 {
			return nil, fmt.Errorf("%w: grouped pattern %q has %d capture groups, want exactly one", ErrInvalid, pattern, nGroups)
		}
		if nGroups == 0 {
			matches[i] = patternMatches{literal: pattern}
			continue
		}

		byGroup, err := matchGrouped(pattern)
		if err != nil {
			return nil, err
		}
		if len(byGroup) == 0 {
			// A pattern matching no file anywhere falls back to literal text
			// for every group, so fixed captions can sit alongside per-group
			// files.
			r.opts.Logger.Debugf("no files for grouped pattern %q; treating as literal text", pattern)
			matches[i] = patternMatches{literal: pattern}
			continue
		}
		matches[i] = patternMatches{byGroup: byGroup}
		for name := range byGroup {
			groupNames[name] = true
		}
	}

	names := make([]string, 0, len(groupNames))
	for name := range groupNames {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })

	groups := make([]Group, 0, len(names))
	for _, name := range names {
		g := Group{Name: name}
		for i := range patterns {
			pm := matches[i]
			if pm.literal != "" {
				lit := pm.literal
				g.Entries = append(g.Entries, &lit)
				continue
			}
			if file, ok := pm.byGroup[name]; ok {
				g.Entries = append(g.Entries, &file)
				continue
			}
			switch r.opts.MissingFile {
			case MissingRaise:
				return nil, fmt.Errorf("%w: group %q has no file for pattern %q", ErrNotFound, name, patterns[i])
			case MissingEmpty:
				g.Entries = append(g.Entries, nil)
			case MissingSkip:
			}
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// matchGrouped matches the pattern against the files in its nearest existing
// ancestor directory and maps capture-group value to file path. When two
// files yield the same group value the first in natural order wins.
func matchGrouped(pattern string) (map[string]string, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("%w: bad grouped pattern %q: %v", ErrInvalid, pattern, err)
	}

	dir := nearestDir(pattern)
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %q for grouped pattern %q: %w", dir, pattern, err)
	}

	files := make([]string, 0, len(dirEntries))
	for _, e := range dirEntries {
		if !e.IsDir() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sortNatural(files)

	byGroup := map[string]string{}
	for _, f := range files {
		sub := re.FindStringSubmatch(f)
		if sub == nil {
			continue
		}
		if _, taken := byGroup[sub[1]]; !taken {
			byGroup[sub[1]] = f
		}
	}
	return byGroup, nil
}

// captureGroupCount compiles the pattern and counts its capture groups.
func captureGroupCount(pattern string) (int, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		// Uncompilable strings are literal content, never a grouping key.
		return 0, nil
	}
	return re.NumSubexp(), nil
}
