package content

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/maruel/natural"
)

// Options configures a Resolver.
type Options struct {
	// MissingFile controls what happens when a glob or regex pattern matches
	// no files. Defaults to MissingRaise.
	MissingFile MissingFilePolicy

	// PDFPages selects which pages of resolved PDFs become items. Defaults
	// to all pages.
	PDFPages PageSelection

	// Pages counts PDF pages. Required only when content can contain PDFs;
	// resolving a PDF without it is an error.
	Pages PageCounter

	// Logger receives debug output. Defaults to a discard logger.
	Logger *log.Logger
}

// Resolver expands raw content specifications into resolved items.
type Resolver struct {
	opts Options
}

// NewResolver creates a resolver. Zero-value options select the defaults
// (raise on missing files, all PDF pages).
func NewResolver(opts Options) (*Resolver, error) {
	if opts.MissingFile == "" {
		opts.MissingFile = MissingRaise
	}
	if err := ValidateMissingFilePolicy(opts.MissingFile); err != nil {
		return nil, err
	}
	if opts.PDFPages.List() == nil && !opts.PDFPages.All() {
		opts.PDFPages = AllPages()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Resolver{opts: opts}, nil
}

// Resolve expands the given entries, in order, into resolved items. A nil
// entry is an explicitly empty slot. The returned list length can differ
// from the input: patterns expand to several files, PDFs expand to one item
// per selected page, and the skip policy drops unmatched patterns.
func (r *Resolver) Resolve(entries []*string) ([]Item, error) {
	var items []Item
	for _, entry := range entries {
		if entry == nil {
			items = append(items, Empty())
			continue
		}
		resolved, err := r.resolveEntry(*entry)
		if err != nil {
			return nil, err
		}
		items = append(items, resolved...)
	}
	return items, nil
}

// resolveEntry classifies and expands a single specification string.
func (r *Resolver) resolveEntry(s string) ([]Item, error) {
	// A path to an existing regular file wins over pattern interpretation.
	if isRegularFile(s) {
		return r.classifyFile(s)
	}

	files, matched, err := r.expandPattern(s)
	if err != nil {
		return nil, err
	}
	if matched {
		var items []Item
		for _, f := range files {
			classified, err := r.classifyFile(f)
			if err != nil {
				return nil, err
			}
			items = append(items, classified...)
		}
		return items, nil
	}

	// No match. Pattern-like strings follow the missing-file policy; plain
	// strings are literal text.
	if hasGlobMeta(s) || hasRegexMeta(s) {
		switch r.opts.MissingFile {
		case MissingRaise:
			return nil, fmt.Errorf("%w: no files found for pattern %q", ErrNotFound, s)
		case MissingEmpty:
			r.opts.Logger.Debugf("no files for pattern %q; inserting empty box", s)
			return []Item{Empty()}, nil
		case MissingSkip:
			r.opts.Logger.Debugf("no files for pattern %q; skipping", s)
			return nil, nil
		}
	}
	return []Item{Text(s)}, nil
}

// expandPattern tries glob expansion and then regex matching within the
// nearest existing ancestor directory. The returned files are in natural
// sort order. matched is false when neither strategy found a file.
func (r *Resolver) expandPattern(s string) (files []string, matched bool, err error) {
	if hasGlobMeta(s) {
		globbed, err := filepath.Glob(s)
		if err != nil {
			return nil, false, fmt.Errorf("%w: bad glob pattern %q: %v", ErrInvalid, s, err)
		}
		if len(globbed) > 0 {
			files = keepRegularFiles(globbed)
			if len(files) > 0 {
				sortNatural(files)
				return files, true, nil
			}
		}
	}

	files = r.regexMatches(s)
	if len(files) > 0 {
		sortNatural(files)
		return files, true, nil
	}
	return nil, false, nil
}

// regexMatches interprets s as a regex and matches it against the files in
// the nearest existing ancestor directory of the pattern. The match is
// anchored at the start of the path, mirroring prefix-style regex matching.
// An uncompilable pattern simply yields no matches; it may be literal text.
func (r *Resolver) regexMatches(s string) []string {
	dir := nearestDir(s)
	re, err := regexp.Compile("^(?:" + s + ")$")
	if err != nil {
		return nil
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []string
	for _, e := range dirEntries {
		if e.IsDir() {
			continue
		}
		full := filepath.Join(dir, e.Name())
		if re.MatchString(full) {
			files = append(files, full)
		}
	}
	return files
}

// classifyFile sniffs a file's contents: valid UTF-8 is text, binary data
// with a .pdf suffix expands into PDF pages, anything else is an image.
func (r *Resolver) classifyFile(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	if utf8.Valid(data) {
		return []Item{TextFile(path)}, nil
	}
	if strings.ToLower(filepath.Ext(path)) == ".pdf" {
		return r.expandPDF(path)
	}
	return []Item{Image(path)}, nil
}

// expandPDF turns a PDF file into one item per selected page.
func (r *Resolver) expandPDF(path string) ([]Item, error) {
	if r.opts.Pages == nil {
		return nil, fmt.Errorf("%w: content %q is a PDF but no page counter is configured", ErrInvalid, path)
	}
	count, err := r.opts.Pages.PageCount(path)
	if err != nil {
		return nil, fmt.Errorf("count pages of %q: %w", path, err)
	}
	if err := r.opts.PDFPages.Validate(path, count); err != nil {
		return nil, err
	}

	pages := r.opts.PDFPages.List()
	if r.opts.PDFPages.All() {
		pages = make([]int, count)
		for i := range pages {
			pages[i] = i + 1
		}
	}

	items := make([]Item, 0, len(pages))
	for _, p := range pages {
		items = append(items, PDFPage(path, p))
	}
	r.opts.Logger.Debugf("expanded %q into %d page(s)", path, len(items))
	return items, nil
}

// nearestDir returns the nearest existing ancestor directory of a pattern.
func nearestDir(pattern string) string {
	dir := filepath.Dir(pattern)
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func keepRegularFiles(paths []string) []string {
	var files []string
	for _, p := range paths {
		if isRegularFile(p) {
			files = append(files, p)
		}
	}
	return files
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// hasRegexMeta reports whether s contains regex metacharacters beyond a bare
// dot, so that plain strings and simple filenames stay literal text.
func hasRegexMeta(s string) bool {
	return strings.ContainsAny(s, `()[]{}^$+|\`)
}

// sortNatural sorts file paths in natural order, so "file2" sorts before
// "file10".
func sortNatural(files []string) {
	sort.Slice(files, func(i, j int) bool { return natural.Less(files[i], files[j]) })
}
