// Package content expands raw slide content specifications into concrete,
// ordered lists of resolved items.
//
// A specification entry is a literal string, a file path, a unix glob
// pattern, a regex pattern, or nil for an explicitly empty slot. Resolution
// classifies each entry, expands patterns against the filesystem with
// natural (alphanumeric-aware) ordering, sniffs file contents to decide
// between text, image and PDF, and expands PDFs into one item per selected
// page.
//
// Grouped resolution pairs files across several regex patterns by their
// shared capture-group value, producing one content list per discovered
// group (typically rendered as one slide per group).
package content

import (
	"errors"
	"fmt"
)

// Sentinel errors for content resolution.
var (
	// ErrNotFound is returned when a pattern matches no files and the
	// missing-file policy is MissingRaise, or when a referenced PDF page is
	// out of range.
	ErrNotFound = errors.New("not found")

	// ErrInvalid is returned for malformed specifications (bad regex, bad
	// policy value, bad page selection).
	ErrInvalid = errors.New("invalid content specification")
)

// Kind discriminates the resolved item union.
type Kind int

// Resolved item kinds.
const (
	KindEmpty Kind = iota
	KindText
	KindTextFile
	KindImage
	KindPDFPage
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindTextFile:
		return "textfile"
	case KindImage:
		return "image"
	case KindPDFPage:
		return "pdfpage"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Item is one resolved content element. Exactly one of the payload fields is
// meaningful for each kind:
//
//	KindEmpty    — none
//	KindText     — Text
//	KindTextFile — Path (contents loaded by the filler)
//	KindImage    — Path
//	KindPDFPage  — Path and Page (1-based)
type Item struct {
	Kind Kind
	Text string
	Path string
	Page int
}

// Empty returns an empty item.
func Empty() Item { return Item{Kind: KindEmpty} }

// Text returns a literal text item.
func Text(s string) Item { return Item{Kind: KindText, Text: s} }

// TextFile returns a text file item.
func TextFile(path string) Item { return Item{Kind: KindTextFile, Path: path} }

// Image returns an image item.
func Image(path string) Item { return Item{Kind: KindImage, Path: path} }

// PDFPage returns a single-page PDF item. page is 1-based.
func PDFPage(path string, page int) Item { return Item{Kind: KindPDFPage, Path: path, Page: page} }

// Source returns the identifier used for filename display: the file path for
// file-backed items, the literal text otherwise.
func (it Item) Source() string {
	if it.Path != "" {
		return it.Path
	}
	return it.Text
}

// MissingFilePolicy controls what happens when a pattern matches no files.
type MissingFilePolicy string

// Missing-file policies.
const (
	MissingRaise MissingFilePolicy = "raise"
	MissingEmpty MissingFilePolicy = "empty"
	MissingSkip  MissingFilePolicy = "skip"
)

// ValidateMissingFilePolicy checks that a policy is valid.
func ValidateMissingFilePolicy(p MissingFilePolicy) error {
	switch p {
	case MissingRaise, MissingEmpty, MissingSkip:
		return nil
	}
	return fmt.Errorf("%w: missing_file must be one of %q, %q, %q, got %q",
		ErrInvalid, MissingRaise, MissingEmpty, MissingSkip, p)
}

// PageSelection selects which pages of a PDF become items.
type PageSelection struct {
	all   bool
	pages []int // 1-based
}

// AllPages selects every page.
func AllPages() PageSelection { return PageSelection{all: true} }

// Pages selects an explicit list of 1-based page numbers.
func Pages(pages ...int) PageSelection { return PageSelection{pages: pages} }

// All reports whether every page is selected.
func (s PageSelection) All() bool { return s.all }

// List returns the explicit page list, nil when All.
func (s PageSelection) List() []int { return s.pages }

// Validate checks the selection against a document's page count. Page
// numbers are 1-based; out-of-range pages are a hard error regardless of the
// missing-file policy.
func (s PageSelection) Validate(path string, count int) error {
	if s.all {
		return nil
	}
	if len(s.pages) == 0 {
		return fmt.Errorf("%w: pdf_pages selects no pages", ErrInvalid)
	}
	for _, p := range s.pages {
		if p < 1 || p > count {
			return fmt.Errorf("%w: page %d of %q (document has %d pages)", ErrNotFound, p, path, count)
		}
	}
	return nil
}

// PageCounter reports the number of pages in a PDF document. Implemented by
// pkg/pdf; injected so resolution stays free of rasterizer dependencies.
type PageCounter interface {
	PageCount(path string) (int, error)
}
