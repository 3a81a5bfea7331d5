// Package recat moves file pages out of the per-year "books PDF files"
// categories into the matching "books" category, or drops the PDF
// category where the file is already covered.
package recat

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-scripts/pdfcats/internal/wikitext"
	"github.com/go-scripts/pdfcats/pkg/category"
)

// PDFMarker is the part of a category title that marks a PDF category.
// Categories containing it are never used as a starting point for the
// ancestor search.
const PDFMarker = "books PDF files"

// PDFCategory is the category being emptied for year
func PDFCategory(year int) category.Category {
	return category.NewCategory(fmt.Sprintf("%d %s", year, PDFMarker))
}

// BooksCategory is the category files should end up in for year
func BooksCategory(year int) category.Category {
	return category.NewCategory(fmt.Sprintf("%d books", year))
}

// EditSummary is the summary of every edit made for year
func EditSummary(year int) string {
	return fmt.Sprintf("Updating categories for %d books", year)
}

// Action is the edit a file page needs
type Action int

const (
	// ActionNone leaves the page as it is
	ActionNone Action = iota
	// ActionRemove drops the PDF category
	ActionRemove
	// ActionReplace swaps the PDF category for the books category
	ActionReplace
)

func (a Action) String() string {
	switch a {
	case ActionRemove:
		return "remove"
	case ActionReplace:
		return "replace"
	default:
		return "none"
	}
}

// Decision is the outcome of looking at one file page's categories
type Decision struct {
	Action          Action
	DirectMatch     bool
	TransitiveMatch bool
	// MatchedVia is the page category through which the books category was
	// found as an ancestor, set when TransitiveMatch is true
	MatchedVia category.Category
	Source     category.Category
	Target     category.Category
}

// Decide works out what to do with a page in pdfCat whose categories are
// cats. The PDF category is removed when the page is already in booksCat,
// or when one of its other categories has booksCat as an ancestor within
// maxDepth; otherwise it is replaced by booksCat.
//
// The ancestor search is skipped when the page is a direct member, since
// it cannot change the outcome. Search errors are returned unchanged.
func Decide(ctx context.Context, parents category.ParentSource, cats []category.Category, pdfCat, booksCat category.Category, maxDepth int, opts ...category.Option) (Decision, error) {
	d := Decision{Source: pdfCat, Target: booksCat}

	d.DirectMatch = category.Contains(cats, booksCat)

	if !d.DirectMatch {
		searchOpts := append([]category.Option{category.WithMaxDepth(maxDepth)}, opts...)
		for _, c := range cats {
			if strings.Contains(c.Title, PDFMarker) {
				continue
			}

			ok, err := category.HasAncestor(ctx, parents, c, booksCat.Title, searchOpts...)
			if err != nil {
				return Decision{}, err
			}
			if ok {
				d.TransitiveMatch = true
				d.MatchedVia = c
				break
			}
		}
	}

	if d.DirectMatch || d.TransitiveMatch {
		d.Action = ActionRemove
	} else {
		d.Action = ActionReplace
	}

	return d, nil
}

// Apply returns text with the decided edit made. The result equals text
// when the PDF category is not linked from the text, which makes running
// the same decision twice harmless.
func (d Decision) Apply(text string) string {
	switch d.Action {
	case ActionRemove:
		return wikitext.ReplaceCategory(text, d.Source, nil)
	case ActionReplace:
		target := d.Target
		return wikitext.ReplaceCategory(text, d.Source, &target)
	default:
		return text
	}
}
