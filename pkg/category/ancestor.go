package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-scripts/pdfcats/internal/worklist"
)

// DefaultMaxDepth is how many parent hops HasAncestor follows by default
const DefaultMaxDepth = 2

// ErrNilSource is returned when HasAncestor is called without a ParentSource
var ErrNilSource = errors.New("category: parent source is nil")

// ParentSource lists the parent categories of a category.
// Implementations are expected to be read-only.
type ParentSource interface {
	ParentCategories(ctx context.Context, c Category) ([]Category, error)
}

// ParentFunc adapts a function to ParentSource
type ParentFunc func(ctx context.Context, c Category) ([]Category, error)

// ParentCategories calls f(ctx, c)
func (f ParentFunc) ParentCategories(ctx context.Context, c Category) ([]Category, error) {
	return f(ctx, c)
}

// Option configures HasAncestor
type Option func(*SearchOptions)

// SearchOptions holds the knobs of an ancestor search
type SearchOptions struct {
	// MaxDepth bounds the walk. Parents of a node at depth >= MaxDepth are
	// never fetched; the start category is at depth 0.
	MaxDepth int

	// OnVisit, if non-nil, is called for every parent examined, hidden or
	// not, with the depth of the child it was listed under.
	OnVisit func(parent Category, depth int)
}

// DefaultOptions returns a depth limit of DefaultMaxDepth and no hooks
func DefaultOptions() SearchOptions {
	return SearchOptions{MaxDepth: DefaultMaxDepth}
}

// WithMaxDepth sets the depth limit
func WithMaxDepth(limit int) Option {
	return func(o *SearchOptions) {
		o.MaxDepth = limit
	}
}

// WithOnVisit installs a hook called for each parent examined
func WithOnVisit(fn func(parent Category, depth int)) Option {
	return func(o *SearchOptions) {
		o.OnVisit = fn
	}
}

// frame is one category whose parents are being examined
type frame struct {
	parents []Category
	next    int
}

// HasAncestor reports whether a category whose title contains target is
// reachable from c through non-hidden parent links within MaxDepth hops.
//
// The walk is depth-first and examines parents in the order the source
// lists them, returning on the first match. Each parent is expanded at
// most once per call. Fetch errors are returned as is, wrapped.
func HasAncestor(ctx context.Context, src ParentSource, c Category, target string, opts ...Option) (bool, error) {
	if src == nil {
		return false, ErrNilSource
	}

	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	if o.MaxDepth <= 0 {
		return false, nil
	}

	parents, err := src.ParentCategories(ctx, c)
	if err != nil {
		return false, fmt.Errorf("category: parents of %q: %w", c.Title, err)
	}

	stack := worklist.New[*frame, string]()
	stack.Push(&frame{parents: parents}, 0)

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		entry, ok := stack.Pop()
		if !ok {
			return false, nil
		}

		f, depth := entry.Item, entry.Depth
		if f.next >= len(f.parents) {
			continue
		}

		parent := f.parents[f.next]
		f.next++
		// resume this frame once the parent's subtree is done
		stack.Push(f, depth)

		if o.OnVisit != nil {
			o.OnVisit(parent, depth)
		}

		if parent.Hidden {
			continue
		}

		if TitleMatches(parent.Title, target) {
			return true, nil
		}

		if !stack.Visit(parent.Key()) {
			continue
		}

		if depth+1 >= o.MaxDepth {
			continue
		}

		grand, err := src.ParentCategories(ctx, parent)
		if err != nil {
			return false, fmt.Errorf("category: parents of %q: %w", parent.Title, err)
		}
		stack.Push(&frame{parents: grand}, depth+1)
	}
}
