package mediawiki

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-scripts/pdfcats/pkg/category"
)

// NamespaceFile is the File: namespace number
const NamespaceFile = 6

// Page is a category member
type Page struct {
	PageID    int    `json:"pageid"`
	Namespace int    `json:"ns"`
	Title     string `json:"title"`
}

// IsFile reports whether the page is a file description page
func (p Page) IsFile() bool {
	return p.Namespace == NamespaceFile
}

// Revision is the current text of a page plus what an edit needs to
// detect conflicting changes
type Revision struct {
	Title string
	Text  string
	// BaseTimestamp is the timestamp of the revision the text comes from
	BaseTimestamp string
	// StartTimestamp is the server time when the text was read
	StartTimestamp string
}

// queryPage is one entry of query.pages in formatversion=2 output
type queryPage struct {
	Title      string `json:"title"`
	Missing    bool   `json:"missing"`
	Invalid    bool   `json:"invalid"`
	Categories []struct {
		Title  string `json:"title"`
		Hidden bool   `json:"hidden"`
	} `json:"categories"`
	Revisions []struct {
		Timestamp string `json:"timestamp"`
		Slots     struct {
			Main struct {
				Content string `json:"content"`
			} `json:"main"`
		} `json:"slots"`
	} `json:"revisions"`
}

type queryResponse struct {
	Continue     continuation `json:"continue"`
	CurTimestamp string       `json:"curtimestamp"`
	Query        struct {
		Pages           []queryPage `json:"pages"`
		CategoryMembers []Page      `json:"categorymembers"`
	} `json:"query"`
}

// query runs a paged query, calling fn for each batch until the API stops
// returning a continuation
func (c *Client) query(ctx context.Context, params url.Values, fn func(*queryResponse) error) error {
	params.Set("action", "query")
	for {
		var resp queryResponse
		if err := c.get(ctx, params, &resp); err != nil {
			return err
		}
		if err := fn(&resp); err != nil {
			return err
		}
		if len(resp.Continue) == 0 {
			return nil
		}
		for k, v := range resp.Continue {
			params.Set(k, v)
		}
	}
}

// CategoryExists reports whether the category page exists
func (c *Client) CategoryExists(ctx context.Context, cat category.Category) (bool, error) {
	var page *queryPage
	err := c.query(ctx, url.Values{"titles": {cat.Title}}, func(r *queryResponse) error {
		if len(r.Query.Pages) > 0 {
			page = &r.Query.Pages[0]
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("mediawiki: exists %q: %w", cat.Title, err)
	}

	return page != nil && !page.Missing && !page.Invalid, nil
}

// CategoryFiles lists the file pages directly in a category
func (c *Client) CategoryFiles(ctx context.Context, cat category.Category) ([]Page, error) {
	params := url.Values{
		"list":        {"categorymembers"},
		"cmtitle":     {cat.Title},
		"cmnamespace": {strconv.Itoa(NamespaceFile)},
		"cmlimit":     {"max"},
	}

	var pages []Page
	err := c.query(ctx, params, func(r *queryResponse) error {
		pages = append(pages, r.Query.CategoryMembers...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mediawiki: members of %q: %w", cat.Title, err)
	}

	return pages, nil
}

// PageCategories lists the categories of a page, hidden ones included and
// flagged
func (c *Client) PageCategories(ctx context.Context, title string) ([]category.Category, error) {
	params := url.Values{
		"titles":  {title},
		"prop":    {"categories"},
		"clprop":  {"hidden"},
		"cllimit": {"max"},
	}

	var cats []category.Category
	err := c.query(ctx, params, func(r *queryResponse) error {
		for _, p := range r.Query.Pages {
			if p.Missing || p.Invalid {
				return ErrMissingPage
			}
			for _, pc := range p.Categories {
				cats = append(cats, category.Category{Title: pc.Title, Hidden: pc.Hidden})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mediawiki: categories of %q: %w", title, err)
	}

	return cats, nil
}

// ParentCategories lists the categories a category page is in. It makes
// Client a category.ParentSource. A missing category page has no parents.
func (c *Client) ParentCategories(ctx context.Context, cat category.Category) ([]category.Category, error) {
	cats, err := c.PageCategories(ctx, cat.Title)
	if err != nil && errors.Is(err, ErrMissingPage) {
		return nil, nil
	}
	return cats, err
}

// PageText reads the current wikitext of a page
func (c *Client) PageText(ctx context.Context, title string) (Revision, error) {
	params := url.Values{
		"titles":       {title},
		"prop":         {"revisions"},
		"rvprop":       {"content|timestamp"},
		"rvslots":      {"main"},
		"curtimestamp": {"1"},
	}

	rev := Revision{Title: title}
	err := c.query(ctx, params, func(r *queryResponse) error {
		if len(r.Query.Pages) == 0 {
			return ErrMissingPage
		}
		p := r.Query.Pages[0]
		if p.Missing || p.Invalid || len(p.Revisions) == 0 {
			return ErrMissingPage
		}
		rev.Title = p.Title
		rev.Text = p.Revisions[0].Slots.Main.Content
		rev.BaseTimestamp = p.Revisions[0].Timestamp
		rev.StartTimestamp = r.CurTimestamp
		return nil
	})
	if err != nil {
		return Revision{}, fmt.Errorf("mediawiki: text of %q: %w", title, err)
	}

	return rev, nil
}
