package mediawiki

import (
	"context"
	"fmt"
	"net/url"
)

// Edit is a request to replace the text of an existing page
type Edit struct {
	Title   string
	Text    string
	Summary string
	// BaseTimestamp and StartTimestamp come from the Revision the new text
	// was derived from; the wiki reports an edit conflict if the page
	// changed since.
	BaseTimestamp  string
	StartTimestamp string
	Bot            bool
	Minor          bool
}

// EditFromRevision starts an Edit of rev with new text
func EditFromRevision(rev Revision, text, summary string) Edit {
	return Edit{
		Title:          rev.Title,
		Text:           text,
		Summary:        summary,
		BaseTimestamp:  rev.BaseTimestamp,
		StartTimestamp: rev.StartTimestamp,
		Bot:            true,
	}
}

// SavePage saves an edit. Refusals come back as *APIError; use
// IsSaveError to tell them from transport failures.
func (c *Client) SavePage(ctx context.Context, e Edit) error {
	if c.csrfToken == "" {
		tok, err := c.token(ctx, "csrf")
		if err != nil {
			return err
		}
		c.csrfToken = tok
	}

	params := url.Values{
		"action":   {"edit"},
		"title":    {e.Title},
		"text":     {e.Text},
		"summary":  {e.Summary},
		"nocreate": {"1"},
		"token":    {c.csrfToken},
	}
	if e.BaseTimestamp != "" {
		params.Set("basetimestamp", e.BaseTimestamp)
	}
	if e.StartTimestamp != "" {
		params.Set("starttimestamp", e.StartTimestamp)
	}
	if e.Bot {
		params.Set("bot", "1")
	}
	if e.Minor {
		params.Set("minor", "1")
	}
	if c.loggedIn {
		params.Set("assert", "user")
	}

	var resp struct {
		Edit struct {
			Result   string `json:"result"`
			NoChange bool   `json:"nochange"`
			NewRevID int    `json:"newrevid"`
		} `json:"edit"`
	}
	if err := c.post(ctx, params, &resp); err != nil {
		return fmt.Errorf("mediawiki: save %q: %w", e.Title, err)
	}

	if resp.Edit.Result != "Success" {
		return fmt.Errorf("mediawiki: save %q: %w", e.Title, &APIError{Code: "editfailure", Info: resp.Edit.Result})
	}

	c.logger.Debug("Saved page", "page", e.Title, "revision", resp.Edit.NewRevID, "nochange", resp.Edit.NoChange)

	return nil
}
