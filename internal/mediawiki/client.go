// Package mediawiki is a small client for the MediaWiki Action API covering
// what the category maintenance run needs: category membership, parent
// categories, page text and edits.
package mediawiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// DefaultUserAgent identifies the bot to the wiki operators
const DefaultUserAgent = "pdfcats/1.0 (category maintenance bot)"

// Config holds the client settings
type Config struct {
	APIURL            string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Logger            *log.Logger
}

// Client talks to a single wiki's api.php endpoint. It keeps a cookie
// session, so one Client is one logged-in user.
type Client struct {
	apiURL    string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	logger    *log.Logger

	loggedIn  bool
	csrfToken string
}

// New creates a new Client
func New(cfg Config) (*Client, error) {
	if cfg.APIURL == "" {
		return nil, errors.New("mediawiki: API URL is required")
	}
	if _, err := url.ParseRequestURI(cfg.APIURL); err != nil {
		return nil, fmt.Errorf("mediawiki: invalid API URL: %w", err)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("mediawiki: cookie jar: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Client{
		apiURL:    cfg.APIURL,
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout, Jar: jar},
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger,
	}, nil
}

// envelope carries the parts shared by every API response
type envelope struct {
	Error    *APIError                  `json:"error"`
	Warnings map[string]json.RawMessage `json:"warnings"`
}

// continuation is the "continue" object of a paged query
type continuation map[string]string

// get runs a read request and decodes the response into out
func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, params, out)
}

// post runs a write request (login, edit) and decodes the response into out
func (c *Client) post(ctx context.Context, params url.Values, out any) error {
	return c.do(ctx, http.MethodPost, params, out)
}

func (c *Client) do(ctx context.Context, method string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("format", "json")
	params.Set("formatversion", "2")

	var (
		req *http.Request
		err error
	)
	if method == http.MethodPost {
		req, err = http.NewRequestWithContext(ctx, method, c.apiURL, strings.NewReader(params.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.apiURL+"?"+params.Encode(), nil)
	}
	if err != nil {
		return fmt.Errorf("mediawiki: failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("API request", "method", method, "action", params.Get("action"), "title", params.Get("titles")+params.Get("title"))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mediawiki: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("mediawiki: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mediawiki: API returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("mediawiki: failed to decode response: %w", err)
	}
	if env.Error != nil {
		return env.Error
	}
	for module, warning := range env.Warnings {
		c.logger.Warn("API warning", "module", module, "warning", string(warning))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("mediawiki: failed to decode response: %w", err)
	}

	return nil
}

// token fetches a token of the given type ("login", "csrf")
func (c *Client) token(ctx context.Context, kind string) (string, error) {
	var resp struct {
		Query struct {
			Tokens map[string]string `json:"tokens"`
		} `json:"query"`
	}

	params := url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
		"type":   {kind},
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return "", fmt.Errorf("mediawiki: %s token: %w", kind, err)
	}

	tok := resp.Query.Tokens[kind+"token"]
	if tok == "" {
		return "", fmt.Errorf("mediawiki: no %s token in response", kind)
	}
	return tok, nil
}

// Login signs in with a bot password. Later requests reuse the session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	tok, err := c.token(ctx, "login")
	if err != nil {
		return err
	}

	var resp struct {
		Login struct {
			Result   string `json:"result"`
			Reason   string `json:"reason"`
			Username string `json:"lgusername"`
		} `json:"login"`
	}

	params := url.Values{
		"action":     {"login"},
		"lgname":     {username},
		"lgpassword": {password},
		"lgtoken":    {tok},
	}
	if err := c.post(ctx, params, &resp); err != nil {
		return fmt.Errorf("mediawiki: login: %w", err)
	}

	if resp.Login.Result != "Success" {
		return fmt.Errorf("%w: %s %s", ErrLoginFailed, resp.Login.Result, resp.Login.Reason)
	}

	c.loggedIn = true
	c.csrfToken = ""
	c.logger.Info("Logged in", "user", resp.Login.Username)

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
