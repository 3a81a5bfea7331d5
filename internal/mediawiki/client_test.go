package mediawiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/pdfcats/pkg/category"
)

// apiHandler answers a decoded API request with a JSON-encodable value
type apiHandler func(t *testing.T, r *http.Request, params url.Values) any

// setupMockAPIServer starts an api.php stand-in
func setupMockAPIServer(t *testing.T, handler apiHandler) (*httptest.Server, *Client) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("Error parsing form: %v", err)
		}
		params := r.Form

		assert.Equal(t, "json", params.Get("format"))
		assert.Equal(t, "2", params.Get("formatversion"))
		assert.Equal(t, "pdfcats-test", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(handler(t, r, params)); err != nil {
			t.Errorf("Error encoding response: %v", err)
		}
	}))

	t.Cleanup(func() {
		server.Close()
	})

	client, err := New(Config{
		APIURL:    server.URL + "/w/api.php",
		UserAgent: "pdfcats-test",
		Timeout:   5 * time.Second,
		Logger:    log.New(io.Discard),
	})
	require.NoError(t, err)

	return server, client
}

func jsonMap(s string) map[string]any {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		panic(err)
	}
	return m
}

func TestNewValidatesURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	_, err = New(Config{APIURL: "not a url"})
	assert.Error(t, err)

	c, err := New(Config{APIURL: "https://commons.wikimedia.org/w/api.php"})
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, c.userAgent)
}

func TestCategoryExists(t *testing.T) {
	_, client := setupMockAPIServer(t, func(t *testing.T, r *http.Request, p url.Values) any {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "query", p.Get("action"))
		if p.Get("titles") == "Category:2020 books PDF files" {
			return jsonMap(`{"query":{"pages":[{"pageid":7,"ns":14,"title":"Category:2020 books PDF files"}]}}`)
		}
		return jsonMap(`{"query":{"pages":[{"ns":14,"title":"Category:1600 books PDF files","missing":true}]}}`)
	})

	ok, err := client.CategoryExists(context.Background(), category.NewCategory("2020 books PDF files"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.CategoryExists(context.Background(), category.NewCategory("1600 books PDF files"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCategoryFilesFollowsContinuation(t *testing.T) {
	calls := 0
	_, client := setupMockAPIServer(t, func(t *testing.T, r *http.Request, p url.Values) any {
		calls++
		assert.Equal(t, "categorymembers", p.Get("list"))
		assert.Equal(t, "Category:2020 books PDF files", p.Get("cmtitle"))
		assert.Equal(t, "6", p.Get("cmnamespace"))

		if p.Get("cmcontinue") == "" {
			return jsonMap(`{"continue":{"cmcontinue":"file|B","continue":"-||"},
				"query":{"categorymembers":[{"pageid":1,"ns":6,"title":"File:A.pdf"}]}}`)
		}
		assert.Equal(t, "file|B", p.Get("cmcontinue"))
		return jsonMap(`{"query":{"categorymembers":[{"pageid":2,"ns":6,"title":"File:B.pdf"}]}}`)
	})

	pages, err := client.CategoryFiles(context.Background(), category.NewCategory("2020 books PDF files"))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []Page{
		{PageID: 1, Namespace: 6, Title: "File:A.pdf"},
		{PageID: 2, Namespace: 6, Title: "File:B.pdf"},
	}, pages)
	assert.True(t, pages[0].IsFile())
}

func TestPageCategories(t *testing.T) {
	_, client := setupMockAPIServer(t, func(t *testing.T, r *http.Request, p url.Values) any {
		assert.Equal(t, "categories", p.Get("prop"))
		assert.Equal(t, "hidden", p.Get("clprop"))

		switch p.Get("titles") {
		case "File:A.pdf":
			return jsonMap(`{"query":{"pages":[{"title":"File:A.pdf","categories":[
				{"ns":14,"title":"Category:2020 books PDF files"},
				{"ns":14,"title":"Category:Files with no machine-readable author","hidden":true}]}]}}`)
		default:
			return jsonMap(`{"query":{"pages":[{"title":"Category:Nowhere","missing":true}]}}`)
		}
	})

	cats, err := client.PageCategories(context.Background(), "File:A.pdf")
	require.NoError(t, err)
	assert.Equal(t, []category.Category{
		{Title: "Category:2020 books PDF files"},
		{Title: "Category:Files with no machine-readable author", Hidden: true},
	}, cats)

	_, err = client.PageCategories(context.Background(), "Category:Nowhere")
	assert.ErrorIs(t, err, ErrMissingPage)

	parents, err := client.ParentCategories(context.Background(), category.NewCategory("Nowhere"))
	require.NoError(t, err)
	assert.Empty(t, parents)
}

func TestPageText(t *testing.T) {
	_, client := setupMockAPIServer(t, func(t *testing.T, r *http.Request, p url.Values) any {
		assert.Equal(t, "revisions", p.Get("prop"))
		assert.Equal(t, "main", p.Get("rvslots"))
		if p.Get("titles") == "File:Gone.pdf" {
			return jsonMap(`{"query":{"pages":[{"title":"File:Gone.pdf","missing":true}]}}`)
		}
		return jsonMap(`{"curtimestamp":"2025-01-02T03:04:05Z","query":{"pages":[{"title":"File:A.pdf",
			"revisions":[{"timestamp":"2024-12-31T00:00:00Z","slots":{"main":{"content":"[[Category:2020 books PDF files]]"}}}]}]}}`)
	})

	rev, err := client.PageText(context.Background(), "File:A.pdf")
	require.NoError(t, err)
	assert.Equal(t, Revision{
		Title:          "File:A.pdf",
		Text:           "[[Category:2020 books PDF files]]",
		BaseTimestamp:  "2024-12-31T00:00:00Z",
		StartTimestamp: "2025-01-02T03:04:05Z",
	}, rev)

	_, err = client.PageText(context.Background(), "File:Gone.pdf")
	assert.ErrorIs(t, err, ErrMissingPage)
}

func TestSavePage(t *testing.T) {
	tokenCalls := 0
	var edits []url.Values
	_, client := setupMockAPIServer(t, func(t *testing.T, r *http.Request, p url.Values) any {
		switch p.Get("action") {
		case "query":
			tokenCalls++
			assert.Equal(t, "csrf", p.Get("type"))
			return jsonMap(`{"query":{"tokens":{"csrftoken":"abc+\\"}}}`)
		case "edit":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
			edits = append(edits, p)
			return jsonMap(`{"edit":{"result":"Success","newrevid":42}}`)
		}
		t.Errorf("unexpected action %q", p.Get("action"))
		return nil
	})

	rev := Revision{Title: "File:A.pdf", BaseTimestamp: "2024-12-31T00:00:00Z", StartTimestamp: "2025-01-02T03:04:05Z"}
	for i := 0; i < 2; i++ {
		err := client.SavePage(context.Background(), EditFromRevision(rev, "new text", "Updating categories for 2020 books"))
		require.NoError(t, err)
	}

	assert.Equal(t, 1, tokenCalls)
	require.Len(t, edits, 2)
	e := edits[0]
	assert.Equal(t, "File:A.pdf", e.Get("title"))
	assert.Equal(t, "new text", e.Get("text"))
	assert.Equal(t, "Updating categories for 2020 books", e.Get("summary"))
	assert.Equal(t, "abc+\\", e.Get("token"))
	assert.Equal(t, "2024-12-31T00:00:00Z", e.Get("basetimestamp"))
	assert.Equal(t, "2025-01-02T03:04:05Z", e.Get("starttimestamp"))
	assert.Equal(t, "1", e.Get("bot"))
	assert.Equal(t, "1", e.Get("nocreate"))
	assert.Empty(t, e.Get("assert"))
}

func TestSavePageErrors(t *testing.T) {
	tests := []struct {
		name         string
		response     string
		wantConflict bool
		wantSaveErr  bool
	}{
		{
			name:         "edit conflict",
			response:     `{"error":{"code":"editconflict","info":"Edit conflict."}}`,
			wantConflict: true,
			wantSaveErr:  true,
		},
		{
			name:        "protected",
			response:    `{"error":{"code":"protectedpage","info":"This page has been protected."}}`,
			wantSaveErr: true,
		},
		{
			name:        "abuse filter",
			response:    `{"error":{"code":"abusefilter-disallowed","info":"Disallowed."}}`,
			wantSaveErr: true,
		},
		{
			name:        "captcha failure result",
			response:    `{"edit":{"result":"Failure","captcha":{}}}`,
			wantSaveErr: true,
		},
		{
			name:     "bad token",
			response: `{"error":{"code":"badtoken","info":"Invalid CSRF token."}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := setupMockAPIServer(t, func(t *testing.T, r *http.Request, p url.Values) any {
				if p.Get("action") == "query" {
					return jsonMap(`{"query":{"tokens":{"csrftoken":"abc+\\"}}}`)
				}
				return jsonMap(tt.response)
			})

			err := client.SavePage(context.Background(), Edit{Title: "File:A.pdf", Text: "x"})
			require.Error(t, err)
			assert.Equal(t, tt.wantConflict, errors.Is(err, ErrEditConflict))
			assert.Equal(t, tt.wantSaveErr, IsSaveError(err))
		})
	}
}

func TestHTTPErrorIsNotSaveError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "maintenance")
	}))
	t.Cleanup(server.Close)

	client, err := New(Config{APIURL: server.URL, Logger: log.New(io.Discard)})
	require.NoError(t, err)

	_, err = client.CategoryExists(context.Background(), category.NewCategory("2020 books"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.False(t, IsSaveError(err))
}

func TestLogin(t *testing.T) {
	var edit url.Values
	_, client := setupMockAPIServer(t, func(t *testing.T, r *http.Request, p url.Values) any {
		switch {
		case p.Get("action") == "query" && p.Get("type") == "login":
			return jsonMap(`{"query":{"tokens":{"logintoken":"lt+\\"}}}`)
		case p.Get("action") == "query" && p.Get("type") == "csrf":
			return jsonMap(`{"query":{"tokens":{"csrftoken":"ct+\\"}}}`)
		case p.Get("action") == "login":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "lt+\\", p.Get("lgtoken"))
			if p.Get("lgpassword") != "secret" {
				return jsonMap(`{"login":{"result":"Failed","reason":"Incorrect username or password entered."}}`)
			}
			return jsonMap(`{"login":{"result":"Success","lgusername":"Bot"}}`)
		case p.Get("action") == "edit":
			edit = p
			return jsonMap(`{"edit":{"result":"Success"}}`)
		}
		return nil
	})

	err := client.Login(context.Background(), "Bot@pdfcats", "wrong")
	assert.ErrorIs(t, err, ErrLoginFailed)

	require.NoError(t, client.Login(context.Background(), "Bot@pdfcats", "secret"))
	require.NoError(t, client.SavePage(context.Background(), Edit{Title: "File:A.pdf", Text: "x"}))
	assert.Equal(t, "user", edit.Get("assert"))
}

func TestIsSaveError(t *testing.T) {
	assert.False(t, IsSaveError(nil))
	assert.False(t, IsSaveError(errors.New("plain")))
	assert.True(t, IsSaveError(fmt.Errorf("wrapped: %w", &APIError{Code: "permissiondenied"})))
	assert.False(t, IsSaveError(&APIError{Code: "maxlag"}))
}
