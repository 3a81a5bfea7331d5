// Package category models wiki categories and answers ancestry questions
// over the parent-category graph.
//
// Two comparisons are kept apart on purpose:
//
//   - SameCategory is identity: both titles normalise to the same page.
//   - TitleMatches is a substring test of a target inside a fully
//     namespaced title, used when walking ancestors.
package category

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Namespace is the canonical category namespace prefix
const Namespace = "Category"

// Category is a wiki category page
type Category struct {
	// Title is the fully namespaced title, e.g. "Category:2020 books"
	Title string `json:"title"`
	// Hidden is set for categories carrying __HIDDENCAT__
	Hidden bool `json:"hidden,omitempty"`
}

// NewCategory builds a Category from a title with or without the namespace
// prefix. The title is normalised.
func NewCategory(title string) Category {
	return Category{Title: NormalizeTitle(title)}
}

// Name returns the title without the namespace prefix
func (c Category) Name() string {
	_, name, ok := splitNamespace(c.Title)
	if !ok {
		return c.Title
	}
	return name
}

// Key returns the identity used for equality and visited sets
func (c Category) Key() string {
	return NormalizeTitle(c.Title)
}

func (c Category) String() string {
	return c.Title
}

// NormalizeTitle returns the canonical "Category:Name" form of title:
// underscores become spaces, whitespace runs collapse, the namespace is
// spelled canonically and the first letter of the name is upper case.
func NormalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "_", " ")
	title = strings.Join(strings.Fields(title), " ")

	name := title
	if _, rest, ok := splitNamespace(title); ok {
		name = strings.TrimSpace(rest)
	}

	return Namespace + ":" + upperFirst(name)
}

// SameCategory reports whether a and b name the same category page
func SameCategory(a, b Category) bool {
	return a.Key() == b.Key()
}

// Contains reports whether target is one of cats
func Contains(cats []Category, target Category) bool {
	for _, c := range cats {
		if SameCategory(c, target) {
			return true
		}
	}
	return false
}

// TitleMatches reports whether target occurs in the fully namespaced
// title. An exact match is a special case of this.
func TitleMatches(fullTitle, target string) bool {
	return strings.Contains(fullTitle, target)
}

func splitNamespace(title string) (string, string, bool) {
	ns, rest, ok := strings.Cut(title, ":")
	if !ok || !strings.EqualFold(strings.TrimSpace(ns), Namespace) {
		return "", title, false
	}
	return ns, rest, true
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
