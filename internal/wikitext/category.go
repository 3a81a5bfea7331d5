// Package wikitext rewrites category links in page wikitext.
package wikitext

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-scripts/pdfcats/pkg/category"
)

// protectedRe matches regions where links are not parsed by MediaWiki
var protectedRe = regexp.MustCompile(`(?is)<!--.*?(?:-->|\z)|<nowiki\s*>.*?</nowiki\s*>|<pre(?:\s[^>]*)?>.*?</pre\s*>`)

// ReplaceCategory replaces every link to old with a link to replacement,
// keeping the sort key. A nil replacement removes the links; a link that
// is alone on its line is removed together with its line break. If the
// text already links replacement, the old links are removed instead so the
// category is not listed twice.
//
// Links inside comments, nowiki and pre blocks are left alone.
func ReplaceCategory(text string, old category.Category, replacement *category.Category) string {
	oldRe := linkPattern(old.Name())

	if replacement != nil && HasCategory(text, *replacement) {
		replacement = nil
	}

	if replacement == nil {
		// line starts are taken from the whole text, so a link that follows
		// a comment on the same line keeps its line break
		lineRe := regexp.MustCompile(`(?m)^[ \t]*` + oldRe.String() + `[ \t]*(?:\r?\n|\z)`)
		text = removeUnprotected(text, lineRe)
		return mapUnprotected(text, func(s string) string {
			return oldRe.ReplaceAllString(s, "")
		})
	}

	name := replacement.Name()
	return mapUnprotected(text, func(s string) string {
		return oldRe.ReplaceAllStringFunc(s, func(link string) string {
			sortKey := oldRe.FindStringSubmatch(link)[1]
			return "[[" + category.Namespace + ":" + name + sortKey + "]]"
		})
	})
}

// HasCategory reports whether the text links c outside protected regions
func HasCategory(text string, c category.Category) bool {
	re := linkPattern(c.Name())
	found := false
	mapUnprotected(text, func(s string) string {
		if !found && re.MatchString(s) {
			found = true
		}
		return s
	})
	return found
}

// linkPattern builds a regexp for [[Category:name]] and
// [[Category:name|sort key]]. The sort key, with its pipe, is group 1.
func linkPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`\[\[[ \t]*(?i:` + category.Namespace + `)[ \t]*:[ \t]*` +
		namePattern(name) + `[ \t]*(\|[^\]]*)?\]\]`)
}

// namePattern matches a page name the way MediaWiki resolves it: first
// letter case-insensitive, spaces and underscores interchangeable.
func namePattern(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	if len(words) == 0 {
		return ""
	}

	first := words[0]
	r, size := utf8.DecodeRuneInString(first)
	head := regexp.QuoteMeta(first[:size])
	if unicode.IsLetter(r) && unicode.ToUpper(r) != unicode.ToLower(r) {
		head = "[" + string(unicode.ToUpper(r)) + string(unicode.ToLower(r)) + "]"
	}
	words[0] = head + regexp.QuoteMeta(first[size:])
	for i := 1; i < len(words); i++ {
		words[i] = regexp.QuoteMeta(words[i])
	}

	return strings.Join(words, "[ _]+")
}

// removeUnprotected deletes every match of re that does not overlap a
// protected region.
func removeUnprotected(text string, re *regexp.Regexp) string {
	matches := re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}
	spans := protectedRe.FindAllStringIndex(text, -1)

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		if overlaps(m, spans) {
			continue
		}
		b.WriteString(text[last:m[0]])
		last = m[1]
	}
	b.WriteString(text[last:])

	return b.String()
}

func overlaps(m []int, spans [][]int) bool {
	for _, span := range spans {
		if m[0] < span[1] && span[0] < m[1] {
			return true
		}
	}
	return false
}

// mapUnprotected applies fn to every part of text outside protected
// regions and reassembles the result.
func mapUnprotected(text string, fn func(string) string) string {
	spans := protectedRe.FindAllStringIndex(text, -1)
	if len(spans) == 0 {
		return fn(text)
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, span := range spans {
		b.WriteString(fn(text[last:span[0]]))
		b.WriteString(text[span[0]:span[1]])
		last = span[1]
	}
	b.WriteString(fn(text[last:]))

	return b.String()
}
