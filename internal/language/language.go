// Package language matches a caller's free-form language token against a
// problem's starter-code snippets.
package language

import (
	"strings"

	"github.com/HendryAvila/interview-prep-mcp/internal/leetcode"
)

// aliases maps common shorthand to the upstream language slug.
var aliases = map[string]string{
	"py":        "python3",
	"python":    "python3",
	"python2":   "python",
	"go":        "golang",
	"c++":       "cpp",
	"cplusplus": "cpp",
	"cs":        "csharp",
	"c#":        "csharp",
	"js":        "javascript",
	"node":      "javascript",
	"ts":        "typescript",
	"rb":        "ruby",
	"kt":        "kotlin",
	"rs":        "rust",
	"sql":       "mysql",
	"ex":        "elixir",
	"erl":       "erlang",
	"rkt":       "racket",
}

// Alias returns the slug a shorthand token maps to, if any.
func Alias(token string) (string, bool) {
	slug, ok := aliases[strings.ToLower(strings.TrimSpace(token))]
	return slug, ok
}

// Resolve finds the snippet for token. Matching is case-insensitive and
// tried in order: exact slug, exact display name, then alias. The first
// snippet matching in the earliest step wins.
func Resolve(token string, snippets []leetcode.CodeSnippet) (leetcode.CodeSnippet, bool) {
	want := strings.ToLower(strings.TrimSpace(token))
	if want == "" {
		return leetcode.CodeSnippet{}, false
	}

	for _, s := range snippets {
		if strings.ToLower(s.LangSlug) == want {
			return s, true
		}
	}
	for _, s := range snippets {
		if strings.ToLower(s.Lang) == want {
			return s, true
		}
	}
	if slug, ok := aliases[want]; ok {
		for _, s := range snippets {
			if strings.ToLower(s.LangSlug) == slug {
				return s, true
			}
		}
	}
	return leetcode.CodeSnippet{}, false
}

// Available lists the slugs of snippets in upstream order.
func Available(snippets []leetcode.CodeSnippet) []string {
	slugs := make([]string, 0, len(snippets))
	for _, s := range snippets {
		slugs = append(slugs, s.LangSlug)
	}
	return slugs
}
