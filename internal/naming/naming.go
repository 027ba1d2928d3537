// Package naming turns problem titles into stable identifiers and
// suggests file names for starter code.
//
// Everything here is a pure function: no state, no I/O.
package naming

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	separatorRegex  = regexp.MustCompile(`[\s\-]+`)
	disallowedRegex = regexp.MustCompile(`[^a-z0-9_]`)
	underscoreRegex = regexp.MustCompile(`_+`)
)

// DefaultExtension is used for language slugs without a known extension.
const DefaultExtension = "txt"

// extensions maps a canonical language slug to a source file extension.
// Read-only after init; callers go through Extension.
var extensions = map[string]string{
	"python3":    "py",
	"python":     "py",
	"pythondata": "py",
	"java":       "java",
	"golang":     "go",
	"cpp":        "cpp",
	"c":          "c",
	"csharp":     "cs",
	"javascript": "js",
	"typescript": "ts",
	"ruby":       "rb",
	"swift":      "swift",
	"kotlin":     "kt",
	"rust":       "rs",
	"scala":      "scala",
	"php":        "php",
	"dart":       "dart",
	"erlang":     "erl",
	"elixir":     "ex",
	"racket":     "rkt",
	"mysql":      "sql",
	"mssql":      "sql",
	"oraclesql":  "sql",
	"postgresql": "sql",
	"bash":       "sh",
}

// NormalizeTitle converts a problem title to snake_case.
//
//	"Two Sum"                               → "two_sum"
//	"3Sum"                                  → "3sum"
//	"Binary Tree Level Order Traversal II"  → "binary_tree_level_order_traversal_ii"
//	"Pascal's Triangle"                     → "pascals_triangle"
//
// The result always matches ^[a-z0-9_]*$ with no leading, trailing, or
// doubled underscores, and NormalizeTitle(NormalizeTitle(t)) == NormalizeTitle(t).
func NormalizeTitle(title string) string {
	s := strings.ToLower(title)
	s = separatorRegex.ReplaceAllString(s, "_")
	s = disallowedRegex.ReplaceAllString(s, "")
	s = underscoreRegex.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// Extension returns the file extension (without the dot) for a canonical
// language slug. Unknown slugs get DefaultExtension.
func Extension(languageSlug string) string {
	if ext, ok := extensions[strings.ToLower(languageSlug)]; ok {
		return ext
	}
	return DefaultExtension
}

// SuggestFilename builds "{id}_{normalized title}.{ext}".
//
//	SuggestFilename("1", "Two Sum", "python3") → "1_two_sum.py"
//	SuggestFilename("15", "3Sum", "java")      → "15_3sum.java"
func SuggestFilename(problemID, title, languageSlug string) string {
	return fmt.Sprintf("%s_%s.%s", problemID, NormalizeTitle(title), Extension(languageSlug))
}
