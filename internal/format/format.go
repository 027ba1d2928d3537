// Package format shapes resolved problems into the JSON payloads returned
// by the MCP tools.
package format

import (
	"fmt"

	"github.com/HendryAvila/interview-prep-mcp/internal/htmltext"
	"github.com/HendryAvila/interview-prep-mcp/internal/language"
	"github.com/HendryAvila/interview-prep-mcp/internal/leetcode"
	"github.com/HendryAvila/interview-prep-mcp/internal/naming"
)

// ProblemPayload is a single loaded problem. Either CodeSnippets or the
// Language/Code/SuggestedFilename triple is set, never both.
type ProblemPayload struct {
	ProblemID        string   `json:"problem_id"`
	Title            string   `json:"title"`
	TitleSlug        string   `json:"title_slug"`
	Difficulty       string   `json:"difficulty"`
	Description      string   `json:"description"`
	Topics           []string `json:"topics"`
	Hints            []string `json:"hints"`
	ExampleTestCases *string  `json:"example_test_cases"`
	SampleTestCase   *string  `json:"sample_test_case"`

	CodeSnippets map[string]string `json:"code_snippets,omitempty"`

	Language          string `json:"language,omitempty"`
	Code              string `json:"code,omitempty"`
	SuggestedFilename string `json:"suggested_filename,omitempty"`
}

// LanguageUnavailablePayload reports a language the problem has no
// starter code for. It is a normal result, not a tool error.
type LanguageUnavailablePayload struct {
	Error              string   `json:"error"`
	RequestedLanguage  string   `json:"requested_language"`
	AvailableLanguages []string `json:"available_languages"`
	ProblemID          string   `json:"problem_id"`
	Title              string   `json:"title"`
	TitleSlug          string   `json:"title_slug"`
}

// Match is one search candidate.
type Match struct {
	ProblemID  string `json:"problem_id"`
	Title      string `json:"title"`
	TitleSlug  string `json:"title_slug"`
	Difficulty string `json:"difficulty"`
}

// SearchPayload lists candidates for a free-text query.
type SearchPayload struct {
	Query   string  `json:"query"`
	Count   int     `json:"count"`
	Matches []Match `json:"matches"`
	Message string  `json:"message"`
}

// LanguageInfo describes one starter-code language of a problem.
type LanguageInfo struct {
	Lang      string `json:"lang"`
	LangSlug  string `json:"lang_slug"`
	Extension string `json:"extension"`
}

// LanguagesPayload lists the starter-code languages of a problem.
type LanguagesPayload struct {
	ProblemID string         `json:"problem_id"`
	Title     string         `json:"title"`
	TitleSlug string         `json:"title_slug"`
	Languages []LanguageInfo `json:"languages"`
}

// Problem formats p. With an empty lang every snippet is included. With
// a lang that resolves, only that snippet is included along with a
// suggested file name. Otherwise a *LanguageUnavailablePayload is
// returned.
func Problem(p *leetcode.Problem, lang string) any {
	if lang != "" {
		snippet, ok := language.Resolve(lang, p.CodeSnippets)
		if !ok {
			return &LanguageUnavailablePayload{
				Error:              fmt.Sprintf("Language '%s' not available for this problem", lang),
				RequestedLanguage:  lang,
				AvailableLanguages: language.Available(p.CodeSnippets),
				ProblemID:          p.QuestionFrontendID,
				Title:              p.Title,
				TitleSlug:          p.TitleSlug,
			}
		}
		out := base(p)
		out.Language = snippet.LangSlug
		out.Code = snippet.Code
		out.SuggestedFilename = naming.SuggestFilename(p.QuestionFrontendID, p.Title, snippet.LangSlug)
		return out
	}

	out := base(p)
	out.CodeSnippets = make(map[string]string, len(p.CodeSnippets))
	for _, s := range p.CodeSnippets {
		out.CodeSnippets[s.LangSlug] = s.Code
	}
	return out
}

func base(p *leetcode.Problem) *ProblemPayload {
	topics := make([]string, 0, len(p.TopicTags))
	for _, t := range p.TopicTags {
		topics = append(topics, t.Name)
	}
	hints := p.Hints
	if hints == nil {
		hints = []string{}
	}
	return &ProblemPayload{
		ProblemID:        p.QuestionFrontendID,
		Title:            p.Title,
		TitleSlug:        p.TitleSlug,
		Difficulty:       string(p.Difficulty),
		Description:      htmltext.ToText(p.Content),
		Topics:           topics,
		Hints:            hints,
		ExampleTestCases: p.ExampleTestcases,
		SampleTestCase:   p.SampleTestCase,
	}
}

// Search formats a candidate list. The query is kept verbatim.
func Search(query string, entries []leetcode.CatalogEntry) *SearchPayload {
	matches := make([]Match, 0, len(entries))
	for _, e := range entries {
		matches = append(matches, Match{
			ProblemID:  e.QuestionFrontendID,
			Title:      e.Title,
			TitleSlug:  e.TitleSlug,
			Difficulty: string(e.Difficulty),
		})
	}
	return &SearchPayload{
		Query:   query,
		Count:   len(matches),
		Matches: matches,
		Message: fmt.Sprintf("Found %d problems matching '%s'. Call load_problem with a problem_id or title_slug to load one.", len(matches), query),
	}
}

// Languages lists the starter-code languages of p in upstream order.
func Languages(p *leetcode.Problem) *LanguagesPayload {
	langs := make([]LanguageInfo, 0, len(p.CodeSnippets))
	for _, s := range p.CodeSnippets {
		langs = append(langs, LanguageInfo{
			Lang:      s.Lang,
			LangSlug:  s.LangSlug,
			Extension: naming.Extension(s.LangSlug),
		})
	}
	return &LanguagesPayload{
		ProblemID: p.QuestionFrontendID,
		Title:     p.Title,
		TitleSlug: p.TitleSlug,
		Languages: langs,
	}
}
