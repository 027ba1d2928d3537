package leetcode

// Difficulty is the catalog's three-level difficulty rating.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// difficultyFromLevel maps the REST catalog's numeric level (1/2/3).
func difficultyFromLevel(level int) Difficulty {
	switch level {
	case 1:
		return DifficultyEasy
	case 2:
		return DifficultyMedium
	case 3:
		return DifficultyHard
	default:
		return ""
	}
}

// TopicTag is a topic label attached to a problem.
type TopicTag struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CodeSnippet is the starter code for one language.
type CodeSnippet struct {
	Lang     string `json:"lang"`
	LangSlug string `json:"langSlug"`
	Code     string `json:"code"`
}

// Problem is one catalog entry with its full statement and starter code.
// Values are built once from an upstream response and never mutated.
type Problem struct {
	QuestionID         string        `json:"questionId"`
	QuestionFrontendID string        `json:"questionFrontendId"`
	Title              string        `json:"title"`
	TitleSlug          string        `json:"titleSlug"`
	Difficulty         Difficulty    `json:"difficulty"`
	Content            string        `json:"content"`
	TopicTags          []TopicTag    `json:"topicTags"`
	CodeSnippets       []CodeSnippet `json:"codeSnippets"`
	ExampleTestcases   *string       `json:"exampleTestcases"`
	SampleTestCase     *string       `json:"sampleTestCase"`
	Hints              []string      `json:"hints"`
}

// CatalogEntry is the lightweight projection used for listing and search.
type CatalogEntry struct {
	QuestionFrontendID string     `json:"questionFrontendId"`
	Title              string     `json:"title"`
	TitleSlug          string     `json:"titleSlug"`
	Difficulty         Difficulty `json:"difficulty,omitempty"`
}

// Catalog source labels.
const (
	SourceGraphQL = "graphql"
	SourceREST    = "rest"
)

// Catalog is the full ordered problem list plus where it came from.
type Catalog struct {
	Entries []CatalogEntry
	Source  string
}
