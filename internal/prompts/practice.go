// Package prompts implements MCP prompt handlers.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// PracticePrompt handles the practice-problem MCP prompt.
// It asks the AI to load a problem and scaffold a solution file.
type PracticePrompt struct{}

// NewPracticePrompt creates a PracticePrompt.
func NewPracticePrompt() *PracticePrompt {
	return &PracticePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *PracticePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("practice-problem",
		mcp.WithPromptDescription(
			"Practice a LeetCode problem: load it, create a solution file with the "+
				"starter code and walk through the problem without giving the answer away.",
		),
		mcp.WithArgument("problem",
			mcp.ArgumentDescription("Problem number, slug or part of the title, e.g. '1', 'two-sum' or 'two sum'"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("language",
			mcp.ArgumentDescription("Language for the starter code, e.g. 'python3', 'go', 'cpp'. Default: python3"),
		),
	)
}

// Handle processes the practice-problem prompt request.
func (p *PracticePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	problem := strings.TrimSpace(req.Params.Arguments["problem"])
	if problem == "" {
		return nil, fmt.Errorf("argument 'problem' is required")
	}

	language := "python3"
	if l := strings.TrimSpace(req.Params.Arguments["language"]); l != "" {
		language = l
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Practice %s in %s", problem, language),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to practice a coding interview problem.\n\n"+
						"1. Call `load_problem` with %s and language %q.\n"+
						"   If it returns a list of candidates, show them and ask me which one I mean.\n"+
						"   If the language is not available, show me the available languages and ask again.\n"+
						"2. Create the file named in `suggested_filename` containing the starter code, "+
						"with the problem description as a comment at the top.\n"+
						"3. Summarize the problem, the constraints and the examples in your own words.\n"+
						"4. Do not write the solution. Offer the hints one at a time only when I ask.",
					identifierArg(problem), language,
				)),
			},
		},
	}, nil
}

// identifierArg picks the load_problem argument that fits the user's text.
func identifierArg(problem string) string {
	switch {
	case isNumber(problem):
		return fmt.Sprintf("problem_id %q", problem)
	case isSlug(problem):
		return fmt.Sprintf("title_slug %q", problem)
	default:
		return fmt.Sprintf("problem_name %q", problem)
	}
}

func isNumber(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func isSlug(s string) bool {
	if !strings.Contains(s, "-") {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
			return false
		}
	}
	return true
}
