package leetcode

import (
	"context"
	"encoding/json"
	"fmt"
)

const opFetchProblem = "fetch_problem"

// FetchBySlug loads one problem. A missing problem is reported as
// (nil, nil), not as an error.
func (c *Client) FetchBySlug(ctx context.Context, slug string) (*Problem, error) {
	data, err := c.graphQL(ctx, opFetchProblem, questionQuery, map[string]any{"titleSlug": slug})
	if err != nil {
		return nil, err
	}
	if isNull(data) {
		return nil, nil
	}

	var payload struct {
		Question json.RawMessage `json:"question"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, malformedError(opFetchProblem, fmt.Errorf("decode data: %w", err))
	}
	if isNull(payload.Question) {
		return nil, nil
	}

	var p Problem
	if err := json.Unmarshal(payload.Question, &p); err != nil {
		return nil, malformedError(opFetchProblem, fmt.Errorf("decode question: %w", err))
	}
	if err := validateProblem(&p); err != nil {
		return nil, malformedError(opFetchProblem, err)
	}
	if p.Hints == nil {
		p.Hints = []string{}
	}
	return &p, nil
}

func validateProblem(p *Problem) error {
	missing := ""
	switch {
	case p.QuestionID == "":
		missing = "questionId"
	case p.QuestionFrontendID == "":
		missing = "questionFrontendId"
	case p.Title == "":
		missing = "title"
	case p.TitleSlug == "":
		missing = "titleSlug"
	}
	if missing != "" {
		return fmt.Errorf("question is missing required field %q", missing)
	}
	return nil
}
