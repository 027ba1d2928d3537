// Package resolver turns one of three problem identifiers (free-text
// name, numeric frontend id, slug) into a problem record or, for
// ambiguous names, a list of candidates.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/interview-prep-mcp/internal/leetcode"
)

// MaxMatches bounds the candidates returned for a free-text query.
const MaxMatches = 10

var (
	// ErrNotFound means the identifier names no problem.
	ErrNotFound = errors.New("problem not found")
	// ErrInvalidArgument means no identifier was supplied.
	ErrInvalidArgument = errors.New("one of problem_name, problem_id or title_slug is required")
)

// Fetcher loads a full problem record. A nil problem with a nil error
// means the slug does not exist.
type Fetcher interface {
	FetchBySlug(ctx context.Context, slug string) (*leetcode.Problem, error)
}

// Identity maps ids and names onto slugs.
type Identity interface {
	ResolveID(ctx context.Context, id string) (string, bool, error)
	Search(ctx context.Context, query string, limit int) ([]leetcode.CatalogEntry, error)
}

// Query carries the caller's identifiers. When several are set the name
// wins, then the id, then the slug.
type Query struct {
	ProblemName string
	ProblemID   string
	TitleSlug   string
}

// Result holds exactly one of Problem or Matches.
type Result struct {
	Problem *leetcode.Problem
	// Matches is set when a name query matched two or more problems.
	Matches []leetcode.CatalogEntry
	// Query is the name as given, for match-list responses.
	Query string
}

// Resolver is safe for concurrent use.
type Resolver struct {
	fetcher  Fetcher
	identity Identity
}

// New creates a Resolver.
func New(fetcher Fetcher, identity Identity) *Resolver {
	return &Resolver{fetcher: fetcher, identity: identity}
}

// Resolve dispatches on the identifier present in q. Upstream errors are
// returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, q Query) (*Result, error) {
	switch {
	case strings.TrimSpace(q.ProblemName) != "":
		return r.byName(ctx, q.ProblemName)
	case strings.TrimSpace(q.ProblemID) != "":
		return r.byID(ctx, strings.TrimSpace(q.ProblemID))
	case strings.TrimSpace(q.TitleSlug) != "":
		return r.bySlug(ctx, strings.TrimSpace(q.TitleSlug))
	default:
		return nil, ErrInvalidArgument
	}
}

func (r *Resolver) byName(ctx context.Context, name string) (*Result, error) {
	matches, err := r.identity.Search(ctx, name, MaxMatches)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: no problem matching '%s'", ErrNotFound, name)
	case 1:
		return r.bySlug(ctx, matches[0].TitleSlug)
	default:
		return &Result{Matches: matches, Query: name}, nil
	}
}

func (r *Resolver) byID(ctx context.Context, id string) (*Result, error) {
	slug, ok, err := r.identity.ResolveID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: ID %s", ErrNotFound, id)
	}
	return r.bySlug(ctx, slug)
}

func (r *Resolver) bySlug(ctx context.Context, slug string) (*Result, error) {
	p, err := r.fetcher.FetchBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	return &Result{Problem: p}, nil
}
