// Package catalog is the identity cache: it maps frontend ids to slugs
// and answers substring searches over the full problem catalog.
//
// The catalog is fetched once per process, on first use or on Warm, and
// kept in an in-memory SQLite index. Concurrent callers that find the
// cache unbuilt share a single build. A failed build is not remembered;
// the next caller starts a new one.
package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/HendryAvila/interview-prep-mcp/internal/leetcode"
)

// DefaultSearchLimit applies when Search is called with limit <= 0.
const DefaultSearchLimit = 10

// timeNow is a package-level var to allow test injection.
var timeNow = time.Now

// Source produces the full catalog.
type Source interface {
	FetchFullCatalog(ctx context.Context) (leetcode.Catalog, error)
}

// Stats describes the cache state.
type Stats struct {
	Built   bool       `json:"built"`
	Entries int        `json:"entries"`
	BuiltAt *time.Time `json:"built_at,omitempty"`
	Source  string     `json:"source,omitempty"`
}

// Cache is safe for concurrent use.
type Cache struct {
	source Source
	logger *logrus.Logger
	group  singleflight.Group

	mu    sync.RWMutex
	index *Index
	stats Stats
}

// New creates an unbuilt cache. logger may be nil.
func New(source Source, logger *logrus.Logger) *Cache {
	if logger == nil {
		logger = logrus.New()
	}
	return &Cache{source: source, logger: logger}
}

// Warm builds the cache now if it is not built yet.
func (c *Cache) Warm(ctx context.Context) error {
	_, err := c.ensure(ctx)
	return err
}

// ResolveID returns the slug for a frontend id. Leading zeros and
// surrounding space are ignored.
func (c *Cache) ResolveID(ctx context.Context, id string) (string, bool, error) {
	id = strings.TrimSpace(id)
	if n, err := strconv.Atoi(id); err == nil {
		id = strconv.Itoa(n)
	}

	idx, err := c.ensure(ctx)
	if err != nil {
		return "", false, err
	}
	return idx.Slug(ctx, id)
}

// Search returns up to limit entries whose title or slug contains query.
// A blank query matches nothing and does not build the cache.
func (c *Cache) Search(ctx context.Context, query string, limit int) ([]leetcode.CatalogEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []leetcode.CatalogEntry{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	idx, err := c.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return idx.Search(ctx, query, limit)
}

// Stats returns a snapshot of the cache state.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// Close releases the index, if built.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index == nil {
		return nil
	}
	err := c.index.Close()
	c.index = nil
	c.stats = Stats{}
	return err
}

func (c *Cache) built() *Index {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index
}

// ensure returns the built index, building it if needed. The build runs
// detached from ctx so that a caller giving up does not fail the build
// for the others waiting on it.
func (c *Cache) ensure(ctx context.Context) (*Index, error) {
	if idx := c.built(); idx != nil {
		return idx, nil
	}

	ch := c.group.DoChan("catalog", func() (any, error) {
		if idx := c.built(); idx != nil {
			return idx, nil
		}
		return c.build(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Index), nil
	}
}

func (c *Cache) build(ctx context.Context) (*Index, error) {
	start := timeNow()
	c.logger.Info("Building catalog cache")

	cat, err := c.source.FetchFullCatalog(ctx)
	if err != nil {
		c.logger.WithError(err).Error("Catalog cache build failed")
		return nil, fmt.Errorf("build catalog cache: %w", err)
	}

	idx, err := NewIndex()
	if err != nil {
		return nil, err
	}
	if err := idx.Load(ctx, cat.Entries); err != nil {
		_ = idx.Close()
		return nil, err
	}
	n, err := idx.Len(ctx)
	if err != nil {
		_ = idx.Close()
		return nil, err
	}

	builtAt := timeNow()
	c.mu.Lock()
	c.index = idx
	c.stats = Stats{Built: true, Entries: n, BuiltAt: &builtAt, Source: cat.Source}
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"entries":  n,
		"source":   cat.Source,
		"duration": builtAt.Sub(start).String(),
	}).Info("Catalog cache built")
	return idx, nil
}
