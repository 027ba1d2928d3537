package leetcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	opCatalogPage     = "catalog_page"
	opCatalogFallback = "catalog_fallback"
)

// FetchCatalogPage returns the total catalog size and one page of entries.
func (c *Client) FetchCatalogPage(ctx context.Context, skip, limit int) (int, []CatalogEntry, error) {
	data, err := c.graphQL(ctx, opCatalogPage, problemsetQuery, map[string]any{
		"categorySlug": "",
		"skip":         skip,
		"limit":        limit,
		"filters":      map[string]any{},
	})
	if err != nil {
		return 0, nil, err
	}
	if isNull(data) {
		return 0, nil, malformedError(opCatalogPage, errors.New("response has no data"))
	}

	var payload struct {
		List *struct {
			Total     *int           `json:"total"`
			Questions []CatalogEntry `json:"questions"`
		} `json:"problemsetQuestionList"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0, nil, malformedError(opCatalogPage, fmt.Errorf("decode data: %w", err))
	}
	if payload.List == nil || payload.List.Total == nil {
		return 0, nil, malformedError(opCatalogPage, errors.New("problemsetQuestionList is missing"))
	}

	for i, q := range payload.List.Questions {
		if q.QuestionFrontendID == "" || q.TitleSlug == "" {
			return 0, nil, malformedError(opCatalogPage, fmt.Errorf("question %d on page at skip=%d has no id or slug", i, skip))
		}
	}
	return *payload.List.Total, payload.List.Questions, nil
}

// FetchFullCatalog pages through the GraphQL catalog. If any page fails,
// the pages fetched so far are discarded and the REST catalog is used
// instead. Cancellation of ctx is returned as is, without fallback.
func (c *Client) FetchFullCatalog(ctx context.Context) (Catalog, error) {
	start := time.Now()

	entries, err := c.paginate(ctx)
	if err == nil {
		c.metrics.catalogSize(len(entries))
		c.logger.WithFields(logrus.Fields{
			"entries":  len(entries),
			"source":   SourceGraphQL,
			"duration": time.Since(start).String(),
		}).Info("Fetched full catalog")
		return Catalog{Entries: entries, Source: SourceGraphQL}, nil
	}
	if ctx.Err() != nil {
		return Catalog{}, ctx.Err()
	}

	c.metrics.fellBack()
	c.logger.WithError(err).Warn("Paginated catalog failed, falling back to REST catalog")

	entries, fbErr := c.fetchFallback(ctx)
	if fbErr != nil {
		return Catalog{}, fmt.Errorf("catalog fallback after %v: %w", err, fbErr)
	}

	c.metrics.catalogSize(len(entries))
	c.logger.WithFields(logrus.Fields{
		"entries":  len(entries),
		"source":   SourceREST,
		"duration": time.Since(start).String(),
	}).Info("Fetched full catalog")
	return Catalog{Entries: entries, Source: SourceREST}, nil
}

func (c *Client) paginate(ctx context.Context) ([]CatalogEntry, error) {
	pageSize := c.cfg.PageSize
	var all []CatalogEntry

	for skip := 0; ; skip += pageSize {
		total, page, err := c.FetchCatalogPage(ctx, skip, pageSize)
		if err != nil {
			return nil, err
		}
		if all == nil {
			all = make([]CatalogEntry, 0, max(total, len(page)))
		}
		all = append(all, page...)

		c.logger.WithFields(logrus.Fields{
			"skip":  skip,
			"count": len(page),
			"total": total,
		}).Debug("Fetched catalog page")

		if len(page) == 0 || skip+pageSize >= total {
			return all, nil
		}
	}
}

// restCatalog is the shape of the REST fallback response.
type restCatalog struct {
	StatStatusPairs []struct {
		Stat struct {
			FrontendQuestionID int    `json:"frontend_question_id"`
			QuestionTitle      string `json:"question__title"`
			QuestionTitleSlug  string `json:"question__title_slug"`
		} `json:"stat"`
		Difficulty struct {
			Level int `json:"level"`
		} `json:"difficulty"`
	} `json:"stat_status_pairs"`
}

func (c *Client) fetchFallback(ctx context.Context) ([]CatalogEntry, error) {
	body, err := c.send(ctx, opCatalogFallback, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.RESTURL, http.NoBody)
	})
	if err != nil {
		return nil, err
	}

	var payload restCatalog
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, malformedError(opCatalogFallback, fmt.Errorf("decode response: %w", err))
	}
	if payload.StatStatusPairs == nil {
		return nil, malformedError(opCatalogFallback, errors.New("stat_status_pairs is missing"))
	}

	type numbered struct {
		id    int
		entry CatalogEntry
	}
	rows := make([]numbered, 0, len(payload.StatStatusPairs))
	for _, item := range payload.StatStatusPairs {
		if item.Stat.QuestionTitleSlug == "" {
			continue
		}
		rows = append(rows, numbered{
			id: item.Stat.FrontendQuestionID,
			entry: CatalogEntry{
				QuestionFrontendID: strconv.Itoa(item.Stat.FrontendQuestionID),
				Title:              item.Stat.QuestionTitle,
				TitleSlug:          item.Stat.QuestionTitleSlug,
				Difficulty:         difficultyFromLevel(item.Difficulty.Level),
			},
		})
	}

	// The REST list comes newest first.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].id < rows[j].id })

	entries := make([]CatalogEntry, len(rows))
	for i, r := range rows {
		entries[i] = r.entry
	}
	return entries, nil
}
