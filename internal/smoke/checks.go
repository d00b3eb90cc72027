package smoke

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/wptable/rankmatrix/internal/domain/rank"
)

// check verifies one property of a running server.
type check struct {
	name string
	run  func(ctx context.Context, c *client, cfg Config) error
}

// checks run in order once the health probe has passed.
var checks = []check{
	{name: "matrix", run: checkMatrix},
	{name: "etag", run: checkETag},
	{name: "matches", run: checkMatches},
	{name: "teams", run: checkTeams},
	{name: "cache", run: checkCache},
}

func failf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrCheckFailed}, args...)...)
}

func expectStatus(r response, want int) error {
	if r.status != want {
		return failf("status %d, want %d: %s", r.status, want, r.body)
	}
	return nil
}

func checkHealth(ctx context.Context, c *client, _ Config) error {
	r, err := c.get(ctx, "/api/health")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if r.status != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, r.status)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := r.decode(&body); err != nil || body.Status != "healthy" {
		return fmt.Errorf("%w: unexpected body %s", ErrUnhealthy, r.body)
	}
	return nil
}

func checkMatrix(ctx context.Context, c *client, _ Config) error {
	r, err := c.get(ctx, "/api/matrix")
	if err != nil {
		return err
	}
	if err := expectStatus(r, http.StatusOK); err != nil {
		return err
	}
	if r.header.Get("ETag") == "" || r.header.Get("Cache-Control") == "" {
		return failf("matrix response lacks caching headers")
	}

	var m struct {
		Headers   []string         `json:"headers"`
		ProbData  []map[string]any `json:"probData"`
		DelimData []map[string]any `json:"delimData"`
	}
	if err := r.decode(&m); err != nil {
		return failf("%v", err)
	}

	order := rank.Order()
	if !slices.Equal(m.Headers, order) {
		return failf("headers %v, want %v", m.Headers, order)
	}
	for name, rows := range map[string][]map[string]any{"probData": m.ProbData, "delimData": m.DelimData} {
		if len(rows) != rank.BucketCount {
			return failf("%s has %d rows, want %d", name, len(rows), rank.BucketCount)
		}
		for i, row := range rows {
			if row[rank.RowKey] != order[i] {
				return failf("%s row %d is %v, want %s", name, i, row[rank.RowKey], order[i])
			}
		}
	}
	return nil
}

func checkETag(ctx context.Context, c *client, _ Config) error {
	first, err := c.get(ctx, "/api/matrix")
	if err != nil {
		return err
	}
	etag := first.header.Get("ETag")
	if etag == "" {
		return failf("missing ETag")
	}

	second, err := c.get(ctx, "/api/matrix", "If-None-Match", etag)
	if err != nil {
		return err
	}
	if err := expectStatus(second, http.StatusNotModified); err != nil {
		return err
	}
	if len(second.body) != 0 {
		return failf("304 carried a %d byte body", len(second.body))
	}
	return nil
}

func checkMatches(ctx context.Context, c *client, cfg Config) error {
	r, err := c.get(ctx, "/api/matches/"+cfg.RowRank+"/"+cfg.ColRank)
	if err != nil {
		return err
	}
	if err := expectStatus(r, http.StatusOK); err != nil {
		return err
	}

	var m struct {
		Matches []any  `json:"matches"`
		Count   int    `json:"count"`
		RowRank string `json:"row_rank"`
		ColRank string `json:"col_rank"`
	}
	if err := r.decode(&m); err != nil {
		return failf("%v", err)
	}
	if m.Count != len(m.Matches) {
		return failf("count %d, but %d matches", m.Count, len(m.Matches))
	}
	if m.RowRank != cfg.RowRank || m.ColRank != cfg.ColRank {
		return failf("ranks echoed as %s/%s", m.RowRank, m.ColRank)
	}
	return nil
}

func checkTeams(ctx context.Context, c *client, _ Config) error {
	r, err := c.get(ctx, "/api/teams")
	if err != nil {
		return err
	}
	if err := expectStatus(r, http.StatusOK); err != nil {
		return err
	}

	var t struct {
		Teams map[string]string `json:"teams"`
		Count int               `json:"count"`
	}
	if err := r.decode(&t); err != nil {
		return failf("%v", err)
	}
	if t.Count != len(t.Teams) {
		return failf("count %d, but %d teams", t.Count, len(t.Teams))
	}
	return nil
}

func checkCache(ctx context.Context, c *client, _ Config) error {
	cleared, err := c.post(ctx, "/api/cache/clear")
	if err != nil {
		return err
	}
	if err := expectStatus(cleared, http.StatusOK); err != nil {
		return err
	}

	info, err := c.get(ctx, "/api/cache/info")
	if err != nil {
		return err
	}
	if err := expectStatus(info, http.StatusOK); err != nil {
		return err
	}
	var body struct {
		Size int `json:"size"`
	}
	if err := info.decode(&body); err != nil {
		return failf("%v", err)
	}
	if body.Size != 0 {
		return failf("cache holds %d entries after clear", body.Size)
	}
	return nil
}
