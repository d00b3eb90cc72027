// Package types contains the response shapes shared by the service and the HTTP API.
package types

import (
	"github.com/wptable/rankmatrix/internal/domain/history"
	"github.com/wptable/rankmatrix/internal/domain/rank"
)

// Matrix is the aligned probability and game-count matrix.
type Matrix struct {
	Headers   []string   `json:"headers"`
	ProbData  []rank.Row `json:"probData"`
	DelimData []rank.Row `json:"delimData"`
}

// Matches is the match history between two rank buckets.
type Matches struct {
	Matches any    `json:"matches"`
	Count   int    `json:"count"`
	RowRank string `json:"row_rank"`
	ColRank string `json:"col_rank"`
}

// TeamRef is a requested team name and what it resolved to.
type TeamRef struct {
	Name string `json:"name"`
	ID   int    `json:"team_id"`
	Tier string `json:"match"`
}

// Rankings is the ranking history of a set of teams over a date range.
type Rankings struct {
	Teams     []TeamRef        `json:"teams"`
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Count     int              `json:"count"`
	Rankings  []history.Record `json:"rankings"`
	Unmapped  []string         `json:"unmapped"`
}

// Teams lists the known teams and name variants.
type Teams struct {
	Teams         map[int]string `json:"teams"`
	Mappings      map[string]int `json:"mappings"`
	ObservedTeams []int          `json:"observed_teams"`
	Count         int            `json:"count"`
}

// Health is the liveness response.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CacheCleared reports an administrative cache flush.
type CacheCleared struct {
	Status  string `json:"status"`
	Removed int    `json:"removed"`
}
