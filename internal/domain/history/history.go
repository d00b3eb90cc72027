// Package history holds the immutable ranking time series and answers
// team/date-range queries against it.
package history

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wptable/rankmatrix/internal/domain/teams"
)

// Date layouts.
const (
	// SourceDateLayout is the layout of the period keys in the rankings file.
	SourceDateLayout = "01/02/2006"
	// QueryDateLayout is the layout of request bounds and of dates in responses.
	QueryDateLayout = "2006-01-02"
)

// Record is one team's rank on one date.
type Record struct {
	Date     time.Time
	TeamID   int
	TeamName string
	Rank     int
}

// MarshalJSON renders the date in QueryDateLayout.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date     string `json:"date"`
		TeamID   int    `json:"team_id,omitempty"`
		TeamName string `json:"team_name"`
		Ranking  int    `json:"ranking"`
	}{r.Date.Format(QueryDateLayout), r.TeamID, r.TeamName, r.Rank})
}

// Entry is one element of a period list in the rankings file.
type Entry struct {
	TeamID   *int    `json:"team_id,omitempty"`
	TeamName string  `json:"team_name,omitempty"`
	Ranking  flexInt `json:"ranking"`
}

// File is the rankings file: period key -> entries.
type File map[string][]Entry

// LoadReport summarizes what a load kept and skipped.
type LoadReport struct {
	Periods         int
	Records         int
	SkippedPeriods  []string
	UnresolvedNames []string
}

// History is the in-memory time series ordered by date then rank.
type History struct {
	records []Record
}

// ParseSourceDate parses "MM/DD/YYYY" with an optional "-suffix".
func ParseSourceDate(key string) (time.Time, error) {
	head, _, _ := strings.Cut(key, "-")
	t, err := time.Parse(SourceDateLayout, strings.TrimSpace(head))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, key)
	}
	return t, nil
}

// ParseQueryDate parses a "YYYY-MM-DD" request bound.
func ParseQueryDate(s string) (time.Time, error) {
	t, err := time.Parse(QueryDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// LoadFile reads the rankings file at path.
func LoadFile(path string, resolver *teams.Resolver) (*History, LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("open rankings: %w", err)
	}
	defer f.Close()
	return Load(f, resolver)
}

// Load decodes a rankings file. Entries that carry only a team name are
// resolved through resolver; names it cannot map are kept with a zero ID.
// Periods whose key is not a date are skipped and reported.
func Load(r io.Reader, resolver *teams.Resolver) (*History, LoadReport, error) {
	var file File
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, LoadReport{}, fmt.Errorf("%w: %w", ErrMalformedFile, err)
	}
	return FromFile(file, resolver), reportFor(file, resolver), nil
}

// FromFile builds a History from an already decoded file.
func FromFile(file File, resolver *teams.Resolver) *History {
	h := &History{}
	for key, entries := range file {
		date, err := ParseSourceDate(key)
		if err != nil {
			continue
		}
		for _, e := range entries {
			rec := Record{Date: date, Rank: int(e.Ranking)}
			switch {
			case e.TeamID != nil:
				rec.TeamID = *e.TeamID
			case resolver != nil:
				if res := resolver.Resolve(e.TeamName); res.Resolved() {
					rec.TeamID = res.ID
				}
			}
			rec.TeamName = e.TeamName
			if resolver != nil && rec.TeamID != 0 {
				if name, ok := resolver.Table().CanonicalName(rec.TeamID); ok {
					rec.TeamName = name
				}
			}
			h.records = append(h.records, rec)
		}
	}
	sort.SliceStable(h.records, func(i, j int) bool {
		a, b := h.records[i], h.records[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		return a.TeamID < b.TeamID
	})
	return h
}

func reportFor(file File, resolver *teams.Resolver) LoadReport {
	rep := LoadReport{}
	unresolved := map[string]struct{}{}
	for key, entries := range file {
		if _, err := ParseSourceDate(key); err != nil {
			rep.SkippedPeriods = append(rep.SkippedPeriods, key)
			continue
		}
		rep.Periods++
		rep.Records += len(entries)
		for _, e := range entries {
			if e.TeamID != nil {
				continue
			}
			if resolver == nil || !resolver.Resolve(e.TeamName).Resolved() {
				unresolved[e.TeamName] = struct{}{}
			}
		}
	}
	for name := range unresolved {
		rep.UnresolvedNames = append(rep.UnresolvedNames, name)
	}
	sort.Strings(rep.SkippedPeriods)
	sort.Strings(rep.UnresolvedNames)
	return rep
}

// Query selects records dated within [from, to] whose team ID is in ids or,
// for records without an ID, whose name equals one of names ignoring case.
func (h *History) Query(ids []int, names []string, from, to time.Time) []Record {
	idSet := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}
	nameSet := make(map[string]struct{}, len(names))
	for _, n := range names {
		nameSet[strings.ToLower(strings.TrimSpace(n))] = struct{}{}
	}

	out := []Record{}
	for _, rec := range h.records {
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		if rec.TeamID != 0 {
			if _, ok := idSet[rec.TeamID]; ok {
				out = append(out, rec)
			}
			continue
		}
		if _, ok := nameSet[strings.ToLower(rec.TeamName)]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// TeamIDs returns the distinct identifiers observed in the series, ascending.
func (h *History) TeamIDs() []int {
	seen := map[int]struct{}{}
	for _, rec := range h.records {
		if rec.TeamID != 0 {
			seen[rec.TeamID] = struct{}{}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Len returns the number of records.
func (h *History) Len() int {
	return len(h.records)
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("ranking %s: %w", b, err)
	}
	*f = flexInt(n)
	return nil
}
