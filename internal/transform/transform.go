// Package transform rewrites a name-keyed rankings file into the
// identifier-keyed file the server loads.
package transform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/wptable/rankmatrix/internal/domain/teams"
)

// InputEntry is one ranked team as published by the rankings source.
type InputEntry struct {
	TeamName string          `json:"team_name"`
	Ranking  json.RawMessage `json:"ranking"`
}

// OutputEntry carries either the resolved identifier or the original name.
type OutputEntry struct {
	TeamID   int             `json:"team_id,omitempty"`
	TeamName string          `json:"team_name,omitempty"`
	Ranking  json.RawMessage `json:"ranking"`
}

// Period is one dated ranking list. Periods keep their file order.
type Period[E any] struct {
	Key     string
	Entries []E
}

// Stats summarizes a transform run.
type Stats struct {
	Processed int
	Mapped    int
	ByTier    map[teams.Tier]int
	Unmapped  []string
}

// Read decodes a rankings object, keeping the order of its period keys.
func Read(r io.Reader) ([]Period[InputEntry], error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: expected an object of periods", ErrMalformedInput)
	}

	var periods []Period[InputEntry]
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}
		key, _ := tok.(string)
		var entries []InputEntry
		if err := dec.Decode(&entries); err != nil {
			return nil, fmt.Errorf("%w: period %q: %w", ErrMalformedInput, key, err)
		}
		periods = append(periods, Period[InputEntry]{Key: key, Entries: entries})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	return periods, nil
}

// Apply resolves every named entry. Entries without a name are dropped;
// names the resolver cannot map are kept as names and reported.
func Apply(periods []Period[InputEntry], resolver *teams.Resolver) ([]Period[OutputEntry], Stats) {
	stats := Stats{ByTier: map[teams.Tier]int{}}
	unmapped := map[string]struct{}{}

	out := make([]Period[OutputEntry], 0, len(periods))
	for _, p := range periods {
		entries := make([]OutputEntry, 0, len(p.Entries))
		for _, e := range p.Entries {
			if e.TeamName == "" {
				continue
			}
			stats.Processed++

			res := resolver.Resolve(e.TeamName)
			stats.ByTier[res.Tier]++
			if res.Resolved() {
				stats.Mapped++
				entries = append(entries, OutputEntry{TeamID: res.ID, Ranking: e.Ranking})
				continue
			}
			unmapped[e.TeamName] = struct{}{}
			entries = append(entries, OutputEntry{TeamName: e.TeamName, Ranking: e.Ranking})
		}
		out = append(out, Period[OutputEntry]{Key: p.Key, Entries: entries})
	}

	for name := range unmapped {
		stats.Unmapped = append(stats.Unmapped, name)
	}
	sort.Strings(stats.Unmapped)
	return out, stats
}

// Write encodes periods as an indented JSON object in their given order.
func Write(w io.Writer, periods []Period[OutputEntry]) error {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, p := range periods {
		if i > 0 {
			buf.WriteString(",")
		}
		key, err := json.Marshal(p.Key)
		if err != nil {
			return fmt.Errorf("encode period key: %w", err)
		}
		entries := p.Entries
		if entries == nil {
			entries = []OutputEntry{}
		}
		body, err := json.MarshalIndent(entries, "  ", "  ")
		if err != nil {
			return fmt.Errorf("encode period %q: %w", p.Key, err)
		}
		buf.WriteString("\n  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(body)
	}
	if len(periods) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")

	_, err := w.Write(buf.Bytes())
	return err
}

// Files runs the whole transform from file paths and returns its statistics.
func Files(mappingsPath, inputPath, outputPath string) (Stats, error) {
	table, err := teams.LoadCSV(mappingsPath)
	if err != nil {
		return Stats{}, err
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return Stats{}, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	periods, err := Read(in)
	if err != nil {
		return Stats{}, err
	}
	out, stats := Apply(periods, teams.NewResolver(table))

	f, err := os.Create(outputPath)
	if err != nil {
		return stats, fmt.Errorf("create output: %w", err)
	}
	if err := Write(f, out); err != nil {
		_ = f.Close()
		return stats, fmt.Errorf("write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return stats, fmt.Errorf("close output: %w", err)
	}
	return stats, nil
}

// Report prints the run statistics and the sorted unmapped names.
func Report(w io.Writer, stats Stats) {
	fmt.Fprintln(w, "Statistics:")
	fmt.Fprintf(w, "  Total teams processed: %d\n", stats.Processed)
	fmt.Fprintf(w, "  Teams mapped to IDs: %d\n", stats.Mapped)
	fmt.Fprintf(w, "  Teams not mapped: %d\n", len(stats.Unmapped))

	tiers := make([]string, 0, len(stats.ByTier))
	for t := range stats.ByTier {
		tiers = append(tiers, string(t))
	}
	sort.Strings(tiers)
	for _, t := range tiers {
		fmt.Fprintf(w, "    %s: %d\n", t, stats.ByTier[teams.Tier(t)])
	}

	if len(stats.Unmapped) > 0 {
		fmt.Fprintln(w, "\nUnmapped team names:")
		for _, name := range stats.Unmapped {
			fmt.Fprintf(w, "  - %s\n", name)
		}
	}
}
