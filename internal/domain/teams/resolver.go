package teams

import (
	"strconv"
	"strings"
)

// Tier names the matching stage that produced a resolution.
type Tier string

// Tiers, in the order they are tried.
const (
	TierExact           Tier = "exact"
	TierAlias           Tier = "alias"
	TierCaseInsensitive Tier = "case_insensitive"
	TierToken           Tier = "token"
	TierRaw             Tier = "raw_id"
	TierUnmapped        Tier = "unmapped"
)

// Resolution is the tagged result of resolving a name.
type Resolution struct {
	ID   int
	Tier Tier
}

// Resolved reports whether the name mapped to an identifier.
func (r Resolution) Resolved() bool {
	return r.Tier != TierUnmapped
}

// Unmapped is the zero-ID result for names that match nothing.
var Unmapped = Resolution{Tier: TierUnmapped}

// tokenRule accepts a table entry when the input contains token and the
// entry name contains any of candidates.
type tokenRule struct {
	token      string
	candidates []string
}

// tokenRules is checked per table entry, in this order. Tokens are case sensitive.
var tokenRules = []tokenRule{
	{"USC", []string{"USC"}},
	{"UCLA", []string{"UCLA"}},
	{"Stanford", []string{"Stanford"}},
	{"Berkeley", []string{"UC Berkeley", "California"}},
	{"Irvine", []string{"Irvine"}},
	{"Santa Barbara", []string{"UCSB", "Santa Barbara"}},
	{"Davis", []string{"Davis"}},
	{"San Diego", []string{"San Diego"}},
	{"Pepperdine", []string{"Pepperdine"}},
	{"Loyola", []string{"LMU", "Loyola"}},
	{"Long Beach", []string{"Long Beach"}},
	{"Naval Academy", []string{"Navy", "Naval"}},
	{"Francis", []string{"Francis"}},
}

// aliases rewrites long-form names published by rankings sources to the
// spelling used in the mappings file.
var aliases = map[string]string{
	"University of California, Berkeley":      "University of California",
	"University of California, Los Angeles":   "University of California-Los Angeles",
	"University of California, Irvine":        "University of California-Irvine",
	"University of California, Santa Barbara": "University of California-Santa Barbara",
	"University of California, Davis":         "University of California-Davis",
	"University of California, San Diego":     "University of California-San Diego",
	"St. Francis College (NY)":                "Saint Francis",
	"St. Francis":                             "Saint Francis",
	"Cal Baptist":                             "California Baptist",
	"CBU":                                     "California Baptist University",
}

// Resolver applies the matching tiers against a Table.
type Resolver struct {
	table *Table
}

// NewResolver creates a resolver over table.
func NewResolver(table *Table) *Resolver {
	return &Resolver{table: table}
}

// Table returns the underlying mapping table.
func (r *Resolver) Table() *Table {
	return r.table
}

// Resolve maps name to a team identifier. The first matching tier wins:
// exact, alias rewrite or exact on the trimmed name, case-insensitive,
// token heuristic. Blank input is
// always unmapped. The token tier can produce false positives when two
// schools share a token.
func (r *Resolver) Resolve(name string) Resolution {
	if strings.TrimSpace(name) == "" {
		return Unmapped
	}

	if id, ok := r.table.Lookup(name); ok {
		return Resolution{ID: id, Tier: TierExact}
	}

	trimmed := strings.TrimSpace(name)
	if alias, ok := aliases[trimmed]; ok {
		if id, ok := r.table.Lookup(alias); ok {
			return Resolution{ID: id, Tier: TierAlias}
		}
	} else if id, ok := r.table.Lookup(trimmed); ok {
		return Resolution{ID: id, Tier: TierExact}
	}

	lower := strings.ToLower(trimmed)
	for _, e := range r.table.entries {
		if strings.ToLower(e.Name) == lower {
			return Resolution{ID: e.ID, Tier: TierCaseInsensitive}
		}
	}

	for _, e := range r.table.entries {
		for _, rule := range tokenRules {
			if !strings.Contains(name, rule.token) {
				continue
			}
			for _, c := range rule.candidates {
				if strings.Contains(e.Name, c) {
					return Resolution{ID: e.ID, Tier: TierToken}
				}
			}
		}
	}

	return Unmapped
}

// ResolveOrRaw resolves name and, when nothing matches, accepts a purely
// numeric input as a raw team identifier.
func (r *Resolver) ResolveOrRaw(name string) Resolution {
	res := r.Resolve(name)
	if res.Resolved() {
		return res
	}
	id, err := strconv.Atoi(strings.TrimSpace(name))
	if err != nil {
		return Unmapped
	}
	return Resolution{ID: id, Tier: TierRaw}
}
