// Package rank holds the fixed rank buckets and the routines that turn sparse
// per-rank documents into dense, rank-ordered rows.
package rank

import (
	"fmt"
	"strconv"
	"strings"
)

// Bucket sizes.
const (
	MaxRank     = 20
	BucketCount = MaxRank + 1
)

// Unranked is the label of the bucket that follows rank MaxRank.
const Unranked = "unranked"

// Field names shared with the document store.
const (
	// RowKey labels the bucket inside an aligned row.
	RowKey = "rank"
	// SourceKey carries the bucket inside a source document.
	SourceKey = "Rank"
	// storeIDKey is the store's own identifier field, never copied into rows.
	storeIDKey = "_id"
)

var order = func() []string {
	o := make([]string, 0, BucketCount)
	for i := 1; i <= MaxRank; i++ {
		o = append(o, strconv.Itoa(i))
	}
	return append(o, Unranked)
}()

// Order returns the bucket labels "1".."20", "unranked". The slice is a copy.
func Order() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// NormalizeKey maps any source rank value to its lookup form: string, trimmed, lower-cased.
func NormalizeKey(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s = t
	case float64:
		// JSON decoders hand back integral ranks as float64.
		if t == float64(int64(t)) {
			s = strconv.FormatInt(int64(t), 10)
		} else {
			s = strconv.FormatFloat(t, 'f', -1, 64)
		}
	default:
		s = fmt.Sprint(t)
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// MatchKey returns the pairwise key used by the matches document for two
// one-based ranks, e.g. ("4", "10") -> "3_9".
func MatchKey(rowRank, colRank string) (string, error) {
	r, err := strconv.Atoi(strings.TrimSpace(rowRank))
	if err != nil {
		return "", fmt.Errorf("%w: row rank %q", ErrInvalidRank, rowRank)
	}
	c, err := strconv.Atoi(strings.TrimSpace(colRank))
	if err != nil {
		return "", fmt.Errorf("%w: col rank %q", ErrInvalidRank, colRank)
	}
	return fmt.Sprintf("%d_%d", r-1, c-1), nil
}
