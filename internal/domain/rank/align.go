package rank

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind selects the numeric type cells are converted to.
type ValueKind int

const (
	// Integral converts cells to int64.
	Integral ValueKind = iota
	// Fractional converts cells to float64.
	Fractional
)

// Row is one aligned row: RowKey -> bucket label, every other column -> int64, float64 or nil.
type Row map[string]any

// Align produces exactly BucketCount rows in Order(), one per bucket.
// Buckets without a document get a row whose columns are all nil. When two
// documents carry the same rank the later one in docs is used.
func Align(docs []map[string]any, kind ValueKind) ([]Row, error) {
	byRank := make(map[string]map[string]any, len(docs))
	for _, doc := range docs {
		byRank[NormalizeKey(doc[SourceKey])] = doc
	}

	rows := make([]Row, 0, BucketCount)
	for _, bucket := range order {
		doc, ok := byRank[bucket]
		if !ok {
			rows = append(rows, emptyRow(bucket))
			continue
		}

		row := Row{RowKey: bucket}
		for key, val := range doc {
			if key == SourceKey || key == storeIDKey {
				continue
			}
			cell, err := convert(val, kind)
			if err != nil {
				return nil, fmt.Errorf("rank %s column %s: %w", bucket, key, err)
			}
			row[key] = cell
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func emptyRow(bucket string) Row {
	row := make(Row, BucketCount+1)
	row[RowKey] = bucket
	for _, h := range order {
		row[h] = nil
	}
	return row
}

// convert maps a raw cell to kind. nil and "" become nil.
// Fractional source values truncate toward zero when an integral cell is requested.
func convert(v any, kind ValueKind) (any, error) {
	var f float64
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		s := strings.TrimSpace(t)
		if t == "" {
			return nil, nil
		}
		if kind == Integral {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrConvert, t)
			}
			return n, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrConvert, t)
		}
		f = parsed
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrConvert, t.String())
		}
		f = parsed
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		if kind == Integral {
			return t, nil
		}
		f = float64(t)
	case bool:
		if t {
			f = 1
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrConvert, v)
	}

	if kind == Fractional {
		return f, nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v", ErrConvert, f)
	}
	return int64(f), nil
}

// Headers returns the column labels of the matrix in bucket order.
func Headers() []string {
	return Order()
}
