package dataset

import (
	"sort"
	"strconv"
	"strings"
)

// Column kinds reported by Profile.
const (
	KindEmpty       = "empty"
	KindNumeric     = "numeric"
	KindCategorical = "categorical"
	KindText        = "text"
)

// maxCategories is the distinct-value ceiling for a categorical column.
const maxCategories = 20

// ValueCount is one distinct value and how often it occurs.
type ValueCount struct {
	Value string
	Count int
}

// ColumnProfile captures the inferred kind and basic statistics of a column.
type ColumnProfile struct {
	Name     string
	Kind     string
	NonEmpty int
	Missing  int
	Unique   int
	// Numeric stats, set when Kind is numeric
	Min  float64
	Max  float64
	Mean float64
	// Most frequent values, highest count first
	TopValues []ValueCount
}

// Profile summarizes every column of t, keeping up to topN frequent values.
func Profile(t *Table, topN int) []ColumnProfile {
	out := make([]ColumnProfile, len(t.Header))
	for c, name := range t.Header {
		p := ColumnProfile{Name: name}
		counts := map[string]int{}
		numeric := true
		n := 0
		for r := range t.Rows {
			v := t.Cell(r, c)
			if v == "" {
				p.Missing++
				continue
			}
			p.NonEmpty++
			counts[v]++
			if !numeric {
				continue
			}
			x, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
			if err != nil {
				numeric = false
				continue
			}
			// Welford running mean
			n++
			if n == 1 || x < p.Min {
				p.Min = x
			}
			if n == 1 || x > p.Max {
				p.Max = x
			}
			p.Mean += (x - p.Mean) / float64(n)
		}
		p.Unique = len(counts)
		switch {
		case p.NonEmpty == 0:
			p.Kind = KindEmpty
		case numeric:
			p.Kind = KindNumeric
		case p.Unique <= maxCategories:
			p.Kind = KindCategorical
		default:
			p.Kind = KindText
		}
		if !numeric || p.NonEmpty == 0 {
			p.Min, p.Max, p.Mean = 0, 0, 0
		}
		p.TopValues = topValues(counts, topN)
		out[c] = p
	}
	return out
}

func topValues(counts map[string]int, n int) []ValueCount {
	all := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		all = append(all, ValueCount{Value: v, Count: c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].Value < all[j].Value
	})
	if n >= 0 && len(all) > n {
		all = all[:n]
	}
	return all
}
