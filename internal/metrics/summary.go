// Package metrics reduces the harvest/revenue feed into dashboard figures.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Sample is one period of the feed, e.g. {"W1", {"vegetables": 42, "surplusRevenue": 2150}}.
type Sample struct {
	ID        int64              `json:"id,omitempty"`
	Period    string             `json:"period"`
	Series    map[string]float64 `json:"series"`
	CreatedAt time.Time          `json:"createdAt"`
}

// ShareConfig sets how much of the designated revenue goes to the school fund.
type ShareConfig struct {
	Fraction decimal.Decimal
	Streams  [2]string
}

func DefaultShare() ShareConfig {
	return ShareConfig{
		Fraction: decimal.RequireFromString("0.8"),
		Streams:  [2]string{"surplusRevenue", "subscriptions"},
	}
}

type Summary struct {
	Periods           int                `json:"periods"`
	Totals            map[string]float64 `json:"totals"`
	Revenue           float64            `json:"revenue"`
	ContributionShare int64              `json:"contributionShare"`
}

func value(s Sample, name string) decimal.Decimal {
	v, ok := s.Series[name]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// SeriesNames lists every series present in samples, sorted.
func SeriesNames(samples []Sample) []string {
	set := map[string]struct{}{}
	for _, s := range samples {
		for k := range s.Series {
			set[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Summarize totals the selected series over samples and derives the
// contribution share: cfg.Fraction of the two revenue streams' sum, rounded
// half away from zero. A nil selector means every series seen in samples.
// Missing or non-finite values count as zero.
func Summarize(samples []Sample, series []string, cfg ShareConfig) Summary {
	if series == nil {
		series = SeriesNames(samples)
	}
	sums := make(map[string]decimal.Decimal, len(series))
	for _, name := range series {
		sums[name] = decimal.Zero
	}
	revenue := decimal.Zero
	for _, s := range samples {
		for _, name := range series {
			sums[name] = sums[name].Add(value(s, name))
		}
		revenue = revenue.Add(value(s, cfg.Streams[0])).Add(value(s, cfg.Streams[1]))
	}

	totals := make(map[string]float64, len(sums))
	for name, d := range sums {
		totals[name] = d.InexactFloat64()
	}
	return Summary{
		Periods:           len(samples),
		Totals:            totals,
		Revenue:           revenue.InexactFloat64(),
		ContributionShare: share(revenue, cfg.Fraction),
	}
}

var (
	maxShare = decimal.NewFromInt(math.MaxInt64)
	minShare = decimal.NewFromInt(math.MinInt64)
)

// share rounds fraction × revenue half away from zero, saturating at the
// int64 bounds.
func share(revenue, fraction decimal.Decimal) int64 {
	d := revenue.Mul(fraction).Round(0)
	switch {
	case d.GreaterThan(maxShare):
		return math.MaxInt64
	case d.LessThan(minShare):
		return math.MinInt64
	}
	return d.IntPart()
}
