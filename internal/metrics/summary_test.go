package metrics

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weeks() []Sample {
	return []Sample{
		{Period: "W1", Series: map[string]float64{"vegetables": 42, "eggs": 16, "mushrooms": 7, "surplusRevenue": 2150, "subscriptions": 900}},
		{Period: "W2", Series: map[string]float64{"vegetables": 38, "eggs": 18, "mushrooms": 9, "surplusRevenue": 1880, "subscriptions": 980}},
		{Period: "W3", Series: map[string]float64{"vegetables": 54, "eggs": 20, "mushrooms": 8, "surplusRevenue": 2670, "subscriptions": 1100}},
		{Period: "W4", Series: map[string]float64{"vegetables": 49, "eggs": 22, "mushrooms": 10, "surplusRevenue": 2390, "subscriptions": 1150}},
	}
}

func TestSummarize_SelectedSeries(t *testing.T) {
	samples := []Sample{
		{Period: "W1", Series: map[string]float64{"vegetables": 10}},
		{Period: "W2", Series: map[string]float64{"vegetables": 20}},
	}
	got := Summarize(samples, []string{"vegetables"}, DefaultShare())
	assert.Equal(t, map[string]float64{"vegetables": 30}, got.Totals)
	assert.Equal(t, int64(0), got.ContributionShare)
	assert.Equal(t, 2, got.Periods)
}

func TestSummarize_Dashboard(t *testing.T) {
	got := Summarize(weeks(), nil, DefaultShare())

	assert.Equal(t, 183.0, got.Totals["vegetables"])
	assert.Equal(t, 76.0, got.Totals["eggs"])
	assert.Equal(t, 34.0, got.Totals["mushrooms"])
	assert.Equal(t, 9090.0, got.Totals["surplusRevenue"])
	assert.Equal(t, 4130.0, got.Totals["subscriptions"])
	assert.Equal(t, 13220.0, got.Revenue)
	// round((9090 + 4130) * 0.8)
	assert.Equal(t, int64(10576), got.ContributionShare)
}

func TestSummarize_AbsentSeriesCountsZero(t *testing.T) {
	samples := []Sample{
		{Period: "W1", Series: map[string]float64{"eggs": 5}},
		{Period: "W2", Series: map[string]float64{"fish": 3}},
		{Period: "W3"},
	}
	got := Summarize(samples, []string{"eggs", "fish", "chicken"}, DefaultShare())
	assert.Equal(t, map[string]float64{"eggs": 5, "fish": 3, "chicken": 0}, got.Totals)
}

func TestSummarize_NonFiniteIgnored(t *testing.T) {
	samples := []Sample{
		{Period: "W1", Series: map[string]float64{"eggs": math.NaN(), "subscriptions": math.Inf(1)}},
		{Period: "W2", Series: map[string]float64{"eggs": 4, "subscriptions": 10}},
	}
	got := Summarize(samples, []string{"eggs"}, DefaultShare())
	assert.Equal(t, 4.0, got.Totals["eggs"])
	assert.Equal(t, int64(8), got.ContributionShare)
}

func TestSummarize_ShareSaturates(t *testing.T) {
	huge := []Sample{{Period: "W1", Series: map[string]float64{"surplusRevenue": 2e300}}}
	assert.Equal(t, int64(math.MaxInt64), Summarize(huge, nil, DefaultShare()).ContributionShare)

	neg := []Sample{{Period: "W1", Series: map[string]float64{"subscriptions": -2e300}}}
	assert.Equal(t, int64(math.MinInt64), Summarize(neg, nil, DefaultShare()).ContributionShare)
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil, []string{"vegetables", "eggs"}, DefaultShare())
	assert.Equal(t, map[string]float64{"vegetables": 0, "eggs": 0}, got.Totals)
	assert.Equal(t, int64(0), got.ContributionShare)
	assert.Equal(t, 0.0, got.Revenue)

	got = Summarize(nil, nil, DefaultShare())
	assert.Empty(t, got.Totals)
	assert.Equal(t, int64(0), got.ContributionShare)
}

func TestSummarize_RoundsHalfAwayFromZero(t *testing.T) {
	cfg := ShareConfig{Fraction: decimal.RequireFromString("0.5"), Streams: [2]string{"a", "b"}}

	up := Summarize([]Sample{{Series: map[string]float64{"a": 3, "b": 2}}}, nil, cfg)
	assert.Equal(t, int64(3), up.ContributionShare) // 2.5

	down := Summarize([]Sample{{Series: map[string]float64{"a": -3, "b": -2}}}, nil, cfg)
	assert.Equal(t, int64(-3), down.ContributionShare) // -2.5

	below := Summarize([]Sample{{Series: map[string]float64{"a": 2.4, "b": 2.4}}}, nil, cfg)
	assert.Equal(t, int64(2), below.ContributionShare) // 2.4
}

func TestSummarize_Deterministic(t *testing.T) {
	samples := weeks()
	samples[0].Series["eggs"] = 0.1
	samples[1].Series["eggs"] = 0.2

	a := Summarize(samples, nil, DefaultShare())
	b := Summarize(samples, nil, DefaultShare())
	require.Equal(t, a, b)
	// Decimal sums avoid float drift: 0.1 + 0.2 + 20 + 22.
	assert.Equal(t, 42.3, a.Totals["eggs"])
}

func TestSummarize_DoesNotMutateSamples(t *testing.T) {
	samples := weeks()
	_ = Summarize(samples, []string{"vegetables", "fish"}, DefaultShare())
	_, ok := samples[0].Series["fish"]
	assert.False(t, ok)
	assert.Equal(t, 42.0, samples[0].Series["vegetables"])
}

func TestSeriesNames(t *testing.T) {
	assert.Equal(t,
		[]string{"eggs", "mushrooms", "subscriptions", "surplusRevenue", "vegetables"},
		SeriesNames(weeks()))
}
