package analysis

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Trend summarizes how a shop's ratings move over time. Slope is stars per
// day from a least-squares fit, volatility the population standard deviation
// of the ratings.
type Trend struct {
	Slope      float64 `json:"slope"`
	Volatility float64 `json:"volatility"`
	Direction  string  `json:"direction"`
	Average    float64 `json:"average"`
	Count      int     `json:"count"`
}

const (
	TrendImproving    = "improving"
	TrendDeclining    = "declining"
	TrendStable       = "stable"
	TrendInsufficient = "insufficient_data"
)

// ComputeTrend fits ratings against days since the first review. Timestamps
// are RFC3339, reviews that fail to parse fall back to index positions so a
// partially dirty feed still yields a trend.
func ComputeTrend(reviews []Review) Trend {
	n := len(reviews)
	if n < 2 {
		trend := Trend{Direction: TrendInsufficient, Count: n}
		if n == 1 {
			trend.Average = reviews[0].Rating
		}
		return trend
	}

	ratings := make([]float64, n)
	for i, review := range reviews {
		ratings[i] = review.Rating
	}
	deltas := timeDeltas(reviews)

	slope := leastSquaresSlope(deltas, ratings)
	avg := mean(ratings)

	direction := TrendStable
	switch {
	case slope > 0.01:
		direction = TrendImproving
	case slope < -0.01:
		direction = TrendDeclining
	}

	return Trend{
		Slope:      slope,
		Volatility: stddev(ratings, avg),
		Direction:  direction,
		Average:    avg,
		Count:      n,
	}
}

// timeDeltas converts timestamps to days since the first parsed one. When
// nothing parses the indices 0..n-1 stand in.
func timeDeltas(reviews []Review) []float64 {
	deltas := make([]float64, len(reviews))
	var first time.Time
	parsedAny := false
	for i, review := range reviews {
		ts, err := time.Parse(time.RFC3339, review.Timestamp)
		if err != nil {
			deltas[i] = float64(i)
			continue
		}
		if !parsedAny {
			first = ts
			parsedAny = true
		}
		deltas[i] = ts.Sub(first).Hours() / 24
	}
	if !parsedAny {
		for i := range deltas {
			deltas[i] = float64(i)
		}
	}
	return deltas
}

func leastSquaresSlope(xs, ys []float64) float64 {
	if !hasDistinct(xs) {
		return 0
	}
	n := float64(len(xs))
	mx, my := mean(xs), mean(ys)
	var num, den float64
	for i := range xs {
		num += (xs[i] - mx) * (ys[i] - my)
		den += (xs[i] - mx) * (xs[i] - mx)
	}
	if den == 0 || n < 2 {
		return 0
	}
	return num / den
}

func hasDistinct(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] != xs[0] {
			return true
		}
	}
	return false
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64, avg float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += (x - avg) * (x - avg)
	}
	return math.Sqrt(sum / float64(len(xs)))
}

const (
	HealthStrong   = "strong"
	HealthModerate = "moderate"
	HealthWeak     = "weak"
)

// HealthGrade rates a business on its average rating and trend slope.
func HealthGrade(average, slope float64) string {
	switch {
	case average >= 4.5 && slope >= 0:
		return HealthStrong
	case average >= 4.0 && slope >= -0.1:
		return HealthModerate
	default:
		return HealthWeak
	}
}

// ReviewFrequency estimates reviews per month over a window such as "90d",
// "12w", "6m" or "1y". Unparseable windows fall back to 90 days.
func ReviewFrequency(reviewCount int, window string) float64 {
	days := parseWindowDays(window)
	if days <= 0 {
		days = 90
	}
	return float64(reviewCount) / days * 30
}

func parseWindowDays(window string) float64 {
	window = strings.TrimSpace(strings.ToLower(window))
	if window == "" {
		return 90
	}
	unit := window[len(window)-1]
	value, err := strconv.ParseFloat(window[:len(window)-1], 64)
	if err != nil {
		return 90
	}
	switch unit {
	case 'd':
		return value
	case 'w':
		return value * 7
	case 'm':
		return value * 30
	case 'y':
		return value * 365
	default:
		return 90
	}
}

// HealthSummary counts performers per grade across a set of trends.
type HealthSummary struct {
	Strong   int `json:"strong"`
	Moderate int `json:"moderate"`
	Weak     int `json:"weak"`
}

func SummarizeHealth(trends []Trend) HealthSummary {
	var summary HealthSummary
	for _, trend := range trends {
		switch HealthGrade(trend.Average, trend.Slope) {
		case HealthStrong:
			summary.Strong++
		case HealthModerate:
			summary.Moderate++
		default:
			summary.Weak++
		}
	}
	return summary
}
