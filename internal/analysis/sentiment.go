// Package analysis holds the pure computations behind the research agents:
// review sentiment clustering, competitor niche profiling, rating trends and
// demographic scoring. Everything here is deterministic and side-effect free,
// the agents feed it data from the API clients.
package analysis

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Review is the normalized shape the sentiment and trend computations work
// on, regardless of which API the review came from.
type Review struct {
	Rating     float64
	Text       string
	Author     string
	LocalGuide bool
	Timestamp  string
}

const (
	sentimentSampleSize  = 5
	sentimentTextExcerpt = 200
)

var sentimentCategories = []struct {
	name     string
	keywords []string
}{
	{"Wait Time", []string{"wait", "time", "fast", "slow", "quick", "minutes", "hours", "queue", "line", "busy"}},
	{"Sweetness Levels", []string{"sweet", "sugar", "sweetness", "too sweet", "not sweet", "perfectly sweet", "bland"}},
	{"Pearl Texture", []string{"pearl", "boba", "tapioca", "chewy", "soft", "hard", "texture", "q", "perfect"}},
	{"Staff Friendliness", []string{"staff", "service", "friendly", "rude", "nice", "helpful", "attitude", "customer service"}},
}

// SentimentCluster groups reviews that mention a theme, with a tone split
// and a small sample of excerpts.
type SentimentCluster struct {
	Category string   `json:"category"`
	Count    int      `json:"count"`
	Positive int      `json:"positive"`
	Negative int      `json:"negative"`
	Neutral  int      `json:"neutral"`
	Samples  []string `json:"samples"`
}

// ClusterSentiment buckets reviews into the boba quality themes. A review
// can land in several clusters when it touches several themes. Tone comes
// from the star rating: 4+ positive, 2 and below negative.
func ClusterSentiment(reviews []Review) []SentimentCluster {
	clusters := make([]SentimentCluster, 0, len(sentimentCategories))
	for _, cat := range sentimentCategories {
		cluster := SentimentCluster{Category: cat.name}
		for _, review := range reviews {
			text := strings.ToLower(review.Text)
			if !containsAny(text, cat.keywords) {
				continue
			}
			cluster.Count++
			switch {
			case review.Rating >= 4:
				cluster.Positive++
			case review.Rating <= 2:
				cluster.Negative++
			default:
				cluster.Neutral++
			}
			if len(cluster.Samples) < sentimentSampleSize {
				cluster.Samples = append(cluster.Samples, excerpt(review.Text, sentimentTextExcerpt))
			}
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

var painPointPatterns = []*regexp.Regexp{
	regexp.MustCompile(`i wish[^.]*\.?`),
	regexp.MustCompile(`they don't have[^.]*\.?|they do not have[^.]*\.?|it doesn't have[^.]*\.?`),
}

var painPointCategories = []struct {
	name     string
	keywords []string
}{
	{"Wait Time", []string{"wait", "time", "slow", "queue"}},
	{"Sweetness Levels", []string{"sweet", "sugar"}},
	{"Pearl Texture", []string{"pearl", "boba", "texture"}},
	{"Staff Friendliness", []string{"staff", "service", "friendly"}},
	{"Menu", []string{"menu", "options", "variety", "flavors"}},
	{"Price", []string{"price", "expensive", "cheap", "cost"}},
}

// PainPoint is an unmet-need phrase lifted from a review.
type PainPoint struct {
	Category string `json:"category"`
	Quote    string `json:"quote"`
}

// ExtractPainPoints pulls "i wish ..." and "they don't have ..." phrases out
// of review text and tags each with the theme it complains about.
func ExtractPainPoints(reviews []Review) []PainPoint {
	var points []PainPoint
	for _, review := range reviews {
		text := strings.ToLower(review.Text)
		for _, pattern := range painPointPatterns {
			for _, match := range pattern.FindAllString(text, -1) {
				points = append(points, PainPoint{
					Category: categorizePainPoint(match),
					Quote:    strings.TrimSpace(match),
				})
			}
		}
	}
	return points
}

func categorizePainPoint(phrase string) string {
	for _, cat := range painPointCategories {
		if containsAny(phrase, cat.keywords) {
			return cat.name
		}
	}
	return "General"
}

// Loyalty summarizes how sticky a shop's customer base looks from its
// reviewer mix.
type Loyalty struct {
	TotalReviews          int     `json:"total_reviews"`
	LocalGuidePct         float64 `json:"local_guide_pct"`
	RepeatReviewerRatio   float64 `json:"repeat_reviewer_ratio"`
	Score                 float64 `json:"score"`
	SupportsRegularsModel bool    `json:"supports_regulars_model"`
}

// ScoreLoyalty weighs the local-guide share against repeat reviewers. A
// local-guide share of 30% or more is taken as evidence the shop can sustain
// a regulars-based business.
func ScoreLoyalty(reviews []Review) Loyalty {
	total := len(reviews)
	if total == 0 {
		return Loyalty{}
	}

	localGuides := 0
	authors := make(map[string]struct{}, total)
	for _, review := range reviews {
		if review.LocalGuide {
			localGuides++
		}
		authors[review.Author] = struct{}{}
	}

	localGuidePct := float64(localGuides) / float64(total) * 100
	repeatRatio := float64(total-len(authors)) / float64(total)
	score := localGuidePct*0.6 + repeatRatio*100*0.4

	return Loyalty{
		TotalReviews:          total,
		LocalGuidePct:         round2(localGuidePct),
		RepeatReviewerRatio:   round2(repeatRatio),
		Score:                 round2(score),
		SupportsRegularsModel: localGuidePct >= 30,
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func excerpt(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	// back off to a rune boundary so the cut never splits a character
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
