package team

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/teascout/teascout/agent"
	"github.com/teascout/teascout/api"
	"github.com/teascout/teascout/internal/analysis"
	"github.com/teascout/teascout/tool"
)

// reviewJSON is the wire shape reviews travel in between tools. Agents pass
// these around as JSON arrays.
type reviewJSON struct {
	Rating     float64 `json:"rating"`
	Text       string  `json:"text"`
	Author     string  `json:"author,omitempty"`
	LocalGuide bool    `json:"local_guide,omitempty"`
	Timestamp  string  `json:"timestamp,omitempty"`
}

func (r reviewJSON) toReview() analysis.Review {
	return analysis.Review{
		Rating:     r.Rating,
		Text:       r.Text,
		Author:     r.Author,
		LocalGuide: r.LocalGuide,
		Timestamp:  r.Timestamp,
	}
}

func decodeReviews(raw string) ([]analysis.Review, error) {
	var wire []reviewJSON
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("invalid reviews payload: %w", err)
	}
	reviews := make([]analysis.Review, 0, len(wire))
	for _, r := range wire {
		reviews = append(reviews, r.toReview())
	}
	return reviews, nil
}

type fetchedReviews struct {
	BusinessName string       `json:"business_name"`
	Address      string       `json:"address"`
	Rating       float64      `json:"rating"`
	ReviewCount  int          `json:"review_count"`
	Reviews      []reviewJSON `json:"reviews"`
}

// fetchReviews looks a business up by name and pulls its review feed.
func (t *Team) fetchReviews(businessName, location string) (fetchedReviews, error) {
	query := businessName
	if location != "" {
		query = businessName + " " + location
	}
	results, err := t.deps.Places.SearchText(t.ctx, query, 1)
	if err != nil {
		return fetchedReviews{}, err
	}
	if len(results) == 0 {
		return fetchedReviews{}, fmt.Errorf("business %q not found in %q", businessName, location)
	}

	details, err := t.deps.Places.Details(t.ctx, results[0].ID)
	if err != nil {
		return fetchedReviews{}, err
	}

	out := fetchedReviews{
		BusinessName: details.DisplayName.Text,
		Address:      details.Address,
		Rating:       details.Rating,
		ReviewCount:  details.UserRatingCount,
	}
	for _, review := range details.Reviews {
		out.Reviews = append(out.Reviews, reviewJSON{
			Rating:    review.Rating,
			Text:      review.Text.Text,
			Author:    review.AuthorAttribution.DisplayName,
			Timestamp: review.PublishTime,
		})
	}
	return out, nil
}

func (t *Team) analyzeSentiment(reviewsRaw string) ([]analysis.SentimentCluster, error) {
	reviews, err := decodeReviews(reviewsRaw)
	if err != nil {
		return nil, err
	}
	return analysis.ClusterSentiment(reviews), nil
}

type painPointReport struct {
	TotalCount int                  `json:"total_count"`
	ByCategory map[string][]string  `json:"by_category"`
	PainPoints []analysis.PainPoint `json:"pain_points"`
}

func (t *Team) extractPainPoints(reviewsRaw string) (painPointReport, error) {
	reviews, err := decodeReviews(reviewsRaw)
	if err != nil {
		return painPointReport{}, err
	}
	points := analysis.ExtractPainPoints(reviews)
	report := painPointReport{
		TotalCount: len(points),
		ByCategory: map[string][]string{},
		PainPoints: points,
	}
	for _, p := range points {
		report.ByCategory[p.Category] = append(report.ByCategory[p.Category], p.Quote)
	}
	return report, nil
}

type loyaltyReport struct {
	analysis.Loyalty
	Recommendation string `json:"recommendation"`
}

func (t *Team) scoreLoyalty(reviewsRaw string) (loyaltyReport, error) {
	reviews, err := decodeReviews(reviewsRaw)
	if err != nil {
		return loyaltyReport{}, err
	}
	loyalty := analysis.ScoreLoyalty(reviews)
	return loyaltyReport{Loyalty: loyalty, Recommendation: loyaltyRecommendation(loyalty)}, nil
}

func loyaltyRecommendation(loyalty analysis.Loyalty) string {
	if loyalty.SupportsRegularsModel {
		return "Area supports a 'Regulars' business model - focus on building repeat customers"
	}
	return "Area is more tourist-driven - focus on first impressions and marketing"
}

type competitorReviewAnalysis struct {
	BusinessName string                      `json:"business_name"`
	ReviewCount  int                         `json:"review_count"`
	Sentiment    []analysis.SentimentCluster `json:"sentiment_clusters"`
	PainPoints   painPointReport             `json:"pain_points"`
	Loyalty      loyaltyReport               `json:"brand_loyalty"`
}

// analyzeCompetitorReviews is the one-shot path: fetch and run the full
// voice-of-customer battery.
func (t *Team) analyzeCompetitorReviews(businessName, location string) (competitorReviewAnalysis, error) {
	fetched, err := t.fetchReviews(businessName, location)
	if err != nil {
		return competitorReviewAnalysis{}, err
	}

	reviews := make([]analysis.Review, 0, len(fetched.Reviews))
	for _, r := range fetched.Reviews {
		reviews = append(reviews, r.toReview())
	}

	points := analysis.ExtractPainPoints(reviews)
	ppReport := painPointReport{TotalCount: len(points), ByCategory: map[string][]string{}, PainPoints: points}
	for _, p := range points {
		ppReport.ByCategory[p.Category] = append(ppReport.ByCategory[p.Category], p.Quote)
	}

	loyalty := analysis.ScoreLoyalty(reviews)
	return competitorReviewAnalysis{
		BusinessName: fetched.BusinessName,
		ReviewCount:  len(reviews),
		Sentiment:    analysis.ClusterSentiment(reviews),
		PainPoints:   ppReport,
		Loyalty:      loyaltyReport{Loyalty: loyalty, Recommendation: loyaltyRecommendation(loyalty)},
	}, nil
}

const voiceInstructions = `You are the Voice of Customer agent, specializing in analyzing competitor reviews for boba tea shops. Your expertise:

1. Fetching reviews: pull Google reviews for any boba shop or competitor
2. Sentiment clustering: group reviews into Wait Time, Sweetness Levels, Pearl Texture, and Staff Friendliness, with a tone split per category
3. Pain point extraction: find "I wish" and "They don't have" statements to uncover customer frustrations
4. Brand loyalty: score Local Guides versus one-time reviewers to judge whether the area supports a "Regulars" business model

When asked to analyze a competitor:
- Use analyze_competitor_reviews for a complete analysis, OR
- Use the individual tools (fetch_reviews, then analyze_review_sentiment and so on) for step-by-step work

Always provide clear, actionable insights. Focus on market opportunities and pain points that could inform business strategy. When done, transfer back to Location Scout with your findings.`

func (t *Team) newVoiceOfCustomer() api.Agent {
	return agent.New(
		agent.Name(VoiceName),
		agent.Model(t.deps.Model),
		agent.Instructions(voiceInstructions),
		agent.Tools(
			tool.Must(t.fetchReviews,
				tool.Name("fetch_reviews"),
				tool.Description("Fetch Google reviews for a business by name and location."),
				tool.Parameters("business_name", "location"),
			),
			tool.Must(t.analyzeSentiment,
				tool.Name("analyze_review_sentiment"),
				tool.Description("Cluster a JSON array of reviews into boba quality themes with a positive/negative/neutral split."),
				tool.Parameters("reviews_json"),
			),
			tool.Must(t.extractPainPoints,
				tool.Name("extract_pain_points"),
				tool.Description("Extract unmet-need statements such as 'I wish' and 'they don't have' from a JSON array of reviews."),
				tool.Parameters("reviews_json"),
			),
			tool.Must(t.scoreLoyalty,
				tool.Name("score_brand_loyalty"),
				tool.Description("Score customer loyalty for a JSON array of reviews, judging whether the area supports a regulars business model."),
				tool.Parameters("reviews_json"),
			),
			tool.Must(t.analyzeCompetitorReviews,
				tool.Name("analyze_competitor_reviews"),
				tool.Description("Fetch a competitor's reviews and run the full sentiment, pain point, and loyalty analysis in one call."),
				tool.Parameters("business_name", "location"),
			),
			handoff(ScoutName, "Transfer back to Location Scout with the customer insight findings."),
		),
	)
}
