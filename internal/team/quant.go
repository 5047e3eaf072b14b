package team

import (
	"fmt"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/teascout/teascout/agent"
	"github.com/teascout/teascout/api"
	"github.com/teascout/teascout/internal/analysis"
	"github.com/teascout/teascout/internal/yelp"
	"github.com/teascout/teascout/tool"
)

const (
	quantReviewLimit       = 10
	detailFetchConcurrency = 4
)

type businessReviews struct {
	BusinessName string       `json:"business_name"`
	Address      string       `json:"address"`
	Rating       float64      `json:"rating"`
	ReviewCount  int          `json:"review_count"`
	Reviews      []reviewJSON `json:"reviews"`
}

// fetchGoogleReviews pulls review feeds for the top businesses of a type
// around a location. Detail lookups fan out concurrently, businesses whose
// details cannot be fetched are skipped.
func (t *Team) fetchGoogleReviews(location, businessType string) ([]businessReviews, error) {
	query := fmt.Sprintf("%s near %s", businessType, location)
	results, err := t.deps.Places.SearchText(t.ctx, query, quantReviewLimit)
	if err != nil {
		return nil, err
	}

	fetched := make([]*businessReviews, len(results))
	grp, ctx := errgroup.WithContext(t.ctx)
	grp.SetLimit(detailFetchConcurrency)
	for i, place := range results {
		grp.Go(func() error {
			details, err := t.deps.Places.Details(ctx, place.ID)
			if err != nil {
				return nil
			}
			br := &businessReviews{
				BusinessName: details.DisplayName.Text,
				Address:      details.Address,
				Rating:       details.Rating,
				ReviewCount:  details.UserRatingCount,
			}
			for _, review := range details.Reviews {
				br.Reviews = append(br.Reviews, reviewJSON{
					Rating:    review.Rating,
					Text:      review.Text.Text,
					Author:    review.AuthorAttribution.DisplayName,
					Timestamp: review.PublishTime,
				})
			}
			fetched[i] = br
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	out := make([]businessReviews, 0, len(results))
	for _, br := range fetched {
		if br != nil {
			out = append(out, *br)
		}
	}
	return out, nil
}

type yelpBusinessSummary struct {
	Name        string   `json:"name"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
	Price       string   `json:"price,omitempty"`
	Categories  []string `json:"categories"`
}

// fetchYelpBusinesses searches Yelp for a business type. Coordinates are
// preferred, a free-form location works when they are zero.
func (t *Team) fetchYelpBusinesses(location, businessType string, lat, lng float64) ([]yelpBusinessSummary, error) {
	if t.deps.Yelp == nil {
		return nil, fmt.Errorf("yelp is not configured")
	}

	query := yelp.SearchQuery{Term: businessType, Limit: quantReviewLimit}
	if lat != 0 || lng != 0 {
		query.Latitude, query.Longitude = lat, lng
	} else if location != "" {
		query.Location = location
	} else {
		return nil, fmt.Errorf("either coordinates or a location are required")
	}

	results, err := t.deps.Yelp.Search(t.ctx, query)
	if err != nil {
		return nil, err
	}

	out := make([]yelpBusinessSummary, 0, len(results))
	for _, biz := range results {
		summary := yelpBusinessSummary{
			Name:        biz.Name,
			Rating:      biz.Rating,
			ReviewCount: biz.ReviewCount,
			Price:       biz.Price,
		}
		for _, cat := range biz.Categories {
			summary.Categories = append(summary.Categories, cat.Title)
		}
		out = append(out, summary)
	}
	return out, nil
}

type businessHealth struct {
	BusinessName    string  `json:"business_name"`
	AverageRating   float64 `json:"average_rating"`
	Trend           string  `json:"trend_direction"`
	Slope           float64 `json:"slope"`
	Volatility      float64 `json:"volatility"`
	ReviewsPerMonth float64 `json:"reviews_per_month"`
	Health          string  `json:"health_status"`
}

type healthReport struct {
	TimePeriod string                 `json:"time_period"`
	Businesses []businessHealth       `json:"businesses"`
	Summary    analysis.HealthSummary `json:"summary"`
}

// analyzeCompetitorHealth grades every business in the payload on rating
// level and trajectory.
func (t *Team) analyzeCompetitorHealth(businessDataRaw, timePeriod string) (healthReport, error) {
	var businesses []businessReviews
	if err := json.Unmarshal([]byte(businessDataRaw), &businesses); err != nil {
		return healthReport{}, fmt.Errorf("invalid business data payload: %w", err)
	}
	if timePeriod == "" {
		timePeriod = "90d"
	}

	report := healthReport{TimePeriod: timePeriod}
	var trends []analysis.Trend
	for _, biz := range businesses {
		reviews := make([]analysis.Review, 0, len(biz.Reviews))
		for _, r := range biz.Reviews {
			reviews = append(reviews, r.toReview())
		}
		trend := analysis.ComputeTrend(reviews)
		avg := trend.Average
		if avg == 0 {
			avg = biz.Rating
		}
		trends = append(trends, analysis.Trend{Average: avg, Slope: trend.Slope})
		report.Businesses = append(report.Businesses, businessHealth{
			BusinessName:    biz.BusinessName,
			AverageRating:   avg,
			Trend:           trend.Direction,
			Slope:           trend.Slope,
			Volatility:      trend.Volatility,
			ReviewsPerMonth: analysis.ReviewFrequency(biz.ReviewCount, timePeriod),
			Health:          analysis.HealthGrade(avg, trend.Slope),
		})
	}
	report.Summary = analysis.SummarizeHealth(trends)
	return report, nil
}

// calculateTrendMetrics runs the trend fit on a bare review feed.
func (t *Team) calculateTrendMetrics(reviewsRaw string) (analysis.Trend, error) {
	reviews, err := decodeReviews(reviewsRaw)
	if err != nil {
		return analysis.Trend{}, err
	}
	return analysis.ComputeTrend(reviews), nil
}

const quantInstructions = `You are a Quantitative Analyst specializing in competitive market analysis for boba tea businesses.

You receive competitor and complementary business data from the Location Scout and perform quantitative performance analysis.

Process:
1. Gather review data with fetch_google_reviews (business type plus location) and fetch_yelp_businesses (coordinates preferred, a location string also works)
2. Grade each business with analyze_competitor_health: average rating, trend direction, review frequency, and a strong/moderate/weak health status
3. Use calculate_trend_metrics for detailed trend fits on individual review feeds
4. Roll the results up into a demand indicator: STRONG when most complementary businesses are healthy, WEAK when most are struggling

When your analysis is complete, transfer back to Location Scout with the demand indicator findings.`

func (t *Team) newQuant() api.Agent {
	return agent.New(
		agent.Name(QuantName),
		agent.Model(t.deps.Model),
		agent.Instructions(quantInstructions),
		agent.Tools(
			tool.Must(t.fetchGoogleReviews,
				tool.Name("fetch_google_reviews"),
				tool.Description("Fetch review feeds for the top businesses of a type near a location, e.g. business_type \"cafe\" near \"Sunnyvale, CA\"."),
				tool.Parameters("location", "business_type"),
			),
			tool.Must(t.fetchYelpBusinesses,
				tool.Name("fetch_yelp_businesses"),
				tool.Description("Search Yelp for businesses of a type. Pass latitude/longitude when available, otherwise a location string."),
				tool.Parameters("location", "business_type", "latitude", "longitude"),
			),
			tool.Must(t.analyzeCompetitorHealth,
				tool.Name("analyze_competitor_health"),
				tool.Description("Grade businesses on rating level and trend. Takes the JSON output of fetch_google_reviews and a time period such as 90d."),
				tool.Parameters("business_data_json", "time_period"),
			),
			tool.Must(t.calculateTrendMetrics,
				tool.Name("calculate_trend_metrics"),
				tool.Description("Fit a rating trend over a JSON array of reviews: slope, volatility, and direction."),
				tool.Parameters("reviews_json"),
			),
			handoff(ScoutName, "Transfer back to Location Scout with demand indicator findings after completing the analysis."),
		),
	)
}
