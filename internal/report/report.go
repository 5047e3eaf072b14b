// Package report defines the structured location report the reporter agent
// produces and renders it as terminal-friendly markdown.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
)

// PlazaRow is one analyzed plaza in the summary table.
type PlazaRow struct {
	Plaza           string  `json:"plaza" jsonschema_description:"Name of the plaza or shopping center"`
	DemandScore     string  `json:"demand_score" jsonschema:"enum=HIGH,enum=MEDIUM,enum=LOW"`
	CompetitorCount int     `json:"competitor_count"`
	Saturation      string  `json:"saturation" jsonschema:"enum=HIGH,enum=MEDIUM,enum=LOW"`
	FitScore        float64 `json:"fit_score" jsonschema_description:"Overall fit on a 1-10 scale"`
}

// DemandIndicators summarizes complementary business health around a site.
type DemandIndicators struct {
	BusinessesAnalyzed int     `json:"businesses_analyzed"`
	StrongHealth       int     `json:"strong_health"`
	ModerateHealth     int     `json:"moderate_health"`
	WeakHealth         int     `json:"weak_health"`
	AverageRating      float64 `json:"average_rating"`
	Indicator          string  `json:"indicator" jsonschema:"enum=STRONG,enum=MODERATE,enum=WEAK"`
}

// CompetitiveLandscape summarizes the competitor niche mix.
type CompetitiveLandscape struct {
	CompetitorsAnalyzed int            `json:"competitors_analyzed"`
	NicheDistribution   map[string]int `json:"niche_distribution"`
	PriceDistribution   map[string]int `json:"price_distribution"`
	MarketGap           string         `json:"market_gap" jsonschema_description:"Description of the underserved niche"`
}

// PainPointSummary is one recurring complaint with its mention count.
type PainPointSummary struct {
	PainPoint string `json:"pain_point"`
	Mentions  int    `json:"mentions"`
}

// SentimentSplit is the positive/negative split for one review theme.
type SentimentSplit struct {
	Category    string  `json:"category"`
	PositivePct float64 `json:"positive_pct"`
	NegativePct float64 `json:"negative_pct"`
}

// CustomerInsights summarizes the voice-of-customer findings.
type CustomerInsights struct {
	ReviewsAnalyzed     int                `json:"reviews_analyzed"`
	TopPainPoints       []PainPointSummary `json:"top_pain_points"`
	Sentiment           []SentimentSplit   `json:"sentiment"`
	AverageLoyaltyScore float64            `json:"average_loyalty_score"`
	BusinessModel       string             `json:"business_model" jsonschema_description:"Regulars-focused or tourist-focused recommendation"`
}

// DifferentiationStrategy spells out how the concept should stand apart.
type DifferentiationStrategy struct {
	NichePositioning    string   `json:"niche_positioning"`
	PriceStrategy       string   `json:"price_strategy"`
	MenuFocus           string   `json:"menu_focus"`
	CustomerExperience  string   `json:"customer_experience"`
	UniqueSellingPoints []string `json:"unique_selling_points"`
}

// RiskRow is one entry in the risk table.
type RiskRow struct {
	Factor     string `json:"factor"`
	Severity   string `json:"severity" jsonschema:"enum=HIGH,enum=MEDIUM,enum=LOW"`
	Mitigation string `json:"mitigation"`
}

// Recommendation is the final verdict.
type Recommendation struct {
	Location          string   `json:"location"`
	Confidence        string   `json:"confidence" jsonschema:"enum=HIGH,enum=MODERATE,enum=LOW"`
	KeySuccessFactors []string `json:"key_success_factors"`
}

// Report is the full location evaluation, assembled by the reporter agent
// from everything the research agents gathered.
type Report struct {
	ExecutiveSummary string                  `json:"executive_summary"`
	OpportunityScore float64                 `json:"opportunity_score" jsonschema_description:"Overall market opportunity on a 1-10 scale"`
	Plazas           []PlazaRow              `json:"plazas"`
	Demand           DemandIndicators        `json:"demand"`
	Competition      CompetitiveLandscape    `json:"competition"`
	Customers        CustomerInsights        `json:"customers"`
	Differentiation  DifferentiationStrategy `json:"differentiation"`
	Risks            []RiskRow               `json:"risks"`
	Final            Recommendation          `json:"final_recommendation"`
}

// Markdown renders the report as a markdown document.
func (r Report) Markdown() string {
	var b strings.Builder

	b.WriteString("# Boba Shop Location Report\n\n")
	b.WriteString("## Executive Summary\n\n")
	b.WriteString(r.ExecutiveSummary)
	fmt.Fprintf(&b, "\n\n**Market Opportunity Score:** %.1f/10\n\n", r.OpportunityScore)

	if len(r.Plazas) > 0 {
		b.WriteString("## Plaza Analysis\n\n")
		b.WriteString("| Plaza | Demand | Competitors | Saturation | Fit |\n")
		b.WriteString("|-------|--------|-------------|------------|-----|\n")
		for _, row := range r.Plazas {
			fmt.Fprintf(&b, "| %s | %s | %d | %s | %.1f/10 |\n",
				row.Plaza, row.DemandScore, row.CompetitorCount, row.Saturation, row.FitScore)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Demand Indicators\n\n")
	fmt.Fprintf(&b, "- Complementary businesses analyzed: %d\n", r.Demand.BusinessesAnalyzed)
	fmt.Fprintf(&b, "- Strong health: %d, moderate: %d, weak: %d\n",
		r.Demand.StrongHealth, r.Demand.ModerateHealth, r.Demand.WeakHealth)
	fmt.Fprintf(&b, "- Average rating: %.1f\n", r.Demand.AverageRating)
	fmt.Fprintf(&b, "- **Demand indicator:** %s\n\n", r.Demand.Indicator)

	b.WriteString("## Competitive Landscape\n\n")
	fmt.Fprintf(&b, "- Competitors analyzed: %d\n", r.Competition.CompetitorsAnalyzed)
	writeDistribution(&b, "Niche distribution", r.Competition.NicheDistribution)
	writeDistribution(&b, "Price tier distribution", r.Competition.PriceDistribution)
	fmt.Fprintf(&b, "- **Market gap:** %s\n\n", r.Competition.MarketGap)

	b.WriteString("## Customer Insights\n\n")
	fmt.Fprintf(&b, "- Reviews analyzed: %d\n", r.Customers.ReviewsAnalyzed)
	for i, pp := range r.Customers.TopPainPoints {
		fmt.Fprintf(&b, "%d. %s (%d mentions)\n", i+1, pp.PainPoint, pp.Mentions)
	}
	for _, s := range r.Customers.Sentiment {
		fmt.Fprintf(&b, "- %s: %.0f%% positive / %.0f%% negative\n", s.Category, s.PositivePct, s.NegativePct)
	}
	fmt.Fprintf(&b, "- Average loyalty score: %.1f\n", r.Customers.AverageLoyaltyScore)
	fmt.Fprintf(&b, "- Business model: %s\n\n", r.Customers.BusinessModel)

	b.WriteString("## Differentiation Strategy\n\n")
	fmt.Fprintf(&b, "1. **Niche positioning:** %s\n", r.Differentiation.NichePositioning)
	fmt.Fprintf(&b, "2. **Price strategy:** %s\n", r.Differentiation.PriceStrategy)
	fmt.Fprintf(&b, "3. **Menu focus:** %s\n", r.Differentiation.MenuFocus)
	fmt.Fprintf(&b, "4. **Customer experience:** %s\n", r.Differentiation.CustomerExperience)
	for _, usp := range r.Differentiation.UniqueSellingPoints {
		fmt.Fprintf(&b, "   - %s\n", usp)
	}
	b.WriteString("\n")

	if len(r.Risks) > 0 {
		b.WriteString("## Risk Assessment\n\n")
		b.WriteString("| Risk Factor | Severity | Mitigation |\n")
		b.WriteString("|-------------|----------|------------|\n")
		for _, risk := range r.Risks {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", risk.Factor, risk.Severity, risk.Mitigation)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Final Recommendation\n\n")
	fmt.Fprintf(&b, "**Recommended location:** %s\n\n", r.Final.Location)
	fmt.Fprintf(&b, "**Confidence:** %s\n\n", r.Final.Confidence)
	for i, factor := range r.Final.KeySuccessFactors {
		fmt.Fprintf(&b, "%d. %s\n", i+1, factor)
	}

	return b.String()
}

func writeDistribution(b *strings.Builder, label string, distribution map[string]int) {
	if len(distribution) == 0 {
		return
	}
	fmt.Fprintf(b, "- %s:\n", label)
	keys := make([]string, 0, len(distribution))
	for key := range distribution {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	total := 0
	for _, key := range keys {
		total += distribution[key]
	}
	for _, key := range keys {
		pct := 0.0
		if total > 0 {
			pct = float64(distribution[key]) / float64(total) * 100
		}
		fmt.Fprintf(b, "  - %s: %d (%.0f%%)\n", key, distribution[key], pct)
	}
}

// Render pretty-prints the report for a terminal. Falls back to raw markdown
// when the renderer cannot be built.
func (r Report) Render() string {
	md := r.Markdown()
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
