package team

import (
	"fmt"

	"github.com/teascout/teascout/agent"
	"github.com/teascout/teascout/api"
	"github.com/teascout/teascout/internal/analysis"
	"github.com/teascout/teascout/tool"
)

type businessDetails struct {
	BusinessName     string   `json:"business_name"`
	Address          string   `json:"address"`
	PriceTier        string   `json:"price_tier"`
	Rating           float64  `json:"rating"`
	ReviewCount      int      `json:"review_count"`
	Types            []string `json:"types"`
	Niche            string   `json:"niche_category"`
	MenuKeywords     []string `json:"menu_keywords"`
	AmbianceKeywords []string `json:"ambiance_keywords"`
	OpeningHours     []string `json:"opening_hours,omitempty"`
	Website          string   `json:"website,omitempty"`
	YelpCategories   []string `json:"yelp_categories,omitempty"`
	YelpPrice        string   `json:"yelp_price,omitempty"`
}

// getBusinessDetails profiles a single business from its Google listing and
// reviews, with Yelp filling the price gap when Google has none.
func (t *Team) getBusinessDetails(businessName, location string) (businessDetails, error) {
	results, err := t.deps.Places.SearchText(t.ctx, businessName+" "+location, 1)
	if err != nil {
		return businessDetails{}, err
	}
	if len(results) == 0 {
		return businessDetails{}, fmt.Errorf("business %q not found in %q", businessName, location)
	}

	place, err := t.deps.Places.Details(t.ctx, results[0].ID)
	if err != nil {
		return businessDetails{}, err
	}

	reviews := make([]analysis.Review, 0, len(place.Reviews))
	for _, review := range place.Reviews {
		reviews = append(reviews, analysis.Review{Rating: review.Rating, Text: review.Text.Text})
	}

	menuKeywords := analysis.ExtractMenuKeywords(reviews)
	ambianceKeywords := analysis.ExtractAmbianceKeywords(reviews)
	priceTier := analysis.PriceTierFromGoogle(place.PriceLevelValue())

	details := businessDetails{
		BusinessName:     place.DisplayName.Text,
		Address:          place.Address,
		Rating:           place.Rating,
		ReviewCount:      place.UserRatingCount,
		Types:            place.Types,
		Niche:            analysis.CategorizeNiche(reviews, menuKeywords),
		MenuKeywords:     menuKeywords,
		AmbianceKeywords: ambianceKeywords,
		Website:          place.WebsiteURI,
	}
	if place.OpeningHours != nil {
		details.OpeningHours = place.OpeningHours.WeekdayDescriptions
	}

	if t.deps.Yelp != nil {
		if biz, found, err := t.deps.Yelp.FindBusiness(t.ctx, businessName, location); err == nil && found {
			details.YelpPrice = biz.Price
			for _, cat := range biz.Categories {
				details.YelpCategories = append(details.YelpCategories, cat.Title)
			}
			priceTier = analysis.ResolvePriceTier(priceTier, analysis.PriceTierFromYelp(biz.Price))
		}
	}
	details.PriceTier = priceTier
	return details, nil
}

func (d businessDetails) toProfile() analysis.BusinessProfile {
	return analysis.BusinessProfile{
		Name:         d.BusinessName,
		PriceTier:    d.PriceTier,
		Niche:        d.Niche,
		MenuFocus:    analysis.MenuFocus(d.MenuKeywords),
		Rating:       d.Rating,
		MenuKeywords: d.MenuKeywords,
	}
}

const profileSampleLimit = 5

// analyzeTargetCompanyProfile folds the target franchise's existing stores
// into a reference profile for all comparisons.
func (t *Team) analyzeTargetCompanyProfile(companyName, sampleLocationsRaw string) (analysis.CompanyProfile, error) {
	sampleLocations := splitList(sampleLocationsRaw)
	if len(sampleLocations) == 0 {
		return analysis.CompanyProfile{}, fmt.Errorf("at least one sample location is required")
	}
	if len(sampleLocations) > profileSampleLimit {
		sampleLocations = sampleLocations[:profileSampleLimit]
	}

	var profiles []analysis.BusinessProfile
	var ambiance []string
	for _, location := range sampleLocations {
		details, err := t.getBusinessDetails(companyName, location)
		if err != nil {
			continue
		}
		profiles = append(profiles, details.toProfile())
		ambiance = append(ambiance, details.AmbianceKeywords...)
	}
	if len(profiles) == 0 {
		return analysis.CompanyProfile{}, fmt.Errorf("could not find any %s locations in the provided samples", companyName)
	}
	return analysis.BuildCompanyProfile(companyName, profiles, ambiance), nil
}

type areaNicheAnalysis struct {
	Location string `json:"location"`
	analysis.MarketComposition
	Businesses []analysis.BusinessProfile `json:"businesses_analyzed"`
}

// analyzeAreaNicheMarket profiles the named competitors plus every other
// boba shop it can find in the area, then reads the market composition.
func (t *Team) analyzeAreaNicheMarket(location, targetNiche, targetPriceTier, competitorsRaw string) (areaNicheAnalysis, error) {
	seen := map[string]struct{}{}
	var profiles []analysis.BusinessProfile

	for _, name := range splitList(competitorsRaw) {
		if _, ok := seen[name]; ok {
			continue
		}
		details, err := t.getBusinessDetails(name, location)
		if err != nil {
			continue
		}
		seen[name] = struct{}{}
		profiles = append(profiles, details.toProfile())
	}

	area, err := t.deps.Places.SearchText(t.ctx, "bubble tea boba "+location, 20)
	if err != nil {
		return areaNicheAnalysis{}, err
	}
	for _, place := range area {
		name := place.DisplayName.Text
		if _, ok := seen[name]; ok {
			continue
		}
		details, err := t.getBusinessDetails(name, location)
		if err != nil {
			continue
		}
		seen[name] = struct{}{}
		profiles = append(profiles, details.toProfile())
	}

	return areaNicheAnalysis{
		Location:          location,
		MarketComposition: analysis.AnalyzeMarket(profiles, targetNiche, targetPriceTier),
		Businesses:        profiles,
	}, nil
}

type nicheComparison struct {
	Business1                  analysis.BusinessProfile `json:"business_1"`
	Business2                  analysis.BusinessProfile `json:"business_2"`
	SameNiche                  bool                     `json:"same_niche"`
	SamePriceTier              bool                     `json:"same_price_tier"`
	SimilarMenuFocus           bool                     `json:"similar_menu_focus"`
	CompetitiveOverlap         bool                     `json:"competitive_overlap"`
	DifferentiationOpportunity bool                     `json:"differentiation_opportunity"`
	OverlapScore               float64                  `json:"overlap_score"`
}

// compareBusinessNiches checks whether two shops occupy the same niche.
func (t *Team) compareBusinessNiches(businessName1, businessName2, location string) (nicheComparison, error) {
	details1, err := t.getBusinessDetails(businessName1, location)
	if err != nil {
		return nicheComparison{}, err
	}
	details2, err := t.getBusinessDetails(businessName2, location)
	if err != nil {
		return nicheComparison{}, err
	}

	p1, p2 := details1.toProfile(), details2.toProfile()
	sameNiche := p1.Niche == p2.Niche
	samePrice := p1.PriceTier == p2.PriceTier
	similarMenu := p1.MenuFocus == p2.MenuFocus
	overlap := sameNiche && samePrice && similarMenu

	return nicheComparison{
		Business1:                  p1,
		Business2:                  p2,
		SameNiche:                  sameNiche,
		SamePriceTier:              samePrice,
		SimilarMenuFocus:           similarMenu,
		CompetitiveOverlap:         overlap,
		DifferentiationOpportunity: !overlap,
		OverlapScore:               analysis.OverlapScore(sameNiche, samePrice, similarMenu),
	}, nil
}

const nicheFinderInstructions = `You are the Niche Finder agent, analyzing boba tea market niches, price positioning, menu focus, and market fit for potential franchise locations.

Your process:
1. Profile the target company first with analyze_target_company_profile, using its existing store locations. The profile (niche, price tier, menu focus, service style, brand positioning) becomes your reference point.
2. Gather competitor details with get_business_details: price tier from Google and Yelp combined, menu keywords and ambiance from reviews, niche category.
3. Run analyze_area_niche_market with the target's niche and price tier plus the competitor names from Location Scout. It reads the niche distribution, price distribution, saturation level, and market fit.
4. Use compare_business_niches for head-to-head comparisons, each with an overlap score from 0.0 to 1.0.
5. Report whether the area needs the target niche (opportunity) or is saturated (risk), and whether the target's price tier matches the local preference.

Niches are premium, casual, casual-trendy, and quick-service. Price tiers are luxury, mid-range, and budget. Saturation levels are untapped, missing_niche, moderate, and saturated.

Hand off to Location Scout when you need more competitor names, or to Quantitative Analyst for performance metrics. Transfer back to Location Scout with your findings when done.`

func (t *Team) newNicheFinder() api.Agent {
	return agent.New(
		agent.Name(NicheFinderName),
		agent.Model(t.deps.Model),
		agent.Instructions(nicheFinderInstructions),
		agent.Tools(
			tool.Must(t.getBusinessDetails,
				tool.Name("get_business_details"),
				tool.Description("Profile a business: price tier from Google and Yelp, niche category, menu keywords, and ambiance indicators from reviews."),
				tool.Parameters("business_name", "location"),
			),
			tool.Must(t.analyzeTargetCompanyProfile,
				tool.Name("analyze_target_company_profile"),
				tool.Description("Build the target franchise's profile from its existing stores. sample_locations is a comma separated list of areas where it already operates."),
				tool.Parameters("company_name", "sample_locations"),
			),
			tool.Must(t.analyzeAreaNicheMarket,
				tool.Name("analyze_area_niche_market"),
				tool.Description("Read an area's niche market: saturation, price preferences, and fit for the target niche. competitors is a comma separated list of business names."),
				tool.Parameters("location", "target_niche", "target_price_tier", "competitors"),
			),
			tool.Must(t.compareBusinessNiches,
				tool.Name("compare_business_niches"),
				tool.Description("Compare two businesses on niche, price tier, and menu focus, with a 0.0-1.0 overlap score."),
				tool.Parameters("business_name_1", "business_name_2", "location"),
			),
			handoff(ScoutName, "Transfer to Location Scout to identify additional competitors or get more location data."),
			handoff(QuantName, "Transfer to Quantitative Analyst to analyze competitor performance metrics and review trends."),
		),
	)
}
