package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceTierFromGoogle(t *testing.T) {
	assert.Equal(t, TierFree, PriceTierFromGoogle(0))
	assert.Equal(t, TierBudget, PriceTierFromGoogle(1))
	assert.Equal(t, TierMidRange, PriceTierFromGoogle(2))
	assert.Equal(t, TierLuxury, PriceTierFromGoogle(3))
	assert.Equal(t, TierLuxury, PriceTierFromGoogle(4))
	assert.Equal(t, TierUnknown, PriceTierFromGoogle(-1))
	assert.Equal(t, TierUnknown, PriceTierFromGoogle(7))
}

func TestPriceTierFromYelp(t *testing.T) {
	assert.Equal(t, TierBudget, PriceTierFromYelp("$"))
	assert.Equal(t, TierMidRange, PriceTierFromYelp("$$"))
	assert.Equal(t, TierLuxury, PriceTierFromYelp("$$$"))
	assert.Equal(t, TierLuxury, PriceTierFromYelp("$$$$"))
	assert.Equal(t, TierUnknown, PriceTierFromYelp(""))
}

func TestResolvePriceTierPrefersGoogle(t *testing.T) {
	assert.Equal(t, TierMidRange, ResolvePriceTier(TierMidRange, TierLuxury))
	assert.Equal(t, TierBudget, ResolvePriceTier(TierUnknown, TierBudget))
	assert.Equal(t, TierUnknown, ResolvePriceTier(TierUnknown, TierUnknown))
}

func TestExtractMenuKeywords(t *testing.T) {
	reviews := []Review{
		{Text: "The taro milk tea with brown sugar pearls is amazing"},
		{Text: "Their matcha latte and cheese foam drinks are great, love the taro too"},
	}
	keywords := ExtractMenuKeywords(reviews)

	assert.Contains(t, keywords, "taro")
	assert.Contains(t, keywords, "milk tea")
	assert.Contains(t, keywords, "brown sugar")
	assert.Contains(t, keywords, "cheese foam")
	assert.Contains(t, keywords, "taro milk tea")
	assert.Contains(t, keywords, "matcha latte")

	// deduplicated
	count := 0
	for _, kw := range keywords {
		if kw == "taro" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtractAmbianceKeywords(t *testing.T) {
	reviews := []Review{
		{Text: "Cozy spot, very clean, great place to study"},
		{Text: "Modern decor, a bit loud on weekends"},
	}
	keywords := ExtractAmbianceKeywords(reviews)
	assert.Contains(t, keywords, "cozy")
	assert.Contains(t, keywords, "clean")
	assert.Contains(t, keywords, "study")
	assert.Contains(t, keywords, "modern")
	assert.Contains(t, keywords, "decor")
	assert.Contains(t, keywords, "loud")
}

func TestCategorizeNiche(t *testing.T) {
	premium := []Review{{Text: "Handcrafted artisan drinks with premium ingredients"}}
	assert.Equal(t, NichePremium, CategorizeNiche(premium, nil))

	quick := []Review{{Text: "Super fast, great for takeout on the go"}}
	assert.Equal(t, NicheQuickService, CategorizeNiche(quick, nil))

	trendy := []Review{{Text: "So aesthetic and instagram worthy, casual vibe, popular with students"}}
	assert.Equal(t, NicheCasualTrendy, CategorizeNiche(trendy, nil))

	casual := []Review{{Text: "Relaxed hangout spot, very chill"}}
	assert.Equal(t, NicheCasual, CategorizeNiche(casual, nil))

	assert.Equal(t, NicheCasual, CategorizeNiche(nil, nil))
}

func TestCategorizeNichePremiumWins(t *testing.T) {
	reviews := []Review{{Text: "Fast and quick but also premium artisan signature drinks"}}
	assert.Equal(t, NichePremium, CategorizeNiche(reviews, nil))
}

func TestMenuFocus(t *testing.T) {
	assert.Equal(t, "general", MenuFocus(nil))
	assert.Equal(t, "milk-tea-focused", MenuFocus([]string{"milk tea", "taro", "oolong"}))
	assert.Equal(t, "fruit-focused", MenuFocus([]string{"mango", "lychee"}))
	assert.Equal(t, "smoothie-focused", MenuFocus([]string{"smoothie", "slush"}))
	assert.Equal(t, "mixed-smoothie-focused", MenuFocus([]string{"frappe"}))
	assert.Equal(t, "general", MenuFocus([]string{"water"}))
}

func TestServiceStyle(t *testing.T) {
	assert.Equal(t, "standard", ServiceStyle(nil))
	assert.Equal(t, "self-serve", ServiceStyle([]string{"kiosk"}))
	assert.Equal(t, "full-service", ServiceStyle([]string{"table service"}))
	assert.Equal(t, "counter-service", ServiceStyle([]string{"fast"}))
	assert.Equal(t, "counter-service", ServiceStyle([]string{"cozy"}))
}

func TestBrandPositioning(t *testing.T) {
	assert.Equal(t, "trendy-instagrammable", BrandPositioning([]string{"instagram", "aesthetic", "trendy"}, nil))
	assert.Equal(t, "modern-trendy", BrandPositioning([]string{"modern"}, nil))
	assert.Equal(t, "traditional-authentic", BrandPositioning([]string{"traditional", "authentic"}, nil))
	assert.Equal(t, "standard", BrandPositioning(nil, nil))
}

func TestOverlapScore(t *testing.T) {
	assert.InDelta(t, 1.0, OverlapScore(true, true, true), 1e-9)
	assert.InDelta(t, 0.4, OverlapScore(true, false, false), 1e-9)
	assert.InDelta(t, 0.3, OverlapScore(false, true, false), 1e-9)
	assert.InDelta(t, 0.6, OverlapScore(false, true, true), 1e-9)
	assert.Zero(t, OverlapScore(false, false, false))
}

func TestAnalyzeMarketUntapped(t *testing.T) {
	comp := AnalyzeMarket(nil, NichePremium, TierLuxury)
	assert.Equal(t, SaturationUntapped, comp.SaturationLevel)
	assert.Equal(t, FitHighOpportunity, comp.MarketFit)
	assert.Contains(t, comp.Recommendation, "first-mover advantage")
}

func TestAnalyzeMarketMissingNiche(t *testing.T) {
	businesses := []BusinessProfile{
		{Name: "A", Niche: NicheCasual, PriceTier: TierBudget, MenuFocus: "general"},
		{Name: "B", Niche: NicheCasual, PriceTier: TierBudget, MenuFocus: "general"},
	}
	comp := AnalyzeMarket(businesses, NichePremium, TierLuxury)
	assert.Equal(t, SaturationMissingNiche, comp.SaturationLevel)
	assert.Equal(t, FitHighOpportunity, comp.MarketFit)
	assert.Equal(t, "misaligned", comp.PriceAlignment)
	assert.Equal(t, TierBudget, comp.DominantPriceTier)
	assert.Contains(t, comp.Recommendation, "none in your niche")
}

func TestAnalyzeMarketSaturated(t *testing.T) {
	businesses := []BusinessProfile{
		{Name: "A", Niche: NichePremium, PriceTier: TierLuxury},
		{Name: "B", Niche: NichePremium, PriceTier: TierLuxury},
		{Name: "C", Niche: NichePremium, PriceTier: TierLuxury},
	}
	comp := AnalyzeMarket(businesses, NichePremium, TierLuxury)
	assert.Equal(t, SaturationSaturated, comp.SaturationLevel)
	assert.Equal(t, FitLowOpportunity, comp.MarketFit)
	assert.Equal(t, 3, comp.TargetNicheCount)
	assert.Contains(t, comp.Recommendation, "High competition risk")
}

func TestAnalyzeMarketModerate(t *testing.T) {
	businesses := []BusinessProfile{
		{Name: "A", Niche: NichePremium, PriceTier: TierLuxury},
		{Name: "B", Niche: NicheCasual, PriceTier: TierBudget},
	}
	comp := AnalyzeMarket(businesses, NichePremium, TierLuxury)
	assert.Equal(t, SaturationModerate, comp.SaturationLevel)
	assert.Equal(t, FitModerateOpportunity, comp.MarketFit)
	assert.Contains(t, comp.Recommendation, "execution and differentiation")
}

func TestBuildCompanyProfile(t *testing.T) {
	locations := []BusinessProfile{
		{PriceTier: TierLuxury, Niche: NichePremium, MenuKeywords: []string{"milk tea", "taro", "signature"}},
		{PriceTier: TierLuxury, Niche: NichePremium, MenuKeywords: []string{"matcha", "cheese foam"}},
		{PriceTier: TierMidRange, Niche: NicheCasual, MenuKeywords: []string{"oolong"}},
	}
	profile := BuildCompanyProfile("Pearl House", locations, []string{"modern", "aesthetic"})

	assert.Equal(t, "Pearl House", profile.CompanyName)
	assert.Equal(t, 3, profile.LocationsAnalyzed)
	assert.Equal(t, TierLuxury, profile.PriceTier)
	assert.Equal(t, NichePremium, profile.Niche)
	assert.Equal(t, "milk-tea-focused", profile.MenuFocus)
	assert.Equal(t, "counter-service", profile.ServiceStyle)
	assert.Equal(t, "modern-trendy", profile.BrandPositioning)
	require.NotEmpty(t, profile.Summary)
	assert.Contains(t, profile.Summary, "premium boba shop with luxury pricing")
}

func TestBuildCompanyProfileEmpty(t *testing.T) {
	profile := BuildCompanyProfile("Nobody", nil, nil)
	assert.Equal(t, TierUnknown, profile.PriceTier)
	assert.Equal(t, TierUnknown, profile.Niche)
	assert.Equal(t, "general", profile.MenuFocus)
	assert.Equal(t, "standard", profile.ServiceStyle)
}
