package analysis

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	TierUnknown  = "unknown"
	TierFree     = "free"
	TierBudget   = "budget"
	TierMidRange = "mid-range"
	TierLuxury   = "luxury"
)

// PriceTierFromGoogle maps the classic 0-4 price level to a tier. Pass -1
// when the level is absent.
func PriceTierFromGoogle(priceLevel int) string {
	switch priceLevel {
	case 0:
		return TierFree
	case 1:
		return TierBudget
	case 2:
		return TierMidRange
	case 3, 4:
		return TierLuxury
	default:
		return TierUnknown
	}
}

// PriceTierFromYelp maps the Yelp dollar-sign indicator to a tier.
func PriceTierFromYelp(price string) string {
	switch price {
	case "$":
		return TierBudget
	case "$$":
		return TierMidRange
	case "$$$", "$$$$":
		return TierLuxury
	default:
		return TierUnknown
	}
}

// ResolvePriceTier prefers the Google tier and falls back to Yelp when
// Google has no price data.
func ResolvePriceTier(googleTier, yelpTier string) string {
	if googleTier == TierUnknown && yelpTier != TierUnknown {
		return yelpTier
	}
	return googleTier
}

var menuPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:taro|matcha|jasmine|oolong|black tea|green tea|milk tea|fruit tea|herbal tea)\b`),
	regexp.MustCompile(`\b(?:pearls?|boba|tapioca|jelly|pudding|popping boba|lychee jelly|grass jelly)\b`),
	regexp.MustCompile(`\b(?:sweetness|sugar level|ice level|customization|custom|build your own)\b`),
	regexp.MustCompile(`\b(?:premium|artisan|handcrafted|signature|specialty|gourmet)\b`),
	regexp.MustCompile(`\b(?:cheap|affordable|expensive|pricey|value|budget)\b`),
	regexp.MustCompile(`\b(?:toppings|add-ons|extras|sinkers)\b`),
	regexp.MustCompile(`\b(?:mango|strawberry|lychee|passion fruit|peach|pineapple|watermelon|dragon fruit)\b`),
	regexp.MustCompile(`\b(?:brown sugar|honey|agave|syrup)\b`),
	regexp.MustCompile(`\b(?:cheese foam|cream|whipped cream|foam)\b`),
	regexp.MustCompile(`\b(?:smoothie|slush|frappe|ice blended)\b`),
}

var drinkPattern = regexp.MustCompile(`\b(?:taro|matcha|jasmine|oolong|mango|strawberry|lychee)\s+(?:milk tea|tea|latte|smoothie|slush)\b`)

// ExtractMenuKeywords pulls menu-item mentions out of review text, including
// compound drink names like "taro milk tea". The result is deduplicated in
// first-seen order.
func ExtractMenuKeywords(reviews []Review) []string {
	var keywords []string
	for _, review := range reviews {
		text := strings.ToLower(review.Text)
		for _, pattern := range menuPatterns {
			keywords = append(keywords, pattern.FindAllString(text, -1)...)
		}
	}
	for _, review := range reviews {
		keywords = append(keywords, drinkPattern.FindAllString(strings.ToLower(review.Text), -1)...)
	}
	return dedupe(keywords)
}

var ambiancePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:cozy|comfortable|spacious|cramped|small|large)\b`),
	regexp.MustCompile(`\b(?:modern|trendy|aesthetic|instagram|decor|design)\b`),
	regexp.MustCompile(`\b(?:quiet|loud|busy|peaceful|vibrant)\b`),
	regexp.MustCompile(`\b(?:study|work|hangout|meet|social)\b`),
	regexp.MustCompile(`\b(?:clean|dirty|hygienic|messy)\b`),
	regexp.MustCompile(`\b(?:fast|slow|quick|wait time|service)\b`),
	regexp.MustCompile(`\b(?:premium|luxury|upscale|casual|laid-back)\b`),
}

// ExtractAmbianceKeywords pulls atmosphere mentions out of review text.
func ExtractAmbianceKeywords(reviews []Review) []string {
	var keywords []string
	for _, review := range reviews {
		text := strings.ToLower(review.Text)
		for _, pattern := range ambiancePatterns {
			keywords = append(keywords, pattern.FindAllString(text, -1)...)
		}
	}
	return dedupe(keywords)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

const (
	NichePremium      = "premium"
	NicheQuickService = "quick-service"
	NicheCasualTrendy = "casual-trendy"
	NicheCasual       = "casual"
)

var (
	premiumIndicators = []string{
		"premium", "luxury", "artisan", "handcrafted", "signature",
		"upscale", "high-end", "gourmet", "specialty", "craft", "artisanal",
	}
	quickServiceIndicators = []string{
		"fast", "quick", "grab and go", "takeout", "drive-thru",
		"counter service", "no seating", "fast food", "express",
	}
	casualIndicators = []string{
		"casual", "laid-back", "relaxed", "comfortable", "hangout",
		"study spot", "meet friends", "chill", "cozy",
	}
	socialIndicators = []string{
		"instagram", "instagrammable", "aesthetic", "trendy", "hip",
		"viral", "popular", "influencer", "photo", "selfie",
	}
)

// CategorizeNiche decides a shop's niche from its reviews and menu keywords.
// Premium wins over quick-service, which wins over the casual variants.
func CategorizeNiche(reviews []Review, menuKeywords []string) string {
	var parts []string
	for _, review := range reviews {
		parts = append(parts, strings.ToLower(review.Text))
	}
	parts = append(parts, strings.ToLower(strings.Join(menuKeywords, " ")))
	combined := strings.Join(parts, " ")

	premium := countIndicators(combined, premiumIndicators)
	quick := countIndicators(combined, quickServiceIndicators)
	casual := countIndicators(combined, casualIndicators)
	social := countIndicators(combined, socialIndicators)

	switch {
	case premium >= 2:
		return NichePremium
	case quick >= 2:
		return NicheQuickService
	case social >= 2 && casual >= 1:
		return NicheCasualTrendy
	default:
		return NicheCasual
	}
}

func countIndicators(text string, indicators []string) int {
	count := 0
	for _, indicator := range indicators {
		if strings.Contains(text, indicator) {
			count++
		}
	}
	return count
}

var menuFocusIndicators = []struct {
	focus    string
	keywords []string
}{
	{"fruit-focused", []string{"mango", "strawberry", "lychee", "passion fruit", "peach", "pineapple", "watermelon", "dragon fruit", "fruit tea"}},
	{"milk-tea-focused", []string{"milk tea", "taro", "matcha", "jasmine", "oolong", "black tea", "green tea"}},
	{"specialty-focused", []string{"cheese foam", "cream", "whipped", "signature", "specialty", "artisan", "handcrafted"}},
	{"smoothie-focused", []string{"smoothie", "slush", "frappe", "ice blended"}},
}

// MenuFocus classifies the drinks a shop leans into. A clear winner needs
// two indicator hits, a single hit yields the "mixed-" prefix.
func MenuFocus(menuKeywords []string) string {
	if len(menuKeywords) == 0 {
		return "general"
	}
	text := strings.ToLower(strings.Join(menuKeywords, " "))

	best, bestScore := "", 0
	for _, focus := range menuFocusIndicators {
		score := countIndicators(text, focus.keywords)
		if score > bestScore {
			best, bestScore = focus.focus, score
		}
	}
	switch {
	case bestScore >= 2:
		return best
	case bestScore >= 1:
		return "mixed-" + best
	default:
		return "general"
	}
}

var (
	selfServeIndicators      = []string{"self-serve", "self serve", "kiosk", "automated", "grab and go"}
	fullServiceIndicators    = []string{"full service", "table service", "waiter", "server", "sit down"}
	counterServiceIndicators = []string{"counter", "order at counter", "fast", "quick service"}
)

// ServiceStyle infers how orders are taken. Counter service is the default
// for boba shops.
func ServiceStyle(ambianceKeywords []string) string {
	if len(ambianceKeywords) == 0 {
		return "standard"
	}
	text := strings.ToLower(strings.Join(ambianceKeywords, " "))
	switch {
	case countIndicators(text, selfServeIndicators) >= 1:
		return "self-serve"
	case countIndicators(text, fullServiceIndicators) >= 1:
		return "full-service"
	default:
		return "counter-service"
	}
}

var (
	trendyIndicators = []string{
		"instagram", "instagrammable", "aesthetic", "trendy", "hip", "viral",
		"popular", "influencer", "photo", "selfie", "modern", "design",
	}
	traditionalIndicators = []string{"traditional", "authentic", "classic", "original", "heritage", "time-tested"}
)

// BrandPositioning places a shop on the trendy-to-traditional axis.
func BrandPositioning(ambianceKeywords, menuKeywords []string) string {
	text := strings.ToLower(strings.Join(append(append([]string{}, ambianceKeywords...), menuKeywords...), " "))

	trendy := countIndicators(text, trendyIndicators)
	traditional := countIndicators(text, traditionalIndicators)

	switch {
	case trendy >= 3:
		return "trendy-instagrammable"
	case trendy >= 1:
		return "modern-trendy"
	case traditional >= 2:
		return "traditional-authentic"
	default:
		return "standard"
	}
}

// OverlapScore measures how directly two shops compete, 0.0 to 1.0.
func OverlapScore(sameNiche, samePriceTier, similarMenuFocus bool) float64 {
	score := 0.0
	if sameNiche {
		score += 0.4
	}
	if samePriceTier {
		score += 0.3
	}
	if similarMenuFocus {
		score += 0.3
	}
	return round2(score)
}

const (
	SaturationUntapped     = "untapped"
	SaturationMissingNiche = "missing_niche"
	SaturationModerate     = "moderate"
	SaturationSaturated    = "saturated"

	FitHighOpportunity     = "high_opportunity"
	FitModerateOpportunity = "moderate_opportunity"
	FitLowOpportunity      = "low_opportunity"
)

// BusinessProfile is one analyzed shop in a market.
type BusinessProfile struct {
	Name         string   `json:"name"`
	PriceTier    string   `json:"price_tier"`
	Niche        string   `json:"niche_category"`
	MenuFocus    string   `json:"menu_focus"`
	Rating       float64  `json:"rating"`
	MenuKeywords []string `json:"menu_keywords"`
}

// MarketComposition is the niche-market read for an area.
type MarketComposition struct {
	TotalBusinesses   int            `json:"total_boba_businesses"`
	TargetNicheCount  int            `json:"target_niche_count"`
	NicheDistribution map[string]int `json:"niche_distribution"`
	PriceDistribution map[string]int `json:"price_distribution"`
	MenuDistribution  map[string]int `json:"menu_focus_distribution"`
	DominantPriceTier string         `json:"dominant_price_tier"`
	DominantMenuFocus string         `json:"dominant_menu_focus"`
	SaturationLevel   string         `json:"saturation_level"`
	MarketFit         string         `json:"market_fit"`
	PriceAlignment    string         `json:"price_alignment"`
	Recommendation    string         `json:"recommendation"`
}

// AnalyzeMarket composes the niche read for an area from the profiled shops.
func AnalyzeMarket(businesses []BusinessProfile, targetNiche, targetPriceTier string) MarketComposition {
	comp := MarketComposition{
		TotalBusinesses:   len(businesses),
		NicheDistribution: map[string]int{},
		PriceDistribution: map[string]int{},
		MenuDistribution:  map[string]int{},
	}
	for _, b := range businesses {
		comp.NicheDistribution[orUnknown(b.Niche)]++
		comp.PriceDistribution[orUnknown(b.PriceTier)]++
		focus := b.MenuFocus
		if focus == "" {
			focus = "general"
		}
		comp.MenuDistribution[focus]++
	}
	comp.TargetNicheCount = comp.NicheDistribution[targetNiche]

	switch {
	case comp.TotalBusinesses == 0:
		comp.SaturationLevel, comp.MarketFit = SaturationUntapped, FitHighOpportunity
	case comp.TargetNicheCount == 0:
		comp.SaturationLevel, comp.MarketFit = SaturationMissingNiche, FitHighOpportunity
	case comp.TargetNicheCount >= 3:
		comp.SaturationLevel, comp.MarketFit = SaturationSaturated, FitLowOpportunity
	default:
		comp.SaturationLevel, comp.MarketFit = SaturationModerate, FitModerateOpportunity
	}

	comp.DominantPriceTier = dominantKey(comp.PriceDistribution)
	comp.DominantMenuFocus = dominantKey(comp.MenuDistribution)

	comp.PriceAlignment = "misaligned"
	if comp.DominantPriceTier == targetPriceTier {
		comp.PriceAlignment = "aligned"
	}

	comp.Recommendation = nicheRecommendation(comp.SaturationLevel, comp.MarketFit, comp.PriceAlignment)
	return comp
}

func orUnknown(v string) string {
	if v == "" {
		return TierUnknown
	}
	return v
}

func dominantKey(distribution map[string]int) string {
	best, bestCount := TierUnknown, 0
	for key, count := range distribution {
		if count > bestCount || (count == bestCount && best != TierUnknown && key < best) {
			best, bestCount = key, count
		}
	}
	return best
}

func nicheRecommendation(saturation, fit, priceAlignment string) string {
	switch {
	case saturation == SaturationUntapped:
		return "HIGH OPPORTUNITY: Area has no boba businesses. Strong potential for first-mover advantage."
	case saturation == SaturationMissingNiche:
		return "HIGH OPPORTUNITY: Area has boba businesses but none in your niche. Good differentiation opportunity."
	case saturation == SaturationSaturated:
		return "LOW OPPORTUNITY: Area already has multiple businesses in your niche. High competition risk."
	case fit == FitHighOpportunity && priceAlignment == "aligned":
		return "MODERATE-HIGH OPPORTUNITY: Niche is available and price tier matches market preference."
	case fit == FitHighOpportunity && priceAlignment == "misaligned":
		return "MODERATE OPPORTUNITY: Niche is available but price tier may not match market preference. Consider price adjustment."
	default:
		return "MODERATE OPPORTUNITY: Market has some competition in your niche. Success depends on execution and differentiation."
	}
}

// CompanyProfile aggregates a franchise's character across sample locations.
type CompanyProfile struct {
	CompanyName       string   `json:"company_name"`
	LocationsAnalyzed int      `json:"locations_analyzed"`
	PriceTier         string   `json:"price_tier"`
	Niche             string   `json:"niche_category"`
	MenuFocus         string   `json:"menu_focus"`
	ServiceStyle      string   `json:"service_style"`
	BrandPositioning  string   `json:"brand_positioning"`
	MenuKeywords      []string `json:"common_menu_keywords"`
	AmbianceKeywords  []string `json:"common_ambiance_keywords"`
	Summary           string   `json:"profile_summary"`
}

// BuildCompanyProfile folds per-location reads into one franchise profile,
// taking the most frequent tier and niche and pooling keywords.
func BuildCompanyProfile(companyName string, locations []BusinessProfile, ambianceKeywords []string) CompanyProfile {
	tiers := map[string]int{}
	niches := map[string]int{}
	var menuKeywords []string
	for _, loc := range locations {
		if loc.PriceTier != "" && loc.PriceTier != TierUnknown {
			tiers[loc.PriceTier]++
		}
		if loc.Niche != "" {
			niches[loc.Niche]++
		}
		menuKeywords = append(menuKeywords, loc.MenuKeywords...)
	}
	menuKeywords = dedupe(menuKeywords)
	if len(menuKeywords) > 20 {
		menuKeywords = menuKeywords[:20]
	}
	ambiance := dedupe(ambianceKeywords)
	if len(ambiance) > 15 {
		ambiance = ambiance[:15]
	}

	profile := CompanyProfile{
		CompanyName:       companyName,
		LocationsAnalyzed: len(locations),
		PriceTier:         dominantOr(tiers, TierUnknown),
		Niche:             dominantOr(niches, TierUnknown),
		MenuFocus:         MenuFocus(menuKeywords),
		ServiceStyle:      ServiceStyle(ambiance),
		BrandPositioning:  BrandPositioning(ambiance, menuKeywords),
		MenuKeywords:      menuKeywords,
		AmbianceKeywords:  ambiance,
	}
	profile.Summary = fmt.Sprintf(
		"%s is a %s boba shop with %s pricing, focusing on %s with %s service style and %s brand positioning.",
		companyName, profile.Niche, profile.PriceTier, profile.MenuFocus, profile.ServiceStyle, profile.BrandPositioning,
	)
	return profile
}

func dominantOr(distribution map[string]int, fallback string) string {
	if len(distribution) == 0 {
		return fallback
	}
	return dominantKey(distribution)
}
