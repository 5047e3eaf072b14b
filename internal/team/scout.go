package team

import (
	"github.com/teascout/teascout/agent"
	"github.com/teascout/teascout/api"
	"github.com/teascout/teascout/internal/places"
	"github.com/teascout/teascout/tool"
)

// Search presets mirroring what a scout looks for around a candidate site.
var (
	competitorTypes = []string{"cafe", "coffee_shop", "tea_house"}

	complementaryTypes = []string{
		"japanese_restaurant", "korean_restaurant", "chinese_restaurant",
		"vietnamese_restaurant", "ramen_restaurant", "university", "library",
		"shopping_mall", "beauty_salon", "amusement_center",
	}

	shoppingCenterTypes = []string{"shopping_mall", "department_store"}
)

const (
	competitorRadius     = 1500.0
	complementaryRadius  = 1000.0
	shoppingCenterRadius = 3000.0
)

type placeSummary struct {
	Name           string        `json:"name"`
	Address        string        `json:"address"`
	Types          []string      `json:"types"`
	Location       places.LatLng `json:"location"`
	Rating         float64       `json:"rating"`
	ReviewCount    int           `json:"review_count"`
	BusinessStatus string        `json:"business_status"`
	PriceLevel     string        `json:"price_level,omitempty"`
}

type nearbyResult struct {
	TotalResults int            `json:"total_results"`
	SearchCenter places.LatLng  `json:"search_center"`
	RadiusMeters float64        `json:"search_radius_meters"`
	TypesQueried []string       `json:"place_types_searched"`
	Places       []placeSummary `json:"places"`
}

func summarize(results []places.Place) []placeSummary {
	out := make([]placeSummary, 0, len(results))
	for _, p := range results {
		out = append(out, placeSummary{
			Name:           p.DisplayName.Text,
			Address:        p.Address,
			Types:          p.Types,
			Location:       p.Location,
			Rating:         p.Rating,
			ReviewCount:    p.UserRatingCount,
			BusinessStatus: p.BusinessStatus,
			PriceLevel:     p.PriceLevel,
		})
	}
	return out
}

func (t *Team) searchPlacesNearby(lat, lng, radius float64, placeTypes []string, maxResults int, rankBy string) (nearbyResult, error) {
	results, err := t.deps.Places.SearchNearby(t.ctx, places.NearbyQuery{
		Latitude:     lat,
		Longitude:    lng,
		RadiusMeters: radius,
		PlaceTypes:   placeTypes,
		MaxResults:   maxResults,
		RankBy:       rankBy,
	})
	if err != nil {
		return nearbyResult{}, err
	}
	return nearbyResult{
		TotalResults: len(results),
		SearchCenter: places.LatLng{Latitude: lat, Longitude: lng},
		RadiusMeters: radius,
		TypesQueried: placeTypes,
		Places:       summarize(results),
	}, nil
}

func (t *Team) findBobaCompetitors(lat, lng, radius float64) (nearbyResult, error) {
	if radius <= 0 {
		radius = competitorRadius
	}
	return t.searchPlacesNearby(lat, lng, radius, competitorTypes, 20, places.RankByDistance)
}

func (t *Team) findComplementaryBusinesses(lat, lng, radius float64) (nearbyResult, error) {
	if radius <= 0 {
		radius = complementaryRadius
	}
	return t.searchPlacesNearby(lat, lng, radius, complementaryTypes, 20, places.RankByDistance)
}

func (t *Team) findShoppingCenters(lat, lng, radius float64) (nearbyResult, error) {
	if radius <= 0 {
		radius = shoppingCenterRadius
	}
	return t.searchPlacesNearby(lat, lng, radius, shoppingCenterTypes, 20, places.RankByDistance)
}

func (t *Team) geocodeAddress(address string) (places.LatLng, error) {
	return t.deps.Places.Geocode(t.ctx, address)
}

const scoutInstructions = `You are Location Scout. Orchestrate the workflow: gather data, call ALL agents, then output the final findings.

CRITICAL: Do NOT output anything to the user until ALL agents have been called and returned.

Workflow:
1. Geocode the target area with geocode_address if you only have an address
2. Find plazas using find_shopping_centers
3. For each plaza: use find_complementary_businesses and find_boba_competitors
4. For EACH competitor:
   - Call transfer_to_niche_finder and wait for its return
   - Call transfer_to_voice_of_customer and wait for its return
5. Call transfer_to_demographics_analyst ONCE for the area and wait for its return
6. After all competitors: call transfer_to_quantitative_analyst ONCE and wait for its return
7. ONLY AFTER all agents return: output your consolidated findings from all agents

Do NOT output intermediate results. Do NOT call yourself. Do NOT call agents multiple times for the same competitor.`

func (t *Team) newScout() api.Agent {
	searchNearby := func(lat, lng, radius float64, placeTypes string, maxResults float64, rankBy string) (nearbyResult, error) {
		return t.searchPlacesNearby(lat, lng, radius, splitList(placeTypes), int(maxResults), rankBy)
	}

	return agent.New(
		agent.Name(ScoutName),
		agent.Model(t.deps.Model),
		agent.Instructions(scoutInstructions),
		agent.Tools(
			tool.Must(searchNearby,
				tool.Name("search_places_nearby"),
				tool.Description("Search for places around a coordinate using the Google Places API. place_types is a comma separated list such as \"cafe,tea_house\". rank_by is POPULARITY or DISTANCE."),
				tool.Parameters("latitude", "longitude", "radius_meters", "place_types", "max_results", "rank_by"),
			),
			tool.Must(t.findBobaCompetitors,
				tool.Name("find_boba_competitors"),
				tool.Description("Find direct boba and tea competitors near a coordinate. Radius defaults to 1500 meters."),
				tool.Parameters("latitude", "longitude", "radius_meters"),
			),
			tool.Must(t.findComplementaryBusinesses,
				tool.Name("find_complementary_businesses"),
				tool.Description("Find complementary businesses that indicate boba demand: Asian restaurants, universities, libraries, malls. Radius defaults to 1000 meters."),
				tool.Parameters("latitude", "longitude", "radius_meters"),
			),
			tool.Must(t.findShoppingCenters,
				tool.Name("find_shopping_centers"),
				tool.Description("Find shopping centers and plazas that might have retail space available. Radius defaults to 3000 meters."),
				tool.Parameters("latitude", "longitude", "radius_meters"),
			),
			tool.Must(t.geocodeAddress,
				tool.Name("geocode_address"),
				tool.Description("Resolve a street address or area name to coordinates."),
				tool.Parameters("address"),
			),
			handoff(NicheFinderName, "Transfer to Niche Finder to analyze a direct boba competitor's niche, price positioning, and menu focus."),
			handoff(VoiceName, "Transfer to Voice of Customer to analyze a competitor's reviews for pain points, sentiment, and loyalty patterns."),
			handoff(DemographicsName, "Transfer to Demographics Analyst to score the area's age, income, cultural alignment, and evening activity."),
			handoff(QuantName, "Transfer to Quantitative Analyst to analyze complementary businesses for demand indicators. Call this LAST, after all competitor analysis is complete."),
		),
	)
}
