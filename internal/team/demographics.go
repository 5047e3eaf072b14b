package team

import (
	"fmt"

	"github.com/teascout/teascout/agent"
	"github.com/teascout/teascout/api"
	"github.com/teascout/teascout/internal/analysis"
	"github.com/teascout/teascout/internal/places"
	"github.com/teascout/teascout/tool"
)

const defaultActivityRadius = 500.0

// resolveCoordinates geocodes the location unless coordinates were passed.
func (t *Team) resolveCoordinates(location string, lat, lng float64) (float64, float64, error) {
	if lat != 0 || lng != 0 {
		return lat, lng, nil
	}
	if location == "" {
		return 0, 0, fmt.Errorf("either coordinates or a location are required")
	}
	loc, err := t.deps.Places.Geocode(t.ctx, location)
	if err != nil {
		return 0, 0, err
	}
	return loc.Latitude, loc.Longitude, nil
}

// tractData fetches the full ACS variable set for the tract containing the
// coordinates.
func (t *Team) tractData(lat, lng float64) (map[string]string, error) {
	if t.deps.Census == nil {
		return nil, fmt.Errorf("census is not configured")
	}
	tract, err := t.deps.Census.TractForCoordinates(t.ctx, lat, lng)
	if err != nil {
		return nil, err
	}
	return t.deps.Census.ACS(t.ctx, tract, analysis.DemographicVariables())
}

func (t *Team) analyzeAgeIncome(location string, lat, lng float64) (analysis.AgeIncomeScore, error) {
	lat, lng, err := t.resolveCoordinates(location, lat, lng)
	if err != nil {
		return analysis.AgeIncomeScore{}, err
	}
	acs, err := t.tractData(lat, lng)
	if err != nil {
		return analysis.AgeIncomeScore{}, err
	}
	return analysis.ScoreAgeIncome(acs), nil
}

func (t *Team) analyzeCulturalAlignment(location string, lat, lng float64) (analysis.CulturalScore, error) {
	lat, lng, err := t.resolveCoordinates(location, lat, lng)
	if err != nil {
		return analysis.CulturalScore{}, err
	}
	acs, err := t.tractData(lat, lng)
	if err != nil {
		return analysis.CulturalScore{}, err
	}
	return analysis.ScoreCultural(acs), nil
}

// eveningActivity probes whether the area stays active after dark using the
// surrounding restaurants, bars, and entertainment.
func (t *Team) eveningActivity(location string, lat, lng, radius float64) (analysis.ActivityScore, error) {
	lat, lng, err := t.resolveCoordinates(location, lat, lng)
	if err != nil {
		return analysis.ActivityScore{}, err
	}
	if radius <= 0 {
		radius = defaultActivityRadius
	}

	results, err := t.deps.Places.SearchNearby(t.ctx, places.NearbyQuery{
		Latitude:     lat,
		Longitude:    lng,
		RadiusMeters: radius,
		PlaceTypes:   analysis.EveningTypes,
	})
	if err != nil {
		return analysis.ActivityScore{}, err
	}

	evening := make([]analysis.EveningPlace, 0, len(results))
	for _, place := range results {
		ep := analysis.EveningPlace{
			BusinessStatus: place.BusinessStatus,
			Types:          place.Types,
		}
		if place.OpeningHours != nil {
			ep.WeekdayDescriptions = place.OpeningHours.WeekdayDescriptions
		}
		evening = append(evening, ep)
	}
	return analysis.ScoreActivity(evening), nil
}

// analyzeDemographicsComplete runs all three demographic reads and rolls
// them into one verdict.
func (t *Team) analyzeDemographicsComplete(location string, lat, lng, radius float64) (analysis.DemographicSummary, error) {
	lat, lng, err := t.resolveCoordinates(location, lat, lng)
	if err != nil {
		return analysis.DemographicSummary{}, err
	}

	acs, err := t.tractData(lat, lng)
	if err != nil {
		return analysis.DemographicSummary{}, err
	}
	activity, err := t.eveningActivity(location, lat, lng, radius)
	if err != nil {
		return analysis.DemographicSummary{}, err
	}

	return analysis.Summarize(analysis.ScoreAgeIncome(acs), analysis.ScoreCultural(acs), activity), nil
}

const demographicsInstructions = `You are the Demographics Analyst, scoring potential boba shop locations on US Census data.

Your reads:
1. analyze_age_income_demographics: share of 18-34 year olds (the boba core demographic) and households with discretionary income
2. analyze_ethnicity_cultural_alignment: Asian and Hispanic population shares, the strongest predictors of boba adoption
3. analyze_evening_activity: whether the area stays alive after 5 PM, critical for shops that depend on evening foot traffic
4. analyze_demographics_complete: all three rolled into one overall score and a STRONG/MODERATE/WEAK demographic fit recommendation

Pass coordinates when Location Scout provides them, otherwise pass the address and it will be geocoded.

Report the component scores with their HIGH/MODERATE/LOW interpretations, the boba adoption potential, and the evening activity read. Transfer back to Location Scout with your findings, or to Quantitative Analyst when performance data should complement the demographic read.`

func (t *Team) newDemographics() api.Agent {
	return agent.New(
		agent.Name(DemographicsName),
		agent.Model(t.deps.Model),
		agent.Instructions(demographicsInstructions),
		agent.Tools(
			tool.Must(t.analyzeAgeIncome,
				tool.Name("analyze_age_income_demographics"),
				tool.Description("Score the census tract on 18-34 population share and discretionary household income. Pass coordinates when available, otherwise a location to geocode."),
				tool.Parameters("location", "latitude", "longitude"),
			),
			tool.Must(t.analyzeCulturalAlignment,
				tool.Name("analyze_ethnicity_cultural_alignment"),
				tool.Description("Score the census tract on Asian and Hispanic population shares and the resulting boba adoption potential."),
				tool.Parameters("location", "latitude", "longitude"),
			),
			tool.Must(t.eveningActivity,
				tool.Name("analyze_evening_activity"),
				tool.Description("Check whether the area stays active after 5 PM from the opening hours of surrounding businesses. Radius defaults to 500 meters."),
				tool.Parameters("location", "latitude", "longitude", "radius_meters"),
			),
			tool.Must(t.analyzeDemographicsComplete,
				tool.Name("analyze_demographics_complete"),
				tool.Description("Run the full demographic battery and return the overall score with a STRONG/MODERATE/WEAK fit recommendation."),
				tool.Parameters("location", "latitude", "longitude", "radius_meters"),
			),
			handoff(ScoutName, "Transfer back to Location Scout with the demographic findings."),
			handoff(QuantName, "Transfer to Quantitative Analyst to pair demographic scores with business performance data."),
		),
	)
}
