package analysis

import (
	"strconv"
	"strings"
)

// ACS variable groups used by the demographic scoring. The age group covers
// males and females 18 through 34.
var (
	AgeVariables = []string{
		"B01001_007E", "B01001_008E", "B01001_009E", "B01001_010E",
		"B01001_011E", "B01001_012E", "B01001_031E", "B01001_032E",
		"B01001_033E", "B01001_034E", "B01001_035E", "B01001_036E",
	}
	// Household income bands from $75k up, the discretionary-income range.
	IncomeBandVariables = []string{
		"B19001_014E", "B19001_015E", "B19001_016E", "B19001_017E", "B19001_018E",
	}
	EthnicityVariables = []string{"B03002_001E", "B03002_006E", "B03002_012E"}
)

// DemographicVariables is the full ACS request for one tract.
func DemographicVariables() []string {
	vars := []string{"B01001_001E", "B19013_001E", "B19001_001E"}
	vars = append(vars, AgeVariables...)
	vars = append(vars, IncomeBandVariables...)
	vars = append(vars, EthnicityVariables...)
	return vars
}

// AgeIncomeScore reads how much of the population is in the boba core
// demographic (18-34) and how many households have discretionary income.
type AgeIncomeScore struct {
	Age18to34Count        int     `json:"age_18_34_count"`
	Age18to34Pct          float64 `json:"age_18_34_percentage"`
	TotalPopulation       int     `json:"total_population"`
	MedianHouseholdIncome int     `json:"median_household_income"`
	DiscretionaryHH       int     `json:"discretionary_income_households"`
	DiscretionaryHHPct    float64 `json:"discretionary_income_percentage"`
	TotalHouseholds       int     `json:"total_households"`
	Score                 float64 `json:"age_income_score"`
	Interpretation        string  `json:"score_interpretation"`
}

// ScoreAgeIncome normalizes the 18-34 share against a 25% baseline and the
// discretionary-income share against 40%, each worth up to 50 points.
func ScoreAgeIncome(acs map[string]string) AgeIncomeScore {
	age := 0
	for _, v := range AgeVariables {
		age += acsInt(acs, v)
	}
	totalPop := acsInt(acs, "B01001_001E")

	discretionary := 0
	for _, v := range IncomeBandVariables {
		discretionary += acsInt(acs, v)
	}
	totalHH := acsInt(acs, "B19001_001E")

	agePct := pct(age, totalPop)
	discretionaryPct := pct(discretionary, totalHH)

	score := minF(agePct/25, 1)*50 + minF(discretionaryPct/40, 1)*50

	return AgeIncomeScore{
		Age18to34Count:        age,
		Age18to34Pct:          round2(agePct),
		TotalPopulation:       totalPop,
		MedianHouseholdIncome: acsInt(acs, "B19013_001E"),
		DiscretionaryHH:       discretionary,
		DiscretionaryHHPct:    round2(discretionaryPct),
		TotalHouseholds:       totalHH,
		Score:                 round2(score),
		Interpretation:        interpretScore(score),
	}
}

// CulturalScore reads the Asian and Hispanic population shares, the two
// strongest predictors of boba adoption.
type CulturalScore struct {
	TotalPopulation   int     `json:"total_population"`
	AsianPopulation   int     `json:"asian_population"`
	AsianPct          float64 `json:"asian_percentage"`
	HispanicPop       int     `json:"hispanic_population"`
	HispanicPct       float64 `json:"hispanic_percentage"`
	Score             float64 `json:"cultural_alignment_score"`
	Interpretation    string  `json:"score_interpretation"`
	AdoptionPotential string  `json:"boba_adoption_potential"`
}

// ScoreCultural weighs the Asian share (up to 70 points against a 15%
// baseline) over the Hispanic share (up to 30 against 30%).
func ScoreCultural(acs map[string]string) CulturalScore {
	total := acsInt(acs, "B03002_001E")
	asian := acsInt(acs, "B03002_006E")
	hispanic := acsInt(acs, "B03002_012E")

	asianPct := pct(asian, total)
	hispanicPct := pct(hispanic, total)
	score := minF(asianPct/15, 1)*70 + minF(hispanicPct/30, 1)*30

	adoption := "LOW"
	switch {
	case asianPct >= 10:
		adoption = "HIGH"
	case asianPct >= 5:
		adoption = "MODERATE"
	}

	return CulturalScore{
		TotalPopulation:   total,
		AsianPopulation:   asian,
		AsianPct:          round2(asianPct),
		HispanicPop:       hispanic,
		HispanicPct:       round2(hispanicPct),
		Score:             round2(score),
		Interpretation:    interpretScore(score),
		AdoptionPotential: adoption,
	}
}

// EveningPlace is the slice of a nearby place the activity scoring needs.
type EveningPlace struct {
	BusinessStatus      string
	Types               []string
	WeekdayDescriptions []string
}

// EveningTypes are the place types searched when probing evening activity.
var EveningTypes = []string{"restaurant", "cafe", "bar", "night_club", "movie_theater", "shopping_mall"}

// ActivityScore reads whether an area stays alive after dark.
type ActivityScore struct {
	TotalActivePlaces int     `json:"total_active_places"`
	EveningPlaces     int     `json:"evening_places_count"`
	LateNightPlaces   int     `json:"late_night_places_count"`
	EveningScore      float64 `json:"evening_activity_score"`
	LateNightScore    float64 `json:"late_night_activity_score"`
	Score             float64 `json:"total_activity_score"`
	StaysAliveAfter5  bool    `json:"stays_alive_after_5pm"`
	StaysAliveUntil11 bool    `json:"stays_alive_until_11pm"`
	Interpretation    string  `json:"activity_interpretation"`
}

var lateNightMarkers = []string{"21:00", "10:00 PM", "11:00 PM", "12:00 AM"}

// ScoreActivity counts operational places that run into the evening. Posted
// hours past 9 PM count a place as late night; places without posted hours
// fall back to a type heuristic, bars and night clubs late, restaurants and
// cafes evening only.
func ScoreActivity(places []EveningPlace) ActivityScore {
	var score ActivityScore
	for _, place := range places {
		if place.BusinessStatus != "OPERATIONAL" {
			continue
		}
		score.TotalActivePlaces++

		if len(place.WeekdayDescriptions) > 0 {
			for _, hours := range place.WeekdayDescriptions {
				if containsAny(hours, lateNightMarkers) {
					score.LateNightPlaces++
					break
				}
			}
			continue
		}
		switch {
		case hasType(place.Types, "bar", "night_club"):
			score.LateNightPlaces++
			score.EveningPlaces++
		case hasType(place.Types, "restaurant", "cafe"):
			score.EveningPlaces++
		}
	}

	if score.TotalActivePlaces > 0 {
		total := float64(score.TotalActivePlaces)
		score.EveningScore = round2(float64(score.EveningPlaces) / total * 50)
		score.LateNightScore = round2(float64(score.LateNightPlaces) / total * 50)
	}
	score.Score = round2(score.EveningScore + score.LateNightScore)
	score.StaysAliveUntil11 = score.LateNightPlaces >= 3
	score.StaysAliveAfter5 = score.StaysAliveUntil11 ||
		(score.TotalActivePlaces >= 10 && score.LateNightPlaces >= 1)

	score.Interpretation = "DIES AT 5 PM (limited evening activity)"
	if score.StaysAliveAfter5 {
		score.Interpretation = "STAYS ALIVE (active until 11 PM+)"
	}
	return score
}

func hasType(types []string, wanted ...string) bool {
	for _, t := range types {
		for _, w := range wanted {
			if t == w {
				return true
			}
		}
	}
	return false
}

// DemographicSummary rolls the three reads into one verdict.
type DemographicSummary struct {
	AgeIncome      AgeIncomeScore `json:"age_income"`
	Cultural       CulturalScore  `json:"cultural"`
	Activity       ActivityScore  `json:"activity"`
	OverallScore   float64        `json:"overall_demographic_score"`
	Interpretation string         `json:"overall_interpretation"`
	Recommendation string         `json:"recommendation"`
}

// Summarize weighs age/income and cultural alignment at 40% each and
// evening activity at 20%.
func Summarize(ageIncome AgeIncomeScore, cultural CulturalScore, activity ActivityScore) DemographicSummary {
	overall := ageIncome.Score*0.4 + cultural.Score*0.4 + activity.Score*0.2

	recommendation := "WEAK DEMOGRAPHIC FIT"
	switch {
	case overall >= 70:
		recommendation = "STRONG DEMOGRAPHIC FIT"
	case overall >= 40:
		recommendation = "MODERATE DEMOGRAPHIC FIT"
	}

	return DemographicSummary{
		AgeIncome:      ageIncome,
		Cultural:       cultural,
		Activity:       activity,
		OverallScore:   round2(overall),
		Interpretation: interpretScore(overall),
		Recommendation: recommendation,
	}
}

func interpretScore(score float64) string {
	switch {
	case score >= 70:
		return "HIGH"
	case score >= 40:
		return "MODERATE"
	default:
		return "LOW"
	}
}

// acsInt parses an ACS value, treating blanks and "null" as zero.
func acsInt(acs map[string]string, name string) int {
	raw := strings.TrimSpace(acs[name])
	if raw == "" || raw == "null" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}

func pct(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
