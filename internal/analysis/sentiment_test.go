package analysis

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clusterByName(t *testing.T, clusters []SentimentCluster, name string) SentimentCluster {
	t.Helper()
	for _, c := range clusters {
		if c.Category == name {
			return c
		}
	}
	t.Fatalf("no cluster named %q", name)
	return SentimentCluster{}
}

func TestClusterSentiment(t *testing.T) {
	reviews := []Review{
		{Rating: 5, Text: "The pearls are perfectly chewy and the line moves fast"},
		{Rating: 1, Text: "Way too sweet and the staff was rude"},
		{Rating: 3, Text: "Decent boba, nothing special"},
		{Rating: 4, Text: "Friendly staff, quick service"},
	}

	clusters := ClusterSentiment(reviews)
	require.Len(t, clusters, 4)

	pearls := clusterByName(t, clusters, "Pearl Texture")
	assert.Equal(t, 2, pearls.Count)
	assert.Equal(t, 1, pearls.Positive)
	assert.Equal(t, 1, pearls.Neutral)

	staff := clusterByName(t, clusters, "Staff Friendliness")
	assert.Equal(t, 2, staff.Count)
	assert.Equal(t, 1, staff.Positive)
	assert.Equal(t, 1, staff.Negative)

	sweet := clusterByName(t, clusters, "Sweetness Levels")
	assert.Equal(t, 1, sweet.Count)
	assert.Equal(t, 1, sweet.Negative)
}

func TestClusterSentimentSamplesCapped(t *testing.T) {
	reviews := make([]Review, 8)
	for i := range reviews {
		reviews[i] = Review{Rating: 5, Text: "great boba " + strings.Repeat("x", 300)}
	}

	pearls := clusterByName(t, ClusterSentiment(reviews), "Pearl Texture")
	assert.Equal(t, 8, pearls.Count)
	require.Len(t, pearls.Samples, 5)
	assert.Len(t, pearls.Samples[0], 200)
}

func TestExcerptKeepsRuneBoundaries(t *testing.T) {
	// a three byte rune straddles the 200 byte cut point
	text := strings.Repeat("a", 199) + strings.Repeat("茶", 4)

	got := excerpt(text, 200)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", 199), got)

	assert.Equal(t, "short", excerpt("short", 200))
}

func TestExtractPainPoints(t *testing.T) {
	reviews := []Review{
		{Rating: 3, Text: "Good drinks. I wish they had more fruit flavors on the menu."},
		{Rating: 2, Text: "They don't have oat milk which is a shame."},
		{Rating: 4, Text: "I wish the wait wasn't so long on weekends."},
		{Rating: 5, Text: "Everything was great!"},
	}

	points := ExtractPainPoints(reviews)
	require.Len(t, points, 3)

	assert.Equal(t, "Menu", points[0].Category)
	assert.Contains(t, points[0].Quote, "i wish they had more fruit flavors")
	assert.Equal(t, "General", points[1].Category)
	assert.Equal(t, "Wait Time", points[2].Category)
}

func TestExtractPainPointsEmpty(t *testing.T) {
	assert.Empty(t, ExtractPainPoints([]Review{{Rating: 5, Text: "love it here"}}))
}

func TestScoreLoyalty(t *testing.T) {
	reviews := []Review{
		{Author: "a", LocalGuide: true},
		{Author: "b", LocalGuide: true},
		{Author: "a", LocalGuide: false},
		{Author: "c", LocalGuide: false},
		{Author: "d", LocalGuide: false},
	}

	loyalty := ScoreLoyalty(reviews)
	assert.Equal(t, 5, loyalty.TotalReviews)
	assert.InDelta(t, 40, loyalty.LocalGuidePct, 1e-9)
	assert.InDelta(t, 0.2, loyalty.RepeatReviewerRatio, 1e-9)
	// 40*0.6 + 20*0.4
	assert.InDelta(t, 32, loyalty.Score, 1e-9)
	assert.True(t, loyalty.SupportsRegularsModel)
}

func TestScoreLoyaltyBelowRegularsThreshold(t *testing.T) {
	reviews := []Review{
		{Author: "a", LocalGuide: true},
		{Author: "b"}, {Author: "c"}, {Author: "d"}, {Author: "e"},
	}
	loyalty := ScoreLoyalty(reviews)
	assert.InDelta(t, 20, loyalty.LocalGuidePct, 1e-9)
	assert.False(t, loyalty.SupportsRegularsModel)
}

func TestScoreLoyaltyEmpty(t *testing.T) {
	assert.Equal(t, Loyalty{}, ScoreLoyalty(nil))
}
