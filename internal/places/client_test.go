package places

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/teascout/teascout/internal/httpx"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}

func TestSearchNearbyRequestShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/places:searchNearby", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.Contains(t, r.Header.Get("X-Goog-FieldMask"), "places.displayName")
		assert.Contains(t, r.Header.Get("X-Goog-FieldMask"), "places.priceLevel")

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		payload := gjson.ParseBytes(body)
		assert.Equal(t, "cafe", payload.Get("includedTypes.0").String())
		assert.Equal(t, int64(20), payload.Get("maxResultCount").Int())
		assert.Equal(t, "DISTANCE", payload.Get("rankPreference").String())
		assert.InDelta(t, 37.7749, payload.Get("locationRestriction.circle.center.latitude").Float(), 1e-9)
		assert.InDelta(t, 50000, payload.Get("locationRestriction.circle.radius").Float(), 1e-9)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"places":[{"id":"p1","displayName":{"text":"Boba One"},"rating":4.5,"userRatingCount":120,"businessStatus":"OPERATIONAL","priceLevel":"PRICE_LEVEL_MODERATE"}]}`))
	})

	results, err := c.SearchNearby(context.Background(), NearbyQuery{
		Latitude:     37.7749,
		Longitude:    -122.4194,
		RadiusMeters: 99999, // clamped to 50km
		PlaceTypes:   []string{"cafe", "coffee_shop", "tea_house"},
		MaxResults:   50, // clamped to 20
		RankBy:       RankByDistance,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Boba One", results[0].DisplayName.Text)
	assert.Equal(t, 2, results[0].PriceLevelValue())
}

func TestSearchNearbyDefaultsRankPreference(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "POPULARITY", gjson.GetBytes(body, "rankPreference").String())
		_, _ = w.Write([]byte(`{"places":[]}`))
	})

	_, err := c.SearchNearby(context.Background(), NearbyQuery{Latitude: 1, Longitude: 2, RadiusMeters: 1000})
	require.NoError(t, err)
}

func TestSearchText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places:searchText", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "boba shops near Sunnyvale, CA", gjson.GetBytes(body, "textQuery").String())
		assert.Equal(t, int64(10), gjson.GetBytes(body, "maxResultCount").Int())
		_, _ = w.Write([]byte(`{"places":[{"id":"p2","displayName":{"text":"Tea Spot"}}]}`))
	})

	results, err := c.SearchText(context.Background(), "boba shops near Sunnyvale, CA", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p2", results[0].ID)
}

func TestDetailsIncludesReviews(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/places/p3", r.URL.Path)
		assert.Contains(t, r.Header.Get("X-Goog-FieldMask"), "reviews")
		_, _ = w.Write([]byte(`{
			"id":"p3",
			"displayName":{"text":"Pearl House"},
			"reviews":[{"rating":5,"text":{"text":"perfect pearls"},"publishTime":"2024-03-01T12:00:00Z","authorAttribution":{"displayName":"A"}}]
		}`))
	})

	place, err := c.Details(context.Background(), "p3")
	require.NoError(t, err)
	require.Len(t, place.Reviews, 1)
	assert.Equal(t, "perfect pearls", place.Reviews[0].Text.Text)
	assert.Equal(t, "2024-03-01T12:00:00Z", place.Reviews[0].PublishTime)
}

func TestGeocode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, int64(1), gjson.GetBytes(body, "maxResultCount").Int())
		_, _ = w.Write([]byte(`{"places":[{"id":"p4","location":{"latitude":37.3688,"longitude":-122.0363}}]}`))
	})

	loc, err := c.Geocode(context.Background(), "Sunnyvale, CA")
	require.NoError(t, err)
	assert.InDelta(t, 37.3688, loc.Latitude, 1e-9)
	assert.InDelta(t, -122.0363, loc.Longitude, 1e-9)
}

func TestGeocodeNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"places":[]}`))
	})

	_, err := c.Geocode(context.Background(), "nowhere")
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestPriceLevelValue(t *testing.T) {
	cases := map[string]int{
		"PRICE_LEVEL_FREE":           0,
		"PRICE_LEVEL_INEXPENSIVE":    1,
		"PRICE_LEVEL_MODERATE":       2,
		"PRICE_LEVEL_EXPENSIVE":      3,
		"PRICE_LEVEL_VERY_EXPENSIVE": 4,
		"":                           -1,
		"PRICE_LEVEL_UNSPECIFIED":    -1,
	}
	for level, want := range cases {
		assert.Equal(t, want, Place{PriceLevel: level}.PriceLevelValue(), level)
	}
}
