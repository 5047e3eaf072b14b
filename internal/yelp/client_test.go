package yelp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New("test-token", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}

func TestSearchByCoordinates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/businesses/search", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		q := r.URL.Query()
		assert.Equal(t, "boba", q.Get("term"))
		assert.Equal(t, "37.7749", q.Get("latitude"))
		assert.Equal(t, "-122.4194", q.Get("longitude"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Empty(t, q.Get("location"))

		_, _ = w.Write([]byte(`{"total":1,"businesses":[{
			"id":"b1","name":"Pearl House","rating":4.5,"review_count":230,"price":"$$",
			"categories":[{"alias":"bubbletea","title":"Bubble Tea"}],
			"coordinates":{"latitude":37.77,"longitude":-122.41},
			"location":{"display_address":["123 Main St","San Francisco, CA"]}
		}]}`))
	})

	results, err := c.Search(context.Background(), SearchQuery{
		Term:      "boba",
		Latitude:  37.7749,
		Longitude: -122.4194,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Pearl House", results[0].Name)
	assert.Equal(t, "$$", results[0].Price)
	assert.Equal(t, "Bubble Tea", results[0].Categories[0].Title)
}

func TestSearchByLocationString(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Sunnyvale, CA", q.Get("location"))
		assert.Empty(t, q.Get("latitude"))
		_, _ = w.Write([]byte(`{"total":0,"businesses":[]}`))
	})

	results, err := c.Search(context.Background(), SearchQuery{Term: "boba", Location: "Sunnyvale, CA"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchValidatesCoordinates(t *testing.T) {
	c, err := New("test-token")
	require.NoError(t, err)

	_, err = c.Search(context.Background(), SearchQuery{Term: "boba", Latitude: 91, Longitude: 0.1})
	require.ErrorContains(t, err, "latitude")

	_, err = c.Search(context.Background(), SearchQuery{Term: "boba", Latitude: 10, Longitude: -181})
	require.ErrorContains(t, err, "longitude")
}

func TestSearchRequiresLocation(t *testing.T) {
	c, err := New("test-token")
	require.NoError(t, err)

	_, err = c.Search(context.Background(), SearchQuery{Term: "boba"})
	require.ErrorContains(t, err, "coordinates or a location")
}

func TestSearchClampsLimit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"total":0,"businesses":[]}`))
	})

	_, err := c.Search(context.Background(), SearchQuery{Term: "boba", Location: "here", Limit: 200})
	require.NoError(t, err)
}

func TestFindBusiness(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Pearl House", q.Get("term"))
		assert.Equal(t, "1", q.Get("limit"))
		_, _ = w.Write([]byte(`{"total":1,"businesses":[{"id":"b1","name":"Pearl House","price":"$"}]}`))
	})

	biz, found, err := c.FindBusiness(context.Background(), "Pearl House", "San Francisco, CA")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "$", biz.Price)
}

func TestFindBusinessMiss(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total":0,"businesses":[]}`))
	})

	_, found, err := c.FindBusiness(context.Background(), "Nobody", "Nowhere")
	require.NoError(t, err)
	assert.False(t, found)
}
