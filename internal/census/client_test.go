package census

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teascout/teascout/internal/httpx"
)

func TestTractForCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocoder/geographies/coordinates", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "-122.4194", q.Get("x"))
		assert.Equal(t, "37.7749", q.Get("y"))
		assert.Equal(t, "Public_AR_Current", q.Get("benchmark"))
		assert.Equal(t, "Current_Current", q.Get("vintage"))
		assert.Equal(t, "json", q.Get("format"))

		_, _ = w.Write([]byte(`{"result":{"geographies":{"Census Tracts":[{"STATE":"06","COUNTY":"075","TRACT":"017700"}]}}}`))
	}))
	t.Cleanup(srv.Close)

	c := New("", WithGeocoderBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	tract, err := c.TractForCoordinates(context.Background(), 37.7749, -122.4194)
	require.NoError(t, err)
	assert.Equal(t, Tract{State: "06", County: "075", Tract: "017700"}, tract)
}

func TestTractForCoordinatesNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"geographies":{}}}`))
	}))
	t.Cleanup(srv.Close)

	c := New("", WithGeocoderBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := c.TractForCoordinates(context.Background(), 0, 0)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestACS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2022/acs/acs5", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "B01001_001E,B19013_001E", q.Get("get"))
		assert.Equal(t, "tract:017700", q.Get("for"))
		assert.Equal(t, "state:06 county:075", q.Get("in"))
		assert.Equal(t, "secret", q.Get("key"))

		_, _ = w.Write([]byte(`[
			["B01001_001E","B19013_001E","state","county","tract"],
			["4213","112500","06","075","017700"]
		]`))
	}))
	t.Cleanup(srv.Close)

	c := New("secret", WithDataBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	values, err := c.ACS(context.Background(), Tract{State: "06", County: "075", Tract: "017700"},
		[]string{"B01001_001E", "B19013_001E"})
	require.NoError(t, err)
	assert.Equal(t, "4213", values["B01001_001E"])
	assert.Equal(t, "112500", values["B19013_001E"])
	assert.Equal(t, "017700", values["tract"])
}

func TestACSOmitsEmptyKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasKey := r.URL.Query()["key"]
		assert.False(t, hasKey)
		_, _ = w.Write([]byte(`[["B01001_001E","state","county","tract"],["100","06","075","017700"]]`))
	}))
	t.Cleanup(srv.Close)

	c := New("", WithDataBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := c.ACS(context.Background(), Tract{State: "06", County: "075", Tract: "017700"}, []string{"B01001_001E"})
	require.NoError(t, err)
}

func TestACSRequiresVariables(t *testing.T) {
	c := New("")
	_, err := c.ACS(context.Background(), Tract{}, nil)
	require.Error(t, err)
}

func TestACSNoDataRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[["B01001_001E","state","county","tract"]]`))
	}))
	t.Cleanup(srv.Close)

	c := New("", WithDataBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := c.ACS(context.Background(), Tract{Tract: "017700"}, []string{"B01001_001E"})
	require.ErrorContains(t, err, "no data rows")
}
