// Package places is a client for the Google Places API (new, v1).
package places

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/teascout/teascout/internal/httpx"
)

const (
	DefaultBaseURL = "https://places.googleapis.com/v1"

	maxRadiusMeters = 50000.0
	maxResultCount  = 20

	searchFieldMask  = "places.id,places.displayName,places.formattedAddress,places.types,places.location,places.rating,places.userRatingCount,places.businessStatus,places.priceLevel,places.regularOpeningHours"
	detailsFieldMask = "id,displayName,formattedAddress,types,location,rating,userRatingCount,businessStatus,priceLevel,regularOpeningHours,websiteUri,reviews"
)

const (
	RankByPopularity = "POPULARITY"
	RankByDistance   = "DISTANCE"
)

type Client struct {
	base   string
	apiKey string
	hc     *httpx.Client
}

type Option func(*Client)

func WithBaseURL(base string) Option {
	return func(c *Client) { c.base = strings.TrimRight(base, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc.WithHTTPClient(hc) }
}

func New(apiKey string, options ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("places: API key is required")
	}
	c := &Client{
		base:   DefaultBaseURL,
		apiKey: apiKey,
		hc:     httpx.New(10),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

func (c *Client) headers(fieldMask string) http.Header {
	hdr := http.Header{}
	hdr.Set("X-Goog-Api-Key", c.apiKey)
	hdr.Set("X-Goog-FieldMask", fieldMask)
	return hdr
}

type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type LocalizedText struct {
	Text string `json:"text"`
}

type OpeningHours struct {
	WeekdayDescriptions []string `json:"weekdayDescriptions"`
}

type Place struct {
	ID              string        `json:"id"`
	DisplayName     LocalizedText `json:"displayName"`
	Address         string        `json:"formattedAddress"`
	Types           []string      `json:"types"`
	Location        LatLng        `json:"location"`
	Rating          float64       `json:"rating"`
	UserRatingCount int           `json:"userRatingCount"`
	BusinessStatus  string        `json:"businessStatus"`
	PriceLevel      string        `json:"priceLevel"`
	OpeningHours    *OpeningHours `json:"regularOpeningHours,omitempty"`
	WebsiteURI      string        `json:"websiteUri,omitempty"`
	Reviews         []Review      `json:"reviews,omitempty"`
}

type Review struct {
	Rating            float64       `json:"rating"`
	Text              LocalizedText `json:"text"`
	PublishTime       string        `json:"publishTime"`
	AuthorAttribution struct {
		DisplayName string `json:"displayName"`
	} `json:"authorAttribution"`
}

// PriceLevelValue maps the v1 priceLevel enum onto the classic 0-4 scale.
// Returns -1 when unknown.
func (p Place) PriceLevelValue() int {
	switch p.PriceLevel {
	case "PRICE_LEVEL_FREE":
		return 0
	case "PRICE_LEVEL_INEXPENSIVE":
		return 1
	case "PRICE_LEVEL_MODERATE":
		return 2
	case "PRICE_LEVEL_EXPENSIVE":
		return 3
	case "PRICE_LEVEL_VERY_EXPENSIVE":
		return 4
	default:
		return -1
	}
}

type NearbyQuery struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	PlaceTypes   []string
	MaxResults   int
	RankBy       string
}

type searchResponse struct {
	Places []Place `json:"places"`
}

// SearchNearby runs places:searchNearby with a circle restriction. The radius
// is clamped to 50 km and the result count to 20, matching the API limits.
func (c *Client) SearchNearby(ctx context.Context, q NearbyQuery) ([]Place, error) {
	radius := q.RadiusMeters
	if radius > maxRadiusMeters {
		radius = maxRadiusMeters
	}
	count := q.MaxResults
	if count <= 0 || count > maxResultCount {
		count = maxResultCount
	}
	rankBy := q.RankBy
	if rankBy == "" {
		rankBy = RankByPopularity
	}

	payload := map[string]any{
		"includedTypes":  q.PlaceTypes,
		"maxResultCount": count,
		"rankPreference": rankBy,
		"locationRestriction": map[string]any{
			"circle": map[string]any{
				"center": map[string]any{
					"latitude":  q.Latitude,
					"longitude": q.Longitude,
				},
				"radius": radius,
			},
		},
	}

	var out searchResponse
	err := c.hc.PostJSON(ctx, c.base+"/places:searchNearby", c.headers(searchFieldMask), payload, &out)
	if err != nil {
		return nil, fmt.Errorf("places: nearby search: %w", err)
	}
	return out.Places, nil
}

// SearchText runs places:searchText for a free-form query.
func (c *Client) SearchText(ctx context.Context, query string, maxResults int) ([]Place, error) {
	if maxResults <= 0 || maxResults > maxResultCount {
		maxResults = maxResultCount
	}
	payload := map[string]any{
		"textQuery":      query,
		"maxResultCount": maxResults,
	}
	var out searchResponse
	err := c.hc.PostJSON(ctx, c.base+"/places:searchText", c.headers(searchFieldMask), payload, &out)
	if err != nil {
		return nil, fmt.Errorf("places: text search: %w", err)
	}
	return out.Places, nil
}

// Details fetches a single place with its reviews.
func (c *Client) Details(ctx context.Context, placeID string) (Place, error) {
	var out Place
	u := c.base + "/places/" + url.PathEscape(placeID)
	if err := c.hc.GetJSON(ctx, u, c.headers(detailsFieldMask), &out); err != nil {
		return Place{}, fmt.Errorf("places: details %s: %w", placeID, err)
	}
	return out, nil
}

// Geocode resolves an address to coordinates via text search.
func (c *Client) Geocode(ctx context.Context, address string) (LatLng, error) {
	results, err := c.SearchText(ctx, address, 1)
	if err != nil {
		return LatLng{}, err
	}
	if len(results) == 0 {
		return LatLng{}, fmt.Errorf("places: geocode %q: %w", address, httpx.ErrNotFound)
	}
	return results[0].Location, nil
}
