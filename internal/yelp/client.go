// Package yelp is a client for the Yelp Fusion business search API.
package yelp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/teascout/teascout/internal/httpx"
)

const (
	DefaultBaseURL = "https://api.yelp.com/v3"

	defaultLimit = 10
	maxLimit     = 50
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
		return nil, fmt.Errorf("yelp: API key is required")
	}
	c := &Client{
		base:   DefaultBaseURL,
		apiKey: apiKey,
		hc:     httpx.New(5),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

type Category struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

type Business struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Rating      float64    `json:"rating"`
	ReviewCount int        `json:"review_count"`
	Price       string     `json:"price"`
	Categories  []Category `json:"categories"`
	Coordinates struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
	Location struct {
		DisplayAddress []string `json:"display_address"`
	} `json:"location"`
}

type SearchQuery struct {
	Term      string
	Latitude  float64
	Longitude float64
	// Location is a free-form address, used when coordinates are zero.
	Location string
	Limit    int
}

type searchResponse struct {
	Businesses []Business `json:"businesses"`
	Total      int        `json:"total"`
}

// Search runs a business search. Coordinates take precedence over the
// free-form location when both are set.
func (c *Client) Search(ctx context.Context, q SearchQuery) ([]Business, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	params := url.Values{}
	params.Set("term", q.Term)
	params.Set("limit", strconv.Itoa(limit))

	switch {
	case q.Latitude != 0 || q.Longitude != 0:
		if q.Latitude < -90 || q.Latitude > 90 {
			return nil, fmt.Errorf("yelp: latitude %v out of range", q.Latitude)
		}
		if q.Longitude < -180 || q.Longitude > 180 {
			return nil, fmt.Errorf("yelp: longitude %v out of range", q.Longitude)
		}
		params.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
		params.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	case q.Location != "":
		params.Set("location", q.Location)
	default:
		return nil, fmt.Errorf("yelp: search needs coordinates or a location")
	}

	hdr := http.Header{}
	hdr.Set("Authorization", "Bearer "+c.apiKey)

	var out searchResponse
	u := c.base + "/businesses/search?" + params.Encode()
	if err := c.hc.GetJSON(ctx, u, hdr, &out); err != nil {
		return nil, fmt.Errorf("yelp: business search: %w", err)
	}
	return out.Businesses, nil
}

// FindBusiness looks up a single business by name near the given location.
func (c *Client) FindBusiness(ctx context.Context, name, location string) (Business, bool, error) {
	results, err := c.Search(ctx, SearchQuery{Term: name, Location: location, Limit: 1})
	if err != nil {
		return Business{}, false, err
	}
	if len(results) == 0 {
		return Business{}, false, nil
	}
	return results[0], true, nil
}
