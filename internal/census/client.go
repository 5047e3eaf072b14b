// Package census talks to the US Census Bureau geocoder and the
// American Community Survey (ACS) 5-year estimates API.
package census

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
	DefaultGeocoderBaseURL = "https://geocoding.geo.census.gov"
	DefaultDataBaseURL     = "https://api.census.gov"

	acsDataset = "2022/acs/acs5"
)

type Client struct {
	geocoderBase string
	dataBase     string
	apiKey       string
	hc           *httpx.Client
}

type Option func(*Client)

func WithGeocoderBaseURL(base string) Option {
	return func(c *Client) { c.geocoderBase = strings.TrimRight(base, "/") }
}

func WithDataBaseURL(base string) Option {
	return func(c *Client) { c.dataBase = strings.TrimRight(base, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc.WithHTTPClient(hc) }
}

// New builds a census client. The API key is optional, the data API allows
// a modest number of keyless requests per day.
func New(apiKey string, options ...Option) *Client {
	c := &Client{
		geocoderBase: DefaultGeocoderBaseURL,
		dataBase:     DefaultDataBaseURL,
		apiKey:       apiKey,
		hc:           httpx.New(2),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Tract identifies a census tract by its FIPS components.
type Tract struct {
	State  string
	County string
	Tract  string
}

type geocoderResponse struct {
	Result struct {
		Geographies map[string][]struct {
			State  string `json:"STATE"`
			County string `json:"COUNTY"`
			Tract  string `json:"TRACT"`
		} `json:"geographies"`
	} `json:"result"`
}

// TractForCoordinates resolves coordinates to the census tract containing them.
func (c *Client) TractForCoordinates(ctx context.Context, lat, lng float64) (Tract, error) {
	params := url.Values{}
	params.Set("x", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("y", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("benchmark", "Public_AR_Current")
	params.Set("vintage", "Current_Current")
	params.Set("format", "json")

	var out geocoderResponse
	u := c.geocoderBase + "/geocoder/geographies/coordinates?" + params.Encode()
	if err := c.hc.GetJSON(ctx, u, nil, &out); err != nil {
		return Tract{}, fmt.Errorf("census: geocode (%v, %v): %w", lat, lng, err)
	}

	tracts := out.Result.Geographies["Census Tracts"]
	if len(tracts) == 0 {
		return Tract{}, fmt.Errorf("census: no tract for (%v, %v): %w", lat, lng, httpx.ErrNotFound)
	}
	t := tracts[0]
	return Tract{State: t.State, County: t.County, Tract: t.Tract}, nil
}

// ACS fetches ACS 5-year estimate variables for a tract. The response maps
// variable name to its raw string value.
func (c *Client) ACS(ctx context.Context, tract Tract, variables []string) (map[string]string, error) {
	if len(variables) == 0 {
		return nil, fmt.Errorf("census: no ACS variables requested")
	}

	params := url.Values{}
	params.Set("get", strings.Join(variables, ","))
	params.Set("for", "tract:"+tract.Tract)
	params.Set("in", fmt.Sprintf("state:%s county:%s", tract.State, tract.County))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	var rows [][]string
	u := c.dataBase + "/data/" + acsDataset + "?" + params.Encode()
	if err := c.hc.GetJSON(ctx, u, nil, &rows); err != nil {
		return nil, fmt.Errorf("census: ACS fetch: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("census: ACS returned no data rows for tract %s", tract.Tract)
	}

	header, values := rows[0], rows[1]
	if len(header) != len(values) {
		return nil, fmt.Errorf("census: ACS header/value length mismatch: %d vs %d", len(header), len(values))
	}
	out := make(map[string]string, len(header))
	for i, name := range header {
		out[name] = values[i]
	}
	return out, nil
}
