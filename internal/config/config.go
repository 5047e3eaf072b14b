// Package config loads the runtime configuration for the teascout binary
// from environment variables.
package config

import (
	"errors"
	"os"
)

const defaultFireworksModel = "accounts/fireworks/models/minimax-m2p1"

type Config struct {
	GooglePlacesKey string
	YelpKey         string
	CensusKey       string
	FireworksKey    string
	OpenAIKey       string
	ModelName       string
	MongoURI        string
	NATSURL         string
}

// Load reads the configuration from the environment. Callers that want
// .env support should blank-import github.com/joho/godotenv/autoload
// before calling it.
func Load() (Config, error) {
	c := Config{
		GooglePlacesKey: os.Getenv("GOOGLE_PLACES_API_KEY"),
		YelpKey:         os.Getenv("YELP_API_KEY"),
		CensusKey:       os.Getenv("CENSUS_API_KEY"),
		FireworksKey:    os.Getenv("FIREWORKS_API_KEY"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		ModelName:       env("TEASCOUT_MODEL", defaultFireworksModel),
		MongoURI:        os.Getenv("MONGODB_URI"),
		NATSURL:         os.Getenv("NATS_URL"),
	}
	if c.GooglePlacesKey == "" {
		return c, errors.New("GOOGLE_PLACES_API_KEY is required")
	}
	if c.FireworksKey == "" && c.OpenAIKey == "" {
		return c, errors.New("either FIREWORKS_API_KEY or OPENAI_API_KEY is required")
	}
	return c, nil
}

// UseFireworks reports whether completions should go through the Fireworks
// endpoint. Fireworks wins when both keys are present.
func (c Config) UseFireworks() bool {
	return c.FireworksKey != ""
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
