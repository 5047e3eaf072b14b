package api

import "github.com/teascout/teascout/provider"

type Model interface {
	Name() string
	Provider() provider.Provider
}
