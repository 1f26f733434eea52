package search

import (
	"errors"
	"fmt"
)

var (
	ErrNoResults = errors.New("no results")
	ErrNoAPIKey  = errors.New("no API key configured")
)

// ProviderError wraps an error with search-provider context.
type ProviderError struct {
	Provider string
	Query    string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %q: %v", e.Provider, e.Query, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
