// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-scout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// SemanticScholarLimit is the per-request result limit for the
	// Semantic Scholar backend (default 15).
	SemanticScholarLimit int `json:"semantic_scholar_limit" yaml:"semantic_scholar_limit"`

	// OpenAlexLimit is the per-request result limit for the OpenAlex
	// backend (default 10).
	OpenAlexLimit int `json:"openalex_limit" yaml:"openalex_limit"`

	// PatentLimit is the per-request result limit for the PatentsView
	// backend (default 20).
	PatentLimit int `json:"patent_limit" yaml:"patent_limit"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// PatentsViewAPIKey authenticates PatentsView requests. Patent search
	// returns no results without it.
	PatentsViewAPIKey string `json:"patentsview_api_key,omitempty" yaml:"patentsview_api_key,omitempty"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`

	// RecencyYears bounds OpenAlex results to works published within this
	// many years (default 5).
	RecencyYears int `json:"recency_years" yaml:"recency_years"`
}

// StoreConfig holds settings for the persistence gateway.
type StoreConfig struct {
	// Path is the SQLite database file path. An empty path leaves the
	// store unconfigured; Open reports that as a typed error at startup.
	Path string `json:"path" yaml:"path"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	AIConfig `yaml:",inline"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search     SearchConfig     `json:"search" yaml:"search"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
}
