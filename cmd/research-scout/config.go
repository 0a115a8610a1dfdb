// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-scout/internal/search"
	"github.com/pdiddy/research-scout/internal/secrets"
	"github.com/pdiddy/research-scout/internal/store"
	"github.com/pdiddy/research-scout/pkg/types"
)

const defaultUserAgent = "research-scout/0.1"

// pipelineConfig assembles the full configuration from viper (config file
// plus RESEARCH_SCOUT_* environment) with .secrets/ as the key fallback.
func pipelineConfig() types.PipelineConfig {
	viper.SetDefault("search.timeout", "30s")
	viper.SetDefault("search.user_agent", defaultUserAgent)
	viper.SetDefault("search.semantic_scholar_limit", 15)
	viper.SetDefault("search.openalex_limit", 10)
	viper.SetDefault("search.patent_limit", 20)
	viper.SetDefault("search.recency_years", 5)
	viper.SetDefault("store.path", "research-scout.db")
	viper.SetDefault("extraction.model", "claude-sonnet-4-5-20250929")
	viper.SetDefault("extraction.max_retries", 3)

	return types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("search.timeout"),
				UserAgent: viper.GetString("search.user_agent"),
			},
			SemanticScholarLimit:  viper.GetInt("search.semantic_scholar_limit"),
			OpenAlexLimit:         viper.GetInt("search.openalex_limit"),
			PatentLimit:           viper.GetInt("search.patent_limit"),
			SemanticScholarAPIKey: secretDefault(secrets.KeySemanticScholarAPI, viper.GetString("search.semantic_scholar_api_key")),
			PatentsViewAPIKey:     secretDefault(secrets.KeyPatentsViewAPI, viper.GetString("search.patentsview_api_key")),
			OpenAlexEmail:         secretDefault(secrets.KeyOpenAlexEmail, viper.GetString("search.openalex_email")),
			RecencyYears:          viper.GetInt("search.recency_years"),
		},
		Store: types.StoreConfig{
			Path: viper.GetString("store.path"),
		},
		Extraction: types.ExtractionConfig{
			AIConfig: types.AIConfig{
				Model:      viper.GetString("extraction.model"),
				APIKey:     secretDefault(secrets.KeyAnthropicAPI, viper.GetString("extraction.api_key")),
				MaxRetries: viper.GetInt("extraction.max_retries"),
			},
		},
	}
}

// openStore opens the SQLite store, honoring the --db flag override.
func openStore(cmd *cobra.Command, cfg types.StoreConfig) (*store.Store, error) {
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		cfg.Path = dbPath
	}
	return store.Open(cfg)
}

// newEngine wires the paper and patent backends into a search engine
// backed by the given store.
func newEngine(cfg types.SearchConfig, gateway search.Gateway) *search.Engine {
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.Timeout <= 0 {
		client.Timeout = 30 * time.Second
	}

	paperBackends := []search.PaperBackend{
		&search.SemanticScholarBackend{
			Client:    client,
			APIKey:    cfg.SemanticScholarAPIKey,
			UserAgent: cfg.UserAgent,
		},
		&search.OpenAlexBackend{
			Client:       client,
			UserAgent:    cfg.UserAgent,
			Email:        cfg.OpenAlexEmail,
			RecencyYears: cfg.RecencyYears,
		},
	}
	patentBackend := &search.PatentsViewBackend{
		Client:    client,
		APIKey:    cfg.PatentsViewAPIKey,
		UserAgent: cfg.UserAgent,
	}

	return search.NewEngine(paperBackends, patentBackend, gateway, cfg)
}

// parseDomainFlag reads and validates the required --domain flag.
func parseDomainFlag(cmd *cobra.Command) (types.Domain, error) {
	raw, _ := cmd.Flags().GetString("domain")
	return types.ParseDomain(raw)
}
