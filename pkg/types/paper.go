// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// PaperSource identifies which provider API a paper came from.
type PaperSource string

const (
	SourceSemanticScholar PaperSource = "semantic_scholar"
	SourceOpenAlex        PaperSource = "openalex"
)

// Author identifies a paper author or patent inventor.
type Author struct {
	// Name is the display name.
	Name string `json:"name" yaml:"name"`

	// ID is the provider-assigned author identifier, when available.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`
}

// Paper holds a normalized paper record unified across provider APIs.
type Paper struct {
	// ID is the canonical identifier assigned by the store on first
	// sighting. Empty until the paper has been persisted. The store is the
	// only writer of this field.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// ExternalID is the provider-assigned identifier, unique within Source.
	ExternalID string `json:"external_id" yaml:"external_id"`

	// Source identifies the provider the record came from.
	Source PaperSource `json:"source" yaml:"source"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract. Papers without one are dropped at
	// the adapter boundary, so downstream code may treat it as present.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists the paper authors in source order.
	Authors []Author `json:"authors" yaml:"authors"`

	// Year is the publication year, 0 when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// CitationCount is the provider-reported citation count.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// PublicationDate is the full publication date when the provider
	// supplies one; zero otherwise.
	PublicationDate time.Time `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`

	// Journal is the venue name, empty when unknown.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// FieldsOfStudy lists provider-assigned topic labels.
	FieldsOfStudy []string `json:"fields_of_study,omitempty" yaml:"fields_of_study,omitempty"`

	// PDFURL points at an open-access PDF, empty when none is known.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// ExternalIDs maps identifier schemes to values (e.g. "doi", "arxiv").
	ExternalIDs map[string]string `json:"external_ids,omitempty" yaml:"external_ids,omitempty"`
}

// DOI returns the paper's DOI from the identifiers map, or "" when absent.
// Both the lowercase and uppercase scheme keys are recognized.
func (p Paper) DOI() string {
	if p.ExternalIDs == nil {
		return ""
	}
	if doi := p.ExternalIDs["doi"]; doi != "" {
		return doi
	}
	return p.ExternalIDs["DOI"]
}

// NormalizedTitle returns the lowercased, trimmed title used for
// title-based deduplication of papers without a DOI.
func (p Paper) NormalizedTitle() string {
	return strings.TrimSpace(strings.ToLower(p.Title))
}

// Complexity grades implementation difficulty in analyses and concepts.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// PaperAnalysis is a cached commercial-scoring record for a (paper, domain)
// pair. Analyses are attached to search results read-only; the search
// pipeline never computes them.
type PaperAnalysis struct {
	ID                  string            `json:"id,omitempty" yaml:"id,omitempty"`
	PaperID             string            `json:"paper_id" yaml:"paper_id"`
	Domain              Domain            `json:"domain" yaml:"domain"`
	CommercialScore     float64           `json:"commercial_score" yaml:"commercial_score"`
	Summary             string            `json:"summary" yaml:"summary"`
	CommercialPotential string            `json:"commercial_potential" yaml:"commercial_potential"`
	KeyInnovation       string            `json:"key_innovation" yaml:"key_innovation"`
	MaterialsMentioned  []string          `json:"materials_mentioned" yaml:"materials_mentioned"`
	ProcessesMentioned  []string          `json:"processes_mentioned" yaml:"processes_mentioned"`
	EstimatedComplexity Complexity        `json:"estimated_complexity" yaml:"estimated_complexity"`
	TargetIndustries    []string          `json:"target_industries" yaml:"target_industries"`
	Limitations         string            `json:"limitations" yaml:"limitations"`
}

// PaperWithAnalysis pairs a persisted paper with its cached analysis for
// the search domain, when one exists.
type PaperWithAnalysis struct {
	Paper `yaml:",inline"`

	// Analysis is nil when no analysis has been computed for this
	// (paper, domain) pair.
	Analysis *PaperAnalysis `json:"analysis" yaml:"analysis"`
}

// Score returns the analysis commercial score, treating a missing analysis
// as zero. Used for ranking search results.
func (p PaperWithAnalysis) Score() float64 {
	if p.Analysis == nil {
		return 0
	}
	return p.Analysis.CommercialScore
}
