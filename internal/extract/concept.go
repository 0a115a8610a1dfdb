// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/research-scout/pkg/types"
)

// Concept synthesizes one speculative product concept from a set of papers
// and their extractions. Unlike batch extraction, a failure here is a hard
// error: there is no useful placeholder for a concept.
func Concept(ctx context.Context, backend AIBackend, papers []types.Paper, extractions []types.PaperExtraction, domain types.Domain, searchQuery string, maxRetries int) (types.ProductConcept, error) {
	if len(papers) == 0 {
		return types.ProductConcept{}, fmt.Errorf("no papers to generate a concept from")
	}

	summaries := make([]string, 0, len(papers))
	sourceIDs := make([]string, 0, len(papers))
	for _, paper := range papers {
		sourceIDs = append(sourceIDs, itemID(paper.ID, paper.ExternalID))
		summaries = append(summaries, summarizePaper(paper, findExtraction(extractions, paper)))
	}

	system, user, err := renderConceptPrompts(domain, searchQuery, summaries)
	if err != nil {
		return types.ProductConcept{}, err
	}

	raw, err := callWithRetry(ctx, backend, system, user, maxRetries)
	if err != nil {
		return types.ProductConcept{}, fmt.Errorf("generating concept: %w", err)
	}

	var payload conceptPayload
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &payload); err != nil {
		return types.ProductConcept{}, fmt.Errorf("parsing concept JSON: %w", err)
	}

	return types.ProductConcept{
		SourceIDs:             sourceIDs,
		ProductName:           orDefault(payload.ProductName, "Unnamed concept"),
		ProductDescription:    payload.ProductDescription,
		TargetMarket:          payload.TargetMarket,
		RequiredMaterials:     payload.RequiredMaterials,
		ManufacturingApproach: payload.ManufacturingApproach,
		EstimatedComplexity:   parseComplexity(payload.EstimatedComplexity),
		PotentialApplications: payload.PotentialApplications,
		KeyAdvantages:         payload.KeyAdvantages,
		Risks:                 payload.Risks,
		ResearchGaps:          payload.ResearchGaps,
	}, nil
}

// summarizePaper condenses a paper and its extraction into the prompt
// block the concept template embeds. Falls back to the raw abstract when
// the extraction failed or is missing.
func summarizePaper(paper types.Paper, extraction *types.PaperExtraction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Paper: %s (%d)\n", paper.Title, paper.Year)

	if extraction == nil || extraction.Failed {
		fmt.Fprintf(&b, "Abstract: %s\n", paper.Abstract)
		return b.String()
	}

	fmt.Fprintf(&b, "Objective: %s\n", extraction.Objective)
	fmt.Fprintf(&b, "Methodology: %s\n", extraction.Methodology)
	if len(extraction.Materials) > 0 {
		fmt.Fprintf(&b, "Materials: %s\n", strings.Join(extraction.Materials, "; "))
	}
	if len(extraction.KeyFindings) > 0 {
		fmt.Fprintf(&b, "Key findings: %s\n", strings.Join(extraction.KeyFindings, "; "))
	}
	fmt.Fprintf(&b, "Novelty: %s\n", extraction.Novelty)
	return b.String()
}

// findExtraction matches an extraction to its paper by canonical or
// provider ID.
func findExtraction(extractions []types.PaperExtraction, paper types.Paper) *types.PaperExtraction {
	for i := range extractions {
		if extractions[i].PaperID == paper.ID || extractions[i].PaperID == paper.ExternalID {
			return &extractions[i]
		}
	}
	return nil
}

// parseComplexity validates the model's complexity grade, defaulting to
// medium for anything unrecognized.
func parseComplexity(s string) types.Complexity {
	switch types.Complexity(strings.ToLower(strings.TrimSpace(s))) {
	case types.ComplexityLow:
		return types.ComplexityLow
	case types.ComplexityHigh:
		return types.ComplexityHigh
	default:
		return types.ComplexityMedium
	}
}

// conceptPayload is the JSON shape the concept prompt requests.
type conceptPayload struct {
	ProductName           string   `json:"productName"`
	ProductDescription    string   `json:"productDescription"`
	TargetMarket          string   `json:"targetMarket"`
	RequiredMaterials     []string `json:"requiredMaterials"`
	ManufacturingApproach string   `json:"manufacturingApproach"`
	EstimatedComplexity   string   `json:"estimatedComplexity"`
	PotentialApplications []string `json:"potentialApplications"`
	KeyAdvantages         []string `json:"keyAdvantages"`
	Risks                 []string `json:"risks"`
	ResearchGaps          []string `json:"researchGaps"`
}
