// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/research-scout/pkg/types"
)

const conceptJSON = `{
	"productName": "FlexCell",
	"productDescription": "A flexible battery for wearables.",
	"targetMarket": "Wearable device makers",
	"requiredMaterials": ["polymer electrolyte", "thin-film electrodes"],
	"manufacturingApproach": "Roll-to-roll printing",
	"estimatedComplexity": "high",
	"potentialApplications": ["medical patches"],
	"keyAdvantages": ["bendable"],
	"risks": ["unproven at scale"],
	"researchGaps": ["long-term cycling data"]
}`

func TestConceptSynthesizesFromExtractions(t *testing.T) {
	var gotUser string
	backend := &mockBackend{respond: func(user string) (string, error) {
		gotUser = user
		return conceptJSON, nil
	}}

	papers := []types.Paper{
		testPaperWithAbstract("id-1", "Flexible Electrolytes"),
		testPaperWithAbstract("id-2", "Printed Electrodes"),
	}
	extractions := []types.PaperExtraction{
		{PaperID: "id-1", Objective: "Make electrolytes flexible", Novelty: "new polymer", KeyFindings: []string{"it bends"}},
		{PaperID: "id-2", Objective: "Print electrodes", Novelty: "roll-to-roll"},
	}

	concept, err := Concept(context.Background(), backend, papers, extractions, types.DomainEnergyStorage, "flexible battery", 1)
	if err != nil {
		t.Fatalf("Concept: %v", err)
	}

	if concept.ProductName != "FlexCell" {
		t.Errorf("ProductName = %q", concept.ProductName)
	}
	if concept.EstimatedComplexity != types.ComplexityHigh {
		t.Errorf("EstimatedComplexity = %q, want high", concept.EstimatedComplexity)
	}
	if len(concept.SourceIDs) != 2 || concept.SourceIDs[0] != "id-1" {
		t.Errorf("SourceIDs = %v, want both paper IDs", concept.SourceIDs)
	}

	// The prompt must carry the extraction summaries, not raw abstracts.
	if !strings.Contains(gotUser, "Make electrolytes flexible") {
		t.Errorf("prompt missing extraction objective: %q", gotUser)
	}
	if !strings.Contains(gotUser, "it bends") {
		t.Errorf("prompt missing key finding: %q", gotUser)
	}
}

func TestConceptFallsBackToAbstractForFailedExtraction(t *testing.T) {
	var gotUser string
	backend := &mockBackend{respond: func(user string) (string, error) {
		gotUser = user
		return conceptJSON, nil
	}}

	papers := []types.Paper{testPaperWithAbstract("id-1", "Broken Extraction")}
	extractions := []types.PaperExtraction{{PaperID: "id-1", Failed: true}}

	_, err := Concept(context.Background(), backend, papers, extractions, types.DomainEnergyStorage, "battery", 1)
	if err != nil {
		t.Fatalf("Concept: %v", err)
	}
	if !strings.Contains(gotUser, "We coat cathodes and measure cycle life.") {
		t.Errorf("prompt should fall back to the abstract: %q", gotUser)
	}
}

func TestConceptNoPapersIsError(t *testing.T) {
	backend := &mockBackend{response: conceptJSON}
	if _, err := Concept(context.Background(), backend, nil, nil, types.DomainEnergyStorage, "battery", 1); err == nil {
		t.Fatal("expected error with no papers")
	}
}

func TestConceptBackendFailureIsError(t *testing.T) {
	backend := &mockBackend{err: errors.New("down")}
	papers := []types.Paper{testPaperWithAbstract("id-1", "Paper")}

	if _, err := Concept(context.Background(), backend, papers, nil, types.DomainEnergyStorage, "battery", 1); err == nil {
		t.Fatal("expected error when the backend fails")
	}
}

func TestParseComplexity(t *testing.T) {
	tests := []struct {
		in   string
		want types.Complexity
	}{
		{"low", types.ComplexityLow},
		{"High", types.ComplexityHigh},
		{" medium ", types.ComplexityMedium},
		{"extreme", types.ComplexityMedium},
		{"", types.ComplexityMedium},
	}
	for _, tt := range tests {
		if got := parseComplexity(tt.in); got != tt.want {
			t.Errorf("parseComplexity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
