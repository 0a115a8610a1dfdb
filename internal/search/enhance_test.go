// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"testing"

	"github.com/pdiddy/research-scout/pkg/types"
)

func TestEnhanceQuery(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		domain types.Domain
		want   string
	}{
		{
			"query already carries domain vocabulary",
			"battery cathode materials",
			types.DomainEnergyStorage,
			"battery cathode materials",
		},
		{
			"vocabulary match is case-insensitive",
			"BATTERY cathode",
			types.DomainEnergyStorage,
			"BATTERY cathode",
		},
		{
			"generic query gets first domain term appended",
			"new coating",
			types.DomainEnergyStorage,
			"new coating battery",
		},
		{
			"match on a later vocabulary term",
			"solid electrolyte interfaces",
			types.DomainEnergyStorage,
			"solid electrolyte interfaces",
		},
		{
			"substring match counts even inside a word",
			"nanomaterials for implants",
			types.DomainAdvancedMaterials,
			"nanomaterials for implants",
		},
		{
			"plastics domain appends its own term",
			"marine degradation",
			types.DomainBiodegradablePlastics,
			"marine degradation biodegradable",
		},
		{
			"empty query passes through",
			"",
			types.DomainEnergyStorage,
			"",
		},
		{
			"unknown domain passes through",
			"new coating",
			types.Domain("quantum_computing"),
			"new coating",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnhanceQuery(tt.query, tt.domain)
			if got != tt.want {
				t.Errorf("EnhanceQuery(%q, %q) = %q, want %q", tt.query, tt.domain, got, tt.want)
			}
		})
	}
}

func TestDomainVocabularyCoversAllDomains(t *testing.T) {
	for _, d := range types.Domains {
		if len(domainVocabulary[d]) == 0 {
			t.Errorf("domain %q has no vocabulary", d)
		}
	}
}
