// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"strings"

	"github.com/pdiddy/research-scout/pkg/types"
)

// domainVocabulary maps each domain to its canonical vocabulary, ordered by
// how characteristic each term is. The first term is the one appended to
// queries that carry no domain vocabulary of their own.
var domainVocabulary = map[types.Domain][]string{
	types.DomainEnergyStorage: {
		"battery",
		"energy storage",
		"electrode",
		"electrolyte",
		"capacitor",
		"charging",
	},
	types.DomainBiodegradablePlastics: {
		"biodegradable",
		"polymer",
		"bioplastic",
		"compostable",
		"sustainable packaging",
	},
	types.DomainMedicalDevices: {
		"medical device",
		"biomedical",
		"implant",
		"diagnostic",
		"therapeutic",
	},
	types.DomainAdvancedMaterials: {
		"nanomaterial",
		"composite",
		"alloy",
		"metamaterial",
		"coating",
	},
	types.DomainFoodTechnology: {
		"food processing",
		"preservation",
		"fermentation",
		"nutraceutical",
		"encapsulation",
	},
}

// EnhanceQuery rewrites a free-text query with domain vocabulary before
// dispatch to the provider APIs. If none of the domain's terms already
// appear in the query (case-insensitive substring match), the domain's
// first term is appended; otherwise the query is returned unchanged.
// Empty queries pass through untouched; callers reject them upstream.
func EnhanceQuery(query string, domain types.Domain) string {
	if query == "" {
		return query
	}

	terms := domainVocabulary[domain]
	if len(terms) == 0 {
		return query
	}

	lower := strings.ToLower(query)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return query
		}
	}
	return query + " " + terms[0]
}
