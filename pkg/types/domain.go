// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research-scout
// pipeline: search entities (Paper, Patent), extraction and product-concept
// records, and per-stage configuration.
package types

import "fmt"

// Domain scopes a search to one of five technology areas. The domain picks
// the query-enhancement vocabulary, the extraction prompt specialization,
// and the key under which analyses and extractions are cached.
type Domain string

const (
	DomainEnergyStorage         Domain = "energy_storage"
	DomainBiodegradablePlastics Domain = "biodegradable_plastics"
	DomainMedicalDevices        Domain = "medical_devices"
	DomainAdvancedMaterials     Domain = "advanced_materials"
	DomainFoodTechnology        Domain = "food_technology"
)

// Domains lists every valid domain value.
var Domains = []Domain{
	DomainEnergyStorage,
	DomainBiodegradablePlastics,
	DomainMedicalDevices,
	DomainAdvancedMaterials,
	DomainFoodTechnology,
}

// ParseDomain validates a raw domain string and returns the typed value.
func ParseDomain(s string) (Domain, error) {
	for _, d := range Domains {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid domain %q: must be one of %v", s, Domains)
}

// domainLabels maps each domain to the human-readable name used in prompts.
var domainLabels = map[Domain]string{
	DomainEnergyStorage:         "Energy Storage & Batteries",
	DomainBiodegradablePlastics: "Biodegradable Plastics & Sustainable Materials",
	DomainMedicalDevices:        "Medical Devices & Biotech",
	DomainAdvancedMaterials:     "Advanced Materials & Nanotechnology",
	DomainFoodTechnology:        "Food Technology & Processing",
}

// Label returns the human-readable domain name. Unknown domains fall back
// to the raw string.
func (d Domain) Label() string {
	if label, ok := domainLabels[d]; ok {
		return label
	}
	return string(d)
}
