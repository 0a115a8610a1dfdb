// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ProductConcept is a speculative product idea derived from a set of paper
// extractions. Unlike extractions, concepts may contain inferences and
// suggestions; they are append-only and never deduplicated; generating
// twice from the same papers yields two concepts.
type ProductConcept struct {
	// ID is assigned by the store on insert.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// SourceIDs lists the canonical IDs of the papers the concept is
	// based on.
	SourceIDs []string `json:"source_ids" yaml:"source_ids"`

	// ProductName is a concise, descriptive name.
	ProductName string `json:"product_name" yaml:"product_name"`

	// ProductDescription describes the concept in a few sentences.
	ProductDescription string `json:"product_description" yaml:"product_description"`

	// TargetMarket describes who would use the product and why.
	TargetMarket string `json:"target_market" yaml:"target_market"`

	// RequiredMaterials lists materials the product would need.
	RequiredMaterials []string `json:"required_materials" yaml:"required_materials"`

	// ManufacturingApproach sketches how the product could be made.
	ManufacturingApproach string `json:"manufacturing_approach" yaml:"manufacturing_approach"`

	// EstimatedComplexity grades implementation difficulty.
	EstimatedComplexity Complexity `json:"estimated_complexity" yaml:"estimated_complexity"`

	// PotentialApplications lists plausible uses.
	PotentialApplications []string `json:"potential_applications" yaml:"potential_applications"`

	// KeyAdvantages lists advantages over existing approaches.
	KeyAdvantages []string `json:"key_advantages" yaml:"key_advantages"`

	// Risks lists risks and unknowns.
	Risks []string `json:"risks" yaml:"risks"`

	// ResearchGaps lists what still needs to be figured out.
	ResearchGaps []string `json:"research_gaps" yaml:"research_gaps"`
}
