// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PaperExtraction holds the fact-only summary the AI backend produces from
// a paper's abstract. Facts come verbatim from the abstract; the Relevance
// field ties the paper back to the original search query.
type PaperExtraction struct {
	// PaperID is the canonical paper ID (or the external ID for papers
	// that never got a canonical one).
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// PaperTitle repeats the title so the extraction is self-describing.
	PaperTitle string `json:"paper_title" yaml:"paper_title"`

	// Objective states what the authors were trying to do.
	Objective string `json:"objective" yaml:"objective"`

	// Methodology describes how they did it.
	Methodology string `json:"methodology" yaml:"methodology"`

	// Materials lists specific materials and compounds mentioned.
	Materials []string `json:"materials" yaml:"materials"`

	// KeyFindings lists reported results, with numbers where available.
	KeyFindings []string `json:"key_findings" yaml:"key_findings"`

	// Performance maps metric names to measured values with units. Only
	// metrics actually reported in the abstract appear here.
	Performance map[string]string `json:"performance" yaml:"performance"`

	// Limitations lists what the authors say needs more work.
	Limitations []string `json:"limitations" yaml:"limitations"`

	// Novelty states what is new compared to prior work.
	Novelty string `json:"novelty" yaml:"novelty"`

	// Relevance explains how the paper connects to the search query.
	Relevance string `json:"relevance" yaml:"relevance"`

	// Failed marks a placeholder produced when extraction errored for
	// this paper. Failed extractions are never cached.
	Failed bool `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// PatentExtraction holds the fact-only summary produced from a patent
// abstract, plus derived legal status and ownership.
type PatentExtraction struct {
	// PatentID is the canonical patent ID (or the provider patent number
	// for patents that never got a canonical one).
	PatentID string `json:"patent_id" yaml:"patent_id"`

	// PatentTitle repeats the title so the extraction is self-describing.
	PatentTitle string `json:"patent_title" yaml:"patent_title"`

	// ClaimedInvention states what is being patented.
	ClaimedInvention string `json:"claimed_invention" yaml:"claimed_invention"`

	// TechnicalField is the technical domain the patent covers.
	TechnicalField string `json:"technical_field" yaml:"technical_field"`

	// Methodology describes how the invention works.
	Methodology string `json:"methodology" yaml:"methodology"`

	// Materials lists specific materials and compounds mentioned.
	Materials []string `json:"materials" yaml:"materials"`

	// KeyAdvantages lists advantages stated in the abstract.
	KeyAdvantages []string `json:"key_advantages" yaml:"key_advantages"`

	// Limitations lists stated limitations or constraints.
	Limitations []string `json:"limitations" yaml:"limitations"`

	// LegalStatus is derived locally from the expiration date, not
	// extracted by the AI backend.
	LegalStatus string `json:"legal_status" yaml:"legal_status"`

	// CommercialOwner is the assignee organization, "Unknown" when absent.
	CommercialOwner string `json:"commercial_owner" yaml:"commercial_owner"`

	// Relevance explains how the patent relates to the search query.
	Relevance string `json:"relevance" yaml:"relevance"`

	// Failed marks a placeholder produced when extraction errored for
	// this patent. Failed extractions are never cached.
	Failed bool `json:"failed,omitempty" yaml:"failed,omitempty"`
}
