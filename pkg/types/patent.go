// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PatentType distinguishes the patent kinds that matter for term
// calculation. Other PatentsView types (plant, reissue) are carried as-is.
const (
	PatentTypeUtility = "utility"
	PatentTypeDesign  = "design"
)

// Patent legal status values derived from the expiration date.
const (
	LegalStatusExpired      = "expired"
	LegalStatusExpiringSoon = "expiring soon"
	LegalStatusActive       = "active"
	LegalStatusUnknown      = "unknown"
)

// expiringSoonWindow is how far ahead of expiration a patent is reported
// as "expiring soon".
const expiringSoonWindow = 2

// Patent holds a normalized patent record from the patent search API.
type Patent struct {
	// ID is the canonical identifier assigned by the store on first
	// sighting. Empty until the patent has been persisted.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// PatentID is the provider patent number (e.g. "11234567").
	PatentID string `json:"patent_id" yaml:"patent_id"`

	// Title is the patent title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the patent abstract. Patents without one are dropped at
	// the adapter boundary.
	Abstract string `json:"abstract" yaml:"abstract"`

	// GrantDate is the grant date; zero when unknown.
	GrantDate time.Time `json:"grant_date,omitempty" yaml:"grant_date,omitempty"`

	// FilingDate is the earliest application date; zero when unknown.
	FilingDate time.Time `json:"filing_date,omitempty" yaml:"filing_date,omitempty"`

	// ExpirationDate is derived, not provider-supplied: design patents
	// expire 15 years after grant, utility patents 20 years after filing.
	// Zero when the relevant date is unavailable.
	ExpirationDate time.Time `json:"expiration_date,omitempty" yaml:"expiration_date,omitempty"`

	// PatentType is the provider patent type (utility, design, ...).
	PatentType string `json:"patent_type,omitempty" yaml:"patent_type,omitempty"`

	// Inventors lists the named inventors.
	Inventors []Author `json:"inventors" yaml:"inventors"`

	// AssigneeOrg is the first assignee organization, empty when unknown.
	AssigneeOrg string `json:"assignee_org,omitempty" yaml:"assignee_org,omitempty"`

	// TimesCited counts citations by later US patents.
	TimesCited int `json:"times_cited" yaml:"times_cited"`

	// ClaimsCited counts claims cited by later patents.
	ClaimsCited int `json:"claims_cited" yaml:"claims_cited"`

	// CPCCodes lists current CPC classification group IDs.
	CPCCodes []string `json:"cpc_codes,omitempty" yaml:"cpc_codes,omitempty"`

	// WIPOField is the WIPO technology field, empty when unknown.
	WIPOField string `json:"wipo_field,omitempty" yaml:"wipo_field,omitempty"`
}

// LegalStatus derives the patent's legal status at the given reference
// time from the expiration date: expired when past, "expiring soon" within
// two years of expiry, active otherwise. A zero expiration date yields
// "unknown".
func (p Patent) LegalStatus(now time.Time) string {
	if p.ExpirationDate.IsZero() {
		return LegalStatusUnknown
	}
	if p.ExpirationDate.Before(now) {
		return LegalStatusExpired
	}
	if p.ExpirationDate.Before(now.AddDate(expiringSoonWindow, 0, 0)) {
		return LegalStatusExpiringSoon
	}
	return LegalStatusActive
}
