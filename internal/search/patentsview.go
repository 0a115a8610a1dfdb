// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/research-scout/internal/httputil"
	"github.com/pdiddy/research-scout/pkg/types"
)

// patentsViewSearchBase is the PatentsView patent search endpoint. Declared
// as a var so tests can substitute an httptest server.
var patentsViewSearchBase = "https://search.patentsview.org/api/v1/patent/"

// patentsViewFields lists the fields requested from the API.
const patentsViewFields = `["patent_id","patent_title","patent_abstract","patent_date",` +
	`"patent_type","patent_earliest_application_date","patent_num_times_cited_by_us_patents",` +
	`"inventors.inventor_name_first","inventors.inventor_name_last",` +
	`"assignees.assignee_organization","cpc_current.cpc_group_id"]`

// Patent term lengths in years.
const (
	utilityTermYears = 20
	designTermYears  = 15
)

// PatentsViewBackend queries the PatentsView patent search API.
type PatentsViewBackend struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// Name returns the backend identifier.
func (b *PatentsViewBackend) Name() string { return "patentsview" }

// Search queries the PatentsView API with a text match on patent abstracts
// and returns normalized patents, most-cited first. Patents without an
// abstract are dropped.
func (b *PatentsViewBackend) Search(ctx context.Context, query string, limit int) ([]types.Patent, error) {
	if query == "" {
		return nil, fmt.Errorf("empty PatentsView query")
	}
	if limit <= 0 {
		limit = 20
	}

	queryJSON, err := json.Marshal(map[string]any{
		"_text_any": map[string]string{"patent_abstract": query},
	})
	if err != nil {
		return nil, fmt.Errorf("building PatentsView query: %w", err)
	}

	params := url.Values{
		"q": {string(queryJSON)},
		"f": {patentsViewFields},
		"s": {`[{"patent_num_times_cited_by_us_patents":"desc"}]`},
		"o": {fmt.Sprintf(`{"size":%d}`, limit)},
	}
	reqURL := patentsViewSearchBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.UserAgent)
	if b.APIKey != "" {
		req.Header.Set("X-Api-Key", b.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("PatentsView API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("PatentsView rate limit exceeded (HTTP 429)")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PatentsView API returned HTTP %d", resp.StatusCode)
	}

	var pvr patentsViewResponse
	if err := json.NewDecoder(resp.Body).Decode(&pvr); err != nil {
		return nil, fmt.Errorf("parsing PatentsView response: %w", err)
	}

	var patents []types.Patent
	for _, raw := range pvr.Patents {
		if raw.PatentAbstract == "" {
			continue
		}
		patents = append(patents, normalizePatent(raw))
	}
	return patents, nil
}

// normalizePatent converts one raw PatentsView record into the canonical
// Patent shape and derives the expiration date from the patent type.
func normalizePatent(raw patentsViewPatent) types.Patent {
	p := types.Patent{
		PatentID:   raw.PatentID,
		Title:      raw.PatentTitle,
		Abstract:   raw.PatentAbstract,
		PatentType: raw.PatentType,
		TimesCited: raw.TimesCited,
	}
	if p.Title == "" {
		p.Title = "Untitled Patent"
	}

	p.GrantDate = parsePatentDate(raw.PatentDate)
	p.FilingDate = parsePatentDate(raw.EarliestApplicationDate)
	p.ExpirationDate = deriveExpiration(raw.PatentType, p.GrantDate, p.FilingDate)

	for _, inv := range raw.Inventors {
		name := strings.TrimSpace(inv.NameFirst + " " + inv.NameLast)
		if name != "" {
			p.Inventors = append(p.Inventors, types.Author{Name: name})
		}
	}

	if len(raw.Assignees) > 0 {
		p.AssigneeOrg = raw.Assignees[0].Organization
	}

	for _, c := range raw.CPCCurrent {
		if c.GroupID != "" {
			p.CPCCodes = append(p.CPCCodes, c.GroupID)
		}
	}

	return p
}

// deriveExpiration computes the patent term end: design patents expire 15
// years after grant, utility patents 20 years after filing. When the
// relevant date is unavailable the result is zero and the legal status
// stays unknown.
func deriveExpiration(patentType string, grantDate, filingDate time.Time) time.Time {
	if patentType == types.PatentTypeDesign {
		if grantDate.IsZero() {
			return time.Time{}
		}
		return grantDate.AddDate(designTermYears, 0, 0)
	}
	if filingDate.IsZero() {
		return time.Time{}
	}
	return filingDate.AddDate(utilityTermYears, 0, 0)
}

func parsePatentDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// PatentsView API JSON structures.
type patentsViewResponse struct {
	Patents []patentsViewPatent `json:"patents"`
	Count   int                 `json:"count"`
	Total   int                 `json:"total_hits"`
}

type patentsViewPatent struct {
	PatentID                string                 `json:"patent_id"`
	PatentTitle             string                 `json:"patent_title"`
	PatentAbstract          string                 `json:"patent_abstract"`
	PatentDate              string                 `json:"patent_date"`
	PatentType              string                 `json:"patent_type"`
	EarliestApplicationDate string                 `json:"patent_earliest_application_date"`
	TimesCited              int                    `json:"patent_num_times_cited_by_us_patents"`
	Inventors               []patentsViewInventor  `json:"inventors"`
	Assignees               []patentsViewAssignee  `json:"assignees"`
	CPCCurrent              []patentsViewCPCGroup  `json:"cpc_current"`
}

type patentsViewInventor struct {
	NameFirst string `json:"inventor_name_first"`
	NameLast  string `json:"inventor_name_last"`
}

type patentsViewAssignee struct {
	Organization string `json:"assignee_organization"`
}

type patentsViewCPCGroup struct {
	GroupID string `json:"cpc_group_id"`
}
