// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/research-scout/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

// openAlexMaxConcepts bounds how many concept labels are kept as fields of study.
const openAlexMaxConcepts = 5

// OpenAlexBackend queries the OpenAlex Works API, restricted to open-access
// works from the recent literature.
type OpenAlexBackend struct {
	Client    *http.Client
	UserAgent string

	// Email is sent as the mailto parameter for polite pool access.
	Email string

	// RecencyYears bounds results to works published within this many
	// years (default 5).
	RecencyYears int

	// now is overridable in tests to pin the recency window.
	now func() time.Time
}

// Name returns the backend identifier.
func (b *OpenAlexBackend) Name() string { return string(types.SourceOpenAlex) }

// Search queries the OpenAlex API and returns normalized papers, most-cited
// first. Works without a reconstructable abstract are dropped.
func (b *OpenAlexBackend) Search(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	if query == "" {
		return nil, fmt.Errorf("empty OpenAlex query")
	}
	if limit <= 0 {
		limit = 10
	}

	years := b.RecencyYears
	if years <= 0 {
		years = 5
	}
	now := time.Now
	if b.now != nil {
		now = b.now
	}
	currentYear := now().Year()

	params := url.Values{
		"search":   {query},
		"filter":   {fmt.Sprintf("publication_year:%d-%d,is_oa:true", currentYear-years, currentYear)},
		"per_page": {fmt.Sprintf("%d", limit)},
		"sort":     {"cited_by_count:desc"},
	}
	if b.Email != "" {
		params.Set("mailto", b.Email)
	}
	reqURL := openAlexSearchBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.UserAgent)

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	var papers []types.Paper
	for _, work := range oar.Results {
		p := normalizeOpenAlexWork(work)
		if p.Abstract == "" {
			continue
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// normalizeOpenAlexWork converts one raw OpenAlex work into the canonical
// Paper shape, reconstructing the abstract from the inverted index.
func normalizeOpenAlexWork(work openAlexWork) types.Paper {
	p := types.Paper{
		ExternalID:    strings.TrimPrefix(work.ID, "https://openalex.org/"),
		Source:        types.SourceOpenAlex,
		Title:         work.Title,
		Abstract:      reconstructAbstract(work.AbstractInvertedIndex),
		Year:          work.PublicationYear,
		CitationCount: work.CitedByCount,
		Journal:       work.PrimaryLocation.Source.DisplayName,
		PDFURL:        work.OpenAccess.OAURL,
	}
	if p.Title == "" {
		p.Title = "Untitled"
	}

	for _, authorship := range work.Authorships {
		if authorship.Author.DisplayName != "" {
			p.Authors = append(p.Authors, types.Author{
				Name: authorship.Author.DisplayName,
				ID:   authorship.Author.ID,
			})
		}
	}

	if work.PublicationDate != "" {
		if t, err := time.Parse("2006-01-02", work.PublicationDate); err == nil {
			p.PublicationDate = t
		}
	}

	for i, c := range work.Concepts {
		if i >= openAlexMaxConcepts {
			break
		}
		p.FieldsOfStudy = append(p.FieldsOfStudy, c.DisplayName)
	}

	ids := make(map[string]string)
	// OpenAlex reports DOIs as full https://doi.org/ URLs; store the bare DOI.
	if work.DOI != "" {
		ids["doi"] = strings.TrimPrefix(work.DOI, "https://doi.org/")
	}
	if p.ExternalID != "" {
		ids["openalex"] = p.ExternalID
	}
	if len(ids) > 0 {
		p.ExternalIDs = ids
	}

	return p
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to the list of positions
// where that word appears: collect all (word, position) pairs, sort
// ascending by position, join by whitespace.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationDate       string               `json:"publication_date"`
	PublicationYear       int                  `json:"publication_year"`
	CitedByCount          int                  `json:"cited_by_count"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	OpenAccess            openAlexOpenAccess   `json:"open_access"`
	PrimaryLocation       openAlexLocation     `json:"primary_location"`
	Concepts              []openAlexConcept    `json:"concepts"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexOpenAccess struct {
	IsOA     bool   `json:"is_oa"`
	OAStatus string `json:"oa_status"`
	OAURL    string `json:"oa_url"`
}

type openAlexLocation struct {
	Source openAlexSource `json:"source"`
}

type openAlexSource struct {
	DisplayName string `json:"display_name"`
}

type openAlexConcept struct {
	DisplayName string `json:"display_name"`
}
