// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/research-scout/internal/httputil"
	"github.com/pdiddy/research-scout/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "paperId,title,abstract,year,authors,citationCount," +
	"publicationDate,journal,fieldsOfStudy,openAccessPdf,externalIds"

// SemanticScholarBackend queries the Semantic Scholar Graph API.
type SemanticScholarBackend struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// Name returns the backend identifier.
func (b *SemanticScholarBackend) Name() string { return string(types.SourceSemanticScholar) }

// Search queries the Semantic Scholar API and returns normalized papers.
// Papers without an abstract are dropped here: they carry nothing the
// extraction stage can work with.
func (b *SemanticScholarBackend) Search(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	if query == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}
	if limit <= 0 {
		limit = 15
	}

	params := url.Values{
		"query":  {query},
		"limit":  {fmt.Sprintf("%d", limit)},
		"fields": {semanticFields},
	}
	reqURL := semanticAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.UserAgent)
	if b.APIKey != "" {
		req.Header.Set("x-api-key", b.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	var papers []types.Paper
	for _, raw := range sr.Data {
		if raw.Abstract == "" {
			continue
		}
		papers = append(papers, normalizeSemanticPaper(raw))
	}
	return papers, nil
}

// normalizeSemanticPaper converts one raw Semantic Scholar record into the
// canonical Paper shape. Shape drift from the provider lands here, not
// downstream.
func normalizeSemanticPaper(raw semanticPaper) types.Paper {
	p := types.Paper{
		ExternalID:    raw.PaperID,
		Source:        types.SourceSemanticScholar,
		Title:         raw.Title,
		Abstract:      raw.Abstract,
		Year:          raw.Year,
		CitationCount: raw.CitationCount,
		Journal:       raw.Journal.Name,
		FieldsOfStudy: raw.FieldsOfStudy,
		PDFURL:        raw.OpenAccessPDF.URL,
	}

	for _, a := range raw.Authors {
		p.Authors = append(p.Authors, types.Author{Name: a.Name, ID: a.AuthorID})
	}

	if raw.PublicationDate != "" {
		if t, err := time.Parse("2006-01-02", raw.PublicationDate); err == nil {
			p.PublicationDate = t
		}
	}

	// externalIds values can be non-strings (CorpusId is a number); keep
	// only string identifiers and lowercase the common scheme names.
	if len(raw.ExternalIDs) > 0 {
		p.ExternalIDs = make(map[string]string)
		for scheme, value := range raw.ExternalIDs {
			s, ok := value.(string)
			if !ok || s == "" {
				continue
			}
			switch scheme {
			case "DOI":
				p.ExternalIDs["doi"] = s
			case "ArXiv":
				p.ExternalIDs["arxiv"] = s
			default:
				p.ExternalIDs[scheme] = s
			}
		}
	}

	return p
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID         string           `json:"paperId"`
	Title           string           `json:"title"`
	Abstract        string           `json:"abstract"`
	Year            int              `json:"year"`
	CitationCount   int              `json:"citationCount"`
	PublicationDate string           `json:"publicationDate"`
	Journal         semanticJournal  `json:"journal"`
	FieldsOfStudy   []string         `json:"fieldsOfStudy"`
	OpenAccessPDF   semanticPDF      `json:"openAccessPdf"`
	Authors         []semanticAuthor `json:"authors"`
	ExternalIDs     map[string]any   `json:"externalIds"`
}

type semanticJournal struct {
	Name string `json:"name"`
}

type semanticPDF struct {
	URL string `json:"url"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}
