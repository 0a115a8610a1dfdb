// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/research-scout/pkg/types"
)

func TestSemanticSearchRequestParams(t *testing.T) {
	var capturedReq *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total":0,"offset":0,"data":[]}`)
	}))
	defer ts.Close()

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = old }()

	b := &SemanticScholarBackend{Client: ts.Client(), UserAgent: "research-scout/test"}
	_, err := b.Search(context.Background(), "solid state battery", 15)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	q := capturedReq.URL.Query()
	if got := q.Get("query"); got != "solid state battery" {
		t.Errorf("query param = %q, want %q", got, "solid state battery")
	}
	if got := q.Get("limit"); got != "15" {
		t.Errorf("limit param = %q, want %q", got, "15")
	}
	fields := q.Get("fields")
	for _, f := range []string{"title", "abstract", "authors", "externalIds", "year", "publicationDate", "citationCount"} {
		if !strings.Contains(fields, f) {
			t.Errorf("fields param %q missing %q", fields, f)
		}
	}
	if got := capturedReq.Header.Get("User-Agent"); got != "research-scout/test" {
		t.Errorf("User-Agent = %q, want research-scout/test", got)
	}
}

func TestSemanticSearchAPIKeyHeader(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		wantKey string
	}{
		{"with API key", "test-key-123", "test-key-123"},
		{"without API key", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedReq *http.Request
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedReq = r
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{"total":0,"offset":0,"data":[]}`)
			}))
			defer ts.Close()

			old := semanticAPIBase
			semanticAPIBase = ts.URL
			defer func() { semanticAPIBase = old }()

			b := &SemanticScholarBackend{Client: ts.Client(), APIKey: tt.apiKey}
			if _, err := b.Search(context.Background(), "battery", 5); err != nil {
				t.Fatalf("Search: %v", err)
			}
			if got := capturedReq.Header.Get("x-api-key"); got != tt.wantKey {
				t.Errorf("x-api-key header = %q, want %q", got, tt.wantKey)
			}
		})
	}
}

func TestSemanticSearchNormalizesAndDropsAbstractless(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"total": 2, "offset": 0,
			"data": [
				{
					"paperId": "abc123",
					"title": "Solid Electrolytes for Batteries",
					"abstract": "We study solid electrolytes.",
					"year": 2023,
					"citationCount": 42,
					"publicationDate": "2023-04-15",
					"journal": {"name": "Nature Energy"},
					"fieldsOfStudy": ["Materials Science"],
					"openAccessPdf": {"url": "https://example.org/paper.pdf"},
					"authors": [{"authorId": "a1", "name": "R. Chen"}],
					"externalIds": {"DOI": "10.1/solid", "ArXiv": "2304.0001", "CorpusId": 5551234}
				},
				{
					"paperId": "def456",
					"title": "No Abstract Here",
					"abstract": "",
					"year": 2022
				}
			]
		}`)
	}))
	defer ts.Close()

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = old }()

	b := &SemanticScholarBackend{Client: ts.Client()}
	papers, err := b.Search(context.Background(), "battery", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(papers) != 1 {
		t.Fatalf("got %d papers, want 1 (abstract-less paper dropped)", len(papers))
	}
	p := papers[0]
	if p.ExternalID != "abc123" {
		t.Errorf("ExternalID = %q, want abc123", p.ExternalID)
	}
	if p.Source != types.SourceSemanticScholar {
		t.Errorf("Source = %q, want semantic_scholar", p.Source)
	}
	if p.Journal != "Nature Energy" {
		t.Errorf("Journal = %q, want Nature Energy", p.Journal)
	}
	if p.PublicationDate.IsZero() {
		t.Error("PublicationDate not parsed")
	}
	if got := p.DOI(); got != "10.1/solid" {
		t.Errorf("DOI = %q, want 10.1/solid", got)
	}
	if got := p.ExternalIDs["arxiv"]; got != "2304.0001" {
		t.Errorf("arxiv id = %q, want 2304.0001", got)
	}
	// Non-string identifiers (CorpusId) are filtered out.
	if _, ok := p.ExternalIDs["CorpusId"]; ok {
		t.Error("CorpusId should be dropped from ExternalIDs")
	}
	if len(p.Authors) != 1 || p.Authors[0].Name != "R. Chen" {
		t.Errorf("Authors = %+v, want one author R. Chen", p.Authors)
	}
}

func TestSemanticSearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = old }()

	b := &SemanticScholarBackend{Client: ts.Client()}
	_, err := b.Search(context.Background(), "battery", 5)
	if err == nil {
		t.Fatal("expected error for HTTP 500")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error %q should mention the status code", err)
	}
}

func TestSemanticSearchEmptyQuery(t *testing.T) {
	b := &SemanticScholarBackend{Client: http.DefaultClient}
	if _, err := b.Search(context.Background(), "", 5); err == nil {
		t.Fatal("expected error for empty query")
	}
}
