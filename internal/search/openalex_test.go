// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pdiddy/research-scout/pkg/types"
)

func TestReconstructAbstract(t *testing.T) {
	tests := []struct {
		name  string
		index map[string][]int
		want  string
	}{
		{
			"simple sentence",
			map[string][]int{"We": {0}, "study": {1}, "batteries": {2}},
			"We study batteries",
		},
		{
			"repeated word",
			map[string][]int{"the": {0, 3}, "cat": {1}, "sat": {2}, "mat": {4}},
			"the cat sat the mat",
		},
		{
			"empty index",
			map[string][]int{},
			"",
		},
		{
			"nil index",
			nil,
			"",
		},
		{
			"single word",
			map[string][]int{"Battery": {0}},
			"Battery",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconstructAbstract(tt.index)
			if got != tt.want {
				t.Errorf("reconstructAbstract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenAlexSearchRequestParams(t *testing.T) {
	var capturedReq *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"meta":{"count":0},"results":[]}`)
	}))
	defer ts.Close()

	old := openAlexSearchBase
	openAlexSearchBase = ts.URL
	defer func() { openAlexSearchBase = old }()

	b := &OpenAlexBackend{
		Client:       ts.Client(),
		Email:        "lab@example.org",
		RecencyYears: 5,
		now:          func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) },
	}
	if _, err := b.Search(context.Background(), "graphene electrode", 10); err != nil {
		t.Fatalf("Search: %v", err)
	}

	q := capturedReq.URL.Query()
	if got := q.Get("search"); got != "graphene electrode" {
		t.Errorf("search param = %q, want %q", got, "graphene electrode")
	}
	if got := q.Get("filter"); got != "publication_year:2020-2025,is_oa:true" {
		t.Errorf("filter param = %q, want pinned five-year open-access window", got)
	}
	if got := q.Get("sort"); got != "cited_by_count:desc" {
		t.Errorf("sort param = %q, want cited_by_count:desc", got)
	}
	if got := q.Get("per_page"); got != "10" {
		t.Errorf("per_page param = %q, want 10", got)
	}
	if got := q.Get("mailto"); got != "lab@example.org" {
		t.Errorf("mailto param = %q, want lab@example.org", got)
	}
}

func TestOpenAlexSearchNormalizesWorks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"meta": {"count": 2},
			"results": [
				{
					"id": "https://openalex.org/W123",
					"title": "Printable Batteries",
					"doi": "https://doi.org/10.1/print",
					"publication_year": 2024,
					"publication_date": "2024-02-01",
					"cited_by_count": 17,
					"abstract_inverted_index": {"Printed": [0], "cells": [1], "work": [2]},
					"authorships": [
						{"author": {"id": "https://openalex.org/A9", "display_name": "T. Okafor"}}
					],
					"open_access": {"oa_url": "https://example.org/oa.pdf"},
					"primary_location": {"source": {"display_name": "Joule"}},
					"concepts": [
						{"display_name": "Materials science"},
						{"display_name": "Electrode"},
						{"display_name": "Chemistry"},
						{"display_name": "Physics"},
						{"display_name": "Engineering"},
						{"display_name": "Overflow concept"}
					]
				},
				{
					"id": "https://openalex.org/W456",
					"title": "No Abstract Work",
					"publication_year": 2023
				}
			]
		}`)
	}))
	defer ts.Close()

	old := openAlexSearchBase
	openAlexSearchBase = ts.URL
	defer func() { openAlexSearchBase = old }()

	b := &OpenAlexBackend{Client: ts.Client()}
	papers, err := b.Search(context.Background(), "battery", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(papers) != 1 {
		t.Fatalf("got %d papers, want 1 (work without abstract dropped)", len(papers))
	}
	p := papers[0]
	if p.ExternalID != "W123" {
		t.Errorf("ExternalID = %q, want W123 (URL prefix stripped)", p.ExternalID)
	}
	if p.Source != types.SourceOpenAlex {
		t.Errorf("Source = %q, want openalex", p.Source)
	}
	if p.Abstract != "Printed cells work" {
		t.Errorf("Abstract = %q, want reconstructed text", p.Abstract)
	}
	if got := p.DOI(); got != "10.1/print" {
		t.Errorf("DOI = %q, want bare DOI without URL prefix", got)
	}
	if p.Journal != "Joule" {
		t.Errorf("Journal = %q, want Joule", p.Journal)
	}
	if len(p.FieldsOfStudy) != openAlexMaxConcepts {
		t.Errorf("FieldsOfStudy has %d entries, want capped at %d", len(p.FieldsOfStudy), openAlexMaxConcepts)
	}
	if len(p.Authors) != 1 || p.Authors[0].Name != "T. Okafor" {
		t.Errorf("Authors = %+v, want one author T. Okafor", p.Authors)
	}
}

func TestOpenAlexUntitledFallback(t *testing.T) {
	work := openAlexWork{
		ID:                    "https://openalex.org/W1",
		AbstractInvertedIndex: map[string][]int{"text": {0}},
	}
	p := normalizeOpenAlexWork(work)
	if p.Title != "Untitled" {
		t.Errorf("Title = %q, want Untitled fallback", p.Title)
	}
}

func TestOpenAlexSearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	old := openAlexSearchBase
	openAlexSearchBase = ts.URL
	defer func() { openAlexSearchBase = old }()

	b := &OpenAlexBackend{Client: ts.Client()}
	if _, err := b.Search(context.Background(), "battery", 10); err == nil {
		t.Fatal("expected error for HTTP 403")
	}
}
