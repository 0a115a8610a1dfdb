// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "testing"

func TestPaperDOI(t *testing.T) {
	tests := []struct {
		name string
		ids  map[string]string
		want string
	}{
		{"lowercase key", map[string]string{"doi": "10.1/abc"}, "10.1/abc"},
		{"uppercase key", map[string]string{"DOI": "10.1/abc"}, "10.1/abc"},
		{"lowercase wins over uppercase", map[string]string{"doi": "10.1/low", "DOI": "10.1/up"}, "10.1/low"},
		{"no doi entry", map[string]string{"arxiv": "2304.0001"}, ""},
		{"nil map", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paper{ExternalIDs: tt.ids}
			if got := p.DOI(); got != tt.want {
				t.Errorf("DOI() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPaperNormalizedTitle(t *testing.T) {
	p := Paper{Title: "  Solid-State Batteries \n"}
	if got := p.NormalizedTitle(); got != "solid-state batteries" {
		t.Errorf("NormalizedTitle() = %q", got)
	}
}

func TestPaperWithAnalysisScore(t *testing.T) {
	unanalyzed := PaperWithAnalysis{}
	if got := unanalyzed.Score(); got != 0 {
		t.Errorf("Score() without analysis = %v, want 0", got)
	}
	scored := PaperWithAnalysis{Analysis: &PaperAnalysis{CommercialScore: 8.5}}
	if got := scored.Score(); got != 8.5 {
		t.Errorf("Score() = %v, want 8.5", got)
	}
}
