// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/research-scout/pkg/types"
)

func TestClaudeBackendComplete(t *testing.T) {
	var gotBody claudeRequest
	var gotHeaders http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"content":[{"type":"text","text":"{\"ok\":"},{"type":"text","text":"true}"}]}`)
	}))
	defer ts.Close()

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = old }()

	b := &ClaudeBackend{APIKey: "sk-test", Model: "test-model", Client: ts.Client()}
	got, err := b.Complete(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if got != `{"ok":true}` {
		t.Errorf("response = %q, want concatenated text blocks", got)
	}
	if gotHeaders.Get("x-api-key") != "sk-test" {
		t.Errorf("x-api-key = %q", gotHeaders.Get("x-api-key"))
	}
	if gotHeaders.Get("anthropic-version") == "" {
		t.Error("anthropic-version header missing")
	}
	if gotBody.Model != "test-model" {
		t.Errorf("model = %q", gotBody.Model)
	}
	if gotBody.System != "system prompt" {
		t.Errorf("system = %q, want top-level system field", gotBody.System)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Role != "user" || gotBody.Messages[0].Content != "user prompt" {
		t.Errorf("messages = %+v, want single user message", gotBody.Messages)
	}
}

func TestClaudeBackendErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"non-200 status", http.StatusBadRequest, `{"error":"bad request"}`, "returned 400"},
		{"empty content", http.StatusOK, `{"content":[]}`, "no text content"},
		{"non-text blocks only", http.StatusOK, `{"content":[{"type":"tool_use","text":""}]}`, "no text content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			old := claudeAPIURL
			claudeAPIURL = ts.URL
			defer func() { claudeAPIURL = old }()

			b := &ClaudeBackend{APIKey: "sk-test", Model: "m", Client: ts.Client()}
			_, err := b.Complete(context.Background(), "s", "u")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestRenderPaperPromptsCarryContext(t *testing.T) {
	paper := types.Paper{
		Title:    "Solid Electrolytes",
		Abstract: "We study solids.",
		Year:     2024,
		Journal:  "Nature Energy",
		Authors:  []types.Author{{Name: "R. Chen"}, {Name: "T. Okafor"}},
	}

	system, user, err := renderPaperPrompts(paper, types.DomainEnergyStorage, "solid state battery")
	if err != nil {
		t.Fatalf("renderPaperPrompts: %v", err)
	}
	if !strings.Contains(system, "Energy Storage & Batteries") {
		t.Errorf("system prompt missing domain label: %q", system)
	}
	for _, want := range []string{"Solid Electrolytes", "We study solids.", "R. Chen, T. Okafor", "solid state battery"} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}

func TestRenderPatentPromptsCarryContext(t *testing.T) {
	patent := types.Patent{
		Title:       "Coated Electrode",
		PatentID:    "111",
		Abstract:    "A coating.",
		AssigneeOrg: "VoltCell Inc.",
	}

	system, user, err := renderPatentPrompts(patent, types.DomainAdvancedMaterials, "coatings")
	if err != nil {
		t.Fatalf("renderPatentPrompts: %v", err)
	}
	if !strings.Contains(system, "Advanced Materials & Nanotechnology") {
		t.Errorf("system prompt missing domain label: %q", system)
	}
	for _, want := range []string{"Coated Electrode", "111", "VoltCell Inc.", "coatings"} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}
