// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"

	"github.com/pdiddy/research-scout/pkg/types"
)

// paperSystemTmpl frames the model as a domain analyst and forbids
// speculation. The fact-only constraint is what keeps extractions honest
// when abstracts are thin.
var paperSystemTmpl = template.Must(template.New("paperSystem").Parse(`You are an expert research analyst specializing in {{.DomainLabel}}.
Your job is to extract structured facts from academic paper abstracts.
Extract ONLY information stated in the abstract. Never invent, infer, or embellish.
Where the abstract does not report a field, use "Not reported" for strings and empty arrays for lists.
Respond with a single JSON object and no other text.`))

// paperUserTmpl carries the paper content and the response schema.
var paperUserTmpl = template.Must(template.New("paperUser").Parse(`Extract facts from this paper abstract. The user searched for: "{{.SearchQuery}}"

Title: {{.Title}}
Authors: {{.Authors}}
Year: {{.Year}}
Journal: {{.Journal}}
Abstract: {{.Abstract}}

Respond with a JSON object with exactly these fields:
{
  "objective": "what the research set out to do",
  "methodology": "how it was done, per the abstract",
  "materials": ["materials or substances studied"],
  "keyFindings": ["findings stated in the abstract"],
  "performance": {"metric name": "reported value"},
  "limitations": ["limitations the abstract mentions"],
  "novelty": "what the abstract claims is new",
  "relevance": "one sentence on how this paper relates to the search query"
}`))

// patentSystemTmpl is the patent counterpart of paperSystemTmpl.
var patentSystemTmpl = template.Must(template.New("patentSystem").Parse(`You are an expert patent analyst specializing in {{.DomainLabel}}.
Your job is to extract structured facts from patent abstracts.
Extract ONLY information stated in the abstract. Never invent, infer, or embellish.
Where the abstract does not report a field, use "Not reported" for strings and empty arrays for lists.
Respond with a single JSON object and no other text.`))

var patentUserTmpl = template.Must(template.New("patentUser").Parse(`Extract facts from this patent abstract. The user searched for: "{{.SearchQuery}}"

Title: {{.Title}}
Patent number: {{.PatentNumber}}
Assignee: {{.Assignee}}
Abstract: {{.Abstract}}

Respond with a JSON object with exactly these fields:
{
  "claimedInvention": "what the patent claims to have invented",
  "technicalField": "the technical field of the invention",
  "methodology": "how the invention works, per the abstract",
  "materials": ["materials or substances involved"],
  "keyAdvantages": ["advantages the abstract claims"],
  "limitations": ["limitations the abstract mentions"],
  "relevance": "one sentence on how this patent relates to the search query"
}`))

// conceptSystemTmpl frames concept generation. Unlike extraction, this is
// the one place the model is asked to speculate, and the output is labeled
// as such downstream.
var conceptSystemTmpl = template.Must(template.New("conceptSystem").Parse(`You are a product strategist specializing in {{.DomainLabel}}.
You turn research findings into speculative product concepts.
Ground every claim in the provided research summaries; flag anything uncertain as a research gap.
Respond with a single JSON object and no other text.`))

var conceptUserTmpl = template.Must(template.New("conceptUser").Parse(`Based on the following research summaries, propose ONE product concept. The user searched for: "{{.SearchQuery}}"

{{range .Summaries}}---
{{.}}
{{end}}---

Respond with a JSON object with exactly these fields:
{
  "productName": "short product name",
  "productDescription": "what the product is and does",
  "targetMarket": "who would buy it",
  "requiredMaterials": ["materials needed to build it"],
  "manufacturingApproach": "how it would be made",
  "estimatedComplexity": "low, medium, or high",
  "potentialApplications": ["applications beyond the core use"],
  "keyAdvantages": ["advantages over existing products"],
  "risks": ["technical or market risks"],
  "researchGaps": ["open questions the research does not answer"]
}`))

func renderPaperPrompts(paper types.Paper, domain types.Domain, searchQuery string) (system, user string, err error) {
	system, err = render(paperSystemTmpl, struct{ DomainLabel string }{DomainLabel: domain.Label()})
	if err != nil {
		return "", "", fmt.Errorf("rendering paper system prompt: %w", err)
	}

	authors := make([]string, 0, len(paper.Authors))
	for _, a := range paper.Authors {
		authors = append(authors, a.Name)
	}

	user, err = render(paperUserTmpl, struct {
		SearchQuery string
		Title       string
		Authors     string
		Year        int
		Journal     string
		Abstract    string
	}{
		SearchQuery: searchQuery,
		Title:       paper.Title,
		Authors:     strings.Join(authors, ", "),
		Year:        paper.Year,
		Journal:     paper.Journal,
		Abstract:    paper.Abstract,
	})
	if err != nil {
		return "", "", fmt.Errorf("rendering paper user prompt: %w", err)
	}
	return system, user, nil
}

func renderPatentPrompts(patent types.Patent, domain types.Domain, searchQuery string) (system, user string, err error) {
	system, err = render(patentSystemTmpl, struct{ DomainLabel string }{DomainLabel: domain.Label()})
	if err != nil {
		return "", "", fmt.Errorf("rendering patent system prompt: %w", err)
	}

	user, err = render(patentUserTmpl, struct {
		SearchQuery  string
		Title        string
		PatentNumber string
		Assignee     string
		Abstract     string
	}{
		SearchQuery:  searchQuery,
		Title:        patent.Title,
		PatentNumber: patent.PatentID,
		Assignee:     patent.AssigneeOrg,
		Abstract:     patent.Abstract,
	})
	if err != nil {
		return "", "", fmt.Errorf("rendering patent user prompt: %w", err)
	}
	return system, user, nil
}

func renderConceptPrompts(domain types.Domain, searchQuery string, summaries []string) (system, user string, err error) {
	system, err = render(conceptSystemTmpl, struct{ DomainLabel string }{DomainLabel: domain.Label()})
	if err != nil {
		return "", "", fmt.Errorf("rendering concept system prompt: %w", err)
	}

	user, err = render(conceptUserTmpl, struct {
		SearchQuery string
		Summaries   []string
	}{
		SearchQuery: searchQuery,
		Summaries:   summaries,
	})
	if err != nil {
		return "", "", fmt.Errorf("rendering concept user prompt: %w", err)
	}
	return system, user, nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeBackend implements AIBackend against the Claude Messages API.
type ClaudeBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete sends one system+user prompt pair and returns the concatenated
// text blocks of the response.
func (c *ClaudeBackend) Complete(ctx context.Context, system, user string) (string, error) {
	reqBody := claudeRequest{
		Model:     c.Model,
		MaxTokens: 4096,
		System:    system,
		Messages: []claudeMessage{
			{Role: "user", Content: user},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	var text strings.Builder
	for _, block := range cResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("no text content in Claude API response")
	}
	return text.String(), nil
}
