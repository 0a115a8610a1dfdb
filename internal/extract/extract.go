// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns paper and patent abstracts into structured,
// fact-only extractions via an AI backend, and derives speculative product
// concepts from them. Extraction batches are strictly sequential with
// per-item failure isolation: one bad item becomes a failed placeholder,
// never an aborted batch.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pdiddy/research-scout/pkg/types"
)

// AIBackend abstracts the text-generation API so tests can supply a mock.
// Complete sends one system+user prompt pair and returns the raw response
// text, which is expected to contain a JSON object.
type AIBackend interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Progress reports batch progress after each item settles. A nil Progress
// is allowed. Items are processed one at a time in input order, so done
// increases monotonically from 1 to total.
type Progress func(done, total int, title string)

// Options tunes a batch extraction run.
type Options struct {
	// MaxRetries is the per-item retry count for AI calls (default 3).
	MaxRetries int

	// OnProgress, when set, is invoked after each item settles.
	OnProgress Progress
}

func (o Options) report(done, total int, title string) {
	if o.OnProgress != nil {
		o.OnProgress(done, total, title)
	}
}

// Papers extracts facts from each paper's abstract in input order. The
// result always has one extraction per paper: items without an abstract
// short-circuit to a fixed "not available" extraction with no AI call, and
// AI failures or unparseable responses yield a placeholder marked failed.
// The only batch-level error is context cancellation between items.
func Papers(ctx context.Context, backend AIBackend, papers []types.Paper, domain types.Domain, searchQuery string, opts Options) ([]types.PaperExtraction, error) {
	extractions := make([]types.PaperExtraction, 0, len(papers))

	for i, paper := range papers {
		if err := ctx.Err(); err != nil {
			return extractions, err
		}

		extractions = append(extractions, extractPaper(ctx, backend, paper, domain, searchQuery, opts.MaxRetries))
		opts.report(i+1, len(papers), paper.Title)
	}
	return extractions, nil
}

// Patents is the patent counterpart of Papers.
func Patents(ctx context.Context, backend AIBackend, patents []types.Patent, domain types.Domain, searchQuery string, opts Options) ([]types.PatentExtraction, error) {
	extractions := make([]types.PatentExtraction, 0, len(patents))

	for i, patent := range patents {
		if err := ctx.Err(); err != nil {
			return extractions, err
		}

		extractions = append(extractions, extractPatent(ctx, backend, patent, domain, searchQuery, opts.MaxRetries))
		opts.report(i+1, len(patents), patent.Title)
	}
	return extractions, nil
}

func extractPaper(ctx context.Context, backend AIBackend, paper types.Paper, domain types.Domain, searchQuery string, maxRetries int) types.PaperExtraction {
	if paper.Abstract == "" {
		return noAbstractPaperExtraction(paper)
	}

	system, user, err := renderPaperPrompts(paper, domain, searchQuery)
	if err != nil {
		return failedPaperExtraction(paper)
	}

	raw, err := callWithRetry(ctx, backend, system, user, maxRetries)
	if err != nil {
		return failedPaperExtraction(paper)
	}

	var payload paperPayload
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &payload); err != nil {
		return failedPaperExtraction(paper)
	}

	return types.PaperExtraction{
		PaperID:     itemID(paper.ID, paper.ExternalID),
		PaperTitle:  paper.Title,
		Objective:   orDefault(payload.Objective, "Not reported"),
		Methodology: orDefault(payload.Methodology, "Not reported"),
		Materials:   payload.Materials,
		KeyFindings: payload.KeyFindings,
		Performance: payload.Performance,
		Limitations: payload.Limitations,
		Novelty:     orDefault(payload.Novelty, "Not reported"),
		Relevance:   payload.Relevance,
	}
}

func extractPatent(ctx context.Context, backend AIBackend, patent types.Patent, domain types.Domain, searchQuery string, maxRetries int) types.PatentExtraction {
	legalStatus := patent.LegalStatus(time.Now())

	if patent.Abstract == "" {
		return noAbstractPatentExtraction(patent, legalStatus)
	}

	system, user, err := renderPatentPrompts(patent, domain, searchQuery)
	if err != nil {
		return failedPatentExtraction(patent, legalStatus)
	}

	raw, err := callWithRetry(ctx, backend, system, user, maxRetries)
	if err != nil {
		return failedPatentExtraction(patent, legalStatus)
	}

	var payload patentPayload
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &payload); err != nil {
		return failedPatentExtraction(patent, legalStatus)
	}

	return types.PatentExtraction{
		PatentID:         itemID(patent.ID, patent.PatentID),
		PatentTitle:      patent.Title,
		ClaimedInvention: orDefault(payload.ClaimedInvention, "Not reported"),
		TechnicalField:   orDefault(payload.TechnicalField, "Not reported"),
		Methodology:      orDefault(payload.Methodology, "Not reported"),
		Materials:        payload.Materials,
		KeyAdvantages:    payload.KeyAdvantages,
		Limitations:      payload.Limitations,
		LegalStatus:      legalStatus,
		CommercialOwner:  orDefault(patent.AssigneeOrg, "Unknown"),
		Relevance:        payload.Relevance,
	}
}

// noAbstractPaperExtraction is the fixed extraction for papers whose
// abstract is unavailable. Synthesized locally; the AI backend is not
// consulted.
func noAbstractPaperExtraction(paper types.Paper) types.PaperExtraction {
	return types.PaperExtraction{
		PaperID:     itemID(paper.ID, paper.ExternalID),
		PaperTitle:  paper.Title,
		Objective:   "No abstract available for this paper.",
		Methodology: "Not reported in abstract",
		Materials:   []string{},
		KeyFindings: []string{"Abstract not available; cannot extract findings."},
		Performance: map[string]string{},
		Limitations: []string{"Full text not available for analysis."},
		Novelty:     "Cannot determine from available data.",
		Relevance:   "Paper matched search query but abstract is unavailable.",
	}
}

// failedPaperExtraction is the placeholder for a paper whose extraction
// errored. Failed marks it so callers can report it and skip caching.
func failedPaperExtraction(paper types.Paper) types.PaperExtraction {
	return types.PaperExtraction{
		PaperID:     itemID(paper.ID, paper.ExternalID),
		PaperTitle:  paper.Title,
		Objective:   "Extraction failed for this paper.",
		Methodology: "N/A",
		Materials:   []string{},
		KeyFindings: []string{"AI extraction encountered an error."},
		Performance: map[string]string{},
		Limitations: []string{"Could not process this paper."},
		Novelty:     "N/A",
		Relevance:   "N/A",
		Failed:      true,
	}
}

func noAbstractPatentExtraction(patent types.Patent, legalStatus string) types.PatentExtraction {
	return types.PatentExtraction{
		PatentID:         itemID(patent.ID, patent.PatentID),
		PatentTitle:      patent.Title,
		ClaimedInvention: "No abstract available for this patent.",
		TechnicalField:   "Not reported",
		Methodology:      "Not reported",
		Materials:        []string{},
		KeyAdvantages:    []string{},
		Limitations:      []string{"Full text not available for analysis."},
		LegalStatus:      legalStatus,
		CommercialOwner:  orDefault(patent.AssigneeOrg, "Unknown"),
		Relevance:        "Patent matched search query but abstract is unavailable.",
	}
}

func failedPatentExtraction(patent types.Patent, legalStatus string) types.PatentExtraction {
	return types.PatentExtraction{
		PatentID:         itemID(patent.ID, patent.PatentID),
		PatentTitle:      patent.Title,
		ClaimedInvention: "Extraction failed for this patent.",
		TechnicalField:   "N/A",
		Methodology:      "N/A",
		Materials:        []string{},
		KeyAdvantages:    []string{},
		Limitations:      []string{"Could not process this patent."},
		LegalStatus:      legalStatus,
		CommercialOwner:  orDefault(patent.AssigneeOrg, "Unknown"),
		Relevance:        "N/A",
		Failed:           true,
	}
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry calls the AI backend with exponential backoff.
func callWithRetry(ctx context.Context, backend AIBackend, system, user string, maxRetries int) (string, error) {
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := backend.Complete(ctx, system, user)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// stripJSONFences removes Markdown code fences that models wrap JSON in.
func stripJSONFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// itemID prefers the canonical ID, falling back to the provider one for
// items that were never persisted.
func itemID(canonical, external string) string {
	if canonical != "" {
		return canonical
	}
	return external
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// paperPayload is the JSON shape the paper extraction prompt requests.
type paperPayload struct {
	Objective   string            `json:"objective"`
	Methodology string            `json:"methodology"`
	Materials   []string          `json:"materials"`
	KeyFindings []string          `json:"keyFindings"`
	Performance map[string]string `json:"performance"`
	Limitations []string          `json:"limitations"`
	Novelty     string            `json:"novelty"`
	Relevance   string            `json:"relevance"`
}

// patentPayload is the JSON shape the patent extraction prompt requests.
type patentPayload struct {
	ClaimedInvention string   `json:"claimedInvention"`
	TechnicalField   string   `json:"technicalField"`
	Methodology      string   `json:"methodology"`
	Materials        []string `json:"materials"`
	KeyAdvantages    []string `json:"keyAdvantages"`
	Limitations      []string `json:"limitations"`
	Relevance        string   `json:"relevance"`
}
