// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries paper and patent APIs and reconciles their
// heterogeneous results into one deduplicated, persisted, ranked list.
package search

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/pdiddy/research-scout/pkg/types"
)

// PaperBackend searches a single paper API. Each backend (Semantic Scholar,
// OpenAlex) implements this interface per the Strategy pattern.
type PaperBackend interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]types.Paper, error)
}

// PatentBackend searches a patent API.
type PatentBackend interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]types.Patent, error)
}

// Gateway is the persistence surface the engine needs: idempotent upserts
// that assign canonical IDs, bulk analysis attachment, and the search log.
// Implemented by the store package.
type Gateway interface {
	UpsertPapers(ctx context.Context, papers []types.Paper, w io.Writer) []types.Paper
	UpsertPatents(ctx context.Context, patents []types.Patent, w io.Writer) []types.Patent
	AttachAnalyses(ctx context.Context, papers []types.Paper, domain types.Domain) ([]types.PaperWithAnalysis, error)
	LogSearch(ctx context.Context, query string, domain types.Domain, resultCount int) error
}

// sourcePriority fixes the trust order used when two sources report the
// same DOI: the higher-ranked source's record wins. Semantic Scholar
// records typically carry richer metadata than OpenAlex ones.
var sourcePriority = map[types.PaperSource]int{
	types.SourceSemanticScholar: 2,
	types.SourceOpenAlex:        1,
}

// Engine reconciles results across the configured backends. Backends and
// the gateway are injected once at construction; the engine itself holds
// no other state.
type Engine struct {
	paperBackends []PaperBackend
	patentBackend PatentBackend
	gateway       Gateway
	cfg           types.SearchConfig
}

// NewEngine builds a reconciliation engine over the given backends and
// persistence gateway.
func NewEngine(paperBackends []PaperBackend, patentBackend PatentBackend, gateway Gateway, cfg types.SearchConfig) *Engine {
	return &Engine{
		paperBackends: paperBackends,
		patentBackend: patentBackend,
		gateway:       gateway,
		cfg:           cfg,
	}
}

// SearchPapers runs the full paper reconciliation pipeline: enhance the
// query, fan out to all paper backends concurrently, merge and deduplicate,
// persist for canonical IDs, attach cached analyses, and rank by commercial
// score. A failing backend contributes zero items and a warning on w; only
// an empty query or invalid domain is an error.
func (e *Engine) SearchPapers(ctx context.Context, query string, domain types.Domain, w io.Writer) ([]types.PaperWithAnalysis, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty: provide a search phrase")
	}
	if _, err := types.ParseDomain(string(domain)); err != nil {
		return nil, err
	}

	enhanced := EnhanceQuery(query, domain)

	merged := e.fanOut(ctx, enhanced, w)
	deduped := deduplicatePapers(merged)

	cached := e.gateway.UpsertPapers(ctx, deduped, w)

	// Fire-and-forget: a failed log write never affects the result set.
	if err := e.gateway.LogSearch(ctx, query, domain, len(cached)); err != nil {
		fmt.Fprintf(w, "warning: search log write failed: %v\n", err)
	}

	results, err := e.gateway.AttachAnalyses(ctx, cached, domain)
	if err != nil {
		fmt.Fprintf(w, "warning: analysis lookup failed: %v\n", err)
		results = make([]types.PaperWithAnalysis, len(cached))
		for i, p := range cached {
			results[i] = types.PaperWithAnalysis{Paper: p}
		}
	}

	// Papers with analyses first, by commercial score; stable so the
	// dedup order survives among unscored papers.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score() > results[j].Score()
	})

	return results, nil
}

// SearchPatents runs the patent pipeline: enhance, query the single patent
// backend, persist, log. Patents are returned in gateway order without a
// ranking pass. A backend failure yields an empty result, not an error.
func (e *Engine) SearchPatents(ctx context.Context, query string, domain types.Domain, w io.Writer) ([]types.Patent, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty: provide a search phrase")
	}
	if _, err := types.ParseDomain(string(domain)); err != nil {
		return nil, err
	}

	enhanced := EnhanceQuery(query, domain)

	patents, err := e.patentBackend.Search(ctx, enhanced, e.cfg.PatentLimit)
	if err != nil {
		fmt.Fprintf(w, "warning: backend %s failed: %v\n", e.patentBackend.Name(), err)
		patents = nil
	}

	cached := e.gateway.UpsertPatents(ctx, patents, w)

	if err := e.gateway.LogSearch(ctx, query, domain, len(cached)); err != nil {
		fmt.Fprintf(w, "warning: search log write failed: %v\n", err)
	}

	return cached, nil
}

// fanOut queries all paper backends concurrently and concatenates their
// results in backend order after every backend has settled. Failures are
// reported on w and contribute nothing.
func (e *Engine) fanOut(ctx context.Context, query string, w io.Writer) []types.Paper {
	type backendResult struct {
		index  int
		papers []types.Paper
		err    error
		name   string
	}

	ch := make(chan backendResult, len(e.paperBackends))
	var wg sync.WaitGroup

	for i, b := range e.paperBackends {
		wg.Add(1)
		go func(i int, b PaperBackend) {
			defer wg.Done()
			papers, err := b.Search(ctx, query, e.limitFor(b.Name()))
			ch <- backendResult{index: i, papers: papers, err: err, name: b.Name()}
		}(i, b)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	// Join barrier: the merge starts only once the channel closes.
	byBackend := make([][]types.Paper, len(e.paperBackends))
	for br := range ch {
		if br.err != nil {
			fmt.Fprintf(w, "warning: backend %s failed: %v\n", br.name, br.err)
			continue
		}
		byBackend[br.index] = br.papers
	}

	var merged []types.Paper
	for _, papers := range byBackend {
		merged = append(merged, papers...)
	}
	return merged
}

// limitFor returns the configured per-request limit for a backend.
func (e *Engine) limitFor(name string) int {
	switch types.PaperSource(name) {
	case types.SourceSemanticScholar:
		if e.cfg.SemanticScholarLimit > 0 {
			return e.cfg.SemanticScholarLimit
		}
		return 15
	case types.SourceOpenAlex:
		if e.cfg.OpenAlexLimit > 0 {
			return e.cfg.OpenAlexLimit
		}
		return 10
	default:
		return 20
	}
}

// deduplicatePapers collapses papers that share a DOI, preferring the
// higher-trust source, and falls back to normalized-title matching for
// papers without one. Output order: DOI-keyed papers in first-seen order,
// then DOI-less papers in arrival order.
func deduplicatePapers(papers []types.Paper) []types.Paper {
	byDOI := make(map[string]types.Paper)
	var doiOrder []string
	var noDOI []types.Paper

	titleTaken := func(normTitle string) bool {
		for _, p := range byDOI {
			if p.NormalizedTitle() == normTitle {
				return true
			}
		}
		for _, p := range noDOI {
			if p.NormalizedTitle() == normTitle {
				return true
			}
		}
		return false
	}

	for _, paper := range papers {
		doi := paper.DOI()
		if doi != "" {
			existing, seen := byDOI[doi]
			if !seen {
				byDOI[doi] = paper
				doiOrder = append(doiOrder, doi)
				continue
			}
			// A later duplicate replaces the entry only when its
			// source outranks the current one.
			if sourcePriority[paper.Source] > sourcePriority[existing.Source] {
				byDOI[doi] = paper
			}
			continue
		}

		if !titleTaken(paper.NormalizedTitle()) {
			noDOI = append(noDOI, paper)
		}
	}

	deduped := make([]types.Paper, 0, len(doiOrder)+len(noDOI))
	for _, doi := range doiOrder {
		deduped = append(deduped, byDOI[doi])
	}
	deduped = append(deduped, noDOI...)
	return deduped
}
