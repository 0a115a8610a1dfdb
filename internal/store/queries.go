// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/research-scout/pkg/types"
)

// AttachAnalyses pairs each paper with its cached analysis for the domain,
// fetched in one bulk read over the set of canonical IDs. Papers without
// an analysis (and papers carrying temporary IDs) get a nil Analysis.
func (s *Store) AttachAnalyses(ctx context.Context, papers []types.Paper, domain types.Domain) ([]types.PaperWithAnalysis, error) {
	out := make([]types.PaperWithAnalysis, len(papers))
	for i, p := range papers {
		out[i] = types.PaperWithAnalysis{Paper: p}
	}

	var ids []any
	for _, p := range papers {
		if p.ID != "" && !IsTemporaryID(p.ID) {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return out, nil
	}

	query := fmt.Sprintf(
		`SELECT id, paper_id, commercial_score, summary, commercial_potential,
			key_innovation, materials_mentioned, processes_mentioned,
			estimated_complexity, target_industries, limitations
		 FROM paper_analyses
		 WHERE domain = ? AND paper_id IN (%s)`,
		placeholders(len(ids)))

	args := append([]any{string(domain)}, ids...)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading analyses: %w", err)
	}
	defer rows.Close()

	byPaper := make(map[string]*types.PaperAnalysis)
	for rows.Next() {
		var a types.PaperAnalysis
		var materials, processes, industries string
		err := rows.Scan(&a.ID, &a.PaperID, &a.CommercialScore, &a.Summary,
			&a.CommercialPotential, &a.KeyInnovation, &materials, &processes,
			&a.EstimatedComplexity, &industries, &a.Limitations)
		if err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		a.Domain = domain
		if err := decodeColumn("materials_mentioned", materials, &a.MaterialsMentioned); err != nil {
			return nil, err
		}
		if err := decodeColumn("processes_mentioned", processes, &a.ProcessesMentioned); err != nil {
			return nil, err
		}
		if err := decodeColumn("target_industries", industries, &a.TargetIndustries); err != nil {
			return nil, err
		}
		byPaper[a.PaperID] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analyses: %w", err)
	}

	for i := range out {
		out[i].Analysis = byPaper[out[i].ID]
	}
	return out, nil
}

// PapersByIDs fetches papers by canonical ID for extraction. An empty
// result is an explicit error: the caller asked for specific rows and
// there is nothing to extract from.
func (s *Store) PapersByIDs(ctx context.Context, ids []string) ([]types.Paper, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no paper IDs provided")
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(
		`SELECT id, external_id, source, title, abstract, authors, year,
			citation_count, publication_date, journal, fields_of_study, pdf_url, external_ids
		 FROM papers WHERE id IN (%s)`,
		placeholders(len(ids)))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading papers: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]types.Paper)
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating papers: %w", err)
	}
	if len(byID) == 0 {
		return nil, fmt.Errorf("no papers found for the given IDs")
	}

	// Preserve the caller's order; IDs with no row are skipped.
	var papers []types.Paper
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			papers = append(papers, p)
		}
	}
	return papers, nil
}

// PatentsByIDs fetches patents by canonical ID for extraction.
func (s *Store) PatentsByIDs(ctx context.Context, ids []string) ([]types.Patent, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no patent IDs provided")
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(
		`SELECT id, patent_id, title, abstract, grant_date, filing_date, expiration_date,
			patent_type, inventors, assignee_org, times_cited, claims_cited, cpc_codes, wipo_field
		 FROM patents WHERE id IN (%s)`,
		placeholders(len(ids)))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading patents: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]types.Patent)
	for rows.Next() {
		var p types.Patent
		var grantDate, filingDate, expirationDate string
		var inventors, cpcCodes string
		err := rows.Scan(&p.ID, &p.PatentID, &p.Title, &p.Abstract, &grantDate,
			&filingDate, &expirationDate, &p.PatentType, &inventors, &p.AssigneeOrg,
			&p.TimesCited, &p.ClaimsCited, &cpcCodes, &p.WIPOField)
		if err != nil {
			return nil, fmt.Errorf("scanning patent: %w", err)
		}
		p.GrantDate = parseDate(grantDate)
		p.FilingDate = parseDate(filingDate)
		p.ExpirationDate = parseDate(expirationDate)
		if err := decodeColumn("inventors", inventors, &p.Inventors); err != nil {
			return nil, err
		}
		if err := decodeColumn("cpc_codes", cpcCodes, &p.CPCCodes); err != nil {
			return nil, err
		}
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating patents: %w", err)
	}
	if len(byID) == 0 {
		return nil, fmt.Errorf("no patents found for the given IDs")
	}

	var patents []types.Patent
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			patents = append(patents, p)
		}
	}
	return patents, nil
}

// SavePaperExtraction caches a paper extraction keyed by (paper, domain).
// Re-extraction overwrites the row. Extractions for temporary IDs and
// failed placeholders are silently skipped; there is no stable identity
// or useful content to cache.
func (s *Store) SavePaperExtraction(ctx context.Context, ext types.PaperExtraction, domain types.Domain) error {
	if ext.Failed || IsTemporaryID(ext.PaperID) {
		return nil
	}

	rawJSON, err := json.Marshal(ext)
	if err != nil {
		return fmt.Errorf("marshaling extraction: %w", err)
	}
	materialsJSON, _ := json.Marshal(ext.Materials)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO paper_analyses (id, paper_id, domain, commercial_score, summary,
			commercial_potential, key_innovation, materials_mentioned, processes_mentioned,
			estimated_complexity, target_industries, limitations, raw_analysis)
		 VALUES (?, ?, ?, 0, ?, '', ?, ?, '[]', ?, '[]', ?, ?)
		 ON CONFLICT(paper_id, domain) DO UPDATE SET
			summary=excluded.summary, key_innovation=excluded.key_innovation,
			materials_mentioned=excluded.materials_mentioned,
			limitations=excluded.limitations, raw_analysis=excluded.raw_analysis`,
		uuid.NewString(), ext.PaperID, string(domain), ext.Objective, ext.Novelty,
		string(materialsJSON), string(types.ComplexityMedium),
		strings.Join(ext.Limitations, "; "), string(rawJSON),
	)
	if err != nil {
		return fmt.Errorf("caching paper extraction: %w", err)
	}
	return nil
}

// SavePatentExtraction caches a patent extraction keyed by (patent, domain),
// overwriting any previous row. Temporary-ID and failed extractions are
// skipped.
func (s *Store) SavePatentExtraction(ctx context.Context, ext types.PatentExtraction, domain types.Domain) error {
	if ext.Failed || IsTemporaryID(ext.PatentID) {
		return nil
	}

	rawJSON, err := json.Marshal(ext)
	if err != nil {
		return fmt.Errorf("marshaling extraction: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO patent_extractions (id, patent_id, domain, raw_extraction)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(patent_id, domain) DO UPDATE SET raw_extraction=excluded.raw_extraction`,
		uuid.NewString(), ext.PatentID, string(domain), string(rawJSON),
	)
	if err != nil {
		return fmt.Errorf("caching patent extraction: %w", err)
	}
	return nil
}

// SaveProductConcept appends a product concept. Concepts are never
// deduplicated: each generation request produces a new row.
func (s *Store) SaveProductConcept(ctx context.Context, concept types.ProductConcept, domain types.Domain, query string) (string, error) {
	id := uuid.NewString()
	conceptJSON, err := json.Marshal(concept)
	if err != nil {
		return "", fmt.Errorf("marshaling concept: %w", err)
	}
	sourceIDsJSON, _ := json.Marshal(concept.SourceIDs)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO product_concepts (id, domain, query, source_ids, concept, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(domain), query, string(sourceIDsJSON), string(conceptJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("saving product concept: %w", err)
	}
	return id, nil
}

// scanPaper reads one papers row.
func scanPaper(rows *sql.Rows) (types.Paper, error) {
	var p types.Paper
	var source, pubDate string
	var authors, fields, externalIDs string
	err := rows.Scan(&p.ID, &p.ExternalID, &source, &p.Title, &p.Abstract,
		&authors, &p.Year, &p.CitationCount, &pubDate, &p.Journal,
		&fields, &p.PDFURL, &externalIDs)
	if err != nil {
		return types.Paper{}, fmt.Errorf("scanning paper: %w", err)
	}
	p.Source = types.PaperSource(source)
	p.PublicationDate = parseDate(pubDate)
	if err := decodeColumn("authors", authors, &p.Authors); err != nil {
		return types.Paper{}, err
	}
	if err := decodeColumn("fields_of_study", fields, &p.FieldsOfStudy); err != nil {
		return types.Paper{}, err
	}
	if err := decodeColumn("external_ids", externalIDs, &p.ExternalIDs); err != nil {
		return types.Paper{}, err
	}
	return p, nil
}

// decodeColumn decodes a stored JSON column, naming the column on error.
func decodeColumn(column, data string, v any) error {
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("decoding stored %s: %w", column, err)
	}
	return nil
}

// placeholders returns "?, ?, ..." with n placeholders for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
