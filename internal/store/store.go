// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store is the cache/persistence gateway for search results and
// extraction output. It owns canonical-ID assignment: every paper and
// patent gets a stable internal ID on first sighting, keyed by the
// provider natural key (external_id / patent_id), and re-searching the
// same item always yields the same ID.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-scout/pkg/types"
)

// ErrUnconfigured is returned by Open when no database path is set.
// Callers check it at startup instead of failing lazily mid-search.
var ErrUnconfigured = errors.New("store not configured: set a database path")

// tempIDPrefix marks synthetic identifiers handed out when an insert
// fails. Items carrying one still appear in search results but are
// excluded from analysis attachment and extraction caching.
const tempIDPrefix = "temp-"

// IsTemporaryID reports whether id is a synthetic identifier assigned
// after a failed insert rather than a canonical one.
func IsTemporaryID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// Store manages the SQLite database behind the gateway.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at cfg.Path and ensures the
// schema exists. An empty path returns ErrUnconfigured.
func Open(cfg types.StoreConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, ErrUnconfigured
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			external_id TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			title TEXT NOT NULL,
			abstract TEXT,
			authors TEXT,
			year INTEGER,
			citation_count INTEGER,
			publication_date TEXT,
			journal TEXT,
			fields_of_study TEXT,
			pdf_url TEXT,
			external_ids TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS patents (
			id TEXT PRIMARY KEY,
			patent_id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			abstract TEXT,
			grant_date TEXT,
			filing_date TEXT,
			expiration_date TEXT,
			patent_type TEXT,
			inventors TEXT,
			assignee_org TEXT,
			times_cited INTEGER,
			claims_cited INTEGER,
			cpc_codes TEXT,
			wipo_field TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS paper_analyses (
			id TEXT PRIMARY KEY,
			paper_id TEXT NOT NULL REFERENCES papers(id),
			domain TEXT NOT NULL,
			commercial_score REAL NOT NULL DEFAULT 0,
			summary TEXT,
			commercial_potential TEXT,
			key_innovation TEXT,
			materials_mentioned TEXT,
			processes_mentioned TEXT,
			estimated_complexity TEXT,
			target_industries TEXT,
			limitations TEXT,
			raw_analysis TEXT,
			UNIQUE(paper_id, domain)
		)`,
		`CREATE TABLE IF NOT EXISTS patent_extractions (
			id TEXT PRIMARY KEY,
			patent_id TEXT NOT NULL REFERENCES patents(id),
			domain TEXT NOT NULL,
			raw_extraction TEXT NOT NULL,
			UNIQUE(patent_id, domain)
		)`,
		`CREATE TABLE IF NOT EXISTS searches (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			domain TEXT NOT NULL,
			results_count INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS product_concepts (
			id TEXT PRIMARY KEY,
			domain TEXT NOT NULL,
			query TEXT,
			source_ids TEXT NOT NULL,
			concept TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_paper_analyses_domain ON paper_analyses(domain)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// UpsertPapers persists each paper in sequence and fills in its canonical
// ID. Already-seen papers (by external_id) reuse their existing ID; new
// papers get a fresh one. A storage failure on one paper assigns it a
// temporary ID and warns on w; the batch never fails.
func (s *Store) UpsertPapers(ctx context.Context, papers []types.Paper, w io.Writer) []types.Paper {
	out := make([]types.Paper, len(papers))
	for i, paper := range papers {
		id, err := s.upsertPaper(ctx, paper)
		if err != nil {
			fmt.Fprintf(w, "warning: caching paper %q failed: %v\n", paper.Title, err)
			id = tempIDPrefix + paper.ExternalID
		}
		paper.ID = id
		out[i] = paper
	}
	return out
}

// upsertPaper looks up the canonical ID for the paper's natural key,
// inserting a new row when none exists. The UNIQUE constraint plus
// ON CONFLICT DO NOTHING makes concurrent identical searches converge on
// one row: whoever loses the insert race re-reads the winner's ID.
func (s *Store) upsertPaper(ctx context.Context, paper types.Paper) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM papers WHERE external_id = ?`, paper.ExternalID,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("looking up paper: %w", err)
	}

	authorsJSON, _ := json.Marshal(paper.Authors)
	fieldsJSON, _ := json.Marshal(paper.FieldsOfStudy)
	idsJSON, _ := json.Marshal(paper.ExternalIDs)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO papers (id, external_id, source, title, abstract, authors, year,
			citation_count, publication_date, journal, fields_of_study, pdf_url, external_ids)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(external_id) DO NOTHING`,
		uuid.NewString(), paper.ExternalID, string(paper.Source), paper.Title, paper.Abstract,
		string(authorsJSON), paper.Year, paper.CitationCount, formatDate(paper.PublicationDate),
		paper.Journal, string(fieldsJSON), paper.PDFURL, string(idsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("inserting paper: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM papers WHERE external_id = ?`, paper.ExternalID,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("reading back paper ID: %w", err)
	}
	return id, nil
}

// UpsertPatents is the patent counterpart of UpsertPapers, keyed on the
// provider patent number.
func (s *Store) UpsertPatents(ctx context.Context, patents []types.Patent, w io.Writer) []types.Patent {
	out := make([]types.Patent, len(patents))
	for i, patent := range patents {
		id, err := s.upsertPatent(ctx, patent)
		if err != nil {
			fmt.Fprintf(w, "warning: caching patent %s failed: %v\n", patent.PatentID, err)
			id = tempIDPrefix + patent.PatentID
		}
		patent.ID = id
		out[i] = patent
	}
	return out
}

func (s *Store) upsertPatent(ctx context.Context, patent types.Patent) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM patents WHERE patent_id = ?`, patent.PatentID,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("looking up patent: %w", err)
	}

	inventorsJSON, _ := json.Marshal(patent.Inventors)
	cpcJSON, _ := json.Marshal(patent.CPCCodes)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO patents (id, patent_id, title, abstract, grant_date, filing_date,
			expiration_date, patent_type, inventors, assignee_org, times_cited,
			claims_cited, cpc_codes, wipo_field)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(patent_id) DO NOTHING`,
		uuid.NewString(), patent.PatentID, patent.Title, patent.Abstract,
		formatDate(patent.GrantDate), formatDate(patent.FilingDate),
		formatDate(patent.ExpirationDate), patent.PatentType, string(inventorsJSON),
		patent.AssigneeOrg, patent.TimesCited, patent.ClaimsCited, string(cpcJSON),
		patent.WIPOField,
	)
	if err != nil {
		return "", fmt.Errorf("inserting patent: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM patents WHERE patent_id = ?`, patent.PatentID,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("reading back patent ID: %w", err)
	}
	return id, nil
}

// LogSearch appends a row to the search log. Callers treat failures as
// non-fatal: the log is an audit trail, not part of the result.
func (s *Store) LogSearch(ctx context.Context, query string, domain types.Domain, resultCount int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (query, domain, results_count, created_at) VALUES (?, ?, ?, ?)`,
		query, string(domain), resultCount, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("logging search: %w", err)
	}
	return nil
}

// formatDate renders a date for storage, empty for the zero time.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// parseDate is the inverse of formatDate.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
