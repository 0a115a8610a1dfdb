// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-scout/internal/extract"
	"github.com/pdiddy/research-scout/internal/secrets"
	"github.com/pdiddy/research-scout/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract structured facts from cached papers and patents",
	Long: `Extract runs AI fact extraction over previously searched papers or
patents. Items are processed one at a time; a failure on one item is
reported and does not stop the rest. Successful extractions are cached
in the database keyed by item and domain.`,
}

var extractPapersCmd = &cobra.Command{
	Use:   "papers [ids...]",
	Short: "Extract facts from cached papers by ID",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExtractPapers,
}

func runExtractPapers(cmd *cobra.Command, args []string) error {
	domain, err := parseDomainFlag(cmd)
	if err != nil {
		return err
	}
	searchQuery, _ := cmd.Flags().GetString("query")

	cfg := pipelineConfig()
	st, err := openStore(cmd, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	papers, err := st.PapersByIDs(context.Background(), args)
	if err != nil {
		return err
	}

	backend, err := aiBackend(cfg.Extraction.AIConfig)
	if err != nil {
		return err
	}

	extractions, err := extract.Papers(context.Background(), backend, papers, domain, searchQuery, extract.Options{
		MaxRetries: cfg.Extraction.MaxRetries,
		OnProgress: progressPrinter("paper"),
	})
	if err != nil {
		return err
	}

	failed := 0
	for _, ext := range extractions {
		if ext.Failed {
			failed++
			continue
		}
		if err := st.SavePaperExtraction(context.Background(), ext, domain); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: caching extraction for %s: %v\n", ext.PaperID, err)
		}
	}

	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
		if err := writeYAML(outPath, extractions); err != nil {
			return err
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if err := formatExtractions(extractions, jsonOutput); err != nil {
		return err
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d extractions failed\n", failed, len(extractions))
	}
	return nil
}

var extractPatentsCmd = &cobra.Command{
	Use:   "patents [ids...]",
	Short: "Extract facts from cached patents by ID",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExtractPatents,
}

func runExtractPatents(cmd *cobra.Command, args []string) error {
	domain, err := parseDomainFlag(cmd)
	if err != nil {
		return err
	}
	searchQuery, _ := cmd.Flags().GetString("query")

	cfg := pipelineConfig()
	st, err := openStore(cmd, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	patents, err := st.PatentsByIDs(context.Background(), args)
	if err != nil {
		return err
	}

	backend, err := aiBackend(cfg.Extraction.AIConfig)
	if err != nil {
		return err
	}

	extractions, err := extract.Patents(context.Background(), backend, patents, domain, searchQuery, extract.Options{
		MaxRetries: cfg.Extraction.MaxRetries,
		OnProgress: progressPrinter("patent"),
	})
	if err != nil {
		return err
	}

	failed := 0
	for _, ext := range extractions {
		if ext.Failed {
			failed++
			continue
		}
		if err := st.SavePatentExtraction(context.Background(), ext, domain); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: caching extraction for %s: %v\n", ext.PatentID, err)
		}
	}

	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
		if err := writeYAML(outPath, extractions); err != nil {
			return err
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if err := formatExtractions(extractions, jsonOutput); err != nil {
		return err
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d extractions failed\n", failed, len(extractions))
	}
	return nil
}

// writeYAML marshals v to a YAML file.
func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// aiBackend builds the Claude backend from config, requiring an API key.
func aiBackend(cfg types.AIConfig) (extract.AIBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no AI API key: add %s%s or set extraction.api_key", secrets.Dir, secrets.KeyAnthropicAPI)
	}
	return &extract.ClaudeBackend{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
		Client: http.DefaultClient,
	}, nil
}

func progressPrinter(kind string) extract.Progress {
	return func(done, total int, title string) {
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Fprintf(os.Stderr, "[%d/%d] %s: %s\n", done, total, kind, title)
	}
}

func formatExtractions(v any, jsonOutput bool) error {
	enc := json.NewEncoder(os.Stdout)
	if jsonOutput {
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	switch items := v.(type) {
	case []types.PaperExtraction:
		for _, e := range items {
			printExtractionHeader(e.PaperTitle, e.Failed)
			fmt.Printf("  Objective:   %s\n", e.Objective)
			fmt.Printf("  Methodology: %s\n", e.Methodology)
			printList("  Findings", e.KeyFindings)
			fmt.Printf("  Novelty:     %s\n", e.Novelty)
			fmt.Println()
		}
	case []types.PatentExtraction:
		for _, e := range items {
			printExtractionHeader(e.PatentTitle, e.Failed)
			fmt.Printf("  Invention:   %s\n", e.ClaimedInvention)
			fmt.Printf("  Field:       %s\n", e.TechnicalField)
			printList("  Advantages", e.KeyAdvantages)
			fmt.Printf("  Status:      %s (%s)\n", e.LegalStatus, e.CommercialOwner)
			fmt.Println()
		}
	default:
		return enc.Encode(v)
	}
	return nil
}

func printExtractionHeader(title string, failed bool) {
	marker := ""
	if failed {
		marker = " [FAILED]"
	}
	fmt.Printf("%s%s\n", title, marker)
	fmt.Println(strings.Repeat("-", min(len(title)+len(marker), 80)))
}

func printList(label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s:\n", label)
	for _, item := range items {
		fmt.Printf("    - %s\n", item)
	}
}

func init() {
	for _, c := range []*cobra.Command{extractPapersCmd, extractPatentsCmd} {
		c.Flags().String("domain", "", "technology domain: "+domainList())
		c.Flags().String("query", "", "original search query, for relevance context")
		c.Flags().Bool("json", false, "output extractions as JSON")
		c.Flags().String("out", "", "also write extractions to a YAML file")
		_ = c.MarkFlagRequired("domain")
	}

	extractCmd.AddCommand(extractPapersCmd)
	extractCmd.AddCommand(extractPatentsCmd)
	rootCmd.AddCommand(extractCmd)
}
