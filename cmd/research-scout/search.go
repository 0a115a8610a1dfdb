// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-scout/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search academic sources for papers on a topic",
	Long: `Search queries Semantic Scholar and OpenAlex concurrently for papers
matching a research topic, deduplicates the results across sources, caches
them in the local database, and prints them ranked by cached analysis
score. Papers without an analysis rank last, in arrival order.

The query is enhanced with domain vocabulary before being sent to the
sources, so a bare topic like "new coating" still lands in the right
literature.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	domain, err := parseDomainFlag(cmd)
	if err != nil {
		return err
	}

	cfg := pipelineConfig()
	st, err := openStore(cmd, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	engine := newEngine(cfg.Search, st)
	results, err := engine.SearchPapers(context.Background(), query, domain, os.Stderr)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatPaperResults(results, jsonOutput)
}

func formatPaperResults(results []types.PaperWithAnalysis, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No papers found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-60s  %-6s  %-6s  %-16s  %s\n",
		"Rank", "Title", "Year", "Cites", "Source", "Score")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, r := range results {
		title := r.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		score := "-"
		if r.Analysis != nil {
			score = fmt.Sprintf("%.1f", r.Score())
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-60s  %-6d  %-6d  %-16s  %s\n",
			i+1, title, r.Year, r.CitationCount, r.Source, score)
	}

	fmt.Fprintf(os.Stdout, "\n%d papers\n", len(results))
	return nil
}

func init() {
	searchCmd.Flags().String("domain", "", "technology domain: "+domainList())
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	_ = searchCmd.MarkFlagRequired("domain")

	rootCmd.AddCommand(searchCmd)
}

func domainList() string {
	names := make([]string, 0, len(types.Domains))
	for _, d := range types.Domains {
		names = append(names, string(d))
	}
	return strings.Join(names, ", ")
}
