// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-scout/pkg/types"
)

var patentsCmd = &cobra.Command{
	Use:   "patents [query]",
	Short: "Search PatentsView for patents on a topic",
	Long: `Patents queries the PatentsView API for granted US patents whose
abstracts match a research topic, caches them in the local database, and
prints them most-cited first with their derived legal status.

PatentsView requires an API key (.secrets/patentsview-api-key); without
one the search returns no results.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPatents,
}

func runPatents(cmd *cobra.Command, args []string) error {
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
	results, err := engine.SearchPatents(context.Background(), query, domain, os.Stderr)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatPatentResults(results, jsonOutput)
}

func formatPatentResults(results []types.Patent, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No patents found.")
		return nil
	}

	now := time.Now()
	fmt.Fprintf(os.Stdout, "%-4s  %-12s  %-50s  %-30s  %-6s  %s\n",
		"Rank", "Patent", "Title", "Assignee", "Cites", "Status")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 120))

	for i, p := range results {
		title := p.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		assignee := p.AssigneeOrg
		if len(assignee) > 30 {
			assignee = assignee[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-12s  %-50s  %-30s  %-6d  %s\n",
			i+1, p.PatentID, title, assignee, p.TimesCited, p.LegalStatus(now))
	}

	fmt.Fprintf(os.Stdout, "\n%d patents\n", len(results))
	return nil
}

func init() {
	patentsCmd.Flags().String("domain", "", "technology domain: "+domainList())
	patentsCmd.Flags().Bool("json", false, "output results as JSON")
	_ = patentsCmd.MarkFlagRequired("domain")

	rootCmd.AddCommand(patentsCmd)
}
