// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-scout/internal/extract"
	"github.com/pdiddy/research-scout/pkg/types"
)

var conceptCmd = &cobra.Command{
	Use:   "concept [paper ids...]",
	Short: "Generate a speculative product concept from cached papers",
	Long: `Concept extracts facts from the given cached papers and asks the AI
backend to synthesize one speculative product concept grounded in those
findings. The concept is saved to the database and printed.

Concepts are speculative by construction: treat research gaps and risks
as the load-bearing part of the output.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConcept,
}

func runConcept(cmd *cobra.Command, args []string) error {
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

	ctx := context.Background()
	extractions, err := extract.Papers(ctx, backend, papers, domain, searchQuery, extract.Options{
		MaxRetries: cfg.Extraction.MaxRetries,
		OnProgress: progressPrinter("paper"),
	})
	if err != nil {
		return err
	}

	concept, err := extract.Concept(ctx, backend, papers, extractions, domain, searchQuery, cfg.Extraction.MaxRetries)
	if err != nil {
		return err
	}

	id, err := st.SaveProductConcept(ctx, concept, domain, searchQuery)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: saving concept: %v\n", err)
	} else {
		concept.ID = id
	}

	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
		if err := writeYAML(outPath, concept); err != nil {
			return err
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatConcept(concept, jsonOutput)
}

func formatConcept(c types.ProductConcept, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}

	fmt.Println(c.ProductName)
	fmt.Println(strings.Repeat("=", min(len(c.ProductName), 80)))
	fmt.Printf("\n%s\n", c.ProductDescription)
	fmt.Printf("\nTarget market:  %s\n", c.TargetMarket)
	fmt.Printf("Manufacturing:  %s\n", c.ManufacturingApproach)
	fmt.Printf("Complexity:     %s\n", c.EstimatedComplexity)
	printList("Materials", c.RequiredMaterials)
	printList("Applications", c.PotentialApplications)
	printList("Advantages", c.KeyAdvantages)
	printList("Risks", c.Risks)
	printList("Research gaps", c.ResearchGaps)
	fmt.Printf("\nBased on %d papers\n", len(c.SourceIDs))
	return nil
}

func init() {
	conceptCmd.Flags().String("domain", "", "technology domain: "+domainList())
	conceptCmd.Flags().String("query", "", "original search query, for relevance context")
	conceptCmd.Flags().Bool("json", false, "output the concept as JSON")
	conceptCmd.Flags().String("out", "", "also write the concept to a YAML file")
	_ = conceptCmd.MarkFlagRequired("domain")

	rootCmd.AddCommand(conceptCmd)
}
