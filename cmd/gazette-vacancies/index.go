// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gazette-vacancies/internal/index"
	"github.com/pdiddy/gazette-vacancies/pkg/types"
)

// --- index subcommand ---

var indexCmd = &cobra.Command{
	Use:   "index <pdf...>",
	Short: "Add gazettes to the searchable vacancy index",
	Long: `Index extracts each gazette and stores its vacancies in a SQLite
database with full-text search, then writes export.yaml next to it.
Gazettes unchanged since the last run are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	ex, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	store, err := index.NewStore(indexConfig(cmd, cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Index(cmd.Context(), args, ex, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d gazette(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search indexed vacancies",
	Long: `Query searches the vacancy index by full text, by client,
classification, or document, or by a combination of these.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	store, err := index.NewStore(indexConfig(cmd, loadConfig()))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search text, --client, --classification, or --document")
	}

	results, err := store.Query(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(cmd.OutOrStdout(), results, jsonOutput)
}

func formatQueryOutput(w io.Writer, results []index.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		if results == nil {
			results = []index.QueryResult{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-10s  %-30s  %-30s  %-10s  %s\n",
		"Vacancy", "Client", "Job Title", "Class", "Document")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range results {
		v := r.Vacancy
		fmt.Fprintf(w, "%-10s  %-30s  %-30s  %-10s  %s\n",
			v.Value(types.FieldVacancy),
			truncate(v.Value(types.FieldClient), 30),
			truncate(v.Value(types.FieldJobTitle), 30),
			truncate(v.Value(types.FieldClassification), 10),
			r.Document)
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- export subcommand ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export indexed vacancies to YAML or JSON",
	Long: `Export writes the whole index (or the subset matching the query
filters) to export.yaml or export.json in the index directory.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := index.NewStore(indexConfig(cmd, loadConfig()))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func indexConfig(cmd *cobra.Command, cfg types.Config) types.IndexConfig {
	ic := cfg.Index
	ic.Dir = stringFlag(cmd, "index-dir", "index.dir")
	if n, _ := cmd.Flags().GetInt("max-results"); n > 0 {
		ic.MaxResults = n
	}
	return ic
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	var opts index.QueryOptions
	if len(args) > 0 {
		opts.Query = args[0]
	}
	opts.Client, _ = cmd.Flags().GetString("client")
	opts.Classification, _ = cmd.Flags().GetString("classification")
	opts.Document, _ = cmd.Flags().GetString("document")
	opts.MaxResults, _ = cmd.Flags().GetInt("max-results")
	return opts
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("client", "", "filter by client (substring)")
	cmd.Flags().String("classification", "", "filter by classification")
	cmd.Flags().String("document", "", "filter by document ID")
}

func init() {
	for _, c := range []*cobra.Command{indexCmd, queryCmd, exportCmd} {
		c.Flags().String("index-dir", "index", "directory holding the vacancy database")
	}

	addFilterFlags(queryCmd)
	queryCmd.Flags().Int("max-results", 0, "maximum results (default: index.max_results)")
	queryCmd.Flags().Bool("json", false, "print results as JSON")

	addFilterFlags(exportCmd)
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	rootCmd.AddCommand(indexCmd, queryCmd, exportCmd)
}
