// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gazette-vacancies/internal/storage"
	"github.com/pdiddy/gazette-vacancies/pkg/types"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Write the fixed gazette's vacancies to a CSV table",
	Long: `Table takes no arguments. It reads table.document from table.dir
(default ./gazette.pdf) and writes every vacancy as a CSV row to
table.output in the same directory (default vacancies.csv).`,
	Args: cobra.NoArgs,
	RunE: runTable,
}

func runTable(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	doc := filepath.Join(cfg.Table.Dir, cfg.Table.Document)
	out := filepath.Join(cfg.Table.Dir, cfg.Table.Output)

	ex, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	res, err := ex.ExtractToStore(cmd.Context(), doc, storage.NewLocalAdapter(""), out, types.FormatCSV)
	if err != nil {
		return reportExtractError(w, doc, err)
	}
	fmt.Fprintf(w, "Wrote %d vacancies to %s\n", len(res.Vacancies), out)
	return nil
}

func init() {
	rootCmd.AddCommand(tableCmd)
}
