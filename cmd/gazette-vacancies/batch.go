// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gazette-vacancies/internal/output"
	"github.com/pdiddy/gazette-vacancies/internal/storage"
)

var batchCmd = &cobra.Command{
	Use:   "batch <pdf...>",
	Short: "Extract vacancies from many gazettes",
	Long: `Batch extracts each gazette into <output-dir>/<name>.<format>.
Gazettes whose output already exists are skipped unless --force is given.
The output directory may be s3://bucket/prefix.

A per-file status line and a summary are printed. The command fails if
any gazette failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	format, err := output.ParseFormat(stringFlag(cmd, "format", "output.format"))
	if err != nil {
		return err
	}
	outDir := stringFlag(cmd, "output-dir", "output.dir")
	force, _ := cmd.Flags().GetBool("force")

	ex, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	dir, err := storage.ParsePrefix(outDir)
	if err != nil {
		return err
	}
	store, prefix, err := storage.Open(ctx, dir, cfg.S3)
	if err != nil {
		return err
	}

	result, err := ex.ExtractBatch(ctx, args, store, prefix, format, force, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d gazette(s) failed extraction", result.Failed)
	}
	return nil
}

func init() {
	batchCmd.Flags().String("format", "json", "output format: json, csv, or yaml")
	batchCmd.Flags().String("output-dir", "output", "output directory or s3://bucket/prefix")
	batchCmd.Flags().Bool("force", false, "overwrite existing outputs")

	rootCmd.AddCommand(batchCmd)
}
