// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gazette-vacancies/internal/blocks"
	"github.com/pdiddy/gazette-vacancies/internal/fetch"
	"github.com/pdiddy/gazette-vacancies/internal/output"
	"github.com/pdiddy/gazette-vacancies/internal/storage"
	"github.com/pdiddy/gazette-vacancies/internal/vacancy"
	"github.com/pdiddy/gazette-vacancies/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <pdf|url|s3://bucket/key>",
	Short: "Extract vacancies from one gazette",
	Long: `Extract reads a gazette PDF (a local path, an http(s) URL, or an
s3://bucket/key object), parses its vacancy notices, and prints them as
JSON on standard output.

Use --format for CSV or YAML and --out to write to a file or to
s3://bucket/key instead. When the gazette cannot be read, the error is
printed on standard output and the command still succeeds. A gazette
whose layout breaks the vacancy grammar fails the command.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	format, err := output.ParseFormat(stringFlag(cmd, "format", "output.format"))
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("out")

	ex, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	input := args[0]

	pdfPath, err := localInput(ctx, input, cfg.S3)
	if err != nil {
		return reportExtractError(w, input, err)
	}
	if pdfPath != input {
		defer os.Remove(pdfPath)
	}

	if out == "" {
		var buf bytes.Buffer
		if _, err := ex.ExtractTo(ctx, pdfPath, &buf, format); err != nil {
			return reportExtractError(w, input, err)
		}
		_, err := buf.WriteTo(w)
		return err
	}

	dest, err := storage.ParseDestination(out)
	if err != nil {
		return err
	}
	store, key, err := storage.Open(ctx, dest, cfg.S3)
	if err != nil {
		return err
	}
	res, err := ex.ExtractToStore(ctx, pdfPath, store, key, format)
	if err != nil {
		return reportExtractError(w, input, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d vacancies to %s\n", len(res.Vacancies), dest)
	return nil
}

// localInput returns a local path for input, downloading http(s) URLs and
// s3:// objects into temporary files first.
func localInput(ctx context.Context, input string, s3cfg types.S3Config) (string, error) {
	switch {
	case fetch.IsURL(input):
		return fetch.NewDownloader(logger).Download(ctx, input, "")
	case strings.HasPrefix(input, "s3://"):
		src, err := storage.ParseDestination(input)
		if err != nil {
			return "", err
		}
		store, key, err := storage.Open(ctx, src, s3cfg)
		if err != nil {
			return "", err
		}
		return storage.Fetch(ctx, store, key, "")
	default:
		return input, nil
	}
}

// reportExtractError handles an extraction failure. Unreadable input is
// printed in the CLI's plain-text form and swallowed; a gazette that was
// read but violates the vacancy layout is returned so the command fails.
func reportExtractError(w io.Writer, path string, err error) error {
	var perr *vacancy.ParseError
	switch {
	case errors.As(err, &perr):
		return err
	case errors.Is(err, blocks.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		fmt.Fprintf(w, "Error: File not found at %s\n", path)
	default:
		fmt.Fprintf(w, "An error occurred: %v\n", err)
	}
	return nil
}

func init() {
	extractCmd.Flags().String("format", "json", "output format: json, csv, or yaml")
	extractCmd.Flags().String("out", "", "write to a file or s3://bucket/key instead of stdout")

	rootCmd.AddCommand(extractCmd)
}
