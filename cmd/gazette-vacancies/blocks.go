// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gazette-vacancies/internal/blocks"
	"github.com/pdiddy/gazette-vacancies/internal/container"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks <pdf>",
	Short: "Print the text blocks read from a gazette",
	Long: `Blocks prints the ordered block sequence the parser sees, one block
per entry with its page and position. Use it to check how a gazette's
layout was segmented when a vacancy is missing or misparsed.`,
	Args: cobra.ExactArgs(1),
	RunE: runBlocks,
}

func runBlocks(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	src, err := blocks.NewSource(cfg.Source, container.OSExecutor{}, logger)
	if err != nil {
		return err
	}

	bs, err := src.Blocks(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(bs)
	}

	for _, b := range bs {
		fmt.Fprintf(w, "[%d] page %d (%.1f, %.1f)\n", b.Index, b.Page, b.X0, b.Y0)
		for _, line := range strings.Split(b.Text, "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
	fmt.Fprintf(w, "\n%d blocks (%s)\n", len(bs), src.Name())
	return nil
}

func init() {
	blocksCmd.Flags().Bool("json", false, "print blocks as JSON")

	rootCmd.AddCommand(blocksCmd)
}
