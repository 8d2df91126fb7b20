// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the gazette-vacancies CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/gazette-vacancies/internal/blocks"
	"github.com/pdiddy/gazette-vacancies/internal/container"
	"github.com/pdiddy/gazette-vacancies/internal/gazette"
	"github.com/pdiddy/gazette-vacancies/internal/logging"
	"github.com/pdiddy/gazette-vacancies/internal/secrets"
	"github.com/pdiddy/gazette-vacancies/internal/vacancy"
	"github.com/pdiddy/gazette-vacancies/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// logger is configured from log.level and log.format before each command runs.
var logger = logging.Noop()

// rootCmd is the base command for the gazette-vacancies CLI.
var rootCmd = &cobra.Command{
	Use:   "gazette-vacancies",
	Short: "Extract job vacancy records from government gazette PDFs",
	Long: `gazette-vacancies reads gazette PDFs, reconstructs the vacancy notices
they contain, and writes them as JSON, CSV, or YAML.

Use extract for a single gazette, table for the fixed-location CSV run,
batch for many files, and index/query/export to keep a searchable
history of vacancies across issues.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(viper.GetString("log.level"))
		if err != nil {
			return err
		}
		l, err := logging.New(os.Stderr, viper.GetString("log.format"), level)
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if keys := s.Keys(); len(keys) > 0 {
			logger.Debug("loaded secrets", "keys", strings.Join(keys, ","))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults()

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./gazette-vacancies.yaml or ~/.config/gazette-vacancies/config.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, or error")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("backend", "auto", "block extraction backend: auto, pdftotext, container, or native")
	pf.String("contact-mode", "comma", "Position Contact layout: comma or newline")

	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("log.format", pf.Lookup("log-format"))
	viper.BindPFlag("source.backend", pf.Lookup("backend"))
	viper.BindPFlag("parser.contact_mode", pf.Lookup("contact-mode"))
}

func setDefaults() {
	viper.SetDefault("parser.contact_mode", string(types.ContactComma))
	viper.SetDefault("source.backend", string(types.BackendAuto))
	viper.SetDefault("source.image", blocks.DefaultImage)
	viper.SetDefault("output.format", string(types.FormatJSON))
	viper.SetDefault("output.dir", "output")
	viper.SetDefault("table.dir", ".")
	viper.SetDefault("table.document", "gazette.pdf")
	viper.SetDefault("table.output", "vacancies.csv")
	viper.SetDefault("index.dir", "index")
	viper.SetDefault("index.max_results", 20)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gazette-vacancies")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gazette-vacancies"))
		}
	}

	viper.SetEnvPrefix("GAZETTE_VACANCIES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the typed configuration from viper. S3 credentials
// fall back to the .secrets/ directory when not configured.
func loadConfig() types.Config {
	return types.Config{
		Parser: types.ParserConfig{
			ContactMode: types.ContactMode(viper.GetString("parser.contact_mode")),
		},
		Source: types.SourceConfig{
			Backend:       types.SourceBackend(viper.GetString("source.backend")),
			PdftotextPath: viper.GetString("source.pdftotext_path"),
			Image:         viper.GetString("source.image"),
		},
		Output: types.OutputConfig{
			Format: types.OutputFormat(viper.GetString("output.format")),
			Dir:    viper.GetString("output.dir"),
		},
		Table: types.TableConfig{
			Dir:      viper.GetString("table.dir"),
			Document: viper.GetString("table.document"),
			Output:   viper.GetString("table.output"),
		},
		Index: types.IndexConfig{
			Dir:        viper.GetString("index.dir"),
			MaxResults: viper.GetInt("index.max_results"),
		},
		S3: types.S3Config{
			Endpoint:        viper.GetString("s3.endpoint"),
			Region:          viper.GetString("s3.region"),
			AccessKeyID:     loadedSecrets.Or(secrets.S3AccessKeyID, viper.GetString("s3.access_key_id")),
			SecretAccessKey: loadedSecrets.Or(secrets.S3SecretAccessKey, viper.GetString("s3.secret_access_key")),
		},
		Log: types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		},
	}
}

// stringFlag returns the flag value when set on the command line, else the
// configured value at key.
func stringFlag(cmd *cobra.Command, name, key string) string {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return f.Value.String()
	}
	return viper.GetString(key)
}

// newExtractor wires the configured block source to a vacancy parser.
func newExtractor(cfg types.Config) (*gazette.Extractor, error) {
	parser, err := vacancy.New(cfg.Parser)
	if err != nil {
		return nil, err
	}
	src, err := blocks.NewSource(cfg.Source, container.OSExecutor{}, logger)
	if err != nil {
		return nil, err
	}
	return gazette.New(src, parser, logger), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
