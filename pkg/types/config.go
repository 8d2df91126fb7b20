// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ContactMode selects how the "Position Contact" block is split into a
// contact name and a phone number. The gazette template changed between
// editions, so both layouts are supported.
type ContactMode string

const (
	// ContactComma splits "Name, 02 1234 5678" on the first comma.
	ContactComma ContactMode = "comma"

	// ContactNewline splits stacked lines: "Name\nTitle\nNumber".
	ContactNewline ContactMode = "newline"
)

// ParserConfig holds settings for the vacancy parser.
type ParserConfig struct {
	// ContactMode selects the contact-field grammar (default "comma").
	ContactMode ContactMode `json:"contact_mode" yaml:"contact_mode"`
}

// SourceBackend identifies the block extraction backend.
type SourceBackend string

const (
	BackendAuto      SourceBackend = "auto"
	BackendPdftotext SourceBackend = "pdftotext"
	BackendContainer SourceBackend = "container"
	BackendNative    SourceBackend = "native"
)

// SourceConfig holds settings for block extraction.
type SourceConfig struct {
	// Backend selects the extractor: auto, pdftotext, container, or native.
	Backend SourceBackend `json:"backend" yaml:"backend"`

	// PdftotextPath overrides the pdftotext binary (default: looked up on PATH).
	PdftotextPath string `json:"pdftotext_path,omitempty" yaml:"pdftotext_path,omitempty"`

	// Image is the container image that provides pdftotext
	// (default "minidocks/poppler:latest").
	Image string `json:"image" yaml:"image"`
}

// OutputFormat selects the record encoding.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
	FormatYAML OutputFormat = "yaml"
)

// OutputConfig holds settings for record output.
type OutputConfig struct {
	// Format selects json, csv, or yaml (default json).
	Format OutputFormat `json:"format" yaml:"format"`

	// Dir is the output directory for batch runs (default "output").
	Dir string `json:"dir" yaml:"dir"`
}

// TableConfig holds the fixed locations used by the argument-less table
// command.
type TableConfig struct {
	// Dir is the working directory holding the gazette (default ".").
	Dir string `json:"dir" yaml:"dir"`

	// Document is the gazette file name inside Dir (default "gazette.pdf").
	Document string `json:"document" yaml:"document"`

	// Output is the CSV file name written inside Dir (default "vacancies.csv").
	Output string `json:"output" yaml:"output"`
}

// IndexConfig holds settings for the vacancy index.
type IndexConfig struct {
	// Dir contains the SQLite database and export files (default "index").
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// S3Config holds settings for S3-compatible object storage.
type S3Config struct {
	Endpoint        string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id,omitempty" yaml:"access_key_id,omitempty"`
	SecretAccessKey string `json:"secret_access_key,omitempty" yaml:"secret_access_key,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is debug, info, warn, or error (default info).
	Level string `json:"level" yaml:"level"`

	// Format is text or json (default text).
	Format string `json:"format" yaml:"format"`
}

// Config groups all settings for the CLI.
type Config struct {
	Parser ParserConfig `json:"parser" yaml:"parser"`
	Source SourceConfig `json:"source" yaml:"source"`
	Output OutputConfig `json:"output" yaml:"output"`
	Table  TableConfig  `json:"table" yaml:"table"`
	Index  IndexConfig  `json:"index" yaml:"index"`
	S3     S3Config     `json:"s3" yaml:"s3"`
	Log    LogConfig    `json:"log" yaml:"log"`
}
