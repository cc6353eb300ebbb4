package types

import "time"

// OutputFormat selects the conversion target.
type OutputFormat string

const (
	FormatMarkdown OutputFormat = "markdown"
	FormatText     OutputFormat = "text"
	// FormatBoth writes both a .md and a .txt file per note.
	FormatBoth OutputFormat = "both"
)

// Extension returns the output file extension for single-target formats.
func (f OutputFormat) Extension() string {
	if f == FormatText {
		return ".txt"
	}
	return ".md"
}

// Valid reports whether f is one of the supported formats.
func (f OutputFormat) Valid() bool {
	switch f {
	case FormatMarkdown, FormatText, FormatBoth:
		return true
	}
	return false
}

// FormatKind identifies the on-disk note encoding.
type FormatKind string

const (
	// FormatAuto lets the detector inspect the parsed object.
	FormatAuto FormatKind = ""
	// FormatLegacy is the pre-2022 encoding: raw text plus a compressed
	// operator string plus a numbered attribute pool.
	FormatLegacy FormatKind = "legacy"
	// FormatCanvas is the post-2022 encoding: a typed, nested node tree.
	FormatCanvas FormatKind = "canvas"
)

// ImagesConfig holds settings for image extraction and resolution.
type ImagesConfig struct {
	// DirName is the directory created beside the output file for
	// extracted image payloads (default "images").
	DirName string `json:"dir_name" yaml:"dir_name"`

	// Download controls whether external image URLs are fetched and
	// persisted locally. When false they pass through unchanged.
	Download bool `json:"download" yaml:"download"`

	// Timeout is the HTTP request timeout for downloads.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with download requests
	// (e.g. "boxmd/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ManifestConfig holds settings for the batch conversion manifest.
type ManifestConfig struct {
	// Enabled turns on manifest bookkeeping: batch runs skip notes whose
	// content hash has not changed since the recorded conversion.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// ConvertConfig groups the settings for a conversion run.
type ConvertConfig struct {
	// Format selects markdown, text, or both.
	Format OutputFormat `json:"format" yaml:"format"`

	// Force bypasses format detection: legacy or canvas.
	Force FormatKind `json:"force" yaml:"force"`

	// Frontmatter controls YAML frontmatter on Markdown output.
	Frontmatter bool `json:"frontmatter" yaml:"frontmatter"`

	// Verbose adds per-step detail lines to status output.
	Verbose bool `json:"verbose" yaml:"verbose"`

	Images   ImagesConfig   `json:"images" yaml:"images"`
	Manifest ManifestConfig `json:"manifest" yaml:"manifest"`
}
