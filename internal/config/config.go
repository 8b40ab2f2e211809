// Package config loads and validates the docreflect configuration file.
//
// Configuration is YAML with environment variable expansion: ${VAR} in the
// file body is replaced from the process environment before parsing, and a
// .env file next to the working directory is loaded first when present.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	// Title is the site title shown on every page.
	Title string `yaml:"title"`

	// Inputs are the reflection snapshot files to load. More than one input
	// merges the packages under a synthetic root.
	Inputs []string `yaml:"inputs,omitempty"`

	Output      OutputConfig     `yaml:"output"`
	Theme       string           `yaml:"theme,omitempty"`
	Router      string           `yaml:"router,omitempty"`
	BaseURL     string           `yaml:"base_url,omitempty"`
	HostedBase  string           `yaml:"hosted_base_url,omitempty"`
	Navigation  NavigationConfig `yaml:"navigation,omitempty"`
	Validation  ValidationConfig `yaml:"validation,omitempty"`
	Search      SearchConfig     `yaml:"search,omitempty"`
	SourceLinks SourceLinkConfig `yaml:"source_links,omitempty"`
	Journal     JournalConfig    `yaml:"journal,omitempty"`
	Reporting   ReportingConfig  `yaml:"reporting,omitempty"`
	Metrics     MetricsConfig    `yaml:"metrics,omitempty"`
	Preview     PreviewConfig    `yaml:"preview,omitempty"`
	Logging     LoggingConfig    `yaml:"logging,omitempty"`
}

// OutputConfig controls where rendered pages land.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"`
}

// NavigationConfig controls the shape of the sidebar tree.
type NavigationConfig struct {
	IncludeCategories bool `yaml:"include_categories"`
	IncludeGroups     bool `yaml:"include_groups"`
	IncludeFolders    bool `yaml:"include_folders"`
}

// ValidationConfig controls link checking before render.
type ValidationConfig struct {
	// Links enables broken link detection. On by default.
	Links *bool `yaml:"links,omitempty"`

	// Strict fails the run when broken links are found instead of warning.
	Strict bool `yaml:"strict"`
}

// LinksEnabled reports whether link validation should run.
func (v ValidationConfig) LinksEnabled() bool {
	return v.Links == nil || *v.Links
}

// SearchConfig controls the client-side search index.
type SearchConfig struct {
	Enabled     *bool         `yaml:"enabled,omitempty"`
	InComments  bool          `yaml:"in_comments"`
	InDocuments bool          `yaml:"in_documents"`
	Weights     SearchWeights `yaml:"weights,omitempty"`
}

// IndexEnabled reports whether the search index should be built.
func (s SearchConfig) IndexEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// SearchWeights are the per-field boost factors baked into the index.
type SearchWeights struct {
	Name     float64 `yaml:"name"`
	Comment  float64 `yaml:"comment"`
	Document float64 `yaml:"document"`
}

// SourceLinkConfig controls "defined in" links on declaration pages.
type SourceLinkConfig struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Remote   string `yaml:"remote,omitempty"`
	Revision string `yaml:"revision,omitempty"`
}

// LinksEnabled reports whether source links should be resolved.
func (s SourceLinkConfig) LinksEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// JournalConfig controls the local event journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// ReportingConfig controls publishing broken link reports to NATS. Reporting
// is off unless a URL is configured.
type ReportingConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
	Bucket  string `yaml:"bucket,omitempty"`
}

// Enabled reports whether a reporting target is configured.
func (r ReportingConfig) Enabled() bool { return r.NATSURL != "" }

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen,omitempty"`
}

// PreviewConfig controls watch mode and its HTTP server.
type PreviewConfig struct {
	Listen     string `yaml:"listen,omitempty"`
	DebounceMS int    `yaml:"debounce_ms,omitempty"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// Load reads, expands and validates the configuration at path.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes config bytes, expands environment references, applies
// defaults and validates.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// loadEnvFiles loads .env then .env.local. Existing process environment wins;
// a missing file is not an error.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		_ = godotenv.Load(name)
	}
}

// Init writes an example configuration to path. The example must load back
// cleanly, so optional integrations that need endpoints stay out of it.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	example := Default()
	example.Title = "My API Documentation"
	example.Inputs = []string{"./docs.json"}

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
