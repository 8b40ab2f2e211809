package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for contradictions the defaults cannot
// repair. It runs after applyDefaults, so every field holds its final value.
func (c *Config) Validate() error {
	if c.Output.Directory == "" {
		return errors.New("output.directory cannot be empty")
	}
	for _, input := range c.Inputs {
		if strings.TrimSpace(input) == "" {
			return errors.New("inputs entries cannot be blank")
		}
	}

	if c.Search.Weights.Name < 0 || c.Search.Weights.Comment < 0 || c.Search.Weights.Document < 0 {
		return errors.New("search.weights must not be negative")
	}

	if c.Reporting.NATSURL == "" && (c.Reporting.Subject != "" || c.Reporting.Bucket != "") {
		return errors.New("reporting.subject and reporting.bucket require reporting.nats_url")
	}

	if c.Journal.Enabled && c.Journal.Path == "" {
		return errors.New("journal.path cannot be empty when the journal is enabled")
	}

	if err := validateListen("metrics.listen", c.Metrics.Listen); err != nil {
		return err
	}
	return validateListen("preview.listen", c.Preview.Listen)
}

// validateListen accepts host:port or :port forms.
func validateListen(field, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	if !strings.Contains(addr, ":") {
		return fmt.Errorf("%s must be a host:port address, got %q", field, addr)
	}
	return nil
}
