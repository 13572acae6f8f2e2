package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable for an import session.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.BaseURL == "" {
		return errors.New("catalog.base_url must be set")
	}
	if c.Catalog.User == "" || c.Catalog.Password == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/longbox/config.toml"
		}
		return fmt.Errorf("catalog.user and catalog.password are required. Edit %s (create with 'longbox config init')", defaultPath)
	}
	if c.Catalog.CallsPerMinute <= 0 {
		return errors.New("catalog.calls_per_minute must be positive")
	}
	if c.Catalog.TimeoutSeconds <= 0 {
		return errors.New("catalog.timeout_seconds must be positive")
	}
	if c.Catalog.MaxRetries < 0 {
		return errors.New("catalog.max_retries must not be negative")
	}
	return nil
}

func (c *Config) validateSource() error {
	if c.Source.BaseURL == "" {
		return errors.New("source.base_url must be set")
	}
	if c.Source.APIKey == "" {
		return errors.New("source.api_key is required")
	}
	if c.Source.TimeoutSeconds <= 0 {
		return errors.New("source.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
