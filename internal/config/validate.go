package config

import (
	"errors"
	"fmt"
	"net"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLimits(); err != nil {
		return err
	}
	if err := c.validateCuts(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StagingDir == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind %q is not a host:port value: %w", c.Paths.APIBind, err)
	}
	return nil
}

func (c *Config) validateLimits() error {
	if c.Limits.MaxExtractedBytes < c.Limits.MaxUploadBytes {
		return errors.New("limits.max_extracted_bytes must be at least limits.max_upload_bytes")
	}
	if c.Limits.MaxOffset > 10000 {
		return errors.New("limits.max_offset is unreasonably large (max 10000)")
	}
	return nil
}

func (c *Config) validateCuts() error {
	if c.Cuts.DefaultOffset > c.Limits.MaxOffset {
		return fmt.Errorf("cuts.default_offset %d exceeds limits.max_offset %d", c.Cuts.DefaultOffset, c.Limits.MaxOffset)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
