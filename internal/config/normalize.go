package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLimits()
	c.normalizeCuts()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeLimits() {
	if c.Limits.MaxUploadBytes <= 0 {
		c.Limits.MaxUploadBytes = defaultMaxUploadBytes
	}
	if c.Limits.MaxExtractedBytes <= 0 {
		c.Limits.MaxExtractedBytes = defaultMaxExtractedBytes
	}
	if c.Limits.MaxOffset <= 0 {
		c.Limits.MaxOffset = defaultMaxOffset
	}
	if c.Limits.RequestsPerHour <= 0 {
		c.Limits.RequestsPerHour = defaultRequestsPerHour
	}
}

func (c *Config) normalizeCuts() {
	if c.Cuts.MaxGap < 0 {
		c.Cuts.MaxGap = defaultMaxGap
	}
	if c.Cuts.DefaultOffset <= 0 {
		c.Cuts.DefaultOffset = defaultOffset
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
