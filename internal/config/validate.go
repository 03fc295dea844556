package config

import (
	"fmt"
	"strings"

	"github.com/jchantrell/kcdutils/internal/format"
	"github.com/jchantrell/kcdutils/internal/hdr"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"text": true,
	"json": true,
}

// Validate checks every field and normalizes the default extension
func (c *Config) Validate() error {
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("unsupported log level '%s': supported levels are debug, info, warn, error", c.LogLevel)
	}

	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("unsupported log format '%s': supported formats are text, json", c.LogFormat)
	}

	if _, err := format.ParseMode(c.Mode); err != nil {
		return err
	}

	if _, err := hdr.ParseRenamePolicy(c.RenamePolicy); err != nil {
		return err
	}

	c.DefaultExtension = strings.TrimPrefix(c.DefaultExtension, ".")
	if c.DefaultExtension == "" {
		return fmt.Errorf("default extension cannot be empty")
	}

	if strings.ContainsAny(c.DefaultExtension, `\/.`) {
		return fmt.Errorf("invalid default extension '%s': must be a bare extension like avi", c.DefaultExtension)
	}

	if c.BufferSize < len(format.Marker) {
		return fmt.Errorf("buffer size %d is smaller than the %d-byte marker", c.BufferSize, len(format.Marker))
	}

	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}

	if c.Journal && c.JournalPath == "" {
		return fmt.Errorf("journal path cannot be empty when the journal is enabled")
	}

	return nil
}

// ModeValue returns the parsed relocation mode
func (c *Config) ModeValue() format.Mode {
	m, _ := format.ParseMode(c.Mode)
	return m
}

// PolicyValue returns the parsed rename policy
func (c *Config) PolicyValue() hdr.RenamePolicy {
	p, _ := hdr.ParseRenamePolicy(c.RenamePolicy)
	return p
}
