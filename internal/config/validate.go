package config

import (
	"errors"
	"fmt"
	"os"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDelegates(); err != nil {
		return err
	}
	if err := c.validateConvert(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.OutputDir == "" {
		return nil
	}
	info, err := os.Stat(c.Paths.OutputDir)
	if err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("paths.output_dir: %s is not a directory", c.Paths.OutputDir)
	}
	return nil
}

func (c *Config) validateDelegates() error {
	if c.Delegates.TimeoutSeconds < 0 {
		return errors.New("delegates.timeout_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateConvert() error {
	if c.Convert.Parallelism > 64 {
		return errors.New("convert.parallelism must be 64 or less")
	}
	switch c.Convert.ImageFormat {
	case "png", "jpg", "gif", "bmp", "tiff":
	default:
		return fmt.Errorf("convert.image_format: unsupported value %q", c.Convert.ImageFormat)
	}
	if c.Convert.JPEGQuality < 1 || c.Convert.JPEGQuality > 100 {
		return errors.New("convert.jpeg_quality must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
