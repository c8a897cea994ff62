package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDelegates()
	c.normalizeConvert()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	c.Paths.OutputDir = strings.TrimSpace(c.Paths.OutputDir)
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	c.Paths.LogDir = strings.TrimSpace(c.Paths.LogDir)
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDelegates() {
	if value, ok := os.LookupEnv("FREQSHIFT_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Delegates.FFmpegBinary = value
	}
	if value, ok := os.LookupEnv("FREQSHIFT_VGMSTREAM"); ok && strings.TrimSpace(value) != "" {
		c.Delegates.VGMStreamBinary = value
	}
	c.Delegates.FFmpegBinary = strings.TrimSpace(c.Delegates.FFmpegBinary)
	if c.Delegates.FFmpegBinary == "" {
		c.Delegates.FFmpegBinary = defaultFFmpegBinary
	}
	c.Delegates.VGMStreamBinary = strings.TrimSpace(c.Delegates.VGMStreamBinary)
	if c.Delegates.VGMStreamBinary == "" {
		c.Delegates.VGMStreamBinary = defaultVGMStreamBinary
	}
	c.Delegates.FFprobeBinary = strings.TrimSpace(c.Delegates.FFprobeBinary)
	if c.Delegates.FFprobeBinary == "" {
		c.Delegates.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeConvert() {
	if c.Convert.Parallelism <= 0 {
		c.Convert.Parallelism = defaultParallelism
	}
	if c.Convert.MinStringRun <= 0 {
		c.Convert.MinStringRun = defaultMinStringRun
	}
	c.Convert.ImageFormat = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Convert.ImageFormat), "."))
	switch c.Convert.ImageFormat {
	case "":
		c.Convert.ImageFormat = defaultImageFormat
	case "jpeg":
		c.Convert.ImageFormat = "jpg"
	case "tif":
		c.Convert.ImageFormat = "tiff"
	}
	if c.Convert.JPEGQuality == 0 {
		c.Convert.JPEGQuality = defaultJPEGQuality
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
