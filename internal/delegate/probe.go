package delegate

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ProbeResult represents the parsed output from an ffprobe inspection.
type ProbeResult struct {
	Streams []Stream    `json:"streams" yaml:"streams"`
	Format  ProbeFormat `json:"format" yaml:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index      int    `json:"index" yaml:"index"`
	CodecName  string `json:"codec_name" yaml:"codec_name"`
	CodecType  string `json:"codec_type" yaml:"codec_type"`
	Duration   string `json:"duration,omitempty" yaml:"duration,omitempty"`
	Width      int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height     int    `json:"height,omitempty" yaml:"height,omitempty"`
	SampleRate string `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
	Channels   int    `json:"channels,omitempty" yaml:"channels,omitempty"`
}

// ProbeFormat captures container-level metadata extracted by ffprobe.
type ProbeFormat struct {
	FormatName string `json:"format_name" yaml:"format_name"`
	NBStreams  int    `json:"nb_streams" yaml:"nb_streams"`
	Duration   string `json:"duration" yaml:"duration"`
	Size       string `json:"size" yaml:"size"`
	BitRate    string `json:"bit_rate" yaml:"bit_rate"`
}

// Prober runs ffprobe.
type Prober struct {
	runner
}

// NewProber constructs an ffprobe client. The default binary is "ffprobe".
func NewProber(opts ...Option) *Prober {
	return &Prober{runner: newRunner("ffprobe", "ffprobe", opts)}
}

// Inspect executes ffprobe against path and decodes the JSON response.
func (p *Prober) Inspect(ctx context.Context, path string) (ProbeResult, error) {
	path = strings.TrimSpace(path)
	if err := requirePaths(p.tool, path); err != nil {
		return ProbeResult{}, err
	}
	output, err := p.run(ctx, []string{"-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path})
	if err != nil {
		return ProbeResult{}, err
	}
	var result ProbeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return ProbeResult{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// CountStreams returns the number of streams of codecType (audio, video, subtitle).
func (r ProbeResult) CountStreams(codecType string) int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, codecType) {
			count++
		}
	}
	return count
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r ProbeResult) DurationSeconds() float64 {
	cleaned := strings.TrimSpace(r.Format.Duration)
	if cleaned == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(parsed) || parsed < 0 {
		return 0
	}
	return parsed
}
