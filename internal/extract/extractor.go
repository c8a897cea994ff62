package extract

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"freqshift/internal/artifact"
	"freqshift/internal/imagecodec"
	"freqshift/internal/logging"
	"freqshift/internal/services"
)

var (
	// ErrSignatureMismatch reports bytes that do not match the assumed kind.
	ErrSignatureMismatch = errors.New("signature mismatch")
	// ErrCodec reports an image codec failure.
	ErrCodec = errors.New("image codec failure")
	// ErrNoRecognizedPayload reports a padded audio buffer with neither delimiter nor magic.
	ErrNoRecognizedPayload = errors.New("no recognized payload")
	// ErrUnsupportedConversion reports a kind/output pair or extension outside the dispatch table.
	ErrUnsupportedConversion = errors.New("unsupported conversion")
	// ErrDecodeFallback is a warning: invalid UTF-8 was replaced during text re-emission.
	ErrDecodeFallback = errors.New("invalid utf-8 replaced")
)

// DefaultMinStringRun is the shortest printable run string harvesting reports.
const DefaultMinStringRun = 4

// Strategy identifies an extraction strategy.
type Strategy string

const (
	StrategyPassthrough    Strategy = "passthrough"
	StrategyImageReencode  Strategy = "image-reencode"
	StrategyIsolation      Strategy = "isolation"
	StrategyText           Strategy = "text"
	StrategySyntheticAudio Strategy = "synthetic-audio"
)

// Strategies lists every strategy in a stable order.
func Strategies() []Strategy {
	return []Strategy{
		StrategyPassthrough,
		StrategyImageReencode,
		StrategyIsolation,
		StrategyText,
		StrategySyntheticAudio,
	}
}

// ImageCodec decodes arbitrary image bytes and encodes images to a named format.
type ImageCodec interface {
	Decode(data []byte) (image.Image, string, error)
	Encode(img image.Image, format string) ([]byte, error)
}

// ArtifactWriter persists one artifact.
type ArtifactWriter interface {
	Write(path string, data []byte, kind artifact.Kind) (artifact.Artifact, error)
}

// Result lists the artifacts a strategy wrote, in write order, plus
// non-fatal warnings.
type Result struct {
	Artifacts []artifact.Artifact
	Warnings  []error
}

// Options tunes a single extraction.
type Options struct {
	// RawExt is the extension of passthrough output. Defaults to "dds".
	RawExt string
	// ImageFormat is the re-encode target. Defaults to the extractor's format.
	ImageFormat string
}

// Extractor runs extraction strategies. It holds no per-request state and is
// safe for concurrent use when its writer and codec are.
type Extractor struct {
	writer      ArtifactWriter
	codec       ImageCodec
	logger      *slog.Logger
	minRun      int
	imageFormat string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithWriter overrides the artifact writer.
func WithWriter(w ArtifactWriter) Option {
	return func(e *Extractor) {
		if w != nil {
			e.writer = w
		}
	}
}

// WithCodec overrides the image codec.
func WithCodec(c ImageCodec) Option {
	return func(e *Extractor) {
		if c != nil {
			e.codec = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMinStringRun sets the shortest harvested string. Values below one are ignored.
func WithMinStringRun(n int) Option {
	return func(e *Extractor) {
		if n >= 1 {
			e.minRun = n
		}
	}
}

// WithImageFormat sets the default re-encode format.
func WithImageFormat(format string) Option {
	return func(e *Extractor) {
		if format = imagecodec.NormalizeFormat(format); format != "" {
			e.imageFormat = format
		}
	}
}

// New constructs an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		writer:      artifact.NewWriter(),
		codec:       imagecodec.New(),
		logger:      logging.NewNop(),
		minRun:      DefaultMinStringRun,
		imageFormat: "png",
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "extract")
	return e
}

// Run executes the named strategy.
func (e *Extractor) Run(ctx context.Context, strategy Strategy, buf []byte, target artifact.Target, opts Options) (Result, error) {
	ctx = services.WithStage(ctx, string(strategy))
	switch strategy {
	case StrategyPassthrough:
		return e.Passthrough(ctx, buf, target, opts)
	case StrategyImageReencode:
		return e.ImageReencode(ctx, buf, target, opts)
	case StrategyIsolation:
		return e.Isolate(ctx, buf, target, opts)
	case StrategyText:
		return e.ReemitText(ctx, buf, target)
	case StrategySyntheticAudio:
		return e.SynthesizeAudio(ctx, buf, target)
	default:
		return Result{}, services.Wrap(services.ErrValidation, "extract", "run", fmt.Sprintf("unknown strategy %q", strategy), nil)
	}
}

func (e *Extractor) write(ctx context.Context, res *Result, path string, data []byte, kind artifact.Kind) error {
	stage, _ := services.StageFromContext(ctx)
	art, err := e.writer.Write(path, data, kind)
	if err != nil {
		return services.Wrap(services.ErrIO, stage, "write", string(kind)+" artifact", err)
	}
	res.Artifacts = append(res.Artifacts, art)
	logging.WithContext(ctx, e.logger).Debug("artifact written",
		logging.Args(
			logging.String(logging.FieldArtifact, art.Path),
			logging.Int64("size", art.Size),
			logging.String("artifact_kind", string(kind)),
		)...)
	return nil
}

func (e *Extractor) warn(ctx context.Context, res *Result, eventType, impact string, err error) {
	res.Warnings = append(res.Warnings, err)
	logging.WarnWithContext(logging.WithContext(ctx, e.logger), "extraction warning", eventType,
		logging.Error(err),
		logging.String(logging.FieldImpact, impact),
	)
}

func (e *Extractor) format(opts Options) string {
	if f := imagecodec.NormalizeFormat(opts.ImageFormat); f != "" {
		return f
	}
	return e.imageFormat
}

func rawExt(opts Options) string {
	if ext := strings.TrimPrefix(strings.TrimSpace(opts.RawExt), "."); ext != "" {
		return strings.ToLower(ext)
	}
	return "dds"
}
