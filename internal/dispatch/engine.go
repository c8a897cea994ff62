package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"freqshift/internal/artifact"
	"freqshift/internal/config"
	"freqshift/internal/container"
	"freqshift/internal/delegate"
	"freqshift/internal/extract"
	"freqshift/internal/imagecodec"
	"freqshift/internal/logging"
	"freqshift/internal/services"
)

// Request describes one conversion.
type Request struct {
	InputPath string
	// Output selects the output kind; empty uses the kind's default route.
	Output OutputKind
	// Extension overrides the route's default output extension.
	Extension string
	// AssumeKind skips classification when not Unknown.
	AssumeKind container.Kind
}

// Resolution is a validated request: the kind the input was classified as
// and the route that will serve it.
type Resolution struct {
	Input   string
	Verdict container.Verdict
	Kind    container.Kind
	Assumed bool
	Plan    Plan
}

// Result reports a finished conversion. Artifacts written before a failure
// are listed even when Convert returns an error.
type Result struct {
	Resolution
	Artifacts []artifact.Artifact
	Warnings  []error
	Elapsed   time.Duration
}

// Engine classifies inputs and runs the route selected for them. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	extractor   *extract.Extractor
	transcoders map[Delegate]delegate.Transcoder
	outputDir   string
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithExtractor overrides the extraction strategies.
func WithExtractor(ex *extract.Extractor) Option {
	return func(e *Engine) {
		if ex != nil {
			e.extractor = ex
		}
	}
}

// WithTranscoder overrides the tool serving a delegate route.
func WithTranscoder(d Delegate, t delegate.Transcoder) Option {
	return func(e *Engine) {
		if t != nil {
			e.transcoders[d] = t
		}
	}
}

// WithOutputDir writes artifacts into dir instead of next to each input.
// The directory must already exist.
func WithOutputDir(dir string) Option {
	return func(e *Engine) {
		e.outputDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine constructs an Engine with default collaborators.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		extractor: extract.New(),
		transcoders: map[Delegate]delegate.Transcoder{
			DelegateFFmpeg:    delegate.NewFFmpeg(),
			DelegateVGMStream: delegate.NewVGMStream(),
		},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "engine")
	return e
}

// NewEngineFromConfig wires an Engine from configuration.
func NewEngineFromConfig(cfg *config.Config, logger *slog.Logger, opts ...Option) *Engine {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	writer := artifact.NewWriter(
		artifact.WithAtomicWrites(cfg.Convert.AtomicWrites),
		artifact.WithLockDir(os.TempDir()),
	)
	codec := imagecodec.New(imagecodec.WithJPEGQuality(cfg.Convert.JPEGQuality))
	ex := extract.New(
		extract.WithWriter(writer),
		extract.WithCodec(codec),
		extract.WithLogger(logger),
		extract.WithMinStringRun(cfg.Convert.MinStringRun),
		extract.WithImageFormat(cfg.Convert.ImageFormat),
	)
	base := []Option{
		WithExtractor(ex),
		WithTranscoder(DelegateFFmpeg, delegate.NewFFmpeg(delegate.WithBinary(cfg.Delegates.FFmpegBinary), delegate.WithLogger(logger))),
		WithTranscoder(DelegateVGMStream, delegate.NewVGMStream(delegate.WithBinary(cfg.Delegates.VGMStreamBinary), delegate.WithLogger(logger))),
		WithOutputDir(cfg.Paths.OutputDir),
		WithLogger(logger),
	}
	return NewEngine(append(base, opts...)...)
}

// Resolve classifies the input and validates the request against the route
// table. It reads at most container.PrefixSize bytes and writes nothing.
func (e *Engine) Resolve(req Request) (Resolution, error) {
	if req.InputPath == "" {
		return Resolution{}, services.Wrap(services.ErrValidation, "resolve", "input", "empty input path", nil)
	}
	input, err := container.ReadDetectionInput(req.InputPath)
	if err != nil {
		return Resolution{}, inputError(err)
	}
	verdict := container.Explain(input.Extension(), input.Prefix())
	res := Resolution{Input: req.InputPath, Verdict: verdict, Kind: verdict.Kind}
	if req.AssumeKind != container.Unknown {
		res.Kind = req.AssumeKind
		res.Assumed = true
	}
	if res.Kind == container.Unknown {
		return res, fmt.Errorf("%w: %s is not a recognized container", ErrUnsupportedConversion, filepath.Base(req.InputPath))
	}
	plan, err := Lookup(res.Kind, req.Output, req.Extension)
	if err != nil {
		return res, err
	}
	res.Plan = plan
	return res, nil
}

// Convert resolves the request and runs its route.
func (e *Engine) Convert(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	ctx = services.WithInputPath(ctx, req.InputPath)

	resolution, err := e.Resolve(req)
	result := Result{Resolution: resolution}
	if err != nil {
		return result, err
	}
	ctx = services.WithStage(ctx, resolution.Plan.Handler())
	logger := logging.WithContext(ctx, e.logger)
	logger.Debug("request resolved",
		logging.Args(
			logging.String(logging.FieldKind, resolution.Kind.String()),
			logging.Bool("assumed", resolution.Assumed),
			logging.String("output", string(resolution.Plan.Output)),
			logging.String("ext", resolution.Plan.Ext),
		)...)

	target := artifact.NewTarget(req.InputPath, e.outputDir)
	if resolution.Plan.Delegate != "" {
		err = e.runDelegate(ctx, &result, target)
	} else {
		err = e.runStrategy(ctx, &result, target)
	}
	result.Elapsed = time.Since(start)
	if err != nil {
		return result, err
	}

	logger.Info("conversion complete",
		logging.Args(
			logging.String(logging.FieldKind, resolution.Kind.String()),
			logging.Int("artifacts", len(result.Artifacts)),
			logging.Int("warnings", len(result.Warnings)),
			logging.Duration("elapsed", result.Elapsed),
		)...)
	return result, nil
}

func (e *Engine) runDelegate(ctx context.Context, result *Result, target artifact.Target) error {
	plan := result.Plan
	tool, ok := e.transcoders[plan.Delegate]
	if !ok {
		return services.Wrap(services.ErrConfiguration, string(plan.Delegate), "transcode", "no transcoder configured", nil)
	}
	out := target.Path("", plan.Ext)
	if err := tool.Transcode(ctx, result.Input, out); err != nil {
		return services.Wrap(services.ErrExternalTool, string(plan.Delegate), "transcode", filepath.Base(result.Input), err)
	}
	art, err := artifact.Record(out, artifact.KindTranscode)
	if err != nil {
		return services.Wrap(services.ErrIO, string(plan.Delegate), "record output", out, err)
	}
	result.Artifacts = append(result.Artifacts, art)
	return nil
}

func (e *Engine) runStrategy(ctx context.Context, result *Result, target artifact.Target) error {
	plan := result.Plan
	buf, err := os.ReadFile(result.Input)
	if err != nil {
		return inputError(err)
	}
	opts := extract.Options{}
	switch plan.Output {
	case OutputRaw:
		opts.RawExt = plan.Ext
	case OutputImage:
		opts.ImageFormat = plan.Ext
	}
	res, err := e.extractor.Run(ctx, plan.Strategy, buf, target, opts)
	result.Artifacts = append(result.Artifacts, res.Artifacts...)
	result.Warnings = append(result.Warnings, res.Warnings...)
	return err
}

func inputError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return services.Wrap(services.ErrNotFound, "resolve", "open input", "", err)
	}
	return services.Wrap(services.ErrIO, "resolve", "read input", "", err)
}
