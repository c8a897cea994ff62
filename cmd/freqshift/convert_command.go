package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"freqshift/internal/config"
	"freqshift/internal/container"
	"freqshift/internal/dispatch"
	"freqshift/internal/services"
)

type convertOptions struct {
	output     string
	ext        string
	assumeKind string
	outputDir  string
	parallel   int
	out        outputOptions
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <path>...",
		Short: "Classify inputs and convert them with the matching strategy or delegate",
		Long: "Convert classifies every input from its extension and leading bytes, then runs the\n" +
			"route for the requested output kind. Without --output each kind uses its default route.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			output, err := dispatch.ParseOutputKind(opts.output)
			if err != nil {
				return err
			}
			var assumed container.Kind
			if strings.TrimSpace(opts.assumeKind) != "" {
				if assumed, err = container.ParseKind(opts.assumeKind); err != nil {
					return err
				}
			}
			if opts.outputDir != "" {
				dir, err := config.ExpandPath(opts.outputDir)
				if err != nil {
					return fmt.Errorf("resolve output dir: %w", err)
				}
				cfg.Paths.OutputDir = dir
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			parallel := cfg.Convert.Parallelism
			if opts.parallel > 0 {
				parallel = opts.parallel
			}

			engine := dispatch.NewEngineFromConfig(cfg, logger)
			requests := make([]dispatch.Request, len(args))
			for i, arg := range args {
				path, err := config.ExpandPath(arg)
				if err != nil {
					return fmt.Errorf("resolve input %q: %w", arg, err)
				}
				requests[i] = dispatch.Request{
					InputPath:  path,
					Output:     output,
					Extension:  opts.ext,
					AssumeKind: assumed,
				}
			}

			views, err := runConversions(cmd.Context(), engine, requests, parallel, cfg.DelegateTimeout())
			if err != nil {
				return err
			}

			if opts.out.structured() {
				if err := opts.out.write(cmd, views); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), renderConversions(views))
			}
			return summarizeFailures(views)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output kind: raw, image, text, metadata, synthetic-audio, transcode")
	cmd.Flags().StringVarP(&opts.ext, "ext", "e", "", "Output extension (defaults to the route's extension)")
	cmd.Flags().StringVar(&opts.assumeKind, "assume-kind", "", "Skip classification and treat inputs as this container kind")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Existing directory receiving artifacts")
	cmd.Flags().IntVarP(&opts.parallel, "parallel", "p", 0, "Files converted concurrently (defaults to convert.parallelism)")
	opts.out.register(cmd)
	return cmd
}

// runConversions converts every request, at most parallel at a time. A
// failing input does not stop the batch; only cancellation does.
func runConversions(ctx context.Context, engine *dispatch.Engine, requests []dispatch.Request, parallel int, timeout time.Duration) ([]conversionView, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if parallel < 1 {
		parallel = 1
	}
	views := make([]conversionView, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, req := range requests {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			requestID := uuid.NewString()
			reqCtx := services.WithRequestID(gctx, requestID)
			if timeout > 0 {
				var cancel context.CancelFunc
				reqCtx, cancel = context.WithTimeout(reqCtx, timeout)
				defer cancel()
			}
			res, err := engine.Convert(reqCtx, req)
			views[i] = newConversionView(requestID, req, res, err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	flagSharedArtifacts(views)
	return views, nil
}

// flagSharedArtifacts warns when several inputs of one batch wrote the same
// destination; only the last write survives.
func flagSharedArtifacts(views []conversionView) {
	producers := map[string]string{}
	for i := range views {
		for _, art := range views[i].Artifacts {
			if prev, ok := producers[art.Path]; ok {
				views[i].Warnings = append(views[i].Warnings,
					fmt.Sprintf("artifact %s also written by %s", art.Path, filepath.Base(prev)))
				continue
			}
			producers[art.Path] = views[i].Input
		}
	}
}

func renderConversions(views []conversionView) string {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		kind := v.Kind
		if v.Assumed {
			kind += " (assumed)"
		}
		route := v.Handler
		if route != "" {
			route += " (." + v.Ext + ")"
		}
		detail := v.Error
		if detail == "" && len(v.Warnings) > 0 {
			detail = strings.Join(v.Warnings, "; ")
		}
		rows = append(rows, []string{
			filepath.Base(v.Input),
			kind,
			route,
			strconv.Itoa(len(v.Artifacts)),
			v.status(),
			detail,
		})
	}
	return renderTable(
		[]string{"Input", "Kind", "Route", "Artifacts", "Status", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	)
}

func summarizeFailures(views []conversionView) error {
	var failure *batchError
	for _, v := range views {
		if v.Error == "" {
			continue
		}
		if failure == nil {
			failure = &batchError{total: len(views), first: fmt.Errorf("%s: %s", filepath.Base(v.Input), v.Error)}
		}
		failure.failed++
	}
	if failure == nil {
		return nil
	}
	return failure
}
