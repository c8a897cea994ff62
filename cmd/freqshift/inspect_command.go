package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"freqshift/internal/config"
	"freqshift/internal/container"
	"freqshift/internal/delegate"
	"freqshift/internal/deps"
	"freqshift/internal/dispatch"
)

// inspectView reports how an input would be classified and routed.
type inspectView struct {
	Input     string                `json:"input" yaml:"input"`
	Extension string                `json:"extension" yaml:"extension"`
	Kind      string                `json:"kind" yaml:"kind"`
	Group     string                `json:"group,omitempty" yaml:"group,omitempty"`
	Decision  string                `json:"decision" yaml:"decision"`
	Signature string                `json:"signature,omitempty" yaml:"signature,omitempty"`
	Routes    []routeView           `json:"routes" yaml:"routes"`
	Probe     *delegate.ProbeResult `json:"probe,omitempty" yaml:"probe,omitempty"`
	ProbeErr  string                `json:"probe_error,omitempty" yaml:"probe_error,omitempty"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var out outputOptions
	var noProbe bool

	cmd := &cobra.Command{
		Use:   "inspect <path>...",
		Short: "Show how inputs are classified and which routes can convert them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			prober := delegate.NewProber(
				delegate.WithBinary(deps.ResolveFFprobe(cfg.Delegates.FFmpegBinary, cfg.Delegates.FFprobeBinary)),
				delegate.WithLogger(logger),
			)

			views := make([]inspectView, 0, len(args))
			for _, arg := range args {
				path, err := config.ExpandPath(arg)
				if err != nil {
					return fmt.Errorf("resolve input %q: %w", arg, err)
				}
				view, err := inspectPath(path)
				if err != nil {
					return err
				}
				if !noProbe && view.Kind == container.GenericAudioVideo.String() {
					result, err := probeInput(cmd.Context(), prober, path, cfg.DelegateTimeout())
					if err != nil {
						view.ProbeErr = err.Error()
					} else {
						view.Probe = &result
					}
				}
				views = append(views, view)
			}

			if out.structured() {
				return out.write(cmd, views)
			}
			w := cmd.OutOrStdout()
			for i, view := range views {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintln(w, renderInspect(view))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noProbe, "no-probe", false, "Skip ffprobe for audio/video inputs")
	out.register(cmd)
	return cmd
}

func inspectPath(path string) (inspectView, error) {
	input, err := container.ReadDetectionInput(path)
	if err != nil {
		return inspectView{}, fmt.Errorf("inspect %s: %w", path, err)
	}
	verdict := container.Explain(input.Extension(), input.Prefix())
	view := inspectView{
		Input:     path,
		Extension: input.Extension(),
		Kind:      verdict.Kind.String(),
		Group:     verdict.Group,
		Decision:  string(verdict.Decision),
		Signature: verdict.Signature,
		Routes:    []routeView{},
	}
	for i, route := range dispatch.RoutesFor(verdict.Kind) {
		view.Routes = append(view.Routes, newRouteView(route, i == 0))
	}
	return view, nil
}

func probeInput(ctx context.Context, prober *delegate.Prober, path string, timeout time.Duration) (delegate.ProbeResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return prober.Inspect(ctx, path)
}

func renderInspect(view inspectView) string {
	rows := [][]string{
		{"Input", filepath.Base(view.Input)},
		{"Extension", emptyDash(view.Extension)},
		{"Kind", view.Kind},
		{"Group", emptyDash(view.Group)},
		{"Decision", view.Decision},
	}
	if view.Signature != "" {
		rows = append(rows, []string{"Signature", view.Signature})
	}
	if len(view.Routes) == 0 {
		rows = append(rows, []string{"Routes", "none"})
	}
	for _, r := range view.Routes {
		label := "Route"
		if r.Default {
			label = "Route (default)"
		}
		rows = append(rows, []string{label, fmt.Sprintf("%s via %s (.%s)", r.Output, r.Handler, strings.Join(r.Extensions, ", ."))})
	}
	if view.Probe != nil {
		rows = append(rows,
			[]string{"Format", view.Probe.Format.FormatName},
			[]string{"Duration", strconv.FormatFloat(view.Probe.DurationSeconds(), 'f', 2, 64) + "s"},
			[]string{"Streams", fmt.Sprintf("%d video, %d audio", view.Probe.CountStreams("video"), view.Probe.CountStreams("audio"))},
		)
	}
	if view.ProbeErr != "" {
		rows = append(rows, []string{"Probe", "unavailable: " + view.ProbeErr})
	}
	return renderTable([]string{"Field", "Value"}, rows, nil)
}

func emptyDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
