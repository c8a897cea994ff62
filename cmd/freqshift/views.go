package main

import (
	"fmt"

	"freqshift/internal/artifact"
	"freqshift/internal/dispatch"
	"freqshift/internal/services"
)

// conversionView is the machine-readable form of one conversion.
type conversionView struct {
	Input     string              `json:"input" yaml:"input"`
	RequestID string              `json:"request_id" yaml:"request_id"`
	Kind      string              `json:"kind,omitempty" yaml:"kind,omitempty"`
	Assumed   bool                `json:"assumed,omitempty" yaml:"assumed,omitempty"`
	Output    string              `json:"output,omitempty" yaml:"output,omitempty"`
	Handler   string              `json:"handler,omitempty" yaml:"handler,omitempty"`
	Ext       string              `json:"ext,omitempty" yaml:"ext,omitempty"`
	Artifacts []artifact.Artifact `json:"artifacts" yaml:"artifacts"`
	Warnings  []string            `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Error     string              `json:"error,omitempty" yaml:"error,omitempty"`
	Retryable bool                `json:"retryable,omitempty" yaml:"retryable,omitempty"`
	ElapsedMS int64               `json:"elapsed_ms" yaml:"elapsed_ms"`
}

func newConversionView(requestID string, req dispatch.Request, res dispatch.Result, err error) conversionView {
	view := conversionView{
		Input:     req.InputPath,
		RequestID: requestID,
		Artifacts: res.Artifacts,
		ElapsedMS: res.Elapsed.Milliseconds(),
	}
	if view.Artifacts == nil {
		view.Artifacts = []artifact.Artifact{}
	}
	if res.Verdict.Decision != "" || res.Assumed {
		view.Kind = res.Kind.String()
		view.Assumed = res.Assumed
	}
	if res.Plan.Handler() != "" {
		view.Output = string(res.Plan.Output)
		view.Handler = res.Plan.Handler()
		view.Ext = res.Plan.Ext
	}
	for _, w := range res.Warnings {
		view.Warnings = append(view.Warnings, w.Error())
	}
	if err != nil {
		view.Error = err.Error()
		view.Retryable = services.Retryable(err)
	}
	return view
}

func (v conversionView) status() string {
	switch {
	case v.Error != "":
		return "failed"
	case len(v.Warnings) > 0:
		return "warnings"
	default:
		return "ok"
	}
}

// batchError summarizes failed conversions for the exit status.
type batchError struct {
	failed int
	total  int
	first  error
}

func (e *batchError) Error() string {
	if e.total == 1 {
		return e.first.Error()
	}
	return fmt.Sprintf("%d of %d inputs failed (first: %v)", e.failed, e.total, e.first)
}

func (e *batchError) Unwrap() error { return e.first }
