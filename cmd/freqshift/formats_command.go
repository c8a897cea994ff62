package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"freqshift/internal/container"
	"freqshift/internal/dispatch"
)

type routeView struct {
	Kind       string   `json:"kind" yaml:"kind"`
	Output     string   `json:"output" yaml:"output"`
	Handler    string   `json:"handler" yaml:"handler"`
	Delegated  bool     `json:"delegated" yaml:"delegated"`
	DefaultExt string   `json:"default_ext" yaml:"default_ext"`
	Extensions []string `json:"extensions" yaml:"extensions"`
	Default    bool     `json:"default" yaml:"default"`
}

func newRouteView(route dispatch.Route, isDefault bool) routeView {
	return routeView{
		Kind:       route.Kind.String(),
		Output:     string(route.Output),
		Handler:    route.Handler(),
		Delegated:  route.Delegate != "",
		DefaultExt: route.DefaultExt,
		Extensions: route.Extensions(),
		Default:    isDefault,
	}
}

type signatureView struct {
	Kind  string `json:"kind" yaml:"kind"`
	Match string `json:"match" yaml:"match"`
}

type groupView struct {
	Name       string          `json:"name" yaml:"name"`
	Extensions []string        `json:"extensions" yaml:"extensions"`
	Immediate  string          `json:"immediate,omitempty" yaml:"immediate,omitempty"`
	Signatures []signatureView `json:"signatures,omitempty" yaml:"signatures,omitempty"`
	Fallback   string          `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

type formatsView struct {
	Groups []groupView `json:"groups" yaml:"groups"`
	Routes []routeView `json:"routes" yaml:"routes"`
}

func buildFormatsView() formatsView {
	var view formatsView
	for _, g := range container.Groups() {
		gv := groupView{Name: g.Name, Extensions: g.Extensions}
		if g.Immediate != container.Unknown {
			gv.Immediate = g.Immediate.String()
		}
		if g.Fallback != container.Unknown {
			gv.Fallback = g.Fallback.String()
		}
		for _, sig := range g.Signatures {
			gv.Signatures = append(gv.Signatures, signatureView{Kind: sig.Kind.String(), Match: sig.Describe()})
		}
		view.Groups = append(view.Groups, gv)
	}
	seen := map[container.Kind]bool{}
	for _, r := range dispatch.Routes() {
		view.Routes = append(view.Routes, newRouteView(r, !seen[r.Kind]))
		seen[r.Kind] = true
	}
	return view
}

func newFormatsCommand() *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:         "formats",
		Short:       "List recognized containers, signatures and conversion routes",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			view := buildFormatsView()
			if out.structured() {
				return out.write(cmd, view)
			}

			w := cmd.OutOrStdout()
			groupRows := make([][]string, 0, len(view.Groups))
			for _, g := range view.Groups {
				groupRows = append(groupRows, []string{g.Name, strings.Join(g.Extensions, " "), describeGroup(g)})
			}
			fmt.Fprintln(w, renderTable([]string{"Group", "Extensions", "Classification"}, groupRows, nil))
			fmt.Fprintln(w)

			routeRows := make([][]string, 0, len(view.Routes))
			for _, r := range view.Routes {
				output := r.Output
				if r.Default {
					output += " *"
				}
				routeRows = append(routeRows, []string{r.Kind, output, r.Handler, r.DefaultExt, strings.Join(r.Extensions, " ")})
			}
			fmt.Fprintln(w, renderTable([]string{"Kind", "Output", "Handler", "Default", "Allowed"}, routeRows, nil))
			fmt.Fprintln(w, "* default output for the kind")
			return nil
		},
	}
	out.register(cmd)
	return cmd
}

func describeGroup(g groupView) string {
	if g.Immediate != "" {
		return g.Immediate
	}
	lines := make([]string, 0, len(g.Signatures)+1)
	for _, sig := range g.Signatures {
		lines = append(lines, fmt.Sprintf("%s -> %s", sig.Match, sig.Kind))
	}
	if g.Fallback != "" {
		lines = append(lines, "otherwise -> "+g.Fallback)
	}
	return strings.Join(lines, "\n")
}
