package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"freqshift/internal/deps"
	"freqshift/internal/preflight"
)

type doctorView struct {
	ConfigPath   string             `json:"config_path" yaml:"config_path"`
	Dependencies []deps.Status      `json:"dependencies" yaml:"dependencies"`
	Checks       []preflight.Result `json:"checks" yaml:"checks"`
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check delegate binaries, directories and image codecs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			view := doctorView{
				ConfigPath:   ctx.configPath,
				Dependencies: deps.CheckBinaries(deps.DelegateRequirements(cfg)),
				Checks:       preflight.RunAll(cfg),
			}
			failed := preflight.Failed(view.Checks) || len(deps.Missing(view.Dependencies)) > 0

			if out.structured() {
				if err := out.write(cmd, view); err != nil {
					return err
				}
			} else {
				renderDoctor(cmd, view)
			}
			if failed {
				return errors.New("doctor found problems")
			}
			return nil
		},
	}
	out.register(cmd)
	return cmd
}

func renderDoctor(cmd *cobra.Command, view doctorView) {
	p := newStatusPrinter(cmd.OutOrStdout())

	p.section("Delegates")
	for _, dep := range view.Dependencies {
		lv, detail := dependencyLine(dep)
		p.line(dep.Name, lv, detail)
	}

	fmt.Fprintln(p.w)
	p.section("Environment")
	if view.ConfigPath != "" {
		p.line("Config", levelInfo, view.ConfigPath)
	}
	for _, check := range view.Checks {
		lv, detail := checkLine(check)
		p.line(check.Name, lv, detail)
	}
}
