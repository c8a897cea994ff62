package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// outputOptions selects machine-readable output for a command.
type outputOptions struct {
	json bool
	yaml bool
}

func (o *outputOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.json, "json", false, "Write JSON output")
	cmd.Flags().BoolVar(&o.yaml, "yaml", false, "Write YAML output")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

func (o *outputOptions) structured() bool {
	return o.json || o.yaml
}

// write emits v in the selected structured format.
func (o *outputOptions) write(cmd *cobra.Command, v any) error {
	switch {
	case o.json:
		return writeJSON(cmd, v)
	case o.yaml:
		return writeYAML(cmd, v)
	default:
		return errors.New("no structured output format selected")
	}
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML encodes v as YAML to the command's stdout.
func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
