package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rdmnet/rdmsim/config"
	"github.com/rdmnet/rdmsim/strategy"
)

func newDescribeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the resolved initial topology strategy's parameters for a config",
		RunE: func(cmd *cobra.Command, args []string) error {
			return describeStrategy(configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "rdmsim.yaml", "path to the YAML config document")
	return cmd
}

func describeStrategy(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("rdmsim: describe: %w", err)
	}

	s, err := cfg.Strategy.Resolve()
	if err != nil {
		return fmt.Errorf("rdmsim: describe: %w", err)
	}

	predicted := strategy.Predict(s, cfg.NumMirrors)
	out := map[string]any{
		"kind":              predicted.Kind,
		"preferLIFORemoval": s.PreferLIFORemoval(),
		"numMirrors":        predicted.TargetMirrorCount,
		"predictedLinks":    predicted.Links,
		"params":            cfg.Strategy,
	}

	doc, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("rdmsim: describe: %w", err)
	}
	fmt.Print(string(doc))
	return nil
}
