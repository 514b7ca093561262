package main

import (
	"fmt"
	"math/rand"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rdmnet/rdmsim/config"
	"github.com/rdmnet/rdmsim/effector"
	"github.com/rdmnet/rdmsim/engine"
	"github.com/rdmnet/rdmsim/id"
	"github.com/rdmnet/rdmsim/metrics"
	"github.com/rdmnet/rdmsim/probe"
)

func newRunCmd(logger hclog.Logger) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a config, run the simulation, and print a tick-by-tick summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(configPath, logger)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "rdmsim.yaml", "path to the YAML config document")
	return cmd
}

func runSimulation(configPath string, logger hclog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("rdmsim: run: %w", err)
	}

	initial, err := cfg.Strategy.Resolve()
	if err != nil {
		return fmt.Errorf("rdmsim: run: %w", err)
	}

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}

	eng := engine.New(engine.Config{
		IDs:               id.NewSource(),
		Strategy:          initial,
		TargetMirrorCount: cfg.NumMirrors,
		Props:             cfg.Props(),
		RNG:               rng,
		Logger:            logger.Named("engine"),
	})

	eff := effector.New()
	for _, a := range cfg.Actions {
		switch a.Kind {
		case "setMirrors":
			eff.ScheduleSetMirrors(a.Count, a.AtTick)
		case "setStrategy":
			s, resolveErr := a.Strategy.Resolve()
			if resolveErr != nil {
				return fmt.Errorf("rdmsim: run: %w", resolveErr)
			}
			eff.ScheduleSetStrategy(s, a.AtTick)
		case "setTargetLinksPerMirror":
			eff.ScheduleSetTargetLinksPerMirror(a.Count, a.AtTick)
		}
	}

	reg := metrics.NewRegistry(prometheus.NewRegistry())
	prober := probe.New(eng, probe.DefaultHistorySize)

	for tick := 1; tick <= cfg.SimTime; tick++ {
		if err := eff.Apply(eng, tick); err != nil {
			return fmt.Errorf("rdmsim: run: tick %d: %w", tick, err)
		}
		if err := eng.Step(tick); err != nil {
			return fmt.Errorf("rdmsim: run: tick %d: %w", tick, err)
		}

		snap := prober.RecordTick(tick, eng.Target())
		targetLinksPerMirror := 0
		if head := eng.Head(); head != nil {
			targetLinksPerMirror = eng.ActiveStrategy().GetNumTargetLinksPerMirror(eng.Graph(), head)
		}
		reg.Refresh(snap, targetLinksPerMirror)

		fmt.Printf("tick %d: mirrors=%d ready=%d links=%d converged=%v\n",
			tick, len(snap.Mirror), snap.ReadyMirrors(), snap.TotalImplementedLinks(), snap.Converged())
	}

	if at, ok := prober.ConvergedAtTick(); ok {
		fmt.Printf("converged at tick %d\n", at)
	} else {
		fmt.Println("did not converge within simTime")
	}
	return nil
}
