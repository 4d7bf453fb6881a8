package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/hitbox"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/logger"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/mesh"
)

func buildDecomposeCommand() *cobra.Command {
	var (
		input  string
		output string
		tier   string
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "decompose",
		Short: "Decompose an OBJ model into hitboxes",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := hitbox.ParseTier(tier)
			if err != nil {
				return err
			}

			m, err := mesh.LoadOBJ(input)
			if err != nil {
				return err
			}

			level := "warn"
			if verbose {
				level = "debug"
			}
			log := logger.New(level, "")
			defer func() { _ = log.Sync() }()

			engine := hitbox.NewEngine(hitbox.Options{Seed: &seed, Log: log})
			job, err := engine.Decompose(m, t)
			if err != nil {
				return err
			}
			<-job.Done()

			outcome, _ := job.Outcome()
			switch outcome.State {
			case hitbox.StateCompleted:
			case hitbox.StateFailed:
				return fmt.Errorf("decomposition failed: %s", outcome.Reason)
			default:
				return fmt.Errorf("decomposition ended in state %s", outcome.State)
			}

			if err := outcome.Set.SaveFile(output); err != nil {
				return err
			}
			fmt.Printf("Generated %d hitboxes (%s precision), wrote %s\n",
				len(outcome.Set), t, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "OBJ model to decompose")
	cmd.Flags().StringVarP(&output, "output", "o", "hitboxes.json", "output JSON file")
	cmd.Flags().StringVar(&tier, "tier", string(hitbox.TierHigh), "precision tier (minimal, low, medium, high, ultra)")
	cmd.Flags().Int64Var(&seed, "seed", hitbox.DefaultSeed, "clustering seed")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
