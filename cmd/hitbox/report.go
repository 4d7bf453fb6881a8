package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/hitbox"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/report"
)

func buildReportCommand() *cobra.Command {
	var (
		input string
		plot  string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print volume statistics for a hitbox set",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := hitbox.LoadSetFile(input)
			if err != nil {
				return err
			}

			summary, err := report.Summarize(set)
			if err != nil {
				return err
			}
			if err := report.WriteText(os.Stdout, summary); err != nil {
				return err
			}

			if plot != "" {
				if err := report.SaveHistogram(set, plot); err != nil {
					return err
				}
				fmt.Printf("wrote histogram %s\n", plot)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "hitboxes.json", "hitbox JSON file")
	cmd.Flags().StringVar(&plot, "plot", "", "write a PNG histogram of box volumes")

	return cmd
}
