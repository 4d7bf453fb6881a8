package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/hitbox"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/meshio"
)

func buildExportCommand() *cobra.Command {
	var (
		input  string
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a hitbox set to OBJ or binary STL",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := hitbox.LoadSetFile(input)
			if err != nil {
				return err
			}

			switch format {
			case "obj":
				err = meshio.ExportOBJ(output, set)
			case "stl":
				err = meshio.ExportSTL(output, set)
			default:
				return fmt.Errorf("unknown format %q (want obj or stl)", format)
			}
			if err != nil {
				return err
			}

			fmt.Printf("Exported %d hitboxes to %s\n", len(set), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "hitboxes.json", "hitbox JSON file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVar(&format, "format", "obj", "export format: obj or stl")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
