package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/mesh"
)

func buildInfoCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print mesh statistics for an OBJ model",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mesh.LoadOBJ(input)
			if err != nil {
				return err
			}

			b := m.Bounds()
			ext := b.Extents()
			fmt.Printf("model:    %s\n", m.Name)
			fmt.Printf("vertices: %d\n", len(m.Vertices))
			fmt.Printf("faces:    %d\n", len(m.Faces))
			fmt.Printf("bounds:   [%g, %g, %g] .. [%g, %g, %g]\n",
				b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
			fmt.Printf("extents:  %g x %g x %g\n", ext.X, ext.Y, ext.Z)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "OBJ model to inspect")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
