// hitbox is the command line front end: decompose a model, inspect it,
// export hitboxes to mesh formats, report statistics, or run the HTTP
// service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/version"
)

var verbose bool

func buildRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hitbox",
		Short: "Decompose 3D meshes into axis-aligned hitboxes",
		Long: `hitbox clusters the vertices of a triangle mesh, snaps cluster
centers onto real surface points, and emits one axis-aligned bounding
box per cluster. Precision tiers trade box count against fit quality.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(buildDecomposeCommand())
	rootCmd.AddCommand(buildInfoCommand())
	rootCmd.AddCommand(buildExportCommand())
	rootCmd.AddCommand(buildReportCommand())
	rootCmd.AddCommand(buildServeCommand())
	rootCmd.AddCommand(buildVersionCommand())

	return rootCmd
}

func buildVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hitbox %s\n", version.String())
		},
	}
}

func main() {
	if err := buildRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
