// ABOUTME: Root CLI command with global flags
// ABOUTME: Wires the serve, mcp, and version subcommands
package commands

import (
	"io"
	"log"

	"github.com/spf13/cobra"
)

// Global flags shared by all subcommands
var (
	verbose bool
	quiet   bool
)

const banner = `
 ██████╗  ██████╗ ████████╗██████╗
██╔═══██╗██╔═══██╗╚══██╔══╝██╔══██╗
██║   ██║██║   ██║   ██║   ██║  ██║
██║   ██║██║   ██║   ██║   ██║  ██║
╚██████╔╝╚██████╔╝   ██║   ██████╔╝
 ╚═════╝  ╚═════╝    ╚═╝   ╚═════╝`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ootd",
		Short: "Wardrobe catalog and outfit recommendation backend",
		Long: banner + `

ootd manages a personal wardrobe catalog and composes outfit
recommendations around a selected item, matching the rest of the
wardrobe by embedding similarity and asking an LLM stylist to pick
the final pieces.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if quiet {
				log.SetOutput(io.Discard)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewMCPCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
