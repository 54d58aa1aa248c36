package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the smartsched application
var rootCmd = &cobra.Command{
	Use:   "smartsched",
	Short: "Natural-language scheduling assistant for Google Calendar",
	Long: `smartsched finds open meeting slots, resolves natural-language dates and
times, and manages calendar events through confirmation-gated operations.

It runs as an MCP (Model Context Protocol) server so AI assistants can
schedule on your behalf without guessing at your availability.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "smartsched version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
