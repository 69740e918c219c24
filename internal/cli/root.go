// Package cli implements the interactive AskGod client: discover the server
// over UDP (or connect directly), register, join a team, then drive the
// line protocol from the terminal.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var cfg *Config

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "askgod",
		Short: "Interactive client for the AskGod scoring server",
		Long: `askgod is the interactive client for the AskGod CTF scoring server.

Without --server it listens for the server's UDP presence broadcast on the
local network and connects to the announcing host.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfg.Server, "server", "s", cfg.Server, "Server address host:port (skips discovery)")
	rootCmd.PersistentFlags().IntVar(&cfg.Port, "port", cfg.Port, "Game and discovery port")
	rootCmd.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Discovery wait bound (0 waits forever)")
	rootCmd.PersistentFlags().BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Echo raw protocol traffic")

	// Add subcommands
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newDiscoverCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
