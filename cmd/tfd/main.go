package main

import (
	"fmt"
	"os"

	"tfd/internal/cli"
	"tfd/internal/cli/commands"
	"tfd/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "tfd",
		Short: "Test finder and runner dispatcher",
		Long: `Resolve test names, class patterns and test-mapping groups through pluggable finders
and hand the resulting tests to the runner that knows how to invoke their harness.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults; commands load .env and the environment
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	cmds := commands.NewCommands(cfg)
	cmds.Register(rootCmd, &flags, cfg)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
