package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/olevel/config"
)

// newValidateCmd validates a config file without starting the server.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a config file",
		Long: `Validate an olevel configuration file without starting the server.

This command parses the YAML, expands environment variables, and validates
all fields. It does not connect to the storage backend.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  olevel validate -c olevel.yaml`,
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		return errors.New(`required flag(s) "config" not set`)
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Port:           %d\n", cfg.Port)
	fmt.Fprintf(out, "  Redirect delay: %s\n", cfg.RedirectDelay.Duration())
	fmt.Fprintf(out, "  Storage:        %s (key %s)\n", cfg.Storage.Driver, cfg.Storage.Key)
	if cfg.Storage.Path != "" {
		fmt.Fprintf(out, "  Path:           %s\n", cfg.Storage.Path)
	}

	return nil
}
