// Package cli provides the command-line interface for gemslint.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jokarl/gemslint/internal/config"
)

// Version information, set at build time with
// -ldflags "-X github.com/jokarl/gemslint/internal/cli.GitCommit=...".
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// sessionKey is used to store the session in the command context.
type sessionKey struct{}

// session is what every command needs: settings and a logger.
type session struct {
	cfg    *config.Config
	logger hclog.Logger
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "gemslint",
		Short: "gemslint - shared lint configuration composer",
		Long: `gemslint composes the shared lint configuration for JavaScript, TypeScript
and React projects and lets you inspect the result.

Blocks are applied in order and the last block to set a rule wins. Project
overrides from .gemslint.yaml and HCL files are applied after the shared
configuration, so the project always has the last word.`,
		Version: fmt.Sprintf("%s (commit %s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, err := config.Load(cfgFile, dir, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := hclog.New(&hclog.LoggerOptions{
				Name:       "gemslint",
				Level:      cfg.Level(),
				JSONFormat: cfg.LogJSON,
				Output:     cmd.ErrOrStderr(),
			})
			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}

			cmd.SetContext(context.WithValue(cmd.Context(), sessionKey{}, &session{cfg: cfg, logger: logger}))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.gemslint.yaml)")
	rootCmd.PersistentFlags().String("project", "", "type-check manifest for TypeScript files (default: ./tsconfig.json)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON")
	rootCmd.PersistentFlags().StringP("format", "f", "", "output format (json|yaml)")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewPrintConfigCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewExplainCommand())
	rootCmd.AddCommand(NewRulesCommand())
	rootCmd.AddCommand(NewCheckCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func getSession(cmd *cobra.Command) (*session, error) {
	if s, ok := cmd.Context().Value(sessionKey{}).(*session); ok {
		return s, nil
	}
	return nil, fmt.Errorf("configuration not loaded")
}
