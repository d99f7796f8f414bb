package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jokarl/gemslint/flatconfig"
	"github.com/jokarl/gemslint/gems"
)

// ErrIgnored is returned when a file is excluded by a global ignore block.
var ErrIgnored = errors.New("file is ignored")

// ErrUnknownRules is returned by check when unknown rules are found.
var ErrUnknownRules = errors.New("unknown rules found")

// NewPrintConfigCommand creates the print-config command.
func NewPrintConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "print-config <file>",
		Short: "Print the effective configuration for a file",
		Example: `  # Effective rules and parser setup for a TypeScript file
  gemslint print-config src/index.ts

  # As YAML
  gemslint print-config src/App.tsx -f yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			cfg, err := s.compose(cmd.Context())
			if err != nil {
				return err
			}

			resolved, ok := cfg.Resolve(s.cfg.RelPath(args[0]))
			if !ok {
				return fmt.Errorf("%s: %w", args[0], ErrIgnored)
			}
			return encode(cmd.OutOrStdout(), s.cfg.Format, resolved)
		},
	}
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the composed block list",
		Long: `Print every block of the composed configuration, in application order.
The output can be handed to a lint engine as-is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			cfg, err := s.compose(cmd.Context())
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), s.cfg.Format, cfg)
		},
	}
}

// NewExplainCommand creates the explain command.
func NewExplainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <file> <rule>",
		Short: "Show which blocks set a rule for a file",
		Long: `Show every block that sets a rule for a file, in application order.
The last line is the effective value.`,
		Example: `  gemslint explain src/index.ts no-unused-vars`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			cfg, err := s.compose(cmd.Context())
			if err != nil {
				return err
			}

			file, rule := args[0], args[1]
			rel := s.cfg.RelPath(file)
			if cfg.Ignored(rel) {
				return fmt.Errorf("%s: %w", file, ErrIgnored)
			}
			layers := cfg.Explain(rel, rule)
			if len(layers) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not set for %s\n", rule, file)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "INDEX\tBLOCK\tVALUE")
			for _, l := range layers {
				value, err := jsonValue(l.Setting)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", l.Index, l.Block, value)
			}
			return w.Flush()
		},
	}
}

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Verbose bool // List every rule id
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List rule providers and the rules they contribute",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			external, err := s.providers(cmd.Context())
			if err != nil {
				return err
			}

			providers := append(gems.Providers(), external...)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tVERSION\tRULES")
			for _, p := range providers {
				fmt.Fprintf(w, "%s\t%s\t%d\n", p.Name(), p.Version(), len(p.RuleNames()))
				if opts.Verbose {
					for _, id := range p.RuleNames() {
						fmt.Fprintf(w, "\t\t%s\n", id)
					}
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "List every rule id")

	return cmd
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Report enabled rules whose plugin does not define them",
		Long: `Report plugin rules that are enabled for a file but are not defined by a
registered plugin. Composition never validates rule ids; this command is how
such mistakes are found before the lint engine runs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			cfg, err := s.compose(cmd.Context())
			if err != nil {
				return err
			}

			found := 0
			for _, file := range args {
				rel := s.cfg.RelPath(file)
				if cfg.Ignored(rel) {
					s.logger.Debug("skipping ignored file", "file", file)
					continue
				}
				for _, id := range flatconfig.UnknownRules(cfg, rel) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", file, id)
					found++
				}
			}
			if found > 0 {
				return fmt.Errorf("%d %w", found, ErrUnknownRules)
			}
			return nil
		},
	}
}

func jsonValue(s flatconfig.RuleSetting) (string, error) {
	data, err := s.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}
