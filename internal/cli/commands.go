package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vk/heurconf/internal/app"
)

func newModulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List the compiled-in component modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range app.ModuleNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newComponentsCmd(o *options) *cobra.Command {
	var capability string
	var all bool

	cmd := &cobra.Command{
		Use:   "components",
		Short: "List discovered components with their capabilities and parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.newApp(cmd.Context())
			if err != nil {
				return err
			}
			return writeComponents(cmd.OutOrStdout(), a.Components(capability), all)
		},
	}
	cmd.Flags().StringVar(&capability, "capability", "", "Only list components with this capability.")
	cmd.Flags().BoolVar(&all, "all", false, "Also list components that are not autoconfigurable.")
	return cmd
}

func writeComponents(w io.Writer, components []app.ComponentInfo, all bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCAPABILITIES\tPARAMETERS")
	for _, c := range components {
		var ps string
		switch {
		case !c.Autoconfigurable() && !all:
			continue
		case !c.Autoconfigurable():
			ps = "-"
		case len(c.Params) == 0:
			ps = "(none)"
		default:
			parts := make([]string, len(c.Params))
			for i, p := range c.Params {
				parts[i] = p.String()
			}
			ps = strings.Join(parts, "; ")
		}
		name := c.Name
		if c.Factory {
			name += " (factory)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, strings.Join(c.Capabilities, ","), ps)
	}
	return tw.Flush()
}

func newBuildCmd(o *options) *cobra.Command {
	var anyComponent bool

	cmd := &cobra.Command{
		Use:   "build EXPRESSION",
		Short: "Build a configuration string and print the resulting configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.newApp(cmd.Context())
			if err != nil {
				return err
			}
			var built any
			if anyComponent {
				built, err = a.BuildFromString(cmd.Context(), args[0])
			} else {
				built, err = a.BuildAlgorithmFromString(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			if s, ok := built.(fmt.Stringer); ok {
				fmt.Fprintln(cmd.OutOrStdout(), s.String())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%v\n", built)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&anyComponent, "any", false, "Accept any component or literal, not only algorithms.")
	return cmd
}

func newTreeCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the candidate space as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.newApp(cmd.Context())
			if err != nil {
				return err
			}
			f, err := a.Space(cmd.Context())
			if err != nil {
				return err
			}
			out, err := f.YAML()
			if err != nil {
				return fmt.Errorf("failed to encode candidate space: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newIraceCmd(o *options) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "irace",
		Short: "Write the irace parameter file of the candidate space",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.newApp(cmd.Context())
			if err != nil {
				return err
			}
			if outPath == "" {
				return a.ExportParameters(cmd.Context(), cmd.OutOrStdout())
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create parameter file: %w", err)
			}
			if err := a.ExportParameters(cmd.Context(), f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file. If unset, the parameters are printed to stdout.")
	return cmd
}

func newDecodeCmd(o *options) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "decode -- [--NAME=VALUE ...]",
		Short: "Turn the parameter assignment of a tuner run into a configuration string",
		Long: `decode reads the --NAME=VALUE arguments a tuner passes to its target runner,
as produced from the irace parameter file, and prints the configuration string
of the chosen algorithm. Other arguments are ignored, so the whole target
runner command line can be passed after --.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.newApp(cmd.Context())
			if err != nil {
				return err
			}
			expr, err := a.DecodeAssignment(cmd.Context(), args)
			if err != nil {
				return err
			}
			if check {
				if _, err := a.BuildAlgorithmFromString(cmd.Context(), expr); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), expr)
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Also build the decoded configuration.")
	return cmd
}
