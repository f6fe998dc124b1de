package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vk/heurconf/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// options holds the global flags shared by every command.
type options struct {
	cfg app.Config
	// logW receives the application logs; command output goes to the
	// command's out writer.
	logW io.Writer
}

// newApp loads the settings and creates the application for one command.
func (o *options) newApp(ctx context.Context) (*app.App, error) {
	settings, err := o.cfg.Settings(ctx)
	if err != nil {
		return nil, err
	}
	return app.NewApp(o.logW, settings)
}

// NewRootCommand builds the heurconf command tree. Command output is written
// to outW and logs to logW.
func NewRootCommand(outW, logW io.Writer) *cobra.Command {
	o := &options{logW: logW}

	root := &cobra.Command{
		Use:   "heurconf",
		Short: "Discovers metaheuristic components and explores their configuration space.",
		Long: `heurconf discovers the compiled-in metaheuristic components, builds algorithms
from configuration strings such as

  GRASP{iterations=100, constructive=GreedyRandomConstructive{alpha=0.3}, improver=NullImprover{}}

and exports the bounded space of valid configurations for automatic tuners.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			o.cfg.LogLevel = strings.ToLower(o.cfg.LogLevel)
			switch o.cfg.LogLevel {
			case "", "debug", "info", "warn", "error":
			default:
				return usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
			}
			o.cfg.LogFormat = strings.ToLower(o.cfg.LogFormat)
			if o.cfg.LogFormat != "" && o.cfg.LogFormat != "text" && o.cfg.LogFormat != "json" {
				return usageError("invalid log-format: must be 'text' or 'json'")
			}
			for _, name := range []string{"max-depth", "max-repeat", "workers"} {
				if !cmd.Flags().Changed(name) {
					continue
				}
				if v, err := cmd.Flags().GetInt(name); err == nil && v < 1 {
					return usageError("invalid %s: must be positive, got %d", name, v)
				}
			}
			return nil
		},
	}
	root.SetOut(outW)
	root.SetErr(outW)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError("%v", err)
	})

	flags := root.PersistentFlags()
	flags.StringSliceVarP(&o.cfg.SettingsPaths, "config", "c", nil, "Settings file or directory of .hcl files. Repeatable; later files win.")
	flags.StringVar(&o.cfg.LogLevel, "log-level", "", "Logging level: 'debug', 'info', 'warn' or 'error'. Overrides the settings file.")
	flags.StringVar(&o.cfg.LogFormat, "log-format", "", "Log output format: 'text' or 'json'. Overrides the settings file.")
	flags.IntVar(&o.cfg.MaxDepth, "max-depth", 0, "Maximum component nesting depth of the candidate space.")
	flags.IntVar(&o.cfg.MaxRepeat, "max-repeat", 0, "Maximum uses of one derivation per branch of the candidate space.")
	flags.IntVar(&o.cfg.Workers, "workers", 0, "Number of roots explored concurrently.")

	root.AddCommand(
		newModulesCmd(),
		newComponentsCmd(o),
		newBuildCmd(o),
		newTreeCmd(o),
		newIraceCmd(o),
		newDecodeCmd(o),
	)
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, outW, logW io.Writer) error {
	root := NewRootCommand(outW, logW)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)

	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) && isUsageError(err) {
		return usageError("%v", err)
	}
	return err
}

// isUsageError recognizes the argument errors cobra produces itself.
func isUsageError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "accepts ") ||
		strings.HasPrefix(msg, "requires at least")
}
