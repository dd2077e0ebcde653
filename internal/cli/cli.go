package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/confgrid/config"
	"github.com/vk/confgrid/internal/app"
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

// overrideFlag accumulates repeated -o key=value arguments. Values are
// coerced with the same JSON-literal rules config files use.
type overrideFlag map[string]any

func (o overrideFlag) String() string {
	return fmt.Sprintf("%d override(s)", len(o))
}

func (o overrideFlag) Set(arg string) error {
	key, val, ok := strings.Cut(arg, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("override must look like path.to.key=value, got %q", arg)
	}
	o[key] = config.Coerce(strings.TrimSpace(val))
	return nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("confgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
confgrid - parse, merge, and render configuration trees.

Usage:
  confgrid [options] [CONFIG_PATH]

Arguments:
  CONFIG_PATH
    Path to a single config file (.cfg or .hcl) or a directory. Every .cfg
    and .hcl file under a directory is merged in sorted order, later files
    overriding earlier ones.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the config file or directory.")
	cFlag := flagSet.String("c", "", "Path to the config file or directory (shorthand).")
	overrides := overrideFlag{}
	flagSet.Var(overrides, "o", "Override a value by dotted path, e.g. -o training.batch=64. Repeatable.")
	interpolateFlag := flagSet.Bool("interpolate", false, "Resolve ${...} placeholders before rendering.")
	orderFlag := flagSet.String("order", "", "Comma-separated top-level section names to render first.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *configFlag != "" {
		path = *configFlag
	} else if *cFlag != "" {
		path = *cFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	var order []string
	if *orderFlag != "" {
		for _, name := range strings.Split(*orderFlag, ",") {
			if name = strings.TrimSpace(name); name != "" {
				order = append(order, name)
			}
		}
	}

	cfg, err := app.NewConfig(app.Config{
		ConfigPath:  path,
		Overrides:   overrides,
		Interpolate: *interpolateFlag,
		Order:       order,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return cfg, false, nil
}
