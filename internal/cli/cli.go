package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vk/taskgridgo/internal/app"
	"github.com/vk/taskgridgo/internal/completion"
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

// paramFlags collects repeated -p name=value flags into typed parameter
// values. Values are parsed as YAML scalars so `-p retries=3` arrives as an
// integer and `-p dry_run=true` as a boolean.
type paramFlags struct {
	values map[string]any
}

// String implements flag.Value.
func (p *paramFlags) String() string {
	parts := make([]string, 0, len(p.values))
	for name, value := range p.values {
		parts = append(parts, fmt.Sprintf("%s=%v", name, value))
	}
	return strings.Join(parts, ",")
}

// Set implements flag.Value.
func (p *paramFlags) Set(raw string) error {
	name, value, ok := strings.Cut(raw, "=")
	if !ok || name == "" {
		return fmt.Errorf("parameter must be in name=value form, got %q", raw)
	}
	if p.values == nil {
		p.values = make(map[string]any)
	}
	p.values[name] = parseScalar(value)
	return nil
}

// parseScalar interprets a raw string the way a YAML document would, falling
// back to the string itself when it is not a recognizable scalar.
func parseScalar(raw string) any {
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return raw
	}
	if value == nil && raw != "" && raw != "null" && raw != "~" {
		return raw
	}
	return value
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("taskgridgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
TaskGridGo - A declarative experiment description engine.

Usage:
  taskgridgo [options] [DESCRIPTION_PATH]

Arguments:
  DESCRIPTION_PATH
    Path to a YAML or JSON experiment description document.

Options:
`)
		flagSet.PrintDefaults()
	}

	descriptionFlag := flagSet.String("description", "", "Path to the description document.")
	dFlag := flagSet.String("d", "", "Path to the description document (shorthand).")
	registryFlag := flagSet.String("registry", "", "Path to a task/type registry file. Empty disables completion.")
	policyFlag := flagSet.String("policy", "none", "Completion policy. Options: 'none', 'enrich', 'override', 'strict'.")
	paramsEnvFlag := flagSet.String("params-env", "", "Path to a dotenv file supplying parameter values.")
	runFlag := flagSet.Bool("run", false, "Execute the description after validation.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	var params paramFlags
	flagSet.Var(&params, "p", "Parameter value in name=value form. Repeatable.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *descriptionFlag != "" {
		path = *descriptionFlag
	} else if *dFlag != "" {
		path = *dFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Description path determined.", "path", path)

	if path == "" {
		slog.Debug("No description path provided, printing usage and exiting.")
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

	policy, err := completion.ParsePolicy(strings.ToLower(*policyFlag))
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	parameters, err := loadParameters(*paramsEnvFlag, params.values)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		DescriptionPath: path,
		RegistryPath:    *registryFlag,
		Policy:          policy,
		Parameters:      parameters,
		Execute:         *runFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// loadParameters merges dotenv-sourced parameter values with explicit -p
// flags. Flags win on conflict.
func loadParameters(envPath string, flagValues map[string]any) (map[string]any, error) {
	if envPath == "" {
		return flagValues, nil
	}

	envValues, err := godotenv.Read(envPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read params-env file %q: %w", envPath, err)
	}

	merged := make(map[string]any, len(envValues)+len(flagValues))
	for name, raw := range envValues {
		merged[name] = parseScalar(raw)
	}
	for name, value := range flagValues {
		merged[name] = value
	}
	return merged, nil
}
