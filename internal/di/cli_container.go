package di

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/adapters/frontend"
	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/factory"
	"github.com/mikey/phish-detector/internal/logging"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Input flags
	InputFile string
	Source    string

	// Output flags
	Format  string
	Verbose bool
	JSONLog bool
	Limit   int

	// Overrides of the configuration file
	ConfigFile     string
	ClassifierKind string
	ModelPath      string
	StoreType      string

	// Command is the subcommand, "analyze" when none is given
	Command string
	Args    []string

	set map[string]bool
}

// ParseFlags parses command line arguments, excluding the program name
func ParseFlags(args []string, output io.Writer) (*CLIFlags, error) {
	flags := &CLIFlags{set: make(map[string]bool)}

	fs := flag.NewFlagSet("phish-detector", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: phish-detector [flags] [command]\n\n")
		fmt.Fprintf(fs.Output(), "Commands:\n")
		fmt.Fprintf(fs.Output(), "  analyze                      analyze an email from -file or stdin (default)\n")
		fmt.Fprintf(fs.Output(), "  history                      show recent analyses\n")
		fmt.Fprintf(fs.Output(), "  urls list                    list stored suspicious URLs\n")
		fmt.Fprintf(fs.Output(), "  urls add URL [RISK] [SOURCE] store a URL manually\n")
		fmt.Fprintf(fs.Output(), "  urls remove URL              delete a stored URL\n")
		fmt.Fprintf(fs.Output(), "  urls export [PATH]           export stored URLs as csv or json\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}

	// Input flags
	fs.StringVar(&flags.InputFile, "file", "", "Input email file (use stdin if not specified)")
	fs.StringVar(&flags.Source, "source", "", "Source name recorded with the analysis (defaults to the file name)")

	// Output flags
	fs.StringVar(&flags.Format, "format", "text", "Output format (text, json, yaml; csv or json for urls export)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Show progress and enable debug logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.IntVar(&flags.Limit, "limit", 5, "Number of entries shown by history")

	// Configuration flags
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	fs.StringVar(&flags.ClassifierKind, "classifier", "builtin", "Classifier kind (none, builtin, file, bedrock, gemini, openai)")
	fs.StringVar(&flags.ModelPath, "model", "", "Model file used by the file classifier")
	fs.StringVar(&flags.StoreType, "store", "memory", "Store type (memory, json, sqlite, mysql, postgres, redis)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { flags.set[f.Name] = true })

	rest := fs.Args()
	flags.Command = "analyze"
	if len(rest) > 0 {
		flags.Command, flags.Args = rest[0], rest[1:]
	}

	switch flags.Command {
	case "analyze", "history":
	case "urls":
		if len(flags.Args) == 0 {
			flags.Args = []string{"list"}
		}
	default:
		fs.Usage()
		return nil, fmt.Errorf("unknown command: %s", flags.Command)
	}

	return flags, nil
}

// IsSet reports whether the named flag was given on the command line
func (f *CLIFlags) IsSet(name string) bool {
	return f.set[name]
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := config.NewWithFile(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Debug("Loaded configuration from file", zap.String("file", used))
		}
		applyFlags(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := provideDetection(container); err != nil {
		return nil, err
	}

	// Register CLI frontend
	if err := container.Provide(func(f *factory.FrontendFactory, flags *CLIFlags) (*frontend.CLIFrontend, error) {
		return f.CreateCLIFrontend(os.Stdout, flags.Verbose)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// applyFlags copies explicitly given flags over the loaded configuration
func applyFlags(cfg *config.Config, flags *CLIFlags) {
	if flags.IsSet("classifier") {
		cfg.Set("classifier.kind", flags.ClassifierKind)
	}
	if flags.IsSet("model") {
		cfg.Set("classifier.model_path", flags.ModelPath)
		if !flags.IsSet("classifier") {
			cfg.Set("classifier.kind", "file")
		}
	}
	if flags.IsSet("store") {
		cfg.Set("store.type", flags.StoreType)
	}
	if flags.IsSet("format") && flags.Command == "analyze" {
		cfg.Set("report.format", flags.Format)
	}
	// Reloading is pointless for a single analysis
	cfg.Set("classifier.watch", false)
}
