package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/adapters/frontend"
	"github.com/mikey/phish-detector/internal/di"
	"github.com/mikey/phish-detector/internal/report"
)

func main() {
	flags, err := di.ParseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *di.CLIFlags, cli *frontend.CLIFrontend, res di.Resources) error {
	defer res.Logger.Sync()
	defer res.Close(5 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch flags.Command {
	case "history":
		return cli.History(ctx, flags.Limit)
	case "urls":
		return runURLs(ctx, flags, cli)
	default:
		return analyze(ctx, flags, cli, res.Logger)
	}
}

func analyze(ctx context.Context, flags *di.CLIFlags, cli *frontend.CLIFrontend, logger *zap.Logger) error {
	var (
		reader io.Reader = os.Stdin
		source           = flags.Source
	)

	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		reader = file
		if source == "" {
			source = filepath.Base(flags.InputFile)
		}
		logger.Debug("Reading email from file", zap.String("file", flags.InputFile))
	} else {
		logger.Debug("Reading email from stdin")
	}

	raw, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	_, err = cli.Analyze(ctx, raw, source)
	return err
}

func runURLs(ctx context.Context, flags *di.CLIFlags, cli *frontend.CLIFrontend) error {
	args := flags.Args
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}

	switch args[0] {
	case "list":
		return cli.ListURLs(ctx)
	case "add":
		if arg(1) == "" {
			return errors.New("usage: urls add URL [RISK] [SOURCE]")
		}
		return cli.AddURL(ctx, arg(1), arg(3), arg(2))
	case "remove":
		if arg(1) == "" {
			return errors.New("usage: urls remove URL")
		}
		return cli.RemoveURL(ctx, arg(1))
	case "export":
		format := report.FormatCSV
		if flags.IsSet("format") {
			parsed, err := report.ParseFormat(flags.Format)
			if err != nil {
				return err
			}
			format = parsed
		}

		if arg(1) == "" {
			return cli.ExportURLs(ctx, os.Stdout, format)
		}
		file, err := os.Create(arg(1))
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		if err := cli.ExportURLs(ctx, file, format); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
		fmt.Printf("Exported URLs to %s\n", arg(1))
		return nil
	default:
		return fmt.Errorf("unknown urls command: %s", args[0])
	}
}
