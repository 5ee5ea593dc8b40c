package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	goversion "github.com/caarlos0/go-version"
	"github.com/urfave/cli/v3"

	"github.com/origadmin/structconv/internal/config"
)

var (
	version   = "0.0.1"
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

func main() {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Root().Writer, buildVersion(version, commit, date, builtBy, treeState).String())
	}

	var logFile io.Closer
	root := &cli.Command{
		Name:           config.Application,
		Usage:          config.Description,
		Version:        version,
		DefaultCommand: "generate",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "write logs to this file instead of stderr",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "directory holding " + config.FileName + " (default: discovered from the working directory upwards)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			closer, err := setupLogging(cmd.Bool("debug"), cmd.String("log-file"))
			logFile = closer
			return ctx, err
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			if logFile != nil {
				return logFile.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			generateCommand(),
			inspectCommand(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		slog.Error("structconv failed", "error", err)
		os.Exit(1)
	}
}

// setupLogging installs the default logger: warnings and errors only unless debug is set.
func setupLogging(debug bool, logFile string) (io.Closer, error) {
	var logWriter io.Writer = os.Stderr
	var closer io.Closer
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logWriter, closer = f, f
	}

	logLevel := slog.LevelWarn
	if debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: logLevel,
	})))
	return closer, nil
}

func buildVersion(version, commit, date, builtBy, treeState string) goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails(config.Application, config.Description, config.WebSite),
		func(i *goversion.Info) {
			i.ASCIIName = config.Application
			if commit != "" {
				i.GitCommit = commit
			}
			if version != "" {
				i.GitVersion = version
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
