package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/tools/go/packages"

	"github.com/origadmin/structconv/internal/analyzer"
	"github.com/origadmin/structconv/internal/config"
	"github.com/origadmin/structconv/internal/generator"
	"github.com/origadmin/structconv/internal/template"
)

// loadFlags select and load the packages to scan.
func loadFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "tags",
			Usage: "build tags used when loading packages",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "number of types generated concurrently (default: GOMAXPROCS)",
		},
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"gen"},
		Usage:     "Generate conversion functions for annotated structs",
		ArgsUsage: "[packages...]",
		Flags: append(loadFlags(),
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "write every generated file to this directory (default: next to the declaring file)",
			},
			&cli.StringFlag{
				Name:  "suffix",
				Usage: "generated file name suffix (default: " + config.DefaultSuffix + ")",
			},
			&cli.StringFlag{
				Name:  "template",
				Usage: "text/template file replacing the built-in output template",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "print generated files instead of writing them",
			},
		),
		Action: runGenerate,
	}
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	pkgs, err := loadPackages(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	files, err := gen.Generate(ctx, pkgs)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		slog.Warn("no annotated types found", "patterns", patterns(cmd))
		return nil
	}
	return generator.Write(files, cmd.Bool("dry-run"), cmd.Root().Writer)
}

// resolveConfig loads the configuration file, then applies the command line flags on top.
func resolveConfig(cmd *cli.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if dir := cmd.String("config"); dir != "" {
		cfg, err = config.Load(dir)
	} else {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			return nil, fmt.Errorf("getting cwd: %w", cwdErr)
		}
		cfg, err = config.Discover(cwd)
		if errors.Is(err, config.ErrNoConfig) {
			cfg, err = config.NewConfig(), nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.Dir != "" {
		slog.Debug("using configuration", "dir", cfg.Dir)
	}

	if tags := cmd.StringSlice("tags"); len(tags) > 0 {
		cfg.BuildTags = tags
	}
	if workers := int(cmd.Int("workers")); workers > 0 {
		cfg.Workers = workers
	}
	if cmd.IsSet("output-dir") {
		cfg.Output.Dir = cmd.String("output-dir")
	}
	if cmd.IsSet("suffix") {
		cfg.Output.Suffix = cmd.String("suffix")
	}
	if cmd.IsSet("template") {
		cfg.Template = cmd.String("template")
	}
	return cfg, cfg.Validate()
}

func newGenerator(cfg *config.Config) (*generator.Generator, error) {
	if cfg.Template == "" {
		return generator.New(cfg, nil), nil
	}
	renderer, err := template.Load(cfg.Template)
	if err != nil {
		return nil, err
	}
	return generator.New(cfg, renderer), nil
}

func patterns(cmd *cli.Command) []string {
	if args := cmd.Args().Slice(); len(args) > 0 {
		return args
	}
	return []string{"."}
}

func loadPackages(ctx context.Context, cmd *cli.Command, cfg *config.Config) ([]*packages.Package, error) {
	pkgs, err := analyzer.Load(ctx, cfg, "", patterns(cmd)...)
	if err != nil {
		return nil, err
	}
	slog.Debug("packages loaded", "count", len(pkgs))
	return pkgs, nil
}
