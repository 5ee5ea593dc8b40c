package main

import (
	"context"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v3"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the conversion plan of every directive without generating code",
		ArgsUsage: "[packages...]",
		Flags:     loadFlags(),
		Action:    runInspect,
	}
}

func runInspect(ctx context.Context, cmd *cli.Command) error {
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

	plans, err := gen.Inspect(ctx, pkgs)
	if err != nil {
		return err
	}
	dump := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	dump.Fdump(cmd.Root().Writer, plans)
	return nil
}
