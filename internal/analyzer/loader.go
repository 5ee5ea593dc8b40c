package analyzer

import (
	"context"
	"errors"
	"fmt"
	"go/types"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/origadmin/structconv/internal/config"
	"github.com/origadmin/structconv/internal/model"
)

// Loader errors.
var (
	ErrLoad           = errors.New("failed to load packages")
	ErrUnresolvedType = errors.New("unresolved type")
	ErrNotStruct      = errors.New("not a struct type")
)

// LoadMode is everything the walker and the schema reader consume.
const LoadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedTypesInfo | packages.NeedImports | packages.NeedDeps

// Load loads patterns relative to dir. Packages named by full-path directives that are
// not part of the resulting import graph are loaded in a second pass together with the
// patterns, so that every type shares one type-checking universe.
func Load(ctx context.Context, cfg *config.Config, dir string, patterns ...string) ([]*packages.Package, error) {
	pkgs, err := load(ctx, cfg, dir, patterns)
	if err != nil {
		return nil, err
	}

	missing := missingPaths(pkgs, DirectiveDependencies(pkgs))
	if len(missing) == 0 {
		return pkgs, nil
	}
	slog.Debug("reloading with directive dependencies", "paths", missing)
	return load(ctx, cfg, dir, append(slices.Clone(patterns), missing...))
}

func load(ctx context.Context, cfg *config.Config, dir string, patterns []string) ([]*packages.Package, error) {
	loadCfg := &packages.Config{
		Context:    ctx,
		Mode:       LoadMode,
		Dir:        dir,
		BuildFlags: cfg.BuildFlags(),
	}
	pkgs, err := packages.Load(loadCfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("%w: no packages matched %v", ErrLoad, patterns)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, pkgErr := range pkg.Errors {
			slog.Warn("package contains errors", "pkg", pkg.PkgPath, "error", pkgErr.Msg, "pos", pkgErr.Pos)
			errs = append(errs, pkgErr)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrLoad, errors.Join(errs...))
	}

	for _, pkg := range pkgs {
		slog.Debug("loaded package", "pkg", pkg.PkgPath, "files", len(pkg.GoFiles))
	}
	return pkgs, nil
}

// DirectiveDependencies returns the import paths written out in directives, sorted.
func DirectiveDependencies(pkgs []*packages.Package) []string {
	deps := make(map[string]struct{})
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			for _, group := range file.Comments {
				for _, c := range group.List {
					d, ok, err := config.ParseDirective(c.Text)
					if !ok || err != nil {
						continue
					}
					if path, _, isPath := SplitTypePath(d.Type); isPath {
						deps[path] = struct{}{}
					}
				}
			}
		}
	}

	paths := make([]string, 0, len(deps))
	for p := range deps {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// SplitTypePath splits "example.com/pb.User" into its import path and name.
// isPath is false for "User" and "pb.User".
func SplitTypePath(expr string) (path, name string, isPath bool) {
	slash := strings.LastIndex(expr, "/")
	if slash < 0 {
		return "", "", false
	}
	dot := strings.LastIndex(expr, ".")
	if dot < slash {
		return "", "", false
	}
	return expr[:dot], expr[dot+1:], true
}

func missingPaths(pkgs []*packages.Package, paths []string) []string {
	known := make(map[string]bool)
	packages.Visit(pkgs, func(p *packages.Package) bool {
		known[p.PkgPath] = true
		return true
	}, nil)

	var missing []string
	for _, p := range paths {
		if !known[p] {
			missing = append(missing, p)
		}
	}
	return missing
}

// Resolver finds types by import path across one loaded package graph.
// It is built once and only read afterwards.
type Resolver struct {
	pkgs map[string]*types.Package
}

var _ model.TypeResolver = (*Resolver)(nil)

// NewResolver indexes every package reachable from pkgs.
func NewResolver(pkgs []*packages.Package) *Resolver {
	r := &Resolver{pkgs: make(map[string]*types.Package)}
	packages.Visit(pkgs, func(p *packages.Package) bool {
		if p.Types != nil {
			r.pkgs[p.PkgPath] = p.Types
		}
		return true
	}, nil)
	return r
}

// Package returns the loaded package with the given path.
func (r *Resolver) Package(path string) (*types.Package, bool) {
	p, ok := r.pkgs[path]
	return p, ok
}

// LookupStruct finds the named struct type name in the package at path.
func (r *Resolver) LookupStruct(path, name string) (*types.TypeName, error) {
	pkg, ok := r.pkgs[path]
	if !ok {
		return nil, fmt.Errorf("%w: package %q is not loaded", ErrUnresolvedType, path)
	}
	return LookupStruct(pkg, name)
}

// LookupStruct finds a struct type declared at package scope.
func LookupStruct(pkg *types.Package, name string) (*types.TypeName, error) {
	obj, ok := pkg.Scope().Lookup(name).(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnresolvedType, pkg.Path(), name)
	}
	if _, ok := obj.Type().Underlying().(*types.Struct); !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrNotStruct, pkg.Path(), name)
	}
	return obj, nil
}
