// Package typetest type-checks in-memory Go sources into packages.Package values for tests.
//
// Standard library imports are resolved from source. The instant and duration libraries
// recognized by the analyzer are replaced by small stubs declared under their real import
// paths, so fixtures can use them without a module cache.
package typetest

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"reflect"
	"slices"

	"cloud.google.com/go/civil"
	"golang.org/x/tools/go/packages"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

var stubs = map[string]string{
	reflect.TypeFor[civil.DateTime]().PkgPath(): `package civil

import "time"

type Date struct {
	Year  int
	Month time.Month
	Day   int
}

type Time struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

type DateTime struct {
	Date Date
	Time Time
}

func DateTimeOf(t time.Time) DateTime { return DateTime{} }

func (dt DateTime) In(loc *time.Location) time.Time { return time.Time{} }
`,
	reflect.TypeFor[timestamppb.Timestamp]().PkgPath(): `package timestamppb

import "time"

type Timestamp struct {
	Seconds int64
	Nanos   int32
}

func New(t time.Time) *Timestamp { return &Timestamp{} }

func (x *Timestamp) AsTime() time.Time { return time.Time{} }
`,
	reflect.TypeFor[durationpb.Duration]().PkgPath(): `package durationpb

import "time"

type Duration struct {
	Seconds int64
	Nanos   int32
}

func New(d time.Duration) *Duration { return &Duration{} }

func (x *Duration) AsDuration() time.Duration { return 0 }
`,
}

// Universe is a set of checked packages sharing one file set and one importer,
// so types from different packages are identical where Go says they are.
type Universe struct {
	Fset *token.FileSet
	std  types.Importer
	pkgs map[string]*packages.Package
}

// New creates a universe with the stub libraries available.
func New() *Universe {
	fset := token.NewFileSet()
	return &Universe{
		Fset: fset,
		std:  importer.ForCompiler(fset, "source", nil),
		pkgs: make(map[string]*packages.Package),
	}
}

// Import implements types.Importer.
func (u *Universe) Import(path string) (*types.Package, error) {
	if p, ok := u.pkgs[path]; ok {
		return p.Types, nil
	}
	if src, ok := stubs[path]; ok {
		p, err := u.Check(path, map[string]string{"stub.go": src})
		if err != nil {
			return nil, err
		}
		return p.Types, nil
	}
	return u.std.Import(path)
}

// Check parses and type-checks files (name to source) as the package at path and
// registers it for later imports.
func (u *Universe) Check(path string, files map[string]string) (*packages.Package, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	syntax := make([]*ast.File, 0, len(names))
	for _, name := range names {
		f, err := parser.ParseFile(u.Fset, name, files[name], parser.ParseComments)
		if err != nil {
			return nil, err
		}
		syntax = append(syntax, f)
	}

	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Scopes:     make(map[ast.Node]*types.Scope),
		Instances:  make(map[*ast.Ident]types.Instance),
	}
	conf := types.Config{Importer: u}
	tpkg, err := conf.Check(path, u.Fset, syntax, info)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}

	imports := make(map[string]*packages.Package)
	for _, imp := range tpkg.Imports() {
		if p, ok := u.pkgs[imp.Path()]; ok {
			imports[imp.Path()] = p
			continue
		}
		imports[imp.Path()] = &packages.Package{ID: imp.Path(), PkgPath: imp.Path(), Name: imp.Name(), Types: imp}
	}

	pkg := &packages.Package{
		ID:        path,
		Name:      tpkg.Name(),
		PkgPath:   path,
		GoFiles:   names,
		Fset:      u.Fset,
		Syntax:    syntax,
		Types:     tpkg,
		TypesInfo: info,
		Imports:   imports,
	}
	u.pkgs[path] = pkg
	return pkg, nil
}

// MustCheck is Check that panics on error.
func (u *Universe) MustCheck(path string, files map[string]string) *packages.Package {
	p, err := u.Check(path, files)
	if err != nil {
		panic(err)
	}
	return p
}

// Lookup returns the type declared as name in the package at path.
func (u *Universe) Lookup(path, name string) types.Type {
	p, ok := u.pkgs[path]
	if !ok {
		panic("typetest: package not checked: " + path)
	}
	obj := p.Types.Scope().Lookup(name)
	if obj == nil {
		panic("typetest: no " + name + " in " + path)
	}
	return obj.Type()
}
