// Package ast finds annotated struct declarations in loaded packages and turns their
// directives into resolved conversion directives.
package ast

import (
	"fmt"
	goast "go/ast"
	"go/build/constraint"
	"go/token"
	"go/types"
	"log/slog"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/origadmin/structconv/internal/analyzer"
	"github.com/origadmin/structconv/internal/config"
	"github.com/origadmin/structconv/internal/model"
)

// Directive is one directive comment as written on a declaration.
type Directive struct {
	config.Directive
	Pos token.Position
}

// AnnotatedType is a struct declaration carrying at least one directive.
type AnnotatedType struct {
	Obj *types.TypeName
	Pkg *packages.Package
	// File is the path of the declaring file.
	File string
	// Constraint is the file's build constraint, or "".
	Constraint string
	// Imports maps the file's local package names to import paths.
	Imports    map[string]string
	Directives []Directive
}

// Name returns the declared type name.
func (at *AnnotatedType) Name() string {
	return at.Obj.Name()
}

// Scope reconstructs the enclosing scope, printing constraints with q.
func (at *AnnotatedType) Scope(q types.Qualifier) model.Scope {
	return ScopeOf(at.Obj, at.Constraint, q)
}

// Key identifies the declaration for deduplication.
func (at *AnnotatedType) Key() model.Key {
	pkgPath := at.Obj.Pkg().Path()
	return model.NewKey(pkgPath+"."+at.Obj.Name(), pkgPath, at.Scope(nil))
}

// ScopeOf builds the scope chain of a package level type declaration.
func ScopeOf(obj *types.TypeName, buildConstraint string, q types.Qualifier) model.Scope {
	frame := model.Frame{
		Keyword:   "type",
		Name:      obj.Name(),
		Modifiers: buildConstraint,
	}
	if named, ok := obj.Type().(*types.Named); ok {
		tparams := named.TypeParams()
		for i := 0; i < tparams.Len(); i++ {
			tp := tparams.At(i)
			frame.TypeParams = append(frame.TypeParams, model.TypeParam{
				Name:       tp.Obj().Name(),
				Constraint: types.TypeString(tp.Constraint(), q),
			})
		}
	}
	return model.Scope{
		Namespace: obj.Pkg().Path(),
		Package:   obj.Pkg().Name(),
		Frames:    []model.Frame{frame},
	}
}

// Walker collects annotated types from packages.
type Walker struct {
	// Suffix marks generated files, which are never scanned.
	Suffix string
}

// NewWalker creates a walker skipping files that end in suffix.
func NewWalker(suffix string) *Walker {
	return &Walker{Suffix: suffix}
}

// Walk returns the annotated struct types of pkg in file and declaration order.
func (w *Walker) Walk(pkg *packages.Package) ([]*AnnotatedType, error) {
	var found []*AnnotatedType
	for _, file := range pkg.Syntax {
		filename := pkg.Fset.File(file.Pos()).Name()
		if w.Suffix != "" && strings.HasSuffix(filename, w.Suffix) {
			slog.Debug("skipping generated file", "file", filename)
			continue
		}
		if goast.IsGenerated(file) {
			slog.Debug("skipping generated file", "file", filename)
			continue
		}

		declared, err := w.walkFile(pkg, file, filename)
		if err != nil {
			return nil, err
		}
		found = append(found, declared...)
	}
	return found, nil
}

func (w *Walker) walkFile(pkg *packages.Package, file *goast.File, filename string) ([]*AnnotatedType, error) {
	var (
		found   []*AnnotatedType
		imports map[string]string
		build   string
	)

	for _, decl := range file.Decls {
		gen, ok := decl.(*goast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*goast.TypeSpec)
			doc := ts.Doc
			if doc == nil && len(gen.Specs) == 1 {
				doc = gen.Doc
			}
			directives, err := parseDirectives(pkg.Fset, doc)
			if err != nil {
				return nil, err
			}
			if len(directives) == 0 {
				continue
			}

			obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
			if !ok {
				return nil, fmt.Errorf("%s: no type information for %s", pkg.Fset.Position(ts.Pos()), ts.Name.Name)
			}
			if ts.Assign.IsValid() {
				return nil, fmt.Errorf("%s: %w: %s is an alias", pkg.Fset.Position(ts.Pos()), analyzer.ErrNotStruct, ts.Name.Name)
			}
			if _, isStruct := obj.Type().Underlying().(*types.Struct); !isStruct {
				return nil, fmt.Errorf("%s: %w: %s", pkg.Fset.Position(ts.Pos()), analyzer.ErrNotStruct, ts.Name.Name)
			}

			if imports == nil {
				imports = fileImports(pkg, file)
				build = buildConstraint(file)
			}
			found = append(found, &AnnotatedType{
				Obj:        obj,
				Pkg:        pkg,
				File:       filename,
				Constraint: build,
				Imports:    imports,
				Directives: directives,
			})
			slog.Debug("found annotated type", "type", obj.Name(), "directives", len(directives), "file", filepath.Base(filename))
		}
	}
	return found, nil
}

func parseDirectives(fset *token.FileSet, doc *goast.CommentGroup) ([]Directive, error) {
	if doc == nil {
		return nil, nil
	}
	var directives []Directive
	for _, c := range doc.List {
		d, ok, err := config.ParseDirective(c.Text)
		if !ok {
			continue
		}
		pos := fset.Position(c.Pos())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pos, err)
		}
		directives = append(directives, Directive{Directive: d, Pos: pos})
	}
	return directives, nil
}

// fileImports maps each usable local name of file to its import path.
func fileImports(pkg *packages.Package, file *goast.File) map[string]string {
	imports := make(map[string]string, len(file.Imports))
	for _, spec := range file.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		var name string
		switch {
		case spec.Name != nil:
			name = spec.Name.Name
		case pkg.Imports[importPath] != nil && pkg.Imports[importPath].Name != "":
			name = pkg.Imports[importPath].Name
		default:
			name = path.Base(importPath)
		}
		if name == "_" || name == "." {
			continue
		}
		imports[name] = importPath
	}
	return imports
}

// buildConstraint returns the normalized //go:build expression of file, or "".
func buildConstraint(file *goast.File) string {
	for _, group := range file.Comments {
		if group.Pos() >= file.Package {
			break
		}
		for _, c := range group.List {
			if !constraint.IsGoBuild(c.Text) {
				continue
			}
			expr, err := constraint.Parse(c.Text)
			if err != nil {
				continue
			}
			return expr.String()
		}
	}
	return ""
}
