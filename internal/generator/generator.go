// Package generator turns annotated struct declarations into conversion source files.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/imports"

	"github.com/origadmin/structconv/internal/analyzer"
	"github.com/origadmin/structconv/internal/ast"
	"github.com/origadmin/structconv/internal/config"
	"github.com/origadmin/structconv/internal/generator/components"
	"github.com/origadmin/structconv/internal/model"
	"github.com/origadmin/structconv/internal/template"
)

// Generator produces one file per annotated type.
type Generator struct {
	cfg      *config.Config
	renderer *template.Renderer
	walker   *ast.Walker
}

// New creates a generator. A nil renderer selects the built-in template.
func New(cfg *config.Config, renderer *template.Renderer) *Generator {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if renderer == nil {
		renderer = template.Default()
	}
	return &Generator{
		cfg:      cfg,
		renderer: renderer,
		walker:   ast.NewWalker(cfg.Output.Suffix),
	}
}

// Generate renders the files for every annotated type in pkgs, sorted by path.
// Types are generated concurrently. If ctx is cancelled no file is returned.
func (g *Generator) Generate(ctx context.Context, pkgs []*packages.Package) ([]model.GeneratedFile, error) {
	annotated, err := g.collect(pkgs)
	if err != nil {
		return nil, err
	}
	resolver := analyzer.NewResolver(pkgs)

	files := make([]model.GeneratedFile, len(annotated))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers())
	for i, at := range annotated {
		eg.Go(func() error {
			file, err := g.generateType(ctx, resolver, at)
			if err != nil {
				return err
			}
			files[i] = file
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	for i := 1; i < len(files); i++ {
		if files[i].Path == files[i-1].Path {
			return nil, fmt.Errorf("two annotated types generate %s", files[i].Path)
		}
	}
	return files, nil
}

// collect walks pkgs and drops declarations already seen.
func (g *Generator) collect(pkgs []*packages.Package) ([]*ast.AnnotatedType, error) {
	seen := model.NewKeySet()
	var annotated []*ast.AnnotatedType
	for _, pkg := range pkgs {
		found, err := g.walker.Walk(pkg)
		if err != nil {
			return nil, err
		}
		for _, at := range found {
			if !seen.Add(at.Key()) {
				slog.Debug("skipping duplicate declaration", "type", at.Name(), "pkg", pkg.ID)
				continue
			}
			annotated = append(annotated, at)
		}
	}
	slog.Debug("collected annotated types", "count", len(annotated))
	return annotated, nil
}

func (g *Generator) workers() int {
	if g.cfg.Workers > 0 {
		return g.cfg.Workers
	}
	return config.NewConfig().Workers
}

// OutputPath returns where the file for at is written.
func (g *Generator) OutputPath(at *ast.AnnotatedType) string {
	dir := g.cfg.Output.Dir
	if dir == "" {
		dir = filepath.Dir(at.File)
	}
	return filepath.Join(dir, strings.ToLower(at.Name())+g.cfg.Output.Suffix)
}

func (g *Generator) generateType(ctx context.Context, resolver *analyzer.Resolver, at *ast.AnnotatedType) (model.GeneratedFile, error) {
	reader := analyzer.NewSchemaReader()
	im := components.NewImportManager(at.Obj.Pkg())
	formatter := components.NewTypeFormatter(im)
	scope := at.Scope(im.Qualifier())
	frame, _ := scope.Innermost()
	emitter := components.NewMethodEmitter(reader, formatter, frame)

	var methods strings.Builder
	emitted := make(map[string]bool)
	for _, direction := range []model.Direction{model.DirectionFrom, model.DirectionTo} {
		directives, err := ast.NewExtractor(direction, resolver, reader).Extract(at)
		if err != nil {
			return model.GeneratedFile{}, err
		}
		for _, d := range directives {
			if err := ctx.Err(); err != nil {
				return model.GeneratedFile{}, err
			}
			single, _ := emitter.FunctionNames(d)
			if emitted[single] {
				slog.Warn("duplicate directive generates the same functions", "type", at.Name(), "directive", d.Expr, "pos", d.Pos)
			}
			emitted[single] = true
			methods.WriteString(emitter.Emit(d))
		}
	}

	mapping := model.GeneratedMapping{TypeName: at.Name(), Body: im.Block() + methods.String()}
	path := g.OutputPath(at)
	content, err := g.render(path, at, scope, mapping)
	if err != nil {
		return model.GeneratedFile{}, err
	}
	slog.Debug("generated", "type", mapping.TypeName, "file", path)
	return model.GeneratedFile{Path: path, Content: content}, nil
}

func (g *Generator) render(path string, at *ast.AnnotatedType, scope model.Scope, mapping model.GeneratedMapping) ([]byte, error) {
	raw, err := g.renderer.Render(template.Data{
		Tool:   config.Application,
		Source: filepath.Base(at.File),
		Code:   components.Wrap(scope, mapping.Body, ""),
	})
	if err != nil {
		return nil, err
	}
	formatted, err := imports.Process(path, raw, &imports.Options{Comments: true, TabIndent: true, TabWidth: 8})
	if err != nil {
		return nil, fmt.Errorf("format %s: %w\n%s", path, err, raw)
	}
	return formatted, nil
}
