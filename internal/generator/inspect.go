package generator

import (
	"context"
	"go/token"

	"golang.org/x/tools/go/packages"

	"github.com/origadmin/structconv/internal/analyzer"
	"github.com/origadmin/structconv/internal/ast"
	"github.com/origadmin/structconv/internal/generator/components"
	"github.com/origadmin/structconv/internal/model"
)

// PropertyPlan is one matched property pair and the way it will be converted.
type PropertyPlan struct {
	Target string
	Source string
	Branch string
}

// DirectivePlan describes what a directive generates without rendering it.
type DirectivePlan struct {
	Owner       string
	Counterpart string
	Direction   string
	Pos         token.Position
	Functions   []string
	Output      string
	Properties  []PropertyPlan
}

// Inspect returns the plan of every directive in pkgs, in walk order.
func (g *Generator) Inspect(ctx context.Context, pkgs []*packages.Package) ([]DirectivePlan, error) {
	annotated, err := g.collect(pkgs)
	if err != nil {
		return nil, err
	}
	resolver := analyzer.NewResolver(pkgs)

	var plans []DirectivePlan
	for _, at := range annotated {
		reader := analyzer.NewSchemaReader()
		im := components.NewImportManager(at.Obj.Pkg())
		formatter := components.NewTypeFormatter(im)
		frame, _ := at.Scope(im.Qualifier()).Innermost()
		emitter := components.NewMethodEmitter(reader, formatter, frame)
		synth := components.NewSynthesizer(reader, formatter)

		for _, direction := range []model.Direction{model.DirectionFrom, model.DirectionTo} {
			directives, err := ast.NewExtractor(direction, resolver, reader).Extract(at)
			if err != nil {
				return nil, err
			}
			for _, d := range directives {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				single, batch := emitter.FunctionNames(d)
				plan := DirectivePlan{
					Owner:       d.Owner.Name,
					Counterpart: d.Counterpart.Name,
					Direction:   d.Direction.String(),
					Pos:         d.Pos,
					Functions:   []string{single, batch},
					Output:      g.OutputPath(at),
				}
				for pair := range components.Match(reader, d.Target(), d.Source(), model.AccessWrite, model.AccessRead) {
					plan.Properties = append(plan.Properties, PropertyPlan{
						Target: pair.Driving.Selector,
						Source: pair.Counterpart.Selector,
						Branch: synth.Choose(pair.Counterpart.Schema, pair.Driving.Schema).String(),
					})
				}
				plans = append(plans, plan)
			}
		}
	}
	return plans, nil
}
