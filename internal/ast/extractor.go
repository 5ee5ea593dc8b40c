package ast

import (
	"fmt"
	"go/types"
	"strings"

	"github.com/origadmin/structconv/internal/analyzer"
	"github.com/origadmin/structconv/internal/config"
	"github.com/origadmin/structconv/internal/model"
)

// Extractor resolves the directives of one direction.
type Extractor struct {
	direction model.Direction
	key       string
	resolver  model.TypeResolver
	reader    model.SchemaReader
}

// NewExtractor creates an extractor for direction. Counterparts are looked up through
// resolver and described by reader.
func NewExtractor(direction model.Direction, resolver model.TypeResolver, reader model.SchemaReader) *Extractor {
	key := config.KeyFrom
	if direction == model.DirectionTo {
		key = config.KeyTo
	}
	return &Extractor{direction: direction, key: key, resolver: resolver, reader: reader}
}

// Extract returns the directives of the extractor's direction in declaration order.
// Repeated directives are kept.
func (e *Extractor) Extract(at *AnnotatedType) ([]*model.ConversionDirective, error) {
	var owner *model.TypeSchema
	var out []*model.ConversionDirective
	for _, d := range at.Directives {
		if d.Key != e.key {
			continue
		}
		obj, err := e.resolve(at, d.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Pos, err)
		}
		if owner == nil {
			owner = e.reader.Schema(types.NewPointer(selfInstance(at.Obj)))
		}
		out = append(out, &model.ConversionDirective{
			Owner:       owner,
			Counterpart: e.reader.Schema(types.NewPointer(obj.Type())),
			Direction:   e.direction,
			Expr:        d.Type,
			Pos:         d.Pos,
		})
	}
	return out, nil
}

func (e *Extractor) resolve(at *AnnotatedType, expr string) (*types.TypeName, error) {
	if strings.ContainsAny(expr, "[]*") {
		return nil, fmt.Errorf("%w: %q must name a non-generic struct type", analyzer.ErrUnresolvedType, expr)
	}

	var obj *types.TypeName
	var err error
	if path, name, ok := analyzer.SplitTypePath(expr); ok {
		obj, err = e.resolver.LookupStruct(path, name)
	} else if local, name, ok := strings.Cut(expr, "."); ok {
		path, known := at.Imports[local]
		if !known {
			return nil, fmt.Errorf("%w: %q: no import named %q in %s", analyzer.ErrUnresolvedType, expr, local, at.File)
		}
		obj, err = e.resolver.LookupStruct(path, name)
	} else {
		obj, err = analyzer.LookupStruct(at.Obj.Pkg(), expr)
	}
	if err != nil {
		return nil, err
	}

	if obj.Pkg() != at.Obj.Pkg() && !obj.Exported() {
		return nil, fmt.Errorf("%w: %q is not exported", analyzer.ErrUnresolvedType, expr)
	}
	if named, ok := obj.Type().(*types.Named); ok && named.TypeParams().Len() > 0 {
		return nil, fmt.Errorf("%w: %q is generic", analyzer.ErrUnresolvedType, expr)
	}
	return obj, nil
}

// selfInstance instantiates a generic type with its own parameters, so it prints as
// Box[K, V] rather than as its declaration. Other types are returned as is.
func selfInstance(obj *types.TypeName) types.Type {
	named, ok := obj.Type().(*types.Named)
	if !ok || named.TypeParams().Len() == 0 {
		return obj.Type()
	}
	args := make([]types.Type, named.TypeParams().Len())
	for i := range args {
		args[i] = named.TypeParams().At(i)
	}
	inst, err := types.Instantiate(nil, named, args, false)
	if err != nil {
		return obj.Type()
	}
	return inst
}
