// Package analyzer reads type schemas out of go/types and loads the packages they come from.
package analyzer

import (
	"go/types"
	"reflect"

	"golang.org/x/tools/go/types/typeutil"

	"github.com/origadmin/structconv/internal/config"
	"github.com/origadmin/structconv/internal/model"
)

// SchemaReader implements model.SchemaReader over go/types.
// Schemas are memoized by type identity. A reader is not safe for concurrent use;
// every generated file gets its own.
type SchemaReader struct {
	schemas typeutil.Map
}

// NewSchemaReader creates an empty reader.
func NewSchemaReader() *SchemaReader {
	return &SchemaReader{}
}

var _ model.SchemaReader = (*SchemaReader)(nil)

// Schema returns the schema of t, classifying it on first use.
func (r *SchemaReader) Schema(t types.Type) *model.TypeSchema {
	t = types.Unalias(t)
	if s, ok := r.schemas.At(t).(*model.TypeSchema); ok {
		return s
	}

	s := &model.TypeSchema{
		Type: t,
		Name: types.TypeString(t, nil),
	}
	// Registered before classification so self-referencing containers resolve.
	r.schemas.Set(t, s)

	st, named, ptr := structOf(t)
	s.Pointer = ptr
	s.Named = named
	s.Shape = r.classify(t)
	if s.Shape.Kind == model.Plain {
		s.Struct = st
	}
	return s
}

// Properties lists the exported fields of s allowed under mode.
// Own fields come first in declaration order, then the fields promoted from embedded
// value structs, depth first. A name already seen hides later ones.
func (r *SchemaReader) Properties(s *model.TypeSchema, mode model.AccessMode) []*model.PropertyDescriptor {
	if s == nil || s.Struct == nil {
		return nil
	}

	var all []*model.PropertyDescriptor
	seen := make(map[string]bool)
	r.collect(s.Struct, "", seen, &all, map[*types.Struct]bool{})

	props := make([]*model.PropertyDescriptor, 0, len(all))
	for _, p := range all {
		if p.Allows(mode) {
			props = append(props, p)
		}
	}
	return props
}

// HasWritable reports whether s has at least one writable property.
func (r *SchemaReader) HasWritable(s *model.TypeSchema) bool {
	return len(r.Properties(s, model.AccessWrite)) > 0
}

type embedded struct {
	st     *types.Struct
	prefix string
}

func (r *SchemaReader) collect(st *types.Struct, prefix string, seen map[string]bool, out *[]*model.PropertyDescriptor, visiting map[*types.Struct]bool) {
	if visiting[st] {
		return
	}
	visiting[st] = true
	defer delete(visiting, st)

	var bases []embedded
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		tag := reflect.StructTag(st.Tag(i)).Get(config.TagKey)
		if tag == config.TagIgnore {
			continue
		}

		if f.Embedded() {
			ft := types.Unalias(f.Type())
			if _, isPtr := ft.(*types.Pointer); !isPtr {
				if est, ok := ft.Underlying().(*types.Struct); ok && r.Schema(ft).Shape.Kind == model.Plain {
					p := prefix
					if f.Exported() {
						p = prefix + f.Name() + "."
					}
					bases = append(bases, embedded{st: est, prefix: p})
					continue
				}
			}
		}

		if !f.Exported() || seen[f.Name()] {
			continue
		}
		seen[f.Name()] = true

		schema := r.Schema(f.Type())
		isArray := schema.Shape.Kind == model.Sequence && schema.Shape.Repr == model.SequenceArray
		*out = append(*out, &model.PropertyDescriptor{
			Name:     f.Name(),
			Selector: prefix + f.Name(),
			Schema:   schema,
			Readable: tag != config.TagWriteOnly,
			// Arrays are filled in place, so they stay writable.
			Writable: tag != config.TagReadOnly || isArray,
		})
	}

	for _, b := range bases {
		r.collect(b.st, b.prefix, seen, out, visiting)
	}
}
