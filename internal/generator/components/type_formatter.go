package components

import (
	"fmt"
	"go/types"
	"strings"
)

// TypeFormatter prints types as they must appear in the generated file,
// registering imports with its ImportManager as packages are referenced.
type TypeFormatter struct {
	importManager *ImportManager
}

// NewTypeFormatter creates a new TypeFormatter.
func NewTypeFormatter(importManager *ImportManager) *TypeFormatter {
	return &TypeFormatter{importManager: importManager}
}

// Imports returns the import manager the formatter registers with.
func (f *TypeFormatter) Imports() *ImportManager {
	return f.importManager
}

// Format converts the given Go type into its string representation.
func (f *TypeFormatter) Format(typ types.Type) string {
	return f.formatType(types.Unalias(typ))
}

func (f *TypeFormatter) formatType(typ types.Type) string {
	switch t := typ.(type) {
	case *types.Basic:
		return t.String()
	case *types.Pointer:
		return "*" + f.Format(t.Elem())
	case *types.Slice:
		return "[]" + f.Format(t.Elem())
	case *types.Array:
		return fmt.Sprintf("[%d]%s", t.Len(), f.Format(t.Elem()))
	case *types.Map:
		return fmt.Sprintf("map[%s]%s", f.Format(t.Key()), f.Format(t.Elem()))
	case *types.Named:
		return f.qualifiedName(t)
	case *types.TypeParam:
		return t.Obj().Name()
	default:
		return types.TypeString(typ, f.importManager.Qualifier())
	}
}

func (f *TypeFormatter) qualifiedName(t *types.Named) string {
	obj := t.Obj()
	name := obj.Name()
	if obj.Pkg() != nil {
		if q := f.importManager.Add(obj.Pkg().Path(), obj.Pkg().Name()); q != "" {
			name = q + "." + name
		}
	}
	args := t.TypeArgs()
	if args.Len() == 0 {
		return name
	}
	parts := make([]string, args.Len())
	for i := 0; i < args.Len(); i++ {
		parts[i] = f.Format(args.At(i))
	}
	return name + "[" + strings.Join(parts, ", ") + "]"
}

// Composite returns the composite literal constructing an empty value of typ:
// "&T{}" for pointers to structs and "T{}" otherwise.
func (f *TypeFormatter) Composite(typ types.Type) string {
	if p, ok := types.Unalias(typ).(*types.Pointer); ok {
		return "&" + f.Format(p.Elem()) + "{}"
	}
	return f.Format(typ) + "{}"
}

// Nameable reports whether typ can be spelled out in the generated package.
// It registers no imports.
func (f *TypeFormatter) Nameable(typ types.Type) bool {
	return nameable(types.Unalias(typ), f.importManager.self, map[types.Type]bool{})
}

func nameable(typ types.Type, self *types.Package, visiting map[types.Type]bool) bool {
	if visiting[typ] {
		return true
	}
	visiting[typ] = true

	switch t := typ.(type) {
	case *types.Basic, *types.TypeParam:
		return true
	case *types.Pointer:
		return nameable(types.Unalias(t.Elem()), self, visiting)
	case *types.Slice:
		return nameable(types.Unalias(t.Elem()), self, visiting)
	case *types.Array:
		return nameable(types.Unalias(t.Elem()), self, visiting)
	case *types.Map:
		return nameable(types.Unalias(t.Key()), self, visiting) && nameable(types.Unalias(t.Elem()), self, visiting)
	case *types.Named:
		obj := t.Obj()
		if obj.Pkg() != nil && obj.Pkg() != self && !obj.Exported() {
			return false
		}
		args := t.TypeArgs()
		for i := 0; i < args.Len(); i++ {
			if !nameable(types.Unalias(args.At(i)), self, visiting) {
				return false
			}
		}
		return true
	case *types.Struct:
		for i := 0; i < t.NumFields(); i++ {
			field := t.Field(i)
			if !field.Exported() && field.Pkg() != self {
				return false
			}
			if !nameable(types.Unalias(field.Type()), self, visiting) {
				return false
			}
		}
		return true
	case *types.Chan:
		return nameable(types.Unalias(t.Elem()), self, visiting)
	default:
		// Interfaces and signatures are printed with go/types; accept them.
		return true
	}
}
