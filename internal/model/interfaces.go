package model

import (
	"go/types"
)

// SchemaReader is the read-only metadata boundary used by matching and synthesis.
type SchemaReader interface {
	// Schema classifies t.
	Schema(t types.Type) *TypeSchema
	// Properties lists the exported fields of s allowed under mode, own fields first.
	Properties(s *TypeSchema, mode AccessMode) []*PropertyDescriptor
	// HasWritable reports whether s exposes at least one writable property.
	HasWritable(s *TypeSchema) bool
}

// TypeResolver finds struct types by import path in the loaded package graph.
type TypeResolver interface {
	LookupStruct(path, name string) (*types.TypeName, error)
}

// ImportManager tracks the imports of one generated file.
type ImportManager interface {
	// Add registers importPath and returns the name to qualify it with.
	Add(importPath, name string) string
	// Qualifier returns a go/types qualifier that registers packages as they are printed.
	Qualifier() types.Qualifier
	// Block renders the import declaration, or "" when nothing was imported.
	Block() string
}
