// Package model holds the read-only facts a generation pass derives from the loaded packages.
package model

import (
	"go/types"
)

// ShapeKind is the classification that drives which synthesis branch applies to a type.
type ShapeKind int

// Constants for the different shapes of types.
const (
	Plain ShapeKind = iota
	Sequence
	Map
	InstantOfTime
	Duration
)

func (k ShapeKind) String() string {
	switch k {
	case Sequence:
		return "sequence"
	case Map:
		return "map"
	case InstantOfTime:
		return "instant"
	case Duration:
		return "duration"
	default:
		return "plain"
	}
}

// SequenceRepr distinguishes the two concrete sequence containers.
type SequenceRepr int

const (
	// SequenceSlice is []T. It is materialized with make and append.
	SequenceSlice SequenceRepr = iota + 1
	// SequenceArray is [N]T. It is filled in place.
	SequenceArray
)

// InstantKind is the concrete representation of an instant of time.
type InstantKind int

const (
	InstantAware InstantKind = iota + 1 // time.Time
	InstantNaive                        // civil.DateTime
	InstantWire                         // *timestamppb.Timestamp
)

func (k InstantKind) String() string {
	switch k {
	case InstantAware:
		return "aware"
	case InstantNaive:
		return "naive"
	case InstantWire:
		return "wire"
	default:
		return "unknown"
	}
}

// DurationKind is the concrete representation of a duration.
type DurationKind int

const (
	DurationNative DurationKind = iota + 1 // time.Duration
	DurationWire                           // *durationpb.Duration
)

func (k DurationKind) String() string {
	switch k {
	case DurationNative:
		return "native"
	case DurationWire:
		return "wire"
	default:
		return "unknown"
	}
}

// Shape is a closed tagged variant. Only the fields matching Kind are set.
type Shape struct {
	Kind ShapeKind

	// Sequence
	Repr SequenceRepr
	Len  int64
	Elem *TypeSchema

	// Map
	Key   *TypeSchema
	Value *TypeSchema

	Instant  InstantKind
	Duration DurationKind
}

// TypeSchema describes one type as seen by the matcher and the synthesizer.
type TypeSchema struct {
	// Type is the opaque handle into go/types.
	Type types.Type
	// Name is the fully qualified type string.
	Name    string
	Shape   Shape
	Pointer bool
	// Struct is the struct reached through at most one pointer, or nil.
	Struct *types.Struct
	// Named is the named type reached through at most one pointer, or nil.
	Named *types.Named
}

// Equal reports identity equality: same named type with the same type arguments.
func (s *TypeSchema) Equal(other *TypeSchema) bool {
	if s == nil || other == nil {
		return s == other
	}
	return types.Identical(s.Type, other.Type)
}

// IsStruct reports whether the schema is a struct or a pointer to one.
func (s *TypeSchema) IsStruct() bool {
	return s != nil && s.Shape.Kind == Plain && s.Struct != nil
}

func (s *TypeSchema) String() string {
	if s == nil {
		return "<nil>"
	}
	return s.Name
}

// AccessMode restricts property enumeration.
type AccessMode int

const (
	AccessAny AccessMode = iota
	AccessRead
	AccessWrite
)

func (m AccessMode) String() string {
	switch m {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	default:
		return "any"
	}
}

// PropertyDescriptor is one exported field, own or promoted.
type PropertyDescriptor struct {
	Name string
	// Selector is the path from the owning value, e.g. "Base.ID" for promoted fields.
	Selector string
	Schema   *TypeSchema
	Readable bool
	Writable bool
}

// Allows reports whether the property can be used under mode.
func (p *PropertyDescriptor) Allows(mode AccessMode) bool {
	switch mode {
	case AccessRead:
		return p.Readable
	case AccessWrite:
		return p.Writable
	default:
		return true
	}
}
