package model

import (
	"go/token"
)

// Direction tells which way a directive converts.
type Direction int

const (
	// DirectionFrom builds the owner from the counterpart.
	DirectionFrom Direction = iota + 1
	// DirectionTo builds the counterpart from the owner.
	DirectionTo
)

func (d Direction) String() string {
	switch d {
	case DirectionFrom:
		return "from"
	case DirectionTo:
		return "to"
	default:
		return "unknown"
	}
}

// ConversionDirective is one resolved request to generate a conversion.
type ConversionDirective struct {
	Owner       *TypeSchema
	Counterpart *TypeSchema
	Direction   Direction
	// Expr is the counterpart expression as written.
	Expr string
	Pos  token.Position
}

// Source returns the schema that is read from.
func (d *ConversionDirective) Source() *TypeSchema {
	if d.Direction == DirectionFrom {
		return d.Counterpart
	}
	return d.Owner
}

// Target returns the schema that is produced.
func (d *ConversionDirective) Target() *TypeSchema {
	if d.Direction == DirectionFrom {
		return d.Owner
	}
	return d.Counterpart
}

// GeneratedMapping is the synthesized body for one annotated type.
type GeneratedMapping struct {
	TypeName string
	Body     string
}

// GeneratedFile is one rendered and formatted output unit.
type GeneratedFile struct {
	Path    string
	Content []byte
}
