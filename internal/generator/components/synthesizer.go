package components

import (
	"fmt"
	"strings"

	"github.com/origadmin/structconv/internal/config"
	"github.com/origadmin/structconv/internal/model"
)

// Branch is the way one property pair is converted.
type Branch int

const (
	BranchSkip Branch = iota
	BranchMapShallow
	BranchMapDeep
	BranchSequenceShallow
	BranchSequenceCopy
	BranchSequenceDeep
	BranchAssign
	BranchInstant
	BranchDuration
	BranchNested
)

var branchNames = [...]string{
	BranchSkip:            "skip",
	BranchMapShallow:      "map-shallow",
	BranchMapDeep:         "map-deep",
	BranchSequenceShallow: "sequence-shallow",
	BranchSequenceCopy:    "sequence-copy",
	BranchSequenceDeep:    "sequence-deep",
	BranchAssign:          "assign",
	BranchInstant:         "instant",
	BranchDuration:        "duration",
	BranchNested:          "nested",
}

func (b Branch) String() string {
	if int(b) < len(branchNames) {
		return branchNames[b]
	}
	return "unknown"
}

type resultMode int

const (
	// declareAndReturn declares the result, populates it and returns it, or nil.
	declareAndReturn resultMode = iota
	// assignInPlace stores into an existing location and falls through.
	assignInPlace
)

// Synthesizer emits the statements converting one type into another.
// It is used for a single directive and must not be shared between goroutines.
type Synthesizer struct {
	reader  model.SchemaReader
	types   *TypeFormatter
	counter int
	// base is the depth of the enclosing levels above the current element mapping.
	// Element mappings restart at depth 1 but the cutoff applies to base+depth.
	base int
}

// NewSynthesizer creates a synthesizer reading schemas from reader and spelling types with formatter.
func NewSynthesizer(reader model.SchemaReader, formatter *TypeFormatter) *Synthesizer {
	return &Synthesizer{reader: reader, types: formatter}
}

// Synthesize returns the code that builds target from sourceExpr into resultVar.
// At depth 1 the result is declared and returned, and a nil source returns nil.
// Deeper levels assign into resultVar, which the caller owns.
func (s *Synthesizer) Synthesize(source, target *model.TypeSchema, depth int, sourceExpr, resultVar, indent string) string {
	var b strings.Builder
	mode := assignInPlace
	if depth == 1 {
		mode = declareAndReturn
	}
	s.object(&b, source, target, depth, sourceExpr, resultVar, indent, mode)
	return b.String()
}

func (s *Synthesizer) fresh(prefix string) string {
	s.counter++
	return fmt.Sprintf("%s%d", prefix, s.counter)
}

func (s *Synthesizer) object(b *strings.Builder, source, target *model.TypeSchema, depth int, src, dst, indent string, mode resultMode) {
	guard := source.Pointer
	ctor := s.types.Composite(target.Type)

	if depth+s.base > config.MaxDepth {
		if guard {
			fmt.Fprintf(b, "%sif %s != nil {\n%s\t%s = %s\n%s}\n", indent, src, indent, dst, ctor, indent)
		} else {
			fmt.Fprintf(b, "%s%s = %s\n", indent, dst, ctor)
		}
		return
	}

	inner := indent
	if guard {
		fmt.Fprintf(b, "%sif %s != nil {\n", indent, src)
		inner += "\t"
	}
	if mode == declareAndReturn {
		fmt.Fprintf(b, "%s%s := %s\n", inner, dst, ctor)
	} else {
		fmt.Fprintf(b, "%s%s = %s\n", inner, dst, ctor)
	}

	for pair := range Match(s.reader, target, source, model.AccessWrite, model.AccessRead) {
		s.property(b, pair.Counterpart, pair.Driving, depth, src, dst, inner)
	}

	if mode == declareAndReturn {
		fmt.Fprintf(b, "%sreturn %s\n", inner, dst)
	}
	if guard {
		fmt.Fprintf(b, "%s}\n", indent)
		if mode == declareAndReturn {
			fmt.Fprintf(b, "%sreturn nil\n", indent)
		}
	}
}

// Choose picks the branch converting a source property of type source into a
// target property of type target. It emits nothing and registers no imports.
func (s *Synthesizer) Choose(source, target *model.TypeSchema) Branch {
	ss, ts := source.Shape, target.Shape
	switch {
	case ss.Kind == model.Map && ts.Kind == model.Map:
		if !ss.Key.Equal(ts.Key) {
			return BranchSkip
		}
		if ss.Value.Equal(ts.Value) {
			return BranchMapShallow
		}
		if s.elementConvertible(ss.Value, ts.Value) && s.types.Nameable(target.Type) {
			return BranchMapDeep
		}
		return BranchSkip

	case ss.Kind == model.Sequence && ts.Kind == model.Sequence:
		if ss.Elem.Equal(ts.Elem) {
			if ss.Repr == ts.Repr && ss.Len == ts.Len {
				return BranchSequenceShallow
			}
			return BranchSequenceCopy
		}
		if s.elementConvertible(ss.Elem, ts.Elem) && s.types.Nameable(target.Type) {
			return BranchSequenceDeep
		}
		return BranchSkip

	case source.Equal(target):
		return BranchAssign

	case ss.Kind == model.InstantOfTime && ts.Kind == model.InstantOfTime:
		if canConvert(source, target) {
			return BranchInstant
		}
		return BranchSkip

	case ss.Kind == model.Duration && ts.Kind == model.Duration:
		if canConvert(source, target) {
			return BranchDuration
		}
		return BranchSkip

	case s.objectConvertible(source, target):
		return BranchNested
	}
	return BranchSkip
}

func (s *Synthesizer) objectConvertible(source, target *model.TypeSchema) bool {
	return source.IsStruct() && target.IsStruct() &&
		s.reader.HasWritable(target) && s.types.Nameable(target.Type)
}

func (s *Synthesizer) elementConvertible(source, target *model.TypeSchema) bool {
	return canConvert(source, target) || s.objectConvertible(source, target)
}

func (s *Synthesizer) property(b *strings.Builder, sp, tp *model.PropertyDescriptor, depth int, src, dst, indent string) {
	ss, ts := sp.Schema, tp.Schema
	se := src + "." + sp.Selector
	de := dst + "." + tp.Selector

	switch s.Choose(ss, ts) {
	case BranchMapShallow:
		fmt.Fprintf(b, "%sif %s != nil {\n%s\t%s = %s\n%s}\n", indent, se, indent, de, se, indent)
	case BranchMapDeep:
		s.mapTransform(b, ss, ts, depth, se, de, indent)
	case BranchSequenceShallow:
		if ss.Shape.Repr == model.SequenceSlice {
			fmt.Fprintf(b, "%sif %s != nil {\n%s\t%s = %s\n%s}\n", indent, se, indent, de, se, indent)
		} else {
			fmt.Fprintf(b, "%s%s = %s\n", indent, de, se)
		}
	case BranchSequenceCopy:
		s.sequenceCopy(b, ss, ts, se, de, indent)
	case BranchSequenceDeep:
		s.sequenceTransform(b, ss, ts, depth, se, de, indent)
	case BranchAssign:
		fmt.Fprintf(b, "%s%s = %s\n", indent, de, se)
	case BranchInstant, BranchDuration:
		fmt.Fprintf(b, "%s%s = %s\n", indent, de, s.convert(ss, ts, se))
	case BranchNested:
		s.object(b, ss, ts, depth+1, se, de, indent, assignInPlace)
	}
}

// convert renders the conversion expression for an instant or duration pair.
func (s *Synthesizer) convert(source, target *model.TypeSchema, expr string) string {
	format, pkgs, _ := conversionFor(source, target)
	args := []any{expr}
	for _, p := range pkgs {
		args = append(args, s.types.Imports().Add(p, packageNames[p]))
	}
	return fmt.Sprintf(format, args...)
}

// element emits whatever an element conversion needs before its value and returns
// the value expression. Element conversions restart at depth 1 below the property at
// depth, so a path through elements and nested structs shares one MaxDepth budget.
func (s *Synthesizer) element(b *strings.Builder, source, target *model.TypeSchema, depth int, expr, indent string) string {
	if canConvert(source, target) {
		return s.convert(source, target, expr)
	}
	v := s.fresh("conv")
	fmt.Fprintf(b, "%svar %s %s\n", indent, v, s.types.Format(target.Type))

	s.base += depth
	s.object(b, source, target, 1, expr, v, indent, assignInPlace)
	s.base -= depth
	return v
}

func (s *Synthesizer) mapTransform(b *strings.Builder, source, target *model.TypeSchema, depth int, se, de, indent string) {
	k, v := s.fresh("key"), s.fresh("val")
	fmt.Fprintf(b, "%sif %s != nil {\n", indent, se)
	fmt.Fprintf(b, "%s\t%s = make(%s, len(%s))\n", indent, de, s.types.Format(target.Type), se)
	fmt.Fprintf(b, "%s\tfor %s, %s := range %s {\n", indent, k, v, se)
	value := s.element(b, source.Shape.Value, target.Shape.Value, depth, v, indent+"\t\t")
	fmt.Fprintf(b, "%s\t\t%s[%s] = %s\n", indent, de, k, value)
	fmt.Fprintf(b, "%s\t}\n", indent)
	fmt.Fprintf(b, "%s}\n", indent)
}

func (s *Synthesizer) sequenceCopy(b *strings.Builder, source, target *model.TypeSchema, se, de, indent string) {
	from, to := source.Shape.Repr, target.Shape.Repr
	switch {
	case from == model.SequenceSlice && to == model.SequenceArray:
		fmt.Fprintf(b, "%sif %s != nil {\n%s\tcopy(%s[:], %s)\n%s}\n", indent, se, indent, de, se, indent)
	case from == model.SequenceArray && to == model.SequenceSlice:
		slices := s.types.Imports().Add("slices", "slices")
		fmt.Fprintf(b, "%s%s = %s.Clone(%s[:])\n", indent, de, slices, se)
	default:
		fmt.Fprintf(b, "%scopy(%s[:], %s[:])\n", indent, de, se)
	}
}

func (s *Synthesizer) sequenceTransform(b *strings.Builder, source, target *model.TypeSchema, depth int, se, de, indent string) {
	inner := indent
	if source.Shape.Repr == model.SequenceSlice {
		fmt.Fprintf(b, "%sif %s != nil {\n", indent, se)
		inner += "\t"
	}

	e := s.fresh("elem")
	if target.Shape.Repr == model.SequenceSlice {
		fmt.Fprintf(b, "%s%s = make(%s, 0, len(%s))\n", inner, de, s.types.Format(target.Type), se)
		fmt.Fprintf(b, "%sfor _, %s := range %s {\n", inner, e, se)
		value := s.element(b, source.Shape.Elem, target.Shape.Elem, depth, e, inner+"\t")
		fmt.Fprintf(b, "%s\t%s = append(%s, %s)\n", inner, de, de, value)
	} else {
		i := s.fresh("idx")
		fmt.Fprintf(b, "%sfor %s, %s := range %s {\n", inner, i, e, se)
		fmt.Fprintf(b, "%s\tif %s >= len(%s) {\n%s\t\tbreak\n%s\t}\n", inner, i, de, inner, inner)
		value := s.element(b, source.Shape.Elem, target.Shape.Elem, depth, e, inner+"\t")
		fmt.Fprintf(b, "%s\t%s[%s] = %s\n", inner, de, i, value)
	}
	fmt.Fprintf(b, "%s}\n", inner)

	if source.Shape.Repr == model.SequenceSlice {
		fmt.Fprintf(b, "%s}\n", indent)
	}
}
