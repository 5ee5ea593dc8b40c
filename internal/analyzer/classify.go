package analyzer

import (
	"go/types"
	"reflect"
	"time"

	"cloud.google.com/go/civil"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/origadmin/structconv/internal/model"
)

// typeID is the identity of a named type: import path plus name.
type typeID struct {
	Path string
	Name string
}

func idOf[T any]() typeID {
	t := reflect.TypeFor[T]()
	return typeID{Path: t.PkgPath(), Name: t.Name()}
}

func namedID(n *types.Named) typeID {
	obj := n.Obj()
	if obj.Pkg() == nil {
		return typeID{Name: obj.Name()}
	}
	return typeID{Path: obj.Pkg().Path(), Name: obj.Name()}
}

// Well-known identities, taken from the library types themselves.
var (
	TimeID          = idOf[time.Time]()
	DurationID      = idOf[time.Duration]()
	CivilDateTimeID = idOf[civil.DateTime]()
	TimestampID     = idOf[timestamppb.Timestamp]()
	DurationPBID    = idOf[durationpb.Duration]()
)

// Well-known import paths, used by code that emits conversions.
var (
	TimePath       = TimeID.Path
	CivilPath      = CivilDateTimeID.Path
	TimestampPath  = TimestampID.Path
	DurationPBPath = DurationPBID.Path
)

// classify computes the shape of t. Container element schemas come from r.
func (r *SchemaReader) classify(t types.Type) model.Shape {
	switch tt := t.(type) {
	case *types.Pointer:
		if n, ok := types.Unalias(tt.Elem()).(*types.Named); ok {
			switch namedID(n) {
			case TimestampID:
				return model.Shape{Kind: model.InstantOfTime, Instant: model.InstantWire}
			case DurationPBID:
				return model.Shape{Kind: model.Duration, Duration: model.DurationWire}
			}
		}
	case *types.Named:
		switch namedID(tt) {
		case TimeID:
			return model.Shape{Kind: model.InstantOfTime, Instant: model.InstantAware}
		case CivilDateTimeID:
			return model.Shape{Kind: model.InstantOfTime, Instant: model.InstantNaive}
		case DurationID:
			return model.Shape{Kind: model.Duration, Duration: model.DurationNative}
		}
	case *types.Slice:
		return model.Shape{Kind: model.Sequence, Repr: model.SequenceSlice, Elem: r.Schema(tt.Elem())}
	case *types.Array:
		return model.Shape{Kind: model.Sequence, Repr: model.SequenceArray, Len: tt.Len(), Elem: r.Schema(tt.Elem())}
	case *types.Map:
		return model.Shape{Kind: model.Map, Key: r.Schema(tt.Key()), Value: r.Schema(tt.Elem())}
	}
	return model.Shape{Kind: model.Plain}
}

// structOf returns the struct reached through at most one pointer.
func structOf(t types.Type) (*types.Struct, *types.Named, bool) {
	ptr := false
	if p, ok := t.(*types.Pointer); ok {
		t = types.Unalias(p.Elem())
		ptr = true
	}
	named, _ := t.(*types.Named)
	st, _ := t.Underlying().(*types.Struct)
	return st, named, ptr
}
