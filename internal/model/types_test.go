package model

import (
	"go/types"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestTypeSchemaEqual(t *testing.T) {
	pkg := types.NewPackage("example.com/a", "a")
	newNamed := func(name string) *types.Named {
		obj := types.NewTypeName(0, pkg, name, nil)
		return types.NewNamed(obj, types.NewStruct(nil, nil), nil)
	}
	user := newNamed("User")
	other := newNamed("User")

	tests := []struct {
		name string
		a, b *TypeSchema
		want bool
	}{
		{"same handle", &TypeSchema{Type: user}, &TypeSchema{Type: user}, true},
		{"same basic", &TypeSchema{Type: types.Typ[types.Int]}, &TypeSchema{Type: types.Typ[types.Int]}, true},
		{"distinct named with same name", &TypeSchema{Type: user}, &TypeSchema{Type: other}, false},
		{"pointer vs value", &TypeSchema{Type: types.NewPointer(user)}, &TypeSchema{Type: user}, false},
		{"identical slices", &TypeSchema{Type: types.NewSlice(user)}, &TypeSchema{Type: types.NewSlice(user)}, true},
		{"nil vs value", nil, &TypeSchema{Type: user}, false},
		{"nil vs nil", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
		})
	}
}

func TestPropertyAllows(t *testing.T) {
	p := &PropertyDescriptor{Name: "ID", Readable: true}
	assert.True(t, p.Allows(AccessRead))
	assert.False(t, p.Allows(AccessWrite))
	assert.True(t, p.Allows(AccessAny))
}

func TestDirectiveSides(t *testing.T) {
	owner := &TypeSchema{Name: "a.User"}
	counterpart := &TypeSchema{Name: "pb.User"}

	from := &ConversionDirective{Owner: owner, Counterpart: counterpart, Direction: DirectionFrom}
	assert.Same(t, counterpart, from.Source())
	assert.Same(t, owner, from.Target())

	to := &ConversionDirective{Owner: owner, Counterpart: counterpart, Direction: DirectionTo}
	assert.Same(t, owner, to.Source())
	assert.Same(t, counterpart, to.Target())
}

func boxScope(modifiers string) Scope {
	return Scope{
		Namespace: "example.com/a",
		Package:   "a",
		Frames: []Frame{{
			Keyword:    "type",
			Name:       "Box",
			TypeParams: []TypeParam{{Name: "K", Constraint: "comparable"}, {Name: "V", Constraint: "any"}},
			Modifiers:  modifiers,
		}},
	}
}

func TestFrameRendering(t *testing.T) {
	f := boxScope("").Frames[0]
	assert.Equal(t, "Box[K comparable, V any]", f.Declared())
	assert.Equal(t, "Box[K, V]", f.Instance())
	assert.Equal(t, "[K comparable, V any]", f.ParamList())
	assert.Equal(t, "[K, V]", f.ArgList())

	plain := Frame{Keyword: "type", Name: "User"}
	assert.Equal(t, "User", plain.Declared())
	assert.Equal(t, "", plain.ParamList())
	assert.Equal(t, "", plain.ArgList())
}

func TestScopeEquality(t *testing.T) {
	a := boxScope("linux")
	b := boxScope("linux")

	// Built independently, never sharing slices.
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.Empty(t, cmp.Diff(a, b))

	changes := map[string]func(*Scope){
		"namespace": func(s *Scope) { s.Namespace = "example.com/b" },
		"package":   func(s *Scope) { s.Package = "b" },
		"modifiers": func(s *Scope) { s.Frames[0].Modifiers = "windows" },
		"name":      func(s *Scope) { s.Frames[0].Name = "Bag" },
		"param":     func(s *Scope) { s.Frames[0].TypeParams[1].Constraint = "fmt.Stringer" },
		"extra frame": func(s *Scope) {
			s.Frames = append(s.Frames, Frame{Keyword: "type", Name: "Outer"})
		},
	}
	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			c := boxScope("linux")
			change(&c)
			assert.False(t, a.Equal(c))
			assert.NotEqual(t, a.Hash(), c.Hash())
		})
	}
}

func TestScopeParent(t *testing.T) {
	s := boxScope("")
	inner, ok := s.Innermost()
	assert.True(t, ok)
	assert.Equal(t, "Box", inner.Name)

	p := s.Parent()
	_, ok = p.Innermost()
	assert.False(t, ok)
	assert.Equal(t, s.Namespace, p.Namespace)
	assert.True(t, p.Equal(p.Parent()))
}

func TestKeySet(t *testing.T) {
	set := NewKeySet()
	k1 := NewKey("example.com/a.Box", "example.com/a", boxScope(""))
	k2 := NewKey("example.com/a.Box", "example.com/a", boxScope(""))
	k3 := NewKey("example.com/a.Box", "example.com/a", boxScope("linux"))

	assert.True(t, k1.Equal(k2))
	assert.Equal(t, k1.Hash(), k2.Hash())

	assert.True(t, set.Add(k1))
	assert.False(t, set.Add(k2))
	assert.True(t, set.Contains(k2))
	assert.False(t, set.Contains(k3))
	assert.True(t, set.Add(k3))
}

func TestShapeKindString(t *testing.T) {
	assert.Equal(t, "plain", Plain.String())
	assert.Equal(t, "sequence", Sequence.String())
	assert.Equal(t, "map", Map.String())
	assert.Equal(t, "instant", InstantOfTime.String())
	assert.Equal(t, "duration", Duration.String())
	assert.Equal(t, "from", DirectionFrom.String())
	assert.Equal(t, "to", DirectionTo.String())
}
