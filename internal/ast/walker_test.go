package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"github.com/origadmin/structconv/internal/analyzer"
	"github.com/origadmin/structconv/internal/config"
	"github.com/origadmin/structconv/internal/model"
	"github.com/origadmin/structconv/internal/typetest"
)

const pbSource = `package pb

type User struct {
	Id   int64
	Name string
}

type Group struct {
	Name string
}

type hidden struct {
	Name string
}
`

const modelSource = `//go:build linux && !386

package models

import (
	api "example.com/pb"
)

// User is a stored user.
//
//go:structconv:from=api.User
//go:structconv:to=example.com/pb.User
//go:structconv:from=api.User
type User struct {
	ID   int64
	Name string
}

type (
	// Box holds anything.
	//go:structconv:to=api.Group
	Box[K comparable, V any] struct {
		Name  string
		Items map[K]V
	}

	Plain struct{ Name string }
)

// Local converts within the package.
//go:structconv:from=Plain
type Local struct{ Name string }

var _ api.User
`

func checkModels(t *testing.T) (*typetest.Universe, *packages.Package) {
	t.Helper()
	u := typetest.New()
	_, err := u.Check("example.com/pb", map[string]string{"pb.go": pbSource})
	require.NoError(t, err)
	pkg, err := u.Check("example.com/models", map[string]string{"user.go": modelSource})
	require.NoError(t, err)
	return u, pkg
}

func TestWalkerFindsAnnotatedTypes(t *testing.T) {
	_, pkg := checkModels(t)

	found, err := NewWalker(config.DefaultSuffix).Walk(pkg)
	require.NoError(t, err)
	require.Len(t, found, 3)

	user := found[0]
	assert.Equal(t, "User", user.Name())
	assert.Equal(t, "user.go", user.File)
	assert.Equal(t, "linux && !386", user.Constraint)
	assert.Equal(t, "example.com/pb", user.Imports["api"])
	require.Len(t, user.Directives, 3)
	assert.Equal(t, config.KeyFrom, user.Directives[0].Key)
	assert.Equal(t, "api.User", user.Directives[0].Type)
	assert.Equal(t, 11, user.Directives[0].Pos.Line)
	assert.Equal(t, config.KeyTo, user.Directives[1].Key)

	box := found[1]
	assert.Equal(t, "Box", box.Name())
	require.Len(t, box.Directives, 1)

	assert.Equal(t, "Local", found[2].Name())
}

func TestWalkerSkipsGeneratedFiles(t *testing.T) {
	u := typetest.New()
	pkg, err := u.Check("example.com/gen", map[string]string{
		"a.generated.go": "package gen\n\n//go:structconv:from=B\ntype A struct{ X int }\n\ntype B struct{ X int }\n",
		"c.go":           "// Code generated by hand. DO NOT EDIT.\n\npackage gen\n\n//go:structconv:from=B\ntype C struct{ X int }\n",
	})
	require.NoError(t, err)

	found, err := NewWalker(config.DefaultSuffix).Walk(pkg)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestWalkerRejectsBadDirectives(t *testing.T) {
	tests := map[string]string{
		"unknown key": "package bad\n\n//go:structconv:both=A\ntype A struct{}\n",
		"not struct":  "package bad\n\n//go:structconv:from=A\ntype N int\n\ntype A struct{}\n",
		"alias":       "package bad\n\ntype A struct{}\n\n//go:structconv:from=A\ntype B = A\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			u := typetest.New()
			pkg, err := u.Check("example.com/bad", map[string]string{"bad.go": src})
			require.NoError(t, err)
			_, err = NewWalker(config.DefaultSuffix).Walk(pkg)
			assert.Error(t, err)
		})
	}
}

func TestScopeAndKey(t *testing.T) {
	_, pkg := checkModels(t)
	found, err := NewWalker(config.DefaultSuffix).Walk(pkg)
	require.NoError(t, err)

	box := found[1].Scope(nil)
	assert.Equal(t, "example.com/models", box.Namespace)
	assert.Equal(t, "models", box.Package)
	require.Len(t, box.Frames, 1)
	assert.Equal(t, "Box[K comparable, V any]", box.Frames[0].Declared())
	assert.Equal(t, "linux && !386", box.Frames[0].Modifiers)

	// Walking the same package again yields equal keys.
	again, err := NewWalker(config.DefaultSuffix).Walk(pkg)
	require.NoError(t, err)
	set := model.NewKeySet()
	for _, at := range found {
		assert.True(t, set.Add(at.Key()))
	}
	for _, at := range again {
		assert.False(t, set.Add(at.Key()))
	}
}

func TestExtractor(t *testing.T) {
	_, pkg := checkModels(t)
	found, err := NewWalker(config.DefaultSuffix).Walk(pkg)
	require.NoError(t, err)

	resolver := analyzer.NewResolver([]*packages.Package{pkg})
	reader := analyzer.NewSchemaReader()
	from := NewExtractor(model.DirectionFrom, resolver, reader)
	to := NewExtractor(model.DirectionTo, resolver, reader)

	user := found[0]
	fromDirs, err := from.Extract(user)
	require.NoError(t, err)
	require.Len(t, fromDirs, 2, "duplicate directives are kept")
	for _, d := range fromDirs {
		assert.Equal(t, model.DirectionFrom, d.Direction)
		assert.Equal(t, "*example.com/models.User", d.Owner.Name)
		assert.Equal(t, "*example.com/pb.User", d.Counterpart.Name)
		assert.Same(t, d.Counterpart, d.Source())
	}

	toDirs, err := to.Extract(user)
	require.NoError(t, err)
	require.Len(t, toDirs, 1)
	assert.Equal(t, "example.com/pb.User", toDirs[0].Expr)
	assert.Same(t, toDirs[0].Owner, toDirs[0].Source())

	boxDirs, err := to.Extract(found[1])
	require.NoError(t, err)
	require.Len(t, boxDirs, 1)
	assert.Equal(t, "*example.com/models.Box[K, V]", boxDirs[0].Owner.Name)

	local, err := from.Extract(found[2])
	require.NoError(t, err)
	require.Len(t, local, 1)
	assert.Equal(t, "*example.com/models.Plain", local[0].Counterpart.Name)
}

func TestExtractorErrors(t *testing.T) {
	tests := map[string]string{
		"unknown import": "pbx.User",
		"missing type":   "api.Missing",
		"unloaded path":  "example.com/nowhere.User",
		"generic":        "api.User[int]",
		"missing local":  "Nope",
		"unexported":     "api.hidden",
	}
	for name, expr := range tests {
		t.Run(name, func(t *testing.T) {
			_, pkg := checkModels(t)
			found, err := NewWalker(config.DefaultSuffix).Walk(pkg)
			require.NoError(t, err)

			at := found[0]
			at.Directives = []Directive{{Directive: config.Directive{Key: config.KeyFrom, Type: expr}}}
			ex := NewExtractor(model.DirectionFrom, analyzer.NewResolver([]*packages.Package{pkg}), analyzer.NewSchemaReader())
			_, err = ex.Extract(at)
			assert.ErrorIs(t, err, analyzer.ErrUnresolvedType)
		})
	}
}
