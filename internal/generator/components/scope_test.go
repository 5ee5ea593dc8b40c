package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/origadmin/structconv/internal/model"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name   string
		scope  model.Scope
		body   string
		indent string
		want   string
	}{
		{
			name:  "plain",
			scope: model.Scope{Namespace: "example.com/models", Package: "models", Frames: []model.Frame{{Keyword: "type", Name: "User"}}},
			body:  "func f() {}\n",
			want:  "package models\n\nfunc f() {}\n",
		},
		{
			name: "build constraint",
			scope: model.Scope{Package: "models", Frames: []model.Frame{
				{Keyword: "type", Name: "User", Modifiers: "linux && !386"},
			}},
			body: "func f() {}\n",
			want: "//go:build linux && !386\n\npackage models\n\nfunc f() {}\n",
		},
		{
			name: "constraints combined outermost first",
			scope: model.Scope{Package: "models", Frames: []model.Frame{
				{Keyword: "type", Name: "Inner", Modifiers: "cgo"},
				{Keyword: "type", Name: "Outer", Modifiers: "linux || darwin"},
				{Keyword: "type", Name: "Root", Modifiers: "cgo"},
			}},
			want: "//go:build cgo && (linux || darwin)\n\npackage models\n\n",
		},
		{
			name:   "indented body",
			scope:  model.Scope{Package: "models"},
			body:   "a\n\nb\n",
			indent: "\t",
			want:   "package models\n\n\ta\n\n\tb\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.scope, tt.body, tt.indent))
		})
	}
}

func TestWrapEqualScopes(t *testing.T) {
	a := model.Scope{Namespace: "example.com/m", Package: "m", Frames: []model.Frame{
		{Keyword: "type", Name: "Box", TypeParams: []model.TypeParam{{Name: "T", Constraint: "any"}}, Modifiers: "linux"},
	}}
	b := model.Scope{Namespace: "example.com/m", Package: "m", Frames: []model.Frame{
		{Keyword: "type", Name: "Box", TypeParams: []model.TypeParam{{Name: "T", Constraint: "any"}}, Modifiers: "linux"},
	}}
	assert.True(t, a.Equal(b))
	assert.Equal(t, Wrap(a, "x\n", ""), Wrap(b, "x\n", ""))
}
