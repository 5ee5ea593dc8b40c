package model

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// TypeParam is one type parameter of a generic declaration.
type TypeParam struct {
	Name       string
	Constraint string
}

// Frame is one enclosing declaration.
type Frame struct {
	Keyword    string
	Name       string
	TypeParams []TypeParam
	// Modifiers holds the build constraint under which the declaration exists.
	Modifiers string
}

// Declared returns the name with its type parameter list, e.g. "Box[K comparable, V any]".
func (f Frame) Declared() string {
	if len(f.TypeParams) == 0 {
		return f.Name
	}
	params := make([]string, len(f.TypeParams))
	for i, p := range f.TypeParams {
		params[i] = p.Name + " " + p.Constraint
	}
	return f.Name + "[" + strings.Join(params, ", ") + "]"
}

// Instance returns the name instantiated with its own parameters, e.g. "Box[K, V]".
func (f Frame) Instance() string {
	if len(f.TypeParams) == 0 {
		return f.Name
	}
	return f.Name + "[" + strings.Join(f.paramNames(), ", ") + "]"
}

// ParamList returns "[K comparable, V any]" or "".
func (f Frame) ParamList() string {
	if len(f.TypeParams) == 0 {
		return ""
	}
	return strings.TrimPrefix(f.Declared(), f.Name)
}

// ArgList returns "[K, V]" or "".
func (f Frame) ArgList() string {
	if len(f.TypeParams) == 0 {
		return ""
	}
	return "[" + strings.Join(f.paramNames(), ", ") + "]"
}

func (f Frame) paramNames() []string {
	names := make([]string, len(f.TypeParams))
	for i, p := range f.TypeParams {
		names[i] = p.Name
	}
	return names
}

// Equal compares two frames field by field.
func (f Frame) Equal(other Frame) bool {
	if f.Keyword != other.Keyword || f.Name != other.Name || f.Modifiers != other.Modifiers {
		return false
	}
	if len(f.TypeParams) != len(other.TypeParams) {
		return false
	}
	for i := range f.TypeParams {
		if f.TypeParams[i] != other.TypeParams[i] {
			return false
		}
	}
	return true
}

func (f Frame) write(d *xxhash.Digest) {
	writeField(d, f.Keyword)
	writeField(d, f.Name)
	for _, p := range f.TypeParams {
		writeField(d, p.Name)
		writeField(d, p.Constraint)
	}
	writeField(d, f.Modifiers)
}

// Scope is the chain of enclosing frames, innermost first, terminated by the package.
type Scope struct {
	// Namespace is the package import path.
	Namespace string
	// Package is the package name used in the package clause.
	Package string
	Frames  []Frame
}

// Innermost returns the frame of the declaration itself.
func (s Scope) Innermost() (Frame, bool) {
	if len(s.Frames) == 0 {
		return Frame{}, false
	}
	return s.Frames[0], true
}

// Parent drops the innermost frame.
func (s Scope) Parent() Scope {
	if len(s.Frames) == 0 {
		return s
	}
	return Scope{Namespace: s.Namespace, Package: s.Package, Frames: s.Frames[1:]}
}

// Equal compares the chains recursively, frame by frame, then the terminating package.
func (s Scope) Equal(other Scope) bool {
	if len(s.Frames) != len(other.Frames) {
		return false
	}
	if len(s.Frames) == 0 {
		return s.Namespace == other.Namespace && s.Package == other.Package
	}
	return s.Frames[0].Equal(other.Frames[0]) && s.Parent().Equal(other.Parent())
}

// Hash is consistent with Equal.
func (s Scope) Hash() uint64 {
	d := xxhash.New()
	s.write(d)
	return d.Sum64()
}

func (s Scope) write(d *xxhash.Digest) {
	for _, f := range s.Frames {
		f.write(d)
		_, _ = d.Write([]byte{1})
	}
	writeField(d, s.Namespace)
	writeField(d, s.Package)
}

// Key identifies one annotated declaration for deduplication.
type Key struct {
	TypeID    string
	Namespace string
	Scope     Scope
}

// NewKey builds a Key.
func NewKey(typeID, namespace string, scope Scope) Key {
	return Key{TypeID: typeID, Namespace: namespace, Scope: scope}
}

// Equal is structural over all three components.
func (k Key) Equal(other Key) bool {
	return k.TypeID == other.TypeID && k.Namespace == other.Namespace && k.Scope.Equal(other.Scope)
}

// Hash is consistent with Equal.
func (k Key) Hash() uint64 {
	d := xxhash.New()
	writeField(d, k.TypeID)
	writeField(d, k.Namespace)
	k.Scope.write(d)
	return d.Sum64()
}

// KeySet is a hash set of keys. It is not safe for concurrent use.
type KeySet struct {
	buckets map[uint64][]Key
}

// NewKeySet creates an empty set.
func NewKeySet() *KeySet {
	return &KeySet{buckets: make(map[uint64][]Key)}
}

// Add inserts k and reports whether it was absent.
func (ks *KeySet) Add(k Key) bool {
	h := k.Hash()
	for _, existing := range ks.buckets[h] {
		if existing.Equal(k) {
			return false
		}
	}
	ks.buckets[h] = append(ks.buckets[h], k)
	return true
}

// Contains reports whether k is in the set.
func (ks *KeySet) Contains(k Key) bool {
	for _, existing := range ks.buckets[k.Hash()] {
		if existing.Equal(k) {
			return true
		}
	}
	return false
}

// writeField writes s length-prefixed so that adjacent fields cannot run together.
func writeField(d *xxhash.Digest, s string) {
	n := len(s)
	_, _ = d.Write([]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
	_, _ = d.WriteString(s)
}
