package components

import (
	"fmt"
	"go/token"
	"go/types"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/origadmin/structconv/internal/model"
)

// reservedNames are identifiers the generated functions declare themselves.
var reservedNames = map[string]bool{
	"item":  true,
	"items": true,
	"it":    true,
	"out":   true,
	"r":     true,
}

// freshName matches the variables a Synthesizer declares.
var freshName = regexp.MustCompile(`^(elem|key|val|idx|conv)[0-9]+$`)

// ImportManager implements model.ImportManager for one generated file.
type ImportManager struct {
	self    *types.Package
	imports map[string]string // path -> local name
	names   map[string]string // path -> package name
	taken   map[string]bool
}

// NewImportManager creates an import manager for a file of package self.
// Local names never shadow the reserved variables or the declarations of self.
func NewImportManager(self *types.Package) *ImportManager {
	return &ImportManager{
		self:    self,
		imports: make(map[string]string),
		names:   make(map[string]string),
		taken:   make(map[string]bool),
	}
}

var _ model.ImportManager = (*ImportManager)(nil)

// Add adds an import and returns the name to qualify it with. The package being
// generated is never imported; its qualifier is "".
func (im *ImportManager) Add(importPath, name string) string {
	if im.self != nil && importPath == im.self.Path() {
		return ""
	}
	if alias, exists := im.imports[importPath]; exists {
		return alias
	}

	if name == "" {
		name = sanitize(path.Base(importPath))
	}

	// Handle conflicts.
	alias := name
	for i := 1; im.conflicts(alias); i++ {
		alias = fmt.Sprintf("%s%d", name, i)
		if freshName.MatchString(alias) {
			alias = fmt.Sprintf("%s_%d", name, i)
		}
	}

	im.imports[importPath] = alias
	im.names[importPath] = name
	im.taken[alias] = true
	return alias
}

func (im *ImportManager) conflicts(alias string) bool {
	if im.taken[alias] || reservedNames[alias] || freshName.MatchString(alias) || token.IsKeyword(alias) {
		return true
	}
	return im.self != nil && im.self.Scope().Lookup(alias) != nil
}

// Qualifier returns a qualifier that imports every package it is asked about.
func (im *ImportManager) Qualifier() types.Qualifier {
	return func(p *types.Package) string {
		return im.Add(p.Path(), p.Name())
	}
}

// Alias returns the local name of an imported path.
func (im *ImportManager) Alias(importPath string) (string, bool) {
	alias, ok := im.imports[importPath]
	return alias, ok
}

// Block renders the import declaration sorted by path.
func (im *ImportManager) Block() string {
	if len(im.imports) == 0 {
		return ""
	}

	paths := make([]string, 0, len(im.imports))
	for p := range im.imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var buf strings.Builder
	buf.WriteString("import (\n")
	for _, importPath := range paths {
		alias := im.imports[importPath]
		// Only show the alias if it differs from the package name.
		if alias == im.names[importPath] && alias == path.Base(importPath) {
			fmt.Fprintf(&buf, "\t%q\n", importPath)
		} else {
			fmt.Fprintf(&buf, "\t%s %q\n", alias, importPath)
		}
	}
	buf.WriteString(")\n\n")
	return buf.String()
}

func sanitize(base string) string {
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9' && b.Len() > 0:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "pkg"
	}
	return b.String()
}
