// Package config holds the tool constants, the directive syntax and the .structconv.yaml settings.
package config

// Global constants for the application.
const (
	Application = "structconv"
	Description = "Generate conversion functions between independently declared structs"
	WebSite     = "https://github.com/origadmin/structconv"
)

const (
	// DirectivePrefix starts every structconv directive comment.
	DirectivePrefix = "//go:structconv:"
	// TagKey is the struct tag key controlling field access.
	TagKey = "structconv"
	// FileName is the configuration file looked up from the working directory upwards.
	FileName = ".structconv.yaml"
	// DefaultSuffix names generated files: <lowercase type name><suffix>.
	DefaultSuffix = ".generated.go"
	// MaxDepth is the nesting level past which nested structs are left empty.
	MaxDepth = 12
)

// Field tag values.
const (
	TagIgnore    = "-"
	TagReadOnly  = "readonly"
	TagWriteOnly = "writeonly"
)
