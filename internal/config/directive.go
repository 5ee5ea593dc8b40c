package config

import (
	"errors"
	"fmt"
	"strings"
)

// Directive errors.
var (
	ErrUnknownDirective = errors.New("unknown directive")
	ErrEmptyDirective   = errors.New("directive has no type")
)

// Directive keys.
const (
	KeyFrom = "from"
	KeyTo   = "to"
)

// Directive is one parsed `//go:structconv:<key>=<type>` comment.
type Directive struct {
	Key  string
	Type string
}

// IsDirective reports whether the comment text carries the structconv prefix.
func IsDirective(text string) bool {
	return strings.HasPrefix(text, DirectivePrefix)
}

// ParseDirective parses one comment line. ok is false when text is not a structconv directive.
func ParseDirective(text string) (d Directive, ok bool, err error) {
	if !IsDirective(text) {
		return Directive{}, false, nil
	}
	body := strings.TrimSpace(strings.TrimPrefix(text, DirectivePrefix))
	key, value, found := strings.Cut(body, "=")
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch key {
	case KeyFrom, KeyTo:
	default:
		return Directive{}, true, fmt.Errorf("%w: %q", ErrUnknownDirective, text)
	}
	if !found || value == "" {
		return Directive{}, true, fmt.Errorf("%w: %q", ErrEmptyDirective, text)
	}
	return Directive{Key: key, Type: value}, true, nil
}
