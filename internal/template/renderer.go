// Package template renders generated code into output files.
package template

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sync"
	"text/template"
)

//go:embed convert.tpl
var convertTemplate string

// Data is the value the output template is executed with.
type Data struct {
	// Tool names the generator in the header.
	Tool string
	// Source is the file the directives were read from.
	Source string
	// Code is the wrapped body, package clause included.
	Code string
}

// Renderer executes one parsed output template. It is immutable and safe for
// concurrent use.
type Renderer struct {
	tmpl *template.Template
}

var defaultRenderer = sync.OnceValue(func() *Renderer {
	return &Renderer{tmpl: template.Must(template.New("convert").Parse(convertTemplate))}
})

// Default returns the renderer of the embedded template. It is parsed on first use.
func Default() *Renderer {
	return defaultRenderer()
}

// Load parses the template file at path.
func Load(path string) (*Renderer, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return Parse(path, string(content))
}

// Parse parses text as an output template.
func Parse(name, text string) (*Renderer, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the template with data.
func (r *Renderer) Render(data Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render template %s: %w", r.tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}
