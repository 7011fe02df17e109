package templates

import (
	"bytes"
	"fmt"
	"text/template"
)

// Template names
const (
	StaticTemplate = "static"
	SyncTemplate   = "sync-func"
	AsyncTemplate  = "async-func"
)

// FragmentData is the input of the storage and wrapper templates
type FragmentData struct {
	Name       string   // function name
	StaticName string   // hidden storage variable
	Doc        []string // doc comment lines to keep
	Qualifier  string   // runtime package qualifier, "lazy." or empty
	CachedType string   // effective cached type
	Async      bool

	CtxParam    string // wrapper context parameter name
	InitParam   string // initializer context parameter name
	ContextType string // context type as spelled in the source file

	Producer string // statements computing and returning the cached value
}

// Renderer executes registry templates
type Renderer struct {
	registry *TemplateRegistry
	parsed   map[string]*template.Template
}

// NewRenderer parses every template of registry up front
func NewRenderer(registry *TemplateRegistry) (*Renderer, error) {
	r := &Renderer{
		registry: registry,
		parsed:   make(map[string]*template.Template),
	}
	for _, name := range registry.Names() {
		tmpl, err := template.New(name).Parse(registry.MustGet(name))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.parsed[name] = tmpl
	}
	return r, nil
}

// MustNewRenderer is NewRenderer for the built-in registry
func MustNewRenderer() *Renderer {
	r, err := NewRenderer(NewTemplateRegistry())
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes the named template with data
func (r *Renderer) Render(name string, data FragmentData) (string, error) {
	tmpl, ok := r.parsed[name]
	if !ok {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}
