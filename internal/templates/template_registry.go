package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerStorageTemplates()
	registry.registerWrapperTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// Names returns the registered template names
func (tr *TemplateRegistry) Names() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	return names
}

func (tr *TemplateRegistry) registerStorageTemplates() {
	tr.templates[StaticTemplate] = `var {{.StaticName}} {{.Qualifier}}{{if .Async}}AsyncCell{{else}}Cell{{end}}[{{.CachedType}}]`
}

func (tr *TemplateRegistry) registerWrapperTemplates() {
	tr.templates[SyncTemplate] = `{{range .Doc}}{{.}}
{{end}}func {{.Name}}() *{{.CachedType}} {
	return {{.StaticName}}.GetOrInit(func() {{.CachedType}} {
{{.Producer}}
	})
}`

	tr.templates[AsyncTemplate] = `{{range .Doc}}{{.}}
{{end}}func {{.Name}}({{.CtxParam}} {{.ContextType}}) (*{{.CachedType}}, error) {
	return {{.StaticName}}.GetOrInit({{.CtxParam}}, func({{.InitParam}} {{.ContextType}}) {{.CachedType}} {
{{.Producer}}
	})
}`
}
