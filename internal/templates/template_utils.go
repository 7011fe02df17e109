package templates

import "strings"

// TemplateUtils provides common utilities for template generation
type TemplateUtils struct{}

// NewTemplateUtils creates a new template utilities instance
func NewTemplateUtils() *TemplateUtils {
	return &TemplateUtils{}
}

// TrimDoc drops trailing empty comment lines, which are left behind when a
// directive closes a doc comment.
func (tu *TemplateUtils) TrimDoc(doc []string) []string {
	end := len(doc)
	for end > 0 && strings.TrimSpace(strings.TrimPrefix(doc[end-1], "//")) == "" {
		end--
	}
	return doc[:end]
}

// CallProducer is the expression that runs the original body
func (tu *TemplateUtils) CallProducer(results, body string) string {
	if results == "" {
		return "func() " + body + "()"
	}
	return "func() " + results + " " + body + "()"
}

// ParamName returns name, or fallback when the name is missing or blank
func (tu *TemplateUtils) ParamName(name, fallback string) string {
	if name == "" || name == "_" {
		return fallback
	}
	return name
}
