// Package prompt renders named text templates into model-ready prompts.
//
// Templates use {name} placeholders and literal substitution only: a
// variable value that itself contains placeholder syntax is inserted
// verbatim, never re-interpreted.
package prompt

import (
	"fmt"
	"strings"
	"sync"
)

// UnknownTemplateError is returned when rendering a template that was
// never registered.
type UnknownTemplateError struct {
	Name string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown prompt template %q", e.Name)
}

// MissingVariableError is returned when a required variable is absent
// from the render call.
type MissingVariableError struct {
	Template string
	Name     string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("template %q: missing required variable %q", e.Template, e.Name)
}

type template struct {
	body     string
	required []string
}

// Registry holds named prompt templates. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]template
}

// NewRegistry creates a registry preloaded with the default templates.
// It panics if a default template is malformed, which is a programmer
// error caught at process start.
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[string]template)}
	for name, t := range defaultTemplates {
		if err := r.Register(name, t.body, t.required...); err != nil {
			panic(fmt.Sprintf("default prompt template %s: %v", name, err))
		}
	}
	return r
}

// Register stores a template under name, overwriting any previous
// registration. Every required variable must appear as a {placeholder}
// in the body; a mismatch is a configuration error and fails here
// rather than at render time.
func (r *Registry) Register(name, body string, required ...string) error {
	for _, variable := range required {
		if !strings.Contains(body, "{"+variable+"}") {
			return fmt.Errorf("template %q: body does not reference required variable %q", name, variable)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[name] = template{body: body, required: append([]string(nil), required...)}
	return nil
}

// Render substitutes vars into the named template.
func (r *Registry) Render(name string, vars map[string]string) (string, error) {
	r.mu.RLock()
	t, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return "", &UnknownTemplateError{Name: name}
	}
	for _, variable := range t.required {
		if _, present := vars[variable]; !present {
			return "", &MissingVariableError{Template: name, Name: variable}
		}
	}

	// Single-pass replacement keeps values containing brace syntax literal.
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(t.body), nil
}
