// Package template renders configuration text against the process
// environment before it is parsed as YAML.
package template

import (
	"os"
	"regexp"

	"github.com/nikolalohinski/gonja"
	"go.uber.org/zap"

	"quantlab/launcher/internal/logger"
)

// placeholderPattern matches placeholders like {{ VAR }}. Only
// identifier-shaped names are treated as substitutable variables.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// MissingVariablePolicy controls what happens when a placeholder
// references a variable that is absent from the environment.
type MissingVariablePolicy int

const (
	// MissingVariableEmpty substitutes the empty string. This is the
	// default and the documented contract: a referenced variable that
	// is not exported never fails the render.
	MissingVariableEmpty MissingVariablePolicy = iota

	// MissingVariableError fails the render with a TemplateError
	// naming the first unresolved variable.
	MissingVariableError
)

// Renderer substitutes environment values into configuration text.
type Renderer struct {
	policy MissingVariablePolicy
}

// NewRenderer creates a Renderer with the permissive default policy.
func NewRenderer() *Renderer {
	return &Renderer{policy: MissingVariableEmpty}
}

// WithPolicy sets the missing-variable policy.
func (r *Renderer) WithPolicy(policy MissingVariablePolicy) *Renderer {
	r.policy = policy
	return r
}

// Variables returns the set of variable names referenced in text, in
// order of first appearance.
func Variables(text string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		if !seen[match[1]] {
			seen[match[1]] = true
			names = append(names, match[1])
		}
	}
	return names
}

// Context builds the substitution context for text from the process
// environment. Referenced variables absent from the environment map to
// the empty string under MissingVariableEmpty.
func (r *Renderer) Context(text string) (gonja.Context, error) {
	ctx := gonja.Context{}
	for _, name := range Variables(text) {
		value, exists := os.LookupEnv(name)
		if !exists && r.policy == MissingVariableError {
			return nil, NewTemplateError(name, "variable not set in environment", nil)
		}
		ctx[name] = value
	}
	return ctx, nil
}

// Render renders text with values taken from the process environment.
func (r *Renderer) Render(text string) (string, error) {
	ctx, err := r.Context(text)
	if err != nil {
		return "", err
	}
	logger.Debug("rendering configuration template", zap.Any("context", map[string]any(ctx)))

	tpl, err := gonja.FromString(text)
	if err != nil {
		return "", NewTemplateError("", "template is not parseable", err)
	}
	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", NewTemplateError("", "template rendering failed", err)
	}
	return out, nil
}
