package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsUnreferencedVariable(t *testing.T) {
	r := NewRegistry()
	err := r.Register("broken", "no placeholders here", "title")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func TestRenderSubstitutesVariables(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("greeting", "Hello {name}, issue: {issue}", "name", "issue"))

	out, err := r.Render("greeting", map[string]string{
		"name":  "Alice",
		"issue": "VPN down",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello Alice, issue: VPN down", out)
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := NewRegistry()
	_, err := r.Render("does-not-exist", nil)
	var unknown *UnknownTemplateError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "does-not-exist", unknown.Name)
}

func TestRenderMissingRequiredVariable(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("greeting", "Hello {name}", "name"))

	_, err := r.Render("greeting", map[string]string{})
	var missing *MissingVariableError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "name", missing.Name)
}

func TestRenderKeepsBraceSyntaxInValuesLiteral(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("echo", "value: {value} and {other}", "value", "other"))

	out, err := r.Render("echo", map[string]string{
		"value": "{other}",
		"other": "plain",
	})
	require.NoError(t, err)
	// The substituted {other} inside the value must not be re-expanded.
	assert.Equal(t, "value: {other} and plain", out)
}

func TestDefaultTemplatesAreRegistered(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{
		TemplateTicketCategorization,
		TemplateTicketAnalysis,
		TemplateKBSearch,
		TemplateChatbotResponse,
	} {
		_, err := r.Render(name, allVars())
		assert.NoError(t, err, name)
	}
}

func allVars() map[string]string {
	vars := map[string]string{}
	for _, k := range []string{
		"categories", "title", "description", "category", "priority",
		"department", "user_name", "user_email", "agents", "historical_context",
		"question", "articles", "max_results", "user_message", "context_info",
	} {
		vars[k] = "x"
	}
	return vars
}
