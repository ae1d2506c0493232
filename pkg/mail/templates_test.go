package mail

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTemplatesRenderResetPassword(t *testing.T) {
	tpl, err := LoadTemplates()
	require.NoError(t, err)

	text, html, err := tpl.Render(TemplateResetPassword, TemplateVars{
		AppName: "Reelhub",
		Link:    "https://reelhub.test/auth/new-password?token=abc&x=1",
		TTL:     "1h0m0s",
	})
	require.NoError(t, err)
	require.Contains(t, text, "https://reelhub.test/auth/new-password?token=abc&x=1")
	require.Contains(t, text, "1h0m0s")
	require.Contains(t, html, `href="https://reelhub.test/auth/new-password?token=abc&amp;x=1"`)
}

func TestTemplatesRenderVerifyEmail(t *testing.T) {
	tpl, err := LoadTemplates()
	require.NoError(t, err)

	text, html, err := tpl.Render(TemplateVerifyEmail, TemplateVars{AppName: "Reelhub", Link: "https://reelhub.test/v"})
	require.NoError(t, err)
	require.Contains(t, text, "Welcome to Reelhub!")
	require.Contains(t, html, "confirm your email")
}

func TestTemplatesRenderUnknown(t *testing.T) {
	tpl, err := LoadTemplates()
	require.NoError(t, err)

	_, _, err = tpl.Render("missing", TemplateVars{})
	require.Error(t, err)
}
