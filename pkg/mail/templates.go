package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltpl "html/template"
	texttpl "text/template"
)

//go:embed templates/*.txt templates/*.html
var templateFS embed.FS

// Template names shipped with the binary.
const (
	TemplateResetPassword = "reset_password"
	TemplateVerifyEmail   = "verify_email"
)

// TemplateVars are the values available to every email template.
type TemplateVars struct {
	AppName string
	Email   string
	Link    string
	TTL     string
}

// Templates holds the parsed text and HTML variants of each email.
type Templates struct {
	text *texttpl.Template
	html *htmltpl.Template
}

// LoadTemplates parses the embedded email templates.
func LoadTemplates() (*Templates, error) {
	text, err := texttpl.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("mail: parse text templates: %w", err)
	}
	html, err := htmltpl.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("mail: parse html templates: %w", err)
	}
	return &Templates{text: text, html: html}, nil
}

// Render executes the named template and returns its text and HTML bodies.
func (t *Templates) Render(name string, vars TemplateVars) (string, string, error) {
	var textBuf, htmlBuf bytes.Buffer
	if err := t.text.ExecuteTemplate(&textBuf, name+".txt", vars); err != nil {
		return "", "", fmt.Errorf("mail: render %s text: %w", name, err)
	}
	if err := t.html.ExecuteTemplate(&htmlBuf, name+".html", vars); err != nil {
		return "", "", fmt.Errorf("mail: render %s html: %w", name, err)
	}
	return textBuf.String(), htmlBuf.String(), nil
}
