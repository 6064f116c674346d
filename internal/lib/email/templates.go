package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

type Template string

const (
	TemplateNewMessage   Template = "new_message"
	TemplatePrescription Template = "prescription"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Render executes the named template with data.
func Render(name Template, data map[string]string) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, string(name)+".html", data); err != nil {
		return "", fmt.Errorf("executing email template %s: %w", name, err)
	}
	return body.String(), nil
}
