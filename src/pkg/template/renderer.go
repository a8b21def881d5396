package template

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	gotemplate "text/template"

	"github.com/gh-ovd/addin-manifestchk/src/pkg/models"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "template")

// Renderer renders report data into the Markdown comment body.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

var templateFuncs = gotemplate.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// RenderWithTemplates renders the comment Markdown. If templatesPath holds
// a comment.md.tmpl it overrides the embedded default template.
func (r *Renderer) RenderWithTemplates(templatesPath string, data *models.ReportData) (string, error) {
	tmplText := DefaultCommentTemplate

	if templatesPath != "" {
		overridePath := filepath.Join(templatesPath, FileNameCommentTemplate)
		content, err := os.ReadFile(overridePath)
		switch {
		case err == nil:
			logger.WithField("template", overridePath).Info("Using template override")
			tmplText = string(content)
		case os.IsNotExist(err):
			logger.WithField("template", overridePath).Debug("No template override, using embedded default")
		default:
			return "", fmt.Errorf("failed to read template %s: %w", overridePath, err)
		}
	}

	tmpl, err := gotemplate.New("comment").Funcs(templateFuncs).Parse(tmplText)
	if err != nil {
		return "", fmt.Errorf("failed to parse comment template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render comment template: %w", err)
	}
	return buf.String(), nil
}
