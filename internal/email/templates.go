package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/stumbleable/jobs/internal/domain/model"
	apperrors "github.com/stumbleable/jobs/internal/errors"
)

//go:embed templates/*.html.tmpl
var templatesFS embed.FS

// Renderer renders email bodies from embedded HTML templates, one template
// per email type. Per-message data is merged over process-wide defaults so
// every template can link back to the site and its unsubscribe page.
type Renderer struct {
	templates *template.Template
	baseData  map[string]any
}

// RendererOptions configures template rendering.
type RendererOptions struct {
	FrontendBaseURL string
	UnsubscribeURL  string
}

// NewRenderer parses the embedded templates.
func NewRenderer(opts RendererOptions) (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &Renderer{
		templates: tmpl,
		baseData: map[string]any{
			"FrontendURL":    opts.FrontendBaseURL,
			"UnsubscribeURL": opts.UnsubscribeURL,
		},
	}, nil
}

// MustNewRenderer is like NewRenderer but panics on error. The templates are
// embedded, so a parse failure is a programming error.
func MustNewRenderer(opts RendererOptions) *Renderer {
	r, err := NewRenderer(opts)
	if err != nil {
		panic(err)
	}
	return r
}

// Render produces the HTML body for one email type. Unknown types fail with
// a validation error rather than sending an empty body.
func (r *Renderer) Render(emailType model.EmailType, data map[string]any) (string, error) {
	name := string(emailType) + ".html.tmpl"
	if r.templates.Lookup(name) == nil {
		return "", apperrors.Validationf("no template for email type %q", emailType)
	}

	merged := make(map[string]any, len(r.baseData)+len(data))
	for k, v := range r.baseData {
		merged[k] = v
	}
	for k, v := range data {
		merged[k] = v
	}

	var body bytes.Buffer
	if err := r.templates.ExecuteTemplate(&body, name, merged); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return body.String(), nil
}
