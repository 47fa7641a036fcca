// Package render turns profile records into HTML pages.
//
// TEMPLATE SETS:
// Every page is parsed into its own template set: base.html (the document
// shell), partials.html (the markup shared by every portfolio) and one page
// file that defines "body". Portfolio layouts (stacked, sidebar, grid) are
// page files like any other, so the nine catalog templates map onto three
// layouts and differ only in theme.
//
// Pages are executed into a buffer first. A template error therefore never
// leaves a half-written page on the wire; the caller gets the error and can
// still send a proper status.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"

	"github.com/sakif/genfolio/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the embedded assets served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

const (
	pageIntro       = "intro"
	pageForm        = "form"
	pageNotFound    = "notfound"
	pageUnavailable = "unavailable"
)

// Options tune a single portfolio render.
type Options struct {
	// SpyURL is the websocket endpoint the page streams scroll geometry to.
	// Empty disables live section tracking (e.g. for static exports).
	SpyURL string
}

// Renderer renders portfolio and status pages.
type Renderer struct {
	catalog *Catalog
	sets    map[string]*template.Template
	logger  *slog.Logger
}

// New parses every page template once.
func New(catalog *Catalog, logger *slog.Logger) (*Renderer, error) {
	r := &Renderer{
		catalog: catalog,
		sets:    make(map[string]*template.Template),
		logger:  logger,
	}

	pages := []string{LayoutStacked, LayoutSidebar, LayoutGrid, pageIntro, pageForm, pageNotFound, pageUnavailable}
	for _, page := range pages {
		tmpl, err := template.ParseFS(templateFS,
			"templates/base.html",
			"templates/partials.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("render: parsing %s: %w", page, err)
		}
		r.sets[page] = tmpl
	}
	return r, nil
}

// Catalog returns the template catalog the renderer resolves ids against.
func (r *Renderer) Catalog() *Catalog {
	return r.catalog
}

// View builds the page view for record. An empty templateID selects the
// record's own template. An id missing from the catalog falls back to the
// default template and sets a notice on the view.
func (r *Renderer) View(record *model.ProfileRecord, templateID string) *PageView {
	if templateID == "" && record != nil {
		templateID = record.SelectedTemplate
	}
	t, found := r.catalog.Resolve(templateID)
	v := BuildView(record, t)
	if !found {
		v.Notice = fmt.Sprintf("Template %q not found, using %s.", templateID, t.Name)
		r.logger.Warn("unknown template requested",
			slog.String("template", templateID),
			slog.String("fallback", t.ID),
		)
	}
	return v
}

// Render writes the portfolio page for record.
func (r *Renderer) Render(w io.Writer, record *model.ProfileRecord, templateID string, opts Options) error {
	v := r.View(record, templateID)
	v.SpyURL = opts.SpyURL
	return r.execute(w, v.Template.Layout, v)
}

// RenderNotFound writes the terminal "profile not found" page.
func (r *Renderer) RenderNotFound(w io.Writer, id string) error {
	return r.execute(w, pageNotFound, struct{ ID string }{id})
}

// RenderUnavailable writes the "failed to load" page with a manual retry
// link. Nothing retries automatically.
func (r *Renderer) RenderUnavailable(w io.Writer, retryURL string) error {
	return r.execute(w, pageUnavailable, struct{ RetryURL string }{retryURL})
}

// RenderIntro writes the landing page.
func (r *Renderer) RenderIntro(w io.Writer) error {
	return r.execute(w, pageIntro, struct{ Templates []Template }{r.catalog.Templates})
}

// RenderForm writes the profile form page.
func (r *Renderer) RenderForm(w io.Writer) error {
	return r.execute(w, pageForm, FormPage{Sections: FormSections(r.catalog)})
}

func (r *Renderer) execute(w io.Writer, page string, data any) error {
	tmpl, ok := r.sets[page]
	if !ok {
		return fmt.Errorf("render: no page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("render: executing %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
