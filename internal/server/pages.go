package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog"
)

//go:embed web/*.html
var webFS embed.FS

type page struct {
	file   string
	title  string
	active string
}

var pages = map[string]page{
	"/":           {file: "dashboard.html", title: "Dashboard", active: "dashboard"},
	"/index.html": {file: "dashboard.html", title: "Dashboard", active: "dashboard"},
	"/logs":       {file: "logs.html", title: "Logs", active: "logs"},
	"/graphs":     {file: "graphs.html", title: "Graphs", active: "graphs"},
}

// pageData is passed to every page template
type pageData struct {
	Title  string
	Active string
	DBPath string
}

// PageHandler serves the static dashboard pages; all data is fetched by the browser from the API
type PageHandler struct {
	tmpl   *template.Template
	dbPath string
	logger zerolog.Logger
}

// NewPageHandler parses the embedded page templates
func NewPageHandler(dbPath string, logger zerolog.Logger) (*PageHandler, error) {
	tmpl, err := template.ParseFS(webFS, "web/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return &PageHandler{
		tmpl:   tmpl,
		dbPath: dbPath,
		logger: logger,
	}, nil
}

// ServeHTTP renders the page registered for the request path
func (ph *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, ok := pages[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var buf bytes.Buffer
	err := ph.tmpl.ExecuteTemplate(&buf, p.file, pageData{
		Title:  p.title,
		Active: p.active,
		DBPath: ph.dbPath,
	})
	if err != nil {
		ph.logger.Error().Err(err).Str("page", p.file).Msg("Failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
