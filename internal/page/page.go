// Package page wraps the rendered navigation and body fragments into a
// standalone HTML document with its styles and script inlined.
package page

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"

	"git.home.luguber.info/inful/codex/internal/version"
)

// TimeLayout formats the generation time shown in the page header.
const TimeLayout = "2006-01-02 15:04:05"

// MathJaxURL is loaded only by pages that contain math.
const MathJaxURL = "https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-chtml.js"

//go:embed assets/page.html.tmpl
var pageTemplate string

//go:embed assets/page.css
var pageCSS string

//go:embed assets/page.js
var pageJS string

var documentTemplate = template.Must(template.New("page").Parse(pageTemplate))

// Document is everything shown on the generated page.
type Document struct {
	RepoName        string
	RepoDescription string
	CommitHash      string
	RepoURL         string
	GeneratedAt     time.Time
	// Navigation and Body are trusted HTML fragments inserted verbatim.
	Navigation string
	Body       string
}

type templateData struct {
	RepoName        string
	RepoDescription string
	CommitHash      string
	RepoURL         string
	GeneratedAt     string
	Version         string
	Navigation      template.HTML
	Body            template.HTML
	Styles          template.CSS
	Script          template.JS
	Math            bool
	MathJaxURL      string
}

// Renderer produces the final document.
type Renderer struct {
	minifier *minify.M
}

// NewRenderer returns a Renderer; minified output strips whitespace and
// compacts the inlined CSS and JavaScript.
func NewRenderer(minified bool) *Renderer {
	r := &Renderer{}
	if minified {
		m := minify.New()
		m.AddFunc("text/css", css.Minify)
		m.Add("text/html", &html.Minifier{
			KeepDocumentTags: true,
			KeepEndTags:      true,
			KeepQuotes:       true,
		})
		m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
		r.minifier = m
	}
	return r
}

// Render executes the page template for doc.
func (r *Renderer) Render(doc Document) (string, error) {
	data := templateData{
		RepoName:        doc.RepoName,
		RepoDescription: doc.RepoDescription,
		CommitHash:      doc.CommitHash,
		RepoURL:         doc.RepoURL,
		GeneratedAt:     doc.GeneratedAt.Format(TimeLayout),
		Version:         version.Version,
		Navigation:      template.HTML(doc.Navigation), // #nosec G203 -- fragments are produced by the render package
		Body:            template.HTML(doc.Body),       // #nosec G203 -- fragments are produced by the render package
		Styles:          template.CSS(pageCSS),         // #nosec G203 -- embedded asset
		Script:          template.JS(pageJS),           // #nosec G203 -- embedded asset
		Math:            strings.Contains(doc.Body, `class="math `),
		MathJaxURL:      MathJaxURL,
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute page template: %w", err)
	}
	if r.minifier == nil {
		return buf.String(), nil
	}

	out, err := r.minifier.String("text/html", buf.String())
	if err != nil {
		return "", fmt.Errorf("minify page: %w", err)
	}
	return out, nil
}

// Render renders doc with a minifying Renderer.
func Render(doc Document) (string, error) {
	return NewRenderer(true).Render(doc)
}
