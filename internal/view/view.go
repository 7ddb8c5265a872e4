// Package view renders the roster display region, the creation form and the page shell.
//
// Every render is a full replacement of its target element: the list and detail views fill
// <main id="main">, the form fills #player-form-container. Actions are bound through URLs
// keyed by player id, so no player data ever reaches a script context.
package view

import (
	"embed"
	"html/template"
	"io"

	"github.com/yoniadmire/puppy-bowl/internal/domain/players"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	defaultTitle      = "Puppy Bowl"
	defaultEventsPath = "/events"
)

// RegionKind names what the display region currently shows.
type RegionKind string

const (
	RegionList   RegionKind = "list"
	RegionDetail RegionKind = "detail"
	// RegionBlank leaves the display region empty (initial load failed).
	RegionBlank RegionKind = "blank"
)

// Region is the content of the display region.
type Region struct {
	Kind    RegionKind
	Players []players.Player
	Player  players.Player
}

// ListRegion builds a list region.
func ListRegion(items []players.Player) Region {
	return Region{Kind: RegionList, Players: items}
}

// DetailRegion builds a single-player region.
func DetailRegion(p players.Player) Region {
	return Region{Kind: RegionDetail, Player: p}
}

// FormState is what the creation form shows: current values and an optional validation message.
type FormState struct {
	Values  players.NewPlayer
	Message string
}

// Page is a full document.
type Page struct {
	Region Region
	Form   FormState
}

// Options configure the page shell.
type Options struct {
	Title       string
	HTMXSrc     string
	LiveUpdates bool
	EventsPath  string
}

type pageData struct {
	Page
	Title       string
	HTMXSrc     string
	LiveUpdates bool
	EventsPath  string
}

// Renderer executes the embedded templates.
type Renderer struct {
	tmpl *template.Template
	opts Options
}

// NewRenderer parses the embedded templates.
func NewRenderer(opts Options) (*Renderer, error) {
	tmpl, err := template.New("view").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	if opts.Title == "" {
		opts.Title = defaultTitle
	}
	if opts.EventsPath == "" {
		opts.EventsPath = defaultEventsPath
	}
	return &Renderer{tmpl: tmpl, opts: opts}, nil
}

// MustRenderer is NewRenderer for wiring code; the templates are embedded, so a failure is a build defect.
func MustRenderer(opts Options) *Renderer {
	r, err := NewRenderer(opts)
	if err != nil {
		panic(err)
	}
	return r
}

// List renders the list view: one card per player in the given order, or the placeholder.
func (r *Renderer) List(w io.Writer, items []players.Player) error {
	return r.tmpl.ExecuteTemplate(w, "list", items)
}

// Single renders the detail view of one player.
func (r *Renderer) Single(w io.Writer, p players.Player) error {
	return r.tmpl.ExecuteTemplate(w, "single", p)
}

// Form renders the creation form.
func (r *Renderer) Form(w io.Writer, state FormState) error {
	return r.tmpl.ExecuteTemplate(w, "form", state)
}

// FormOutOfBand renders the form wrapped for an out-of-band swap into #player-form-container.
func (r *Renderer) FormOutOfBand(w io.Writer, state FormState) error {
	return r.tmpl.ExecuteTemplate(w, "form-oob", state)
}

// Page renders the full document.
func (r *Renderer) Page(w io.Writer, page Page) error {
	return r.tmpl.ExecuteTemplate(w, "page", pageData{
		Page:        page,
		Title:       r.opts.Title,
		HTMXSrc:     r.opts.HTMXSrc,
		LiveUpdates: r.opts.LiveUpdates,
		EventsPath:  r.opts.EventsPath,
	})
}
