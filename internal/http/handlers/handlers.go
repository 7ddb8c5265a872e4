package handlers

import (
	"io"
	"log/slog"
	nethttp "net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/yoniadmire/puppy-bowl/internal/app/players"
	domain "github.com/yoniadmire/puppy-bowl/internal/domain/players"
	"github.com/yoniadmire/puppy-bowl/internal/http/requestutil"
	"github.com/yoniadmire/puppy-bowl/internal/live"
	"github.com/yoniadmire/puppy-bowl/internal/view"
)

const (
	headerRetarget = "HX-Retarget"
	headerReswap   = "HX-Reswap"

	formContainer = "#player-form-container"
)

// Handler wires HTTP routes to the roster service and renders the results.
//
// htmx requests get fragments that replace a single region. Any other request gets the full
// page so the app still works without scripts; mutations on that path redirect to the index.
type Handler struct {
	svc    *players.Service
	view   *view.Renderer
	logger *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(svc *players.Service, renderer *view.Renderer, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		view:   renderer,
		logger: logger,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Index serves the page with the creation form installed and the roster list rendered.
// If the initial fetch fails the display region stays blank.
func (h *Handler) Index(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.renderListPage(w, r, view.FormState{}, nethttp.StatusOK)
}

// ListPlayers renders the list view.
func (h *Handler) ListPlayers(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requestutil.IsHTMX(r) {
		h.Index(w, r)
		return
	}
	items, err := h.svc.Players(r.Context())
	if err != nil {
		keepDisplay(w)
		return
	}
	h.writeHTML(w, r, nethttp.StatusOK, func(out io.Writer) error {
		return h.view.List(out, items)
	})
}

// PlayerByID renders the detail view of one player.
func (h *Handler) PlayerByID(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, ok := h.playerID(w, r)
	if !ok {
		return
	}
	p, err := h.svc.PlayerByID(r.Context(), id)

	if requestutil.IsHTMX(r) {
		if err != nil {
			keepDisplay(w)
			return
		}
		h.writeHTML(w, r, nethttp.StatusOK, func(out io.Writer) error {
			return h.view.Single(out, p)
		})
		return
	}

	page := view.Page{Region: view.DetailRegion(p)}
	status := nethttp.StatusOK
	if err != nil {
		page.Region = view.Region{Kind: view.RegionBlank}
		status = nethttp.StatusBadGateway
	}
	h.writePage(w, r, status, page)
}

// CreatePlayer handles the creation form. Missing fields re-render the form with a message
// and nothing is sent upstream. Otherwise the list is refreshed and the form cleared whether
// or not the create succeeded.
func (h *Handler) CreatePlayer(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, nethttp.StatusBadRequest, "invalid form body", h.logger)
		return
	}
	fields := domain.NewPlayer{
		Name:     r.PostFormValue("name"),
		Breed:    r.PostFormValue("breed"),
		ImageURL: r.PostFormValue("imageUrl"),
	}
	ctx := live.WithOrigin(r.Context(), r.Header.Get(live.HeaderClientID))
	result := h.svc.Submit(ctx, fields)
	htmx := requestutil.IsHTMX(r)

	if result.Invalid {
		form := view.FormState{Values: result.Values, Message: result.Message}
		if !htmx {
			h.renderListPage(w, r, form, nethttp.StatusUnprocessableEntity)
			return
		}
		w.Header().Set(headerRetarget, formContainer)
		w.Header().Set(headerReswap, "innerHTML")
		h.writeHTML(w, r, nethttp.StatusOK, func(out io.Writer) error {
			return h.view.Form(out, form)
		})
		return
	}

	if !htmx {
		seeIndex(w, r)
		return
	}

	if result.RefreshErr != nil {
		// Leave the stale list in place but still clear the form.
		w.Header().Set(headerReswap, "none")
		h.writeHTML(w, r, nethttp.StatusOK, func(out io.Writer) error {
			return h.view.FormOutOfBand(out, view.FormState{})
		})
		return
	}
	h.writeHTML(w, r, nethttp.StatusOK, func(out io.Writer) error {
		if err := h.view.List(out, result.Players); err != nil {
			return err
		}
		return h.view.FormOutOfBand(out, view.FormState{})
	})
}

// RemovePlayer deletes the player and renders the refreshed list.
func (h *Handler) RemovePlayer(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, ok := h.playerID(w, r)
	if !ok {
		return
	}
	ctx := live.WithOrigin(r.Context(), r.Header.Get(live.HeaderClientID))
	items, err := h.svc.Remove(ctx, id)

	if requestutil.IsHTMX(r) {
		if err != nil {
			keepDisplay(w)
			return
		}
		h.writeHTML(w, r, nethttp.StatusOK, func(out io.Writer) error {
			return h.view.List(out, items)
		})
		return
	}

	if err != nil {
		h.writePage(w, r, nethttp.StatusBadGateway, view.Page{Region: view.Region{Kind: view.RegionBlank}})
		return
	}
	seeIndex(w, r)
}

// NotFound handles unknown routes.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed handles known routes hit with the wrong method.
func (h *Handler) MethodNotAllowed(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
}

func (h *Handler) renderListPage(w nethttp.ResponseWriter, r *nethttp.Request, form view.FormState, status int) {
	page := view.Page{Form: form}
	items, err := h.svc.Players(r.Context())
	if err != nil {
		page.Region = view.Region{Kind: view.RegionBlank}
		status = nethttp.StatusBadGateway
	} else {
		page.Region = view.ListRegion(items)
	}
	h.writePage(w, r, status, page)
}

func seeIndex(w nethttp.ResponseWriter, r *nethttp.Request) {
	nethttp.Redirect(w, r, "/", nethttp.StatusSeeOther)
}

func (h *Handler) writePage(w nethttp.ResponseWriter, r *nethttp.Request, status int, page view.Page) {
	h.writeHTML(w, r, status, func(out io.Writer) error {
		return h.view.Page(out, page)
	})
}

func (h *Handler) writeHTML(w nethttp.ResponseWriter, r *nethttp.Request, status int, render func(io.Writer) error) {
	writeHTML(w, r, status, render, loggerFromContext(r, h.logger))
}

func (h *Handler) playerID(w nethttp.ResponseWriter, r *nethttp.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		writeError(w, r, nethttp.StatusBadRequest, "invalid player id", h.logger)
		return 0, false
	}
	return id, true
}
