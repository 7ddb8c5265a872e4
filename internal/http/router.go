package http

import (
	nethttp "net/http"

	"github.com/gorilla/mux"

	"github.com/yoniadmire/puppy-bowl/internal/http/handlers"
)

// NewRouter registers the page, fragment, and health routes. events serves the live
// update socket and may be nil when live updates are disabled.
func NewRouter(h *handlers.Handler, events nethttp.Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.Health).Methods(nethttp.MethodGet)
	r.HandleFunc("/", h.Index).Methods(nethttp.MethodGet)

	r.HandleFunc("/players", h.ListPlayers).Methods(nethttp.MethodGet)
	r.HandleFunc("/players", h.CreatePlayer).Methods(nethttp.MethodPost)
	r.HandleFunc("/players/{id:[0-9]+}", h.PlayerByID).Methods(nethttp.MethodGet)
	r.HandleFunc("/players/{id:[0-9]+}", h.RemovePlayer).Methods(nethttp.MethodDelete)
	r.HandleFunc("/players/{id:[0-9]+}/delete", h.RemovePlayer).Methods(nethttp.MethodPost)

	if events != nil {
		r.Handle("/events", events).Methods(nethttp.MethodGet)
	}

	r.NotFoundHandler = nethttp.HandlerFunc(h.NotFound)
	r.MethodNotAllowedHandler = nethttp.HandlerFunc(h.MethodNotAllowed)
	return r
}
