package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/yoniadmire/puppy-bowl/internal/app/players"
	"github.com/yoniadmire/puppy-bowl/internal/http/handlers"
	"github.com/yoniadmire/puppy-bowl/internal/testutil"
	"github.com/yoniadmire/puppy-bowl/internal/view"
)

func newTestRouter(api *testutil.StubAPI, events nethttp.Handler) nethttp.Handler {
	svc := players.NewService(api, nil, nil)
	h := handlers.NewHandler(svc, view.MustRenderer(view.Options{}), nil)
	return NewRouter(h, events)
}

func TestRouterRoutesKnownPaths(t *testing.T) {
	router := newTestRouter(testutil.NewStubAPI(testutil.SamplePlayers(2)...), nil)

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{nethttp.MethodGet, "/health", nethttp.StatusOK},
		{nethttp.MethodGet, "/", nethttp.StatusOK},
		{nethttp.MethodGet, "/players", nethttp.StatusOK},
		{nethttp.MethodGet, "/players/1", nethttp.StatusOK},
		{nethttp.MethodDelete, "/players/1", nethttp.StatusSeeOther},
		{nethttp.MethodPost, "/players/2/delete", nethttp.StatusSeeOther},
		{nethttp.MethodGet, "/players/abc", nethttp.StatusNotFound},
		{nethttp.MethodGet, "/events", nethttp.StatusNotFound},
		{nethttp.MethodPut, "/players", nethttp.StatusMethodNotAllowed},
		{nethttp.MethodGet, "/nope", nethttp.StatusNotFound},
	}

	for _, tc := range cases {
		rr := testutil.Serve(router, tc.method, tc.path, nil)
		if rr.Code != tc.want {
			t.Fatalf("%s %s expected status %d, got %d", tc.method, tc.path, tc.want, rr.Code)
		}
	}
}

func TestRouterPassesPathIDToHandlers(t *testing.T) {
	api := testutil.NewStubAPI(testutil.SamplePlayers(3)...)
	router := newTestRouter(api, nil)

	req := testutil.AsHTMX(httptest.NewRequest(nethttp.MethodGet, "/players/3", nil))
	rr := testutil.ServeRequest(router, req)

	testutil.AssertStatus(t, rr, nethttp.StatusOK)
	if len(api.GetIDs) != 1 || api.GetIDs[0] != 3 {
		t.Fatalf("expected get for id 3, got %v", api.GetIDs)
	}
}

func TestRouterCreateThroughForm(t *testing.T) {
	api := testutil.NewStubAPI()
	router := newTestRouter(api, nil)

	values := map[string][]string{"name": {"Rex"}, "breed": {"Lab"}, "imageUrl": {"http://x/rex.png"}}
	rr := testutil.ServeRequest(router, testutil.AsHTMX(testutil.NewFormRequest("/players", values)))

	testutil.AssertStatus(t, rr, nethttp.StatusOK)
	if len(api.Created) != 1 {
		t.Fatalf("expected one create, got %d", len(api.Created))
	}
}

func TestRouterMountsEventsWhenProvided(t *testing.T) {
	called := false
	events := nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		called = true
		w.WriteHeader(nethttp.StatusSwitchingProtocols)
	})
	router := newTestRouter(testutil.NewStubAPI(), events)

	rr := testutil.Serve(router, nethttp.MethodGet, "/events", nil)
	if !called || rr.Code != nethttp.StatusSwitchingProtocols {
		t.Fatalf("expected events handler to be mounted, got %d", rr.Code)
	}
}
