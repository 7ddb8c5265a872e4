package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/yoniadmire/puppy-bowl/internal/app/players"
	"github.com/yoniadmire/puppy-bowl/internal/live"
	"github.com/yoniadmire/puppy-bowl/internal/roster"
	"github.com/yoniadmire/puppy-bowl/internal/testutil"
	"github.com/yoniadmire/puppy-bowl/internal/view"
)

type originNotifier struct {
	mu      sync.Mutex
	origins []string
}

func (n *originNotifier) Notify(ctx context.Context) {
	n.mu.Lock()
	n.origins = append(n.origins, live.OriginFromContext(ctx))
	n.mu.Unlock()
}

func newTestHandler(api *testutil.StubAPI) (*Handler, *originNotifier) {
	notifier := &originNotifier{}
	svc := players.NewService(api, notifier, nil)
	return NewHandler(svc, view.MustRenderer(view.Options{}), nil), notifier
}

func withID(req *http.Request, id string) *http.Request {
	return mux.SetURLVars(req, map[string]string{"id": id})
}

func formValues(name, breed, image string) url.Values {
	return url.Values{"name": {name}, "breed": {breed}, "imageUrl": {image}}
}

var errOffline = &roster.NetworkError{Op: roster.OpListPlayers, Err: errors.New("offline")}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(testutil.NewStubAPI())

	rr := testutil.Serve(http.HandlerFunc(h.Health), http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h, _ := newTestHandler(testutil.NewStubAPI())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req.WithContext(ctx))

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "shutting down" {
		t.Fatalf("unexpected error %q", resp["error"])
	}
}

func TestIndexRendersFormAndList(t *testing.T) {
	api := testutil.NewStubAPI(testutil.SamplePlayers(2)...)
	h, _ := newTestHandler(api)

	rr := testutil.Serve(http.HandlerFunc(h.Index), http.MethodGet, "/", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html content type, got %s", ct)
	}
	doc := testutil.ParseHTML(t, rr)

	if doc.Find("#player-form-container #new-player-form").Length() != 1 {
		t.Fatalf("expected form installed")
	}
	if doc.Find("main#main .player-card").Length() != 2 {
		t.Fatalf("expected two cards in display region")
	}
	if api.ListCalls != 1 {
		t.Fatalf("expected one list fetch, got %d", api.ListCalls)
	}
}

func TestIndexFailureLeavesRegionBlank(t *testing.T) {
	api := testutil.NewStubAPI()
	api.ListErr = errOffline
	h, _ := newTestHandler(api)

	rr := testutil.Serve(http.HandlerFunc(h.Index), http.MethodGet, "/", nil)
	testutil.AssertStatus(t, rr, http.StatusBadGateway)
	doc := testutil.ParseHTML(t, rr)

	if strings.TrimSpace(doc.Find("main#main").Text()) != "" {
		t.Fatalf("expected blank display region, got %q", doc.Find("main#main").Text())
	}
	if doc.Find("#new-player-form").Length() != 1 {
		t.Fatalf("expected form installed regardless of list failure")
	}
}

func TestListPlayersFragment(t *testing.T) {
	h, _ := newTestHandler(testutil.NewStubAPI(testutil.SamplePlayers(3)...))

	req := testutil.AsHTMX(httptest.NewRequest(http.MethodGet, "/players", nil))
	rr := testutil.ServeRequest(http.HandlerFunc(h.ListPlayers), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	if rr.Header().Get("Vary") != "HX-Request" {
		t.Fatalf("expected Vary on HX-Request")
	}
	doc := testutil.ParseHTML(t, rr)
	if doc.Find(".player-card").Length() != 3 {
		t.Fatalf("expected three cards")
	}
	if doc.Find("#new-player-form").Length() != 0 {
		t.Fatalf("expected list fragment only")
	}
}

func TestListPlayersEmptyShowsPlaceholder(t *testing.T) {
	h, _ := newTestHandler(testutil.NewStubAPI())

	req := testutil.AsHTMX(httptest.NewRequest(http.MethodGet, "/players", nil))
	rr := testutil.ServeRequest(http.HandlerFunc(h.ListPlayers), req)
	doc := testutil.ParseHTML(t, rr)

	if got := strings.TrimSpace(doc.Find(".placeholder").Text()); got != "No players available." {
		t.Fatalf("expected placeholder, got %q", got)
	}
}

func TestListPlayersFailureKeepsStaleDisplay(t *testing.T) {
	api := testutil.NewStubAPI()
	api.ListErr = errOffline
	h, _ := newTestHandler(api)

	req := testutil.AsHTMX(httptest.NewRequest(http.MethodGet, "/players", nil))
	rr := testutil.ServeRequest(http.HandlerFunc(h.ListPlayers), req)

	testutil.AssertStatus(t, rr, http.StatusNoContent)
	if rr.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rr.Body.String())
	}
}

func TestListPlayersWithoutHTMXServesPage(t *testing.T) {
	h, _ := newTestHandler(testutil.NewStubAPI(testutil.SamplePlayers(1)...))

	rr := testutil.Serve(http.HandlerFunc(h.ListPlayers), http.MethodGet, "/players", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	doc := testutil.ParseHTML(t, rr)
	if doc.Find("html title").Length() != 1 || doc.Find("main .player-card").Length() != 1 {
		t.Fatalf("expected full page with list")
	}
}

func TestPlayerByIDFragment(t *testing.T) {
	team := 4
	rex := testutil.SamplePlayer(5)
	rex.TeamID = &team
	api := testutil.NewStubAPI(rex)
	h, _ := newTestHandler(api)

	req := withID(testutil.AsHTMX(httptest.NewRequest(http.MethodGet, "/players/5", nil)), "5")
	rr := testutil.ServeRequest(http.HandlerFunc(h.PlayerByID), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	doc := testutil.ParseHTML(t, rr)
	details := doc.Find(".player-details")
	if details.Length() != 1 || details.Find("h2").Text() != rex.Name {
		t.Fatalf("expected detail view for %s", rex.Name)
	}
	if got := details.Find(".team").Text(); got != "Team: 4" {
		t.Fatalf("expected team label, got %q", got)
	}
	if len(api.GetIDs) != 1 || api.GetIDs[0] != 5 {
		t.Fatalf("expected get for id 5, got %v", api.GetIDs)
	}
}

func TestPlayerByIDFailure(t *testing.T) {
	api := testutil.NewStubAPI()
	api.GetErr = &roster.HTTPStatusError{Op: roster.OpGetPlayer, StatusCode: http.StatusNotFound}
	h, _ := newTestHandler(api)

	req := withID(testutil.AsHTMX(httptest.NewRequest(http.MethodGet, "/players/9", nil)), "9")
	rr := testutil.ServeRequest(http.HandlerFunc(h.PlayerByID), req)
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	req = withID(httptest.NewRequest(http.MethodGet, "/players/9", nil), "9")
	rr = testutil.ServeRequest(http.HandlerFunc(h.PlayerByID), req)
	testutil.AssertStatus(t, rr, http.StatusBadGateway)
	doc := testutil.ParseHTML(t, rr)
	if doc.Find("main .player-details").Length() != 0 {
		t.Fatalf("expected no detail view on failure")
	}
}

func TestPlayerByIDWithoutHTMXServesPage(t *testing.T) {
	h, _ := newTestHandler(testutil.NewStubAPI(testutil.SamplePlayer(2)))

	req := withID(httptest.NewRequest(http.MethodGet, "/players/2", nil), "2")
	rr := testutil.ServeRequest(http.HandlerFunc(h.PlayerByID), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	doc := testutil.ParseHTML(t, rr)
	if doc.Find("main .player-details").Length() != 1 || doc.Find("main .player-card").Length() != 0 {
		t.Fatalf("expected detail view replacing the list")
	}
}

func TestPlayerByIDRejectsInvalidID(t *testing.T) {
	api := testutil.NewStubAPI()
	h, _ := newTestHandler(api)

	for _, id := range []string{"", "abc", "0", "99999999999999999999"} {
		req := withID(httptest.NewRequest(http.MethodGet, "/players/x", nil), id)
		rr := testutil.ServeRequest(http.HandlerFunc(h.PlayerByID), req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	}
	if len(api.Calls) != 0 {
		t.Fatalf("expected no upstream calls, got %v", api.Calls)
	}
}

func TestCreatePlayerMissingFieldShowsMessage(t *testing.T) {
	api := testutil.NewStubAPI()
	h, notifier := newTestHandler(api)

	req := testutil.AsHTMX(testutil.NewFormRequest("/players", formValues("Rex", "", "http://x/rex.png")))
	rr := testutil.ServeRequest(http.HandlerFunc(h.CreatePlayer), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	if got := rr.Header().Get("HX-Retarget"); got != "#player-form-container" {
		t.Fatalf("expected retarget to form container, got %q", got)
	}
	doc := testutil.ParseHTML(t, rr)
	if got := doc.Find("[role=alert]").Text(); got != players.MsgMissingFields {
		t.Fatalf("expected validation message, got %q", got)
	}
	if val, _ := doc.Find("#player-name").Attr("value"); val != "Rex" {
		t.Fatalf("expected entered name kept, got %q", val)
	}
	if len(api.Calls) != 0 || len(notifier.origins) != 0 {
		t.Fatalf("expected nothing sent upstream, got %v", api.Calls)
	}
}

func TestCreatePlayerMissingFieldWithoutHTMX(t *testing.T) {
	api := testutil.NewStubAPI(testutil.SamplePlayers(1)...)
	h, _ := newTestHandler(api)

	rr := testutil.ServeRequest(http.HandlerFunc(h.CreatePlayer), testutil.NewFormRequest("/players", formValues("", "", "")))

	testutil.AssertStatus(t, rr, http.StatusUnprocessableEntity)
	doc := testutil.ParseHTML(t, rr)
	if doc.Find("#player-form-container [role=alert]").Length() != 1 {
		t.Fatalf("expected message inside page form")
	}
	if len(api.Created) != 0 {
		t.Fatalf("expected no create call")
	}
}

func TestCreatePlayerRefreshesListAndClearsForm(t *testing.T) {
	api := testutil.NewStubAPI(testutil.SamplePlayer(1))
	h, notifier := newTestHandler(api)

	req := testutil.AsHTMX(testutil.NewFormRequest("/players", formValues("Rex", "Lab", "http://x/rex.png")))
	req.Header.Set(live.HeaderClientID, "tab-1")
	rr := testutil.ServeRequest(http.HandlerFunc(h.CreatePlayer), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	if len(api.Created) != 1 || api.Created[0] != testutil.SampleNewPlayer() {
		t.Fatalf("expected create with exactly the entered values, got %+v", api.Created)
	}
	if strings.Join(api.Calls, ",") != "create,list" {
		t.Fatalf("expected create then list, got %v", api.Calls)
	}
	doc := testutil.ParseHTML(t, rr)
	if doc.Find(".player-list .player-card").Length() != 2 {
		t.Fatalf("expected refreshed list with new player")
	}
	container := doc.Find("#player-form-container")
	if oob, _ := container.Attr("hx-swap-oob"); oob != "true" {
		t.Fatalf("expected out-of-band form reset")
	}
	if val, _ := container.Find("#player-name").Attr("value"); val != "" {
		t.Fatalf("expected cleared form, got %q", val)
	}
	if len(notifier.origins) != 1 || notifier.origins[0] != "tab-1" {
		t.Fatalf("expected notification tagged with origin, got %v", notifier.origins)
	}
}

func TestCreatePlayerFailureStillRefreshesAndClears(t *testing.T) {
	api := testutil.NewStubAPI(testutil.SamplePlayer(1))
	api.CreateErr = &roster.HTTPStatusError{Op: roster.OpCreatePlayer, StatusCode: http.StatusBadRequest}
	h, notifier := newTestHandler(api)

	req := testutil.AsHTMX(testutil.NewFormRequest("/players", formValues("Rex", "Lab", "http://x/rex.png")))
	rr := testutil.ServeRequest(http.HandlerFunc(h.CreatePlayer), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	doc := testutil.ParseHTML(t, rr)
	if doc.Find(".player-card").Length() != 1 {
		t.Fatalf("expected existing roster only")
	}
	if doc.Find("#player-form-container[hx-swap-oob]").Length() != 1 {
		t.Fatalf("expected form cleared after failed create")
	}
	if len(notifier.origins) != 0 {
		t.Fatalf("expected no notification for failed create")
	}
}

func TestCreatePlayerRefreshFailureKeepsList(t *testing.T) {
	api := testutil.NewStubAPI()
	api.ListErr = errOffline
	h, _ := newTestHandler(api)

	req := testutil.AsHTMX(testutil.NewFormRequest("/players", formValues("Rex", "Lab", "http://x/rex.png")))
	rr := testutil.ServeRequest(http.HandlerFunc(h.CreatePlayer), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	if got := rr.Header().Get("HX-Reswap"); got != "none" {
		t.Fatalf("expected main swap suppressed, got %q", got)
	}
	doc := testutil.ParseHTML(t, rr)
	if doc.Find(".player-list").Length() != 0 {
		t.Fatalf("expected no list in response")
	}
	if doc.Find("#player-form-container[hx-swap-oob]").Length() != 1 {
		t.Fatalf("expected form reset still delivered")
	}
}

func TestCreatePlayerWithoutHTMXRedirectsToIndex(t *testing.T) {
	api := testutil.NewStubAPI()
	h, _ := newTestHandler(api)

	rr := testutil.ServeRequest(http.HandlerFunc(h.CreatePlayer), testutil.NewFormRequest("/players", formValues("Rex", "Lab", "http://x/rex.png")))

	testutil.AssertStatus(t, rr, http.StatusSeeOther)
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to index, got %q", loc)
	}
	if len(api.Created) != 1 || api.Created[0] != testutil.SampleNewPlayer() {
		t.Fatalf("expected create with the entered values, got %+v", api.Created)
	}

	// The index the browser lands on shows the new player and an empty form.
	rr = testutil.ServeRequest(http.HandlerFunc(h.Index), httptest.NewRequest(http.MethodGet, "/", nil))
	doc := testutil.ParseHTML(t, rr)
	if doc.Find("main .player-card h3").Text() != "Rex" {
		t.Fatalf("expected new player in page list")
	}
	if val, _ := doc.Find("#player-name").Attr("value"); val != "" {
		t.Fatalf("expected empty form, got %q", val)
	}
}

func TestCreatePlayerWithoutHTMXRedirectsAfterFailedCreate(t *testing.T) {
	api := testutil.NewStubAPI()
	api.CreateErr = &roster.HTTPStatusError{Op: roster.OpCreatePlayer, StatusCode: http.StatusInternalServerError}
	h, _ := newTestHandler(api)

	rr := testutil.ServeRequest(http.HandlerFunc(h.CreatePlayer), testutil.NewFormRequest("/players", formValues("Rex", "Lab", "http://x/rex.png")))

	testutil.AssertStatus(t, rr, http.StatusSeeOther)
}

func TestCreatePlayerRejectsMalformedBody(t *testing.T) {
	api := testutil.NewStubAPI()
	h, _ := newTestHandler(api)

	req := httptest.NewRequest(http.MethodPost, "/players", strings.NewReader("name=%zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := testutil.ServeRequest(http.HandlerFunc(h.CreatePlayer), req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	if len(api.Calls) != 0 {
		t.Fatalf("expected no upstream calls")
	}
}

func TestRemovePlayerRefreshesOnce(t *testing.T) {
	api := testutil.NewStubAPI(testutil.SamplePlayers(3)...)
	h, notifier := newTestHandler(api)

	req := withID(testutil.AsHTMX(httptest.NewRequest(http.MethodDelete, "/players/2", nil)), "2")
	req.Header.Set(live.HeaderClientID, "tab-2")
	rr := testutil.ServeRequest(http.HandlerFunc(h.RemovePlayer), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	if len(api.DeletedIDs) != 1 || api.DeletedIDs[0] != 2 {
		t.Fatalf("expected delete of id 2, got %v", api.DeletedIDs)
	}
	if api.ListCalls != 1 {
		t.Fatalf("expected exactly one refresh, got %d", api.ListCalls)
	}
	doc := testutil.ParseHTML(t, rr)
	if doc.Find(".player-card").Length() != 2 || doc.Find(`[data-player-id="2"]`).Length() != 0 {
		t.Fatalf("expected list without removed player")
	}
	if len(notifier.origins) != 1 || notifier.origins[0] != "tab-2" {
		t.Fatalf("expected origin-tagged notification, got %v", notifier.origins)
	}
}

func TestRemovePlayerFailureKeepsDisplay(t *testing.T) {
	api := testutil.NewStubAPI(testutil.SamplePlayers(1)...)
	api.DeleteErr = &roster.HTTPStatusError{Op: roster.OpDeletePlayer, StatusCode: http.StatusInternalServerError}
	h, _ := newTestHandler(api)

	req := withID(testutil.AsHTMX(httptest.NewRequest(http.MethodDelete, "/players/1", nil)), "1")
	rr := testutil.ServeRequest(http.HandlerFunc(h.RemovePlayer), req)

	testutil.AssertStatus(t, rr, http.StatusNoContent)
	if api.ListCalls != 0 {
		t.Fatalf("expected no refresh after failed delete")
	}

	req = withID(httptest.NewRequest(http.MethodPost, "/players/1/delete", nil), "1")
	rr = testutil.ServeRequest(http.HandlerFunc(h.RemovePlayer), req)
	testutil.AssertStatus(t, rr, http.StatusBadGateway)
}

func TestRemovePlayerWithoutHTMXRedirectsToIndex(t *testing.T) {
	api := testutil.NewStubAPI(testutil.SamplePlayers(2)...)
	h, _ := newTestHandler(api)

	req := withID(httptest.NewRequest(http.MethodPost, "/players/1/delete", nil), "1")
	rr := testutil.ServeRequest(http.HandlerFunc(h.RemovePlayer), req)

	testutil.AssertStatus(t, rr, http.StatusSeeOther)
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to index, got %q", loc)
	}
	if len(api.DeletedIDs) != 1 || api.DeletedIDs[0] != 1 {
		t.Fatalf("expected delete of id 1, got %v", api.DeletedIDs)
	}

	rr = testutil.ServeRequest(http.HandlerFunc(h.Index), httptest.NewRequest(http.MethodGet, "/", nil))
	doc := testutil.ParseHTML(t, rr)
	if doc.Find("main .player-card").Length() != 1 {
		t.Fatalf("expected page with remaining player")
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(testutil.NewStubAPI())

	rr := testutil.Serve(http.HandlerFunc(h.NotFound), http.MethodGet, "/nope", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	rr = testutil.Serve(http.HandlerFunc(h.MethodNotAllowed), http.MethodPut, "/players", nil)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}
