package fiber_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	httpadapter "page-insights-dashboard/internal/dashboard/adapters/http/fiber"
	"page-insights-dashboard/internal/dashboard/core/domain"
	"page-insights-dashboard/internal/dashboard/core/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog"
)

// fakeDashboard implements httpadapter.Dashboard for handler tests.
type fakeDashboard struct {
	State       domain.State
	initialized bool

	InitFn   func(ctx context.Context) error
	LoginFn  func(ctx context.Context, code string) error
	SelectFn func(in usecase.SelectInput) error
	FetchFn  func(ctx context.Context) error

	initCalls   int
	loginCode   *string
	logoutCalls int
	lastSelect  *usecase.SelectInput
	fetchCalls  int
}

func (f *fakeDashboard) EnsureInit(ctx context.Context) error {
	if f.initialized {
		return nil
	}
	f.initCalls++
	f.initialized = true
	if f.InitFn != nil {
		return f.InitFn(ctx)
	}
	return nil
}

func (f *fakeDashboard) LoginURL(state string) string {
	return "https://www.facebook.com/v20.0/dialog/oauth?state=" + url.QueryEscape(state)
}

func (f *fakeDashboard) Login(ctx context.Context, code string) error {
	f.loginCode = &code
	if f.LoginFn != nil {
		return f.LoginFn(ctx, code)
	}
	return nil
}

func (f *fakeDashboard) Logout(ctx context.Context) error {
	f.logoutCalls++
	f.State.User = nil
	f.State.Pages = nil
	f.State.Metrics = nil
	return nil
}

func (f *fakeDashboard) Select(in usecase.SelectInput) error {
	f.lastSelect = &in
	if f.SelectFn != nil {
		return f.SelectFn(in)
	}
	return nil
}

func (f *fakeDashboard) FetchInsights(ctx context.Context) error {
	f.fetchCalls++
	if f.FetchFn != nil {
		return f.FetchFn(ctx)
	}
	return nil
}

func (f *fakeDashboard) Snapshot() domain.State { return f.State }

func setupApp(t *testing.T, d *fakeDashboard) *fiber.App {
	t.Helper()
	return setupAppWithLookup(t, func(id string) httpadapter.Dashboard { return d })
}

func setupAppWithLookup(t *testing.T, lookup httpadapter.LookupFunc) *fiber.App {
	t.Helper()
	app := fiber.New()
	api := httpadapter.NewAPIHandler(zerolog.Nop())
	api.RegisterPublic(app.Group("/api/v1"))

	app.Use(httpadapter.SessionMiddleware(session.New(), lookup))
	httpadapter.NewWebHandler(zerolog.Nop()).Register(app)
	api.Register(app.Group("/api/v1"))
	return app
}

func authenticatedState() domain.State {
	return domain.State{
		Status: domain.StatusConnected,
		User:   &domain.User{ID: "42", Name: "Ada", Email: "ada@example.com", PictureURL: "https://img.example/ada.png"},
		Pages: []domain.Page{
			{ID: "p1", Name: "Bakery", AccessToken: "secret-p1"},
			{ID: "p2", Name: "Books", AccessToken: "secret-p2"},
			{ID: "p3", Name: "Bikes", AccessToken: "secret-p3"},
		},
		Selection: domain.Selection{PageID: "p1", Period: domain.PeriodDays28},
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// ------------------------------------------------------------
// INDEX
// ------------------------------------------------------------

func TestIndex_Anonymous_ShowsLogin(t *testing.T) {
	d := &fakeDashboard{State: domain.State{Status: domain.StatusUnknown, Selection: domain.Selection{Period: domain.PeriodDays28}}}
	app := setupApp(t, d)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	body := readBody(t, resp)
	if !strings.Contains(body, "Login with Facebook") {
		t.Fatalf("expected login control, got %s", body)
	}
	if strings.Contains(body, `class="error"`) {
		t.Fatalf("expected no error line")
	}
	if d.initCalls != 1 {
		t.Fatalf("expected Init once, got %d", d.initCalls)
	}

	if _, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil)); err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if d.initCalls != 1 {
		t.Fatalf("Init must not run again, got %d", d.initCalls)
	}
}

func TestIndex_NotConnectedError(t *testing.T) {
	d := &fakeDashboard{State: domain.State{Status: domain.StatusNotAuthorized, Error: usecase.MsgNotConnected}}
	app := setupApp(t, d)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Login with Facebook") || !strings.Contains(body, "User not connected.") {
		t.Fatalf("expected login control and error, got %s", body)
	}
}

func TestIndex_Authenticated_ListsPages(t *testing.T) {
	d := &fakeDashboard{State: authenticatedState(), initialized: true}
	app := setupApp(t, d)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	body := readBody(t, resp)

	if !strings.Contains(body, "Welcome, Ada") {
		t.Fatalf("expected greeting, got %s", body)
	}
	if got := strings.Count(body, `<option value="p`); got != 3 {
		t.Fatalf("expected 3 page options, got %d", got)
	}
	if !strings.Contains(body, `<option value="p1" selected>Bakery</option>`) {
		t.Fatalf("expected first page selected, got %s", body)
	}
	if !strings.Contains(body, `<option value="days_28" selected>Days 28</option>`) {
		t.Fatalf("expected default period selected")
	}
	if strings.Contains(body, "secret-p1") {
		t.Fatalf("page access token leaked into html")
	}
	if strings.Contains(body, "<h2>Page Insights</h2>") {
		t.Fatalf("no insights grid expected without metrics")
	}
}

func TestIndex_RendersCards(t *testing.T) {
	s := authenticatedState()
	s.Metrics = domain.Metrics{
		"page_fans":                         float64(1500),
		"page_impressions":                  float64(50),
		"page_actions_post_reactions_total": map[string]any{"like": float64(7)},
	}
	d := &fakeDashboard{State: s, initialized: true}
	app := setupApp(t, d)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	body := readBody(t, resp)

	for _, want := range []string{
		"<h3>Total Followers</h3><p>1,500</p>",
		"<h3>Total Impressions</h3><p>50</p>",
		"<h3>Total Reactions</h3><p>7</p>",
		"<h3>Total Engagement</h3><p>0</p>",
		"<h3>Page Video Views</h3><p>0</p>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body", want)
		}
	}
}

func TestIndex_EscapesUserContent(t *testing.T) {
	s := authenticatedState()
	s.User.Name = `<script>alert(1)</script>`
	d := &fakeDashboard{State: s, initialized: true}
	app := setupApp(t, d)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	body := readBody(t, resp)
	if strings.Contains(body, "<script>") {
		t.Fatalf("user content must be escaped")
	}
}

func TestIndex_LoadingDisablesButton(t *testing.T) {
	s := authenticatedState()
	s.Loading = true
	d := &fakeDashboard{State: s, initialized: true}
	app := setupApp(t, d)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if body := readBody(t, resp); !strings.Contains(body, " disabled>Loading...") {
		t.Fatalf("expected disabled loading button, got %s", body)
	}
}

// ------------------------------------------------------------
// LOGIN FLOW
// ------------------------------------------------------------

func TestLoginFlow(t *testing.T) {
	d := &fakeDashboard{}
	app := setupApp(t, d)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected status 302, got %d", resp.StatusCode)
	}

	loc, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatalf("expected state in login url, got %s", loc)
	}

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state="+url.QueryEscape(state), nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", resp.StatusCode)
	}
	if d.loginCode == nil || *d.loginCode != "abc" {
		t.Fatalf("expected login with code abc, got %v", d.loginCode)
	}
}

func TestCallback_StateMismatch(t *testing.T) {
	d := &fakeDashboard{}
	app := setupApp(t, d)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=forged", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", resp.StatusCode)
	}
	if d.loginCode == nil || *d.loginCode != "" {
		t.Fatalf("expected login to be failed with an empty code, got %v", d.loginCode)
	}
}

func TestLogout(t *testing.T) {
	d := &fakeDashboard{State: authenticatedState(), initialized: true}
	app := setupApp(t, d)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/logout", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", resp.StatusCode)
	}
	if d.logoutCalls != 1 {
		t.Fatalf("expected one logout, got %d", d.logoutCalls)
	}
}

// ------------------------------------------------------------
// INSIGHTS FORM
// ------------------------------------------------------------

func TestInsightsForm_SelectsAndFetches(t *testing.T) {
	d := &fakeDashboard{State: authenticatedState(), initialized: true}
	app := setupApp(t, d)

	form := url.Values{}
	form.Set("page_id", "p2")
	form.Set("period", "week")
	form.Set("since", "2024-05-01")
	form.Set("until", "")

	resp, err := app.Test(postForm("/insights", form))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	in := d.lastSelect
	if in == nil || in.PageID == nil || *in.PageID != "p2" || *in.Period != "week" || *in.Since != "2024-05-01" {
		t.Fatalf("unexpected select input: %+v", in)
	}
	if in.Until == nil || *in.Until != "" {
		t.Fatalf("expected empty until to be forwarded as a clear")
	}
	if d.fetchCalls != 1 {
		t.Fatalf("expected one fetch, got %d", d.fetchCalls)
	}
}

func TestInsightsForm_InvalidSelection(t *testing.T) {
	d := &fakeDashboard{
		State:       authenticatedState(),
		initialized: true,
		SelectFn:    func(in usecase.SelectInput) error { return usecase.ErrInvalidPeriod },
	}
	app := setupApp(t, d)

	resp, err := app.Test(postForm("/insights", url.Values{"period": {"fortnight"}}))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
	if d.fetchCalls != 0 {
		t.Fatalf("fetch should not run on invalid selection")
	}
	if body := readBody(t, resp); !strings.Contains(body, "Unknown period.") {
		t.Fatalf("expected form error in body")
	}
}

func TestInsightsForm_FetchOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"no_page", usecase.ErrNoPageSelected, http.StatusOK},
		{"stale", usecase.ErrStaleResult, http.StatusOK},
		{"in_progress", usecase.ErrFetchInProgress, http.StatusConflict},
		{"upstream", errors.New("graph down"), http.StatusOK},
		{"anonymous", usecase.ErrNotAuthenticated, http.StatusSeeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDashboard{
				State:       authenticatedState(),
				initialized: true,
				FetchFn:     func(ctx context.Context) error { return tt.err },
			}
			app := setupApp(t, d)

			resp, err := app.Test(postForm("/insights", url.Values{"page_id": {"p1"}}))
			if err != nil {
				t.Fatalf("app.Test error: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
		})
	}
}

func TestSessionMiddleware_ResolvesDashboardOnUse(t *testing.T) {
	lookups := 0
	d := &fakeDashboard{}
	app := setupAppWithLookup(t, func(id string) httpadapter.Dashboard {
		lookups++
		return d
	})

	for _, path := range []string{"/api/v1/periods", "/robots.txt"} {
		if _, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil)); err != nil {
			t.Fatalf("app.Test error: %v", err)
		}
	}
	if lookups != 0 {
		t.Fatalf("expected no dashboard for session-free routes, got %d lookups", lookups)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if lookups != 1 {
		t.Fatalf("expected one lookup for the dashboard route, got %d", lookups)
	}
}

func TestIndex_AvatarURLSanitized(t *testing.T) {
	s := authenticatedState()
	s.User.PictureURL = "javascript:alert(1)"
	d := &fakeDashboard{State: s, initialized: true}
	app := setupApp(t, d)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	body := readBody(t, resp)
	if strings.Contains(body, "javascript:") {
		t.Fatalf("unsafe avatar url rendered: %s", body)
	}
	if !strings.Contains(body, `class="avatar"`) {
		t.Fatalf("expected avatar element")
	}
}
