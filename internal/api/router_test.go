package api

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/formforge/forms-api/internal/api/middleware"
	"github.com/formforge/forms-api/internal/core/domain"
	"github.com/formforge/forms-api/internal/core/ports"
	"github.com/formforge/forms-api/internal/infrastructure/auth"
	"github.com/formforge/forms-api/internal/infrastructure/http/handlers"
)

const testSecret = "router-test-secret"

type stubForms struct {
	created []ports.CreateFormInput
}

func (s *stubForms) CreateForm(_ context.Context, in ports.CreateFormInput) (*domain.Form, error) {
	form, err := domain.NewForm(in.Title, in.OwnerID, in.Fields, time.Now())
	if err != nil {
		return nil, err
	}
	s.created = append(s.created, in)
	form.ID = "f1"
	return form, nil
}

func (s *stubForms) GetForm(_ context.Context, id string) (*domain.Form, error) {
	return nil, domain.ErrFormNotFound
}

func (s *stubForms) ListForms(context.Context) iter.Seq2[domain.FormSummary, error] {
	return func(yield func(domain.FormSummary, error) bool) {
		yield(domain.FormSummary{ID: "f1", Title: "Survey", UserID: "u1"}, nil)
	}
}

func (s *stubForms) UpdateForm(_ context.Context, in ports.UpdateFormInput) (*domain.Form, error) {
	if in.CallerID != "u1" {
		return nil, domain.ErrForbidden
	}
	return &domain.Form{ID: in.ID}, nil
}

func (s *stubForms) DeleteForm(_ context.Context, _, callerID string) error {
	if callerID != "u1" {
		return domain.ErrForbidden
	}
	return nil
}

type stubSubmissions struct {
	callers []string
}

func (s *stubSubmissions) CreateSubmission(_ context.Context, in ports.CreateSubmissionInput) (*domain.Submission, error) {
	s.callers = append(s.callers, in.UserID)
	return &domain.Submission{ID: "s1", FormID: in.FormID}, nil
}

func (s *stubSubmissions) ListSubmissions(context.Context, string) ([]*domain.Submission, error) {
	return nil, nil
}

type stubAccounts struct{}

func (stubAccounts) Register(context.Context, string, string, string) (string, *domain.User, error) {
	return "", nil, domain.ErrUserExists
}

func (stubAccounts) Login(context.Context, string, string) (string, *domain.User, error) {
	return "", nil, domain.ErrInvalidCredentials
}

type routerFixture struct {
	e           *echo.Echo
	gate        *auth.TokenGate
	forms       *stubForms
	submissions *stubSubmissions
}

func newRouterFixture(t *testing.T, mutate func(*Dependencies)) *routerFixture {
	t.Helper()
	f := &routerFixture{
		gate:        auth.NewTokenGate(testSecret, time.Hour, nil, zerolog.Nop()),
		forms:       &stubForms{},
		submissions: &stubSubmissions{},
	}
	deps := Dependencies{
		Forms:       f.forms,
		Submissions: f.submissions,
		Auth:        stubAccounts{},
		Gate:        f.gate,
		Logger:      zerolog.Nop(),
		Registry:    prometheus.NewRegistry(),
	}
	if mutate != nil {
		mutate(&deps)
	}
	f.e = NewRouter(deps)
	return f
}

func (f *routerFixture) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := f.gate.Issue(userID, userID+"@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func (f *routerFixture) do(method, target, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

const formBody = `{"title":"Survey","fields":[{"type":"text","label":"Name","required":true}]}`

func TestRouter_CreateFormRequiresAuth(t *testing.T) {
	f := newRouterFixture(t, nil)

	rec := f.do(http.MethodPost, "/api/forms", formBody, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = f.do(http.MethodPost, "/api/forms", formBody, "not-a-jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad token, got %d", rec.Code)
	}
	if len(f.forms.created) != 0 {
		t.Fatalf("nothing should be created")
	}
}

func TestRouter_CreateForm(t *testing.T) {
	f := newRouterFixture(t, nil)

	rec := f.do(http.MethodPost, "/api/forms", formBody, f.token(t, "u1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.forms.created) != 1 || f.forms.created[0].OwnerID != "u1" {
		t.Fatalf("unexpected create input %+v", f.forms.created)
	}
}

func TestRouter_ValidationEnvelope(t *testing.T) {
	f := newRouterFixture(t, nil)

	body := `{"title":"Survey","fields":[{"type":"text","label":"Name"},{"type":"text","label":"Bio","maxLength":-1}]}`
	rec := f.do(http.MethodPost, "/api/forms", body, f.token(t, "u1"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Field != "fields[1].maxLength" {
		t.Fatalf("expected field path fields[1].maxLength, got %+v", resp)
	}
}

func TestRouter_OwnershipAndLookup(t *testing.T) {
	f := newRouterFixture(t, nil)

	if rec := f.do(http.MethodPut, "/api/forms/f1", formBody, f.token(t, "u2")); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner update, got %d", rec.Code)
	}
	if rec := f.do(http.MethodDelete, "/api/forms/f1", "", f.token(t, "u2")); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner delete, got %d", rec.Code)
	}
	if rec := f.do(http.MethodDelete, "/api/forms/f1", "", f.token(t, "u1")); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner delete, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/api/forms/missing", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/api/forms", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for public list, got %d", rec.Code)
	}
}

func TestRouter_SubmissionCaller(t *testing.T) {
	f := newRouterFixture(t, nil)
	body := `{"formId":"f1","submittedFields":[{"label":"Name","value":"Ana"}],"userId":"spoofed"}`

	if rec := f.do(http.MethodPost, "/api/submissions", body, ""); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for anonymous submission, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, "/api/submissions", body, f.token(t, "u7")); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for authenticated submission, got %d", rec.Code)
	}
	if got := f.submissions.callers; len(got) != 2 || got[0] != "" || got[1] != "u7" {
		t.Fatalf("unexpected submitters %v", got)
	}
}

func TestRouter_Verify(t *testing.T) {
	f := newRouterFixture(t, nil)

	if rec := f.do(http.MethodGet, "/api/auth/verify", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: f.token(t, "u1")})
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"userId":"u1"`) {
		t.Fatalf("expected verified u1, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_AuthErrors(t *testing.T) {
	f := newRouterFixture(t, nil)

	rec := f.do(http.MethodPost, "/api/auth/sign-up", `{"email":"a@b.co","password":"secret1","name":"Ana"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	rec = f.do(http.MethodPost, "/api/auth/login", `{"email":"a@b.co","password":"nope"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	f := newRouterFixture(t, func(d *Dependencies) {
		d.Limiter = middleware.NewMemoryLimiter(0.001, 1)
	})

	if rec := f.do(http.MethodGet, "/api/forms", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rec.Code)
	}
	rec := f.do(http.MethodGet, "/api/forms", "", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
	if rec := f.do(http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("health is not rate limited, got %d", rec.Code)
	}
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	f := newRouterFixture(t, func(d *Dependencies) {
		d.Health = map[string]handlers.Pinger{
			"mongo": handlers.PingerFunc(func(context.Context) error { return errors.New("no primary") }),
			"redis": nil,
		}
	})

	if rec := f.do(http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 liveness, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 readiness, got %d", rec.Code)
	}

	f.do(http.MethodGet, "/api/forms", "", "")
	rec := f.do(http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatalf("expected request metrics, got %d", rec.Code)
	}
}

type countingGate struct {
	ports.Authenticator
	calls int
}

func (g *countingGate) Authenticate(ctx context.Context, token string) (string, error) {
	g.calls++
	return g.Authenticator.Authenticate(ctx, token)
}

func TestRouter_ProtectedRouteAuthenticatesOnce(t *testing.T) {
	var gate *countingGate
	f := newRouterFixture(t, func(d *Dependencies) {
		gate = &countingGate{Authenticator: d.Gate}
		d.Gate = gate
	})

	rec := f.do(http.MethodPost, "/api/forms", formBody, f.token(t, "u1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if gate.calls != 1 {
		t.Fatalf("expected one token check per request, got %d", gate.calls)
	}
}
