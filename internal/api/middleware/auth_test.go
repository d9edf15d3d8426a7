package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/formforge/forms-api/internal/core/domain"
)

type stubGate struct {
	calls int
	users map[string]string
}

func (g *stubGate) Authenticate(_ context.Context, token string) (string, error) {
	g.calls++
	if id, ok := g.users[token]; ok {
		return id, nil
	}
	return "", domain.ErrUnauthenticated
}

func (g *stubGate) Revoke(context.Context, string) error { return nil }

func newGate() *stubGate {
	return &stubGate{users: map[string]string{"good-token": "user-1"}}
}

func TestAuth_BearerHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(newGate())(func(c echo.Context) error {
		called = true
		if UserID(c) != "user-1" {
			t.Fatalf("user id not set, got %q", UserID(c))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuth_Cookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "good-token"})
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Auth(newGate())(func(c echo.Context) error {
		if UserID(c) != "user-1" {
			t.Fatalf("user id not set from cookie")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuth_Rejections(t *testing.T) {
	cases := map[string]func(r *http.Request){
		"no credential": func(*http.Request) {},
		"unknown token": func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
		"wrong scheme":  func(r *http.Request) { r.Header.Set("Authorization", "Token good-token") },
		"header beats cookie": func(r *http.Request) {
			r.Header.Set("Authorization", "Basic abc")
			r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "good-token"})
		},
	}

	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			setup(req)
			c := e.NewContext(req, httptest.NewRecorder())

			handler := Auth(newGate())(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})
			if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestOptionalAuth_AnonymousContinues(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer expired")
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	handler := OptionalAuth(newGate())(func(c echo.Context) error {
		called = true
		if UserID(c) != "" {
			t.Fatalf("expected anonymous caller")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestOptionalAuth_ResolvesOnce(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	c := e.NewContext(req, httptest.NewRecorder())

	gate := newGate()
	handler := OptionalAuth(gate)(Auth(gate)(func(echo.Context) error { return nil }))
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gate.calls != 1 {
		t.Fatalf("expected one Authenticate call, got %d", gate.calls)
	}
}
