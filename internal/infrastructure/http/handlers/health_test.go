package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func serve(t *testing.T, h echo.HandlerFunc) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var body readinessResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestLiveness(t *testing.T) {
	rec, _ := serve(t, NewHealthHandler().Liveness)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness_AllHealthy(t *testing.T) {
	m, err := mr.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	defer client.Close()

	h := NewHealthDependenciesHandler(map[string]Pinger{
		"mongodb": PingerFunc(func(context.Context) error { return nil }),
		"redis":   RedisPinger(client),
	})
	rec, body := serve(t, h.Readiness)

	if rec.Code != http.StatusOK || body.Status != "ok" {
		t.Fatalf("expected ready, got %d %+v", rec.Code, body)
	}
	if body.Dependencies["redis"].Status != "ok" {
		t.Errorf("unexpected redis status: %+v", body.Dependencies["redis"])
	}
}

func TestReadiness_Degraded(t *testing.T) {
	h := NewHealthDependenciesHandler(map[string]Pinger{
		"mongodb": PingerFunc(func(context.Context) error { return errors.New("no reachable servers") }),
	})
	rec, body := serve(t, h.Readiness)

	if rec.Code != http.StatusServiceUnavailable || body.Status != "degraded" {
		t.Fatalf("expected 503 degraded, got %d %+v", rec.Code, body)
	}
	if body.Dependencies["mongodb"].Error != "no reachable servers" {
		t.Errorf("unexpected mongodb status: %+v", body.Dependencies["mongodb"])
	}
}

func TestReadiness_DisabledDependencyIsNotAFailure(t *testing.T) {
	h := NewHealthDependenciesHandler(map[string]Pinger{
		"mongodb": PingerFunc(func(context.Context) error { return nil }),
		"redis":   nil,
	})
	rec, body := serve(t, h.Readiness)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body.Dependencies["redis"].Status != "disabled" {
		t.Errorf("expected disabled redis, got %+v", body.Dependencies["redis"])
	}
}
