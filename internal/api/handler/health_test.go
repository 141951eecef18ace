package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHealthHandler_Liveness(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()

	if err := NewHealthHandler().Liveness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || decode(t, rec)["status"] != "ok" {
		t.Fatalf("unexpected liveness response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealthDependenciesHandler_Readiness(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	e := newEcho()
	h := NewHealthDependenciesHandler(RedisCheck(rdb))

	rec := httptest.NewRecorder()
	if err := h.Readiness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	mr.Close()

	rec = httptest.NewRecorder()
	if err := h.Readiness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with redis down, got %d", rec.Code)
	}
	deps := decode(t, rec)["dependencies"].(map[string]any)
	if deps["redis"].(map[string]any)["status"] != "unhealthy" {
		t.Fatalf("expected redis unhealthy, got %+v", deps)
	}
}

func TestHealthDependenciesHandler_ReportsEachCheck(t *testing.T) {
	e := newEcho()
	h := NewHealthDependenciesHandler(
		DependencyCheck{Name: "ok", Ping: func(context.Context) error { return nil }},
		DependencyCheck{Name: "broken", Ping: func(context.Context) error { return errors.New("boom") }},
	)

	rec := httptest.NewRecorder()
	_ = h.Readiness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec))

	resp := decode(t, rec)
	if resp["status"] != "degraded" {
		t.Fatalf("expected degraded, got %v", resp["status"])
	}
	deps := resp["dependencies"].(map[string]any)
	if deps["ok"].(map[string]any)["status"] != "ok" {
		t.Fatalf("expected ok check to pass: %+v", deps)
	}
	if deps["broken"].(map[string]any)["error"] != "boom" {
		t.Fatalf("expected broken check error: %+v", deps)
	}
}
