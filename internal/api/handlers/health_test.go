package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"scamshield/pkg/logger"
)

func TestRootEndpoint(t *testing.T) {
	handler := NewHealthHandler(nil, logger.NewDefault())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.Root(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["message"] != "ScamShield API is running!" {
		t.Errorf("message = %q", resp["message"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler := NewHealthHandler(nil, logger.NewDefault())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.Check(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
}

func TestReadyEndpointWithoutRedis(t *testing.T) {
	handler := NewHealthHandler(nil, logger.NewDefault())

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	handler.Ready(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 when redis is optional", rec.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Checks["classifier"] != "loaded" {
		t.Errorf("classifier check = %q", resp.Checks["classifier"])
	}
	if resp.Checks["redis"] != "not configured" {
		t.Errorf("redis check = %q", resp.Checks["redis"])
	}
}
