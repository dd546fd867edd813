package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRoot_Descriptor(t *testing.T) {
	h := New(&mockStore{}, testOrigins())

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	h.Root(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp rootResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "running" {
		t.Errorf("expected status=running, got %q", resp.Status)
	}
	if resp.Version != "1.0.0" {
		t.Errorf("expected version=1.0.0, got %q", resp.Version)
	}
	if !resp.CORSEnabled {
		t.Error("expected cors_enabled=true")
	}
	for _, ep := range []string{"GET /api/messages", "POST /api/messages", "DELETE /api/messages/{id}", "GET /health"} {
		if _, ok := resp.Endpoints[ep]; !ok {
			t.Errorf("expected endpoint %q in descriptor", ep)
		}
	}
}

func TestTestCORS(t *testing.T) {
	h := New(&mockStore{}, testOrigins())

	req := httptest.NewRequest("GET", "/test-cors", nil)
	rec := httptest.NewRecorder()
	h.TestCORS(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp corsTestResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CORSTest != "success" {
		t.Errorf("expected cors_test=success, got %q", resp.CORSTest)
	}
	if !resp.OriginAllowed {
		t.Error("expected origin_allowed=true")
	}
}
