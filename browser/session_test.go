package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestEndpointDecodesWSURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		// Providers send extra fields; only cdp_ws_url matters.
		w.Write([]byte(`{"id": "b-123", "region": "eu", "cdp_ws_url": "ws://127.0.0.1:9222/devtools/browser/abc"}`))
	}))
	defer srv.Close()

	url, err := requestEndpoint(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("requestEndpoint: %v", err)
	}
	if url != "ws://127.0.0.1:9222/devtools/browser/abc" {
		t.Errorf("unexpected ws url: %q", url)
	}
}

func TestRequestEndpointMissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "b-123"}`))
	}))
	defer srv.Close()

	if _, err := requestEndpoint(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error when cdp_ws_url is absent")
	}
}

func TestRequestEndpointNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := requestEndpoint(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error on non-2xx provisioner response")
	}
}
