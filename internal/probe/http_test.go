package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hamed0406/appsentry/internal/domain"
)

func TestEndpoint_StatusOK(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.WriteHeader(200)
		w.Write([]byte("ok"))
	}))
	defer s.Close()

	p := Endpoint(NewHTTPClient(2*time.Second), s.URL, "/health")
	if p.Name != "/health" {
		t.Fatalf("probe name should be the endpoint path, got %q", p.Name)
	}
	out := p.Run(context.Background())
	if out.Status != domain.StatusPassed {
		t.Fatalf("want passed, got %+v", out)
	}
}

func TestEndpoint_Non200Fails(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", 503)
	}))
	defer s.Close()

	out := Endpoint(NewHTTPClient(2*time.Second), s.URL, "/health").Run(context.Background())
	if out.Status != domain.StatusFailed {
		t.Fatalf("want failed, got %+v", out)
	}
	if out.Detail != "HTTP 503" {
		t.Fatalf("want HTTP 503 detail, got %q", out.Detail)
	}
}

func TestEndpoint_TransportError(t *testing.T) {
	// no listener on this address
	out := Endpoint(NewHTTPClient(time.Second), "http://127.0.0.1:1", "/health").Run(context.Background())
	if out.Status != domain.StatusError {
		t.Fatalf("want error, got %+v", out)
	}
	if out.Detail == "" {
		t.Fatalf("transport error detail missing")
	}
}

func TestEndpoint_Timeout(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	out := Endpoint(NewHTTPClient(5*time.Second), s.URL, "/health").Run(ctx)
	if out.Status != domain.StatusError || out.Detail != "timeout" {
		t.Fatalf("want timeout error, got %+v", out)
	}
}

func TestHealthSet_DefaultsToHealth(t *testing.T) {
	set := HealthSet(NewHTTPClient(time.Second), "http://localhost:8000", nil)
	if len(set) != 1 || set[0].Name != "/health" {
		t.Fatalf("want default /health probe, got %v", set.Names())
	}
}
