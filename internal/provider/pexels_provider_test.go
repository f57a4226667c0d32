package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *PexelsProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewPexelsProvider(srv.URL+"/v1", "px-test", 5*time.Second, zap.NewNop())
}

func TestPexelsProvider_FindImage(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "painting & brushes" {
			t.Errorf("expected decoded query %q, got %q", "painting & brushes", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "1" {
			t.Errorf("expected per_page=1, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "px-test" {
			t.Errorf("expected raw API key in Authorization, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"photos":[{"src":{"large":"http://example/img.jpg","small":"http://example/s.jpg"}}]}`))
	})

	url, ok := p.FindImage(context.Background(), "painting & brushes")
	if !ok {
		t.Fatal("expected an image")
	}
	if url != "http://example/img.jpg" {
		t.Errorf("expected large URL, got %q", url)
	}
}

func TestPexelsProvider_FailuresYieldNoImage(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"photos": [`))
		}},
		{"empty photo array", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"photos": []}`))
		}},
		{"missing large source", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"photos": [{"src": {}}]}`))
		}},
		{"wrong shape", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"photos": "none"}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, tt.handler)
			url, ok := p.FindImage(context.Background(), "anything")
			if ok || url != "" {
				t.Errorf("expected no image, got (%q, %v)", url, ok)
			}
		})
	}
}

func TestPexelsProvider_TransportErrorYieldsNoImage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close() // nothing listens on base anymore

	p := NewPexelsProvider(base, "px-test", time.Second, zap.NewNop())
	if url, ok := p.FindImage(context.Background(), "anything"); ok || url != "" {
		t.Errorf("expected no image, got (%q, %v)", url, ok)
	}
}

func TestDownloadImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	data, err := DownloadImage(context.Background(), srv.Client(), srv.URL+"/img.jpg")
	if err != nil {
		t.Fatalf("DownloadImage: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("unexpected body %q", data)
	}

	if _, err := DownloadImage(context.Background(), srv.Client(), srv.URL+"/missing.jpg"); err == nil {
		t.Error("expected error for 404")
	}
}
