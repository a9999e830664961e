package scraper

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"olx-browser/config"
	"olx-browser/models"
	"olx-browser/utils"
)

func testFetcher() *CollyFetcher {
	cfg := &config.Config{
		UserAgent:         "olx-browser-test/1.0",
		RequestTimeoutSec: 5,
		MaxRetries:        3,
	}
	f := NewCollyFetcher(cfg, utils.NewLoggerTo(io.Discard))
	f.retry.BaseDelay = time.Millisecond
	return f
}

// serve routes robots.txt to a 404 so the collector treats every path as allowed.
func serve(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCollyFetcherReturnsBody(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "olx-browser-test/1.0" {
			t.Errorf("User-Agent: got %q", got)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><p>ok</p></body></html>"))
	})

	body, err := testFetcher().Fetch(context.Background(), srv.URL+"/oferty/q-rtx/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "<html><body><p>ok</p></body></html>" {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestCollyFetcherNotFoundIsNotRetried(t *testing.T) {
	var hits int32
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.NotFound(w, r)
	})

	_, err := testFetcher().Fetch(context.Background(), srv.URL+"/missing")
	var netErr *models.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *models.NetworkError, got %v", err)
	}
	if netErr.Status != http.StatusNotFound {
		t.Errorf("Status: got %d, want 404", netErr.Status)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("expected 1 request, got %d", n)
	}
}

func TestCollyFetcherRetriesServerErrors(t *testing.T) {
	var hits int32
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	})

	body, err := testFetcher().Fetch(context.Background(), srv.URL+"/flaky")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "recovered" {
		t.Errorf("unexpected body: %q", body)
	}
	if n := atomic.LoadInt32(&hits); n != 3 {
		t.Errorf("expected 3 requests, got %d", n)
	}
}

func TestCollyFetcherEmptyURL(t *testing.T) {
	_, err := testFetcher().Fetch(context.Background(), "")
	var netErr *models.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *models.NetworkError, got %v", err)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&models.NetworkError{Status: 0, Err: errors.New("dial tcp: refused")}, true},
		{&models.NetworkError{Status: 429, Err: errors.New("slow down")}, true},
		{&models.NetworkError{Status: 502, Err: errors.New("bad gateway")}, true},
		{&models.NetworkError{Status: 403, Err: errors.New("forbidden")}, false},
		{context.Canceled, false},
		{errors.New("plain"), false},
	}
	for _, tt := range tests {
		if got := isTransient(tt.err); got != tt.want {
			t.Errorf("isTransient(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestNewFetcherUnknownKind(t *testing.T) {
	_, err := NewFetcher(&config.Config{Fetcher: "carrier-pigeon"}, utils.NewLoggerTo(io.Discard))
	if err == nil {
		t.Fatal("expected an error for an unknown fetcher kind")
	}
}
