package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestConditionalGetFullFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") != "" {
			t.Error("no token cached, If-None-Match should be absent")
		}
		w.Header().Set("ETag", `W/"v1"`)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	resp, err := New().ConditionalGet(context.Background(), srv.URL, "")
	if err != nil {
		t.Fatalf("ConditionalGet() error = %v", err)
	}
	if resp.NotModified {
		t.Error("expected full response")
	}
	if resp.Token != `W/"v1"` {
		t.Errorf("Token = %q, want W/\"v1\"", resp.Token)
	}
	if string(resp.Body) != "[]" {
		t.Errorf("Body = %q", resp.Body)
	}
}

func TestConditionalGetNotModified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `W/"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `W/"v1"`)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	resp, err := New().ConditionalGet(context.Background(), srv.URL, `W/"v1"`)
	if err != nil {
		t.Fatalf("ConditionalGet() error = %v", err)
	}
	if !resp.NotModified {
		t.Error("expected NotModified for matching token")
	}
	if resp.Token != `W/"v1"` {
		t.Error("304 should carry the cached token forward")
	}
}

func TestConditionalGetServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	resp, err := New().ConditionalGet(context.Background(), srv.URL, "")
	if err != nil {
		t.Fatalf("ConditionalGet() error = %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
	if resp.Body != nil {
		t.Error("non-200 response should not carry a body")
	}
}

func TestConditionalGetTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := New().ConditionalGet(context.Background(), srv.URL, "")
	if err == nil {
		t.Error("expected transport error for closed server")
	}
}

func TestUserAgentHeader(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	if _, err := New(WithUserAgent("sumai-test/0.1")).ConditionalGet(context.Background(), srv.URL, ""); err != nil {
		t.Fatal(err)
	}
	if gotUA != "sumai-test/0.1" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}
