package inference

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestCall_MissingTokenSkipsNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient("")
	res := c.Call(context.Background(), srv.URL, map[string]any{"inputs": "hi"})
	if res.OK() {
		t.Fatalf("expected absence without token")
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Fatalf("expected no request, got %d", n)
	}
}

func TestCall_SendsBearerAndPayload(t *testing.T) {
	var gotAuth, gotCT string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("want POST, got %s", r.Method)
		}
		gotAuth = r.Header.Get("Authorization")
		gotCT = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	res := NewClient("secret").Call(context.Background(), srv.URL, map[string]any{"inputs": "hello"})
	if !res.OK() {
		t.Fatalf("expected result")
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("auth header: %q", gotAuth)
	}
	if gotCT != "application/json" {
		t.Fatalf("content type: %q", gotCT)
	}
	if gotBody["inputs"] != "hello" {
		t.Fatalf("payload: %+v", gotBody)
	}
	var v struct{ OK bool }
	if !res.Decode(&v) || !v.OK {
		t.Fatalf("decode: %s", res.Raw())
	}
}

func TestCall_FailuresCollapseToAbsence(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, `{"error":"model not found"}`},
		{"server error", http.StatusServiceUnavailable, `{"error":"loading"}`},
		{"malformed body", http.StatusOK, `<html>oops</html>`},
		{"empty body", http.StatusOK, ``},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()
			if res := NewClient("t").Call(context.Background(), srv.URL, nil); res.OK() {
				t.Fatalf("expected absence, got %s", res.Raw())
			}
		})
	}
}

func TestCall_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()
	if res := NewClient("t").Call(context.Background(), url, map[string]any{}); res.OK() {
		t.Fatalf("expected absence on closed server")
	}
}

func TestResult_DecodeOnAbsence(t *testing.T) {
	var v any
	if Absent().Decode(&v) {
		t.Fatalf("absent result must not decode")
	}
}
