package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/testsabirweb/slack_archive/pkg/archive"
	"github.com/testsabirweb/slack_archive/pkg/thread"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("channels.json", `[{"id": "C1", "name": "general", "created": 1577836800,
	  "topic": {"value": "daily chatter"}}]`)
	write("users.json", `[{"id": "U1", "name": "alice", "profile": {}},
	  {"id": "U2", "name": "bob", "profile": {}}]`)
	write("general/2020-09-12.json", `[
	  {"type": "message", "ts": "100.000000", "user": "U1", "text": "root"},
	  {"type": "message", "ts": "105.000000", "user": "U2", "thread_ts": "100.000000", "text": "reply"},
	  {"type": "message", "ts": "110.000000", "user": "U1", "text": "alone"}
	]`)

	a, err := archive.Open(root, archive.LayoutExport)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Load(context.Background(), 1); err != nil {
		t.Fatal(err)
	}

	return NewServer(a, thread.ReconstructAll(a.Messages), nil)
}

func TestHandleHealth(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Errorf("body = %v", body)
	}
}

func TestHandleChannels(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("GET", "/api/v1/channels", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var channels []channelSummary
	if err := json.NewDecoder(rec.Body).Decode(&channels); err != nil {
		t.Fatal(err)
	}
	if len(channels) != 1 {
		t.Fatalf("got %d channels, want 1", len(channels))
	}
	got := channels[0]
	if got.Name != "general" || got.Topic != "daily chatter" {
		t.Errorf("channel = %+v", got)
	}
	if got.Messages != 3 || got.Threads != 1 {
		t.Errorf("counts = %+v, want 3 messages and 1 thread", got)
	}
}

func TestHandleThreads(t *testing.T) {
	s := testServer(t)
	router := s.Router()

	tests := []struct {
		name       string
		url        string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "by channel name default html",
			url:        "/api/v1/threads?channel=general",
			wantStatus: http.StatusOK,
			wantBody:   `<section class="thread">`,
		},
		{
			name:       "by channel id as text",
			url:        "/api/v1/threads?channel=C1&format=txt",
			wantStatus: http.StatusOK,
			wantBody:   "@alice",
		},
		{
			name:       "single thread by ts",
			url:        "/api/v1/threads?channel=general&format=txt&ts=100.000000",
			wantStatus: http.StatusOK,
			wantBody:   "reply",
		},
		{
			name:       "missing channel",
			url:        "/api/v1/threads",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown channel",
			url:        "/api/v1/threads?channel=nope",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown format",
			url:        "/api/v1/threads?channel=general&format=pdf",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown thread ts",
			url:        "/api/v1/threads?channel=general&ts=999.000000",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body missing %q:\n%s", tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("OPTIONS", "/api/v1/channels", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS headers")
	}
}

func TestHandleThreadsStandaloneByTS(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("GET", "/api/v1/threads?channel=general&format=txt&ts=110.000000", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for a standalone message", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "alone") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
