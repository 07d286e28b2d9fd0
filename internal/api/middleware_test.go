package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/excerpt-config/internal/api/apiutil"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	t.Cleanup(func() {
		log.Logger = previous
	})
	return &buf
}

func TestWithRequestID(t *testing.T) {
	var seen string
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	if seen == "" {
		t.Fatalf("expected request id in context")
	}
	if got := recorder.Header().Get("X-Request-ID"); got != seen {
		t.Fatalf("X-Request-ID = %q, want %q", got, seen)
	}
}

func TestWithLogging_LevelByStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "ok", status: http.StatusOK, wantLevel: "info"},
		{name: "client_error", status: http.StatusBadRequest, wantLevel: "warn"},
		{name: "server_error", status: http.StatusInternalServerError, wantLevel: "warn"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			buf := captureLogs(t)
			handler := ChainMiddleware(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(test.status)
				}),
				WithLogging,
				WithRequestID,
			)

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/config", nil))

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != 2 {
				t.Fatalf("expected 2 log lines, got %d: %s", len(lines), buf.String())
			}
			var entry map[string]any
			if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if entry["level"] != test.wantLevel {
				t.Fatalf("level = %v, want %s", entry["level"], test.wantLevel)
			}
			if entry["status"] != float64(test.status) {
				t.Fatalf("status = %v, want %d", entry["status"], test.status)
			}
			if entry["request_id"] == "" {
				t.Fatalf("missing request id: %v", entry)
			}
		})
	}
}

func TestWithRecovery(t *testing.T) {
	tests := []struct {
		name         string
		includeStack bool
	}{
		{name: "production", includeStack: false},
		{name: "development", includeStack: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			captureLogs(t)
			handler := WithRecovery(test.includeStack)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic("store exploded")
			}))

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/config", nil))

			if recorder.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d", recorder.Code)
			}
			var body apiutil.ErrorResponse
			if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if body.Error != "store exploded" || body.Success {
				t.Fatalf("unexpected body: %+v", body)
			}
			if test.includeStack != (body.Stack != "") {
				t.Fatalf("stack presence = %t, want %t", body.Stack != "", test.includeStack)
			}
		})
	}
}

func TestWithCORS(t *testing.T) {
	called := false
	handler := WithCORS("https://excerpts.example.com")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if !called {
		t.Fatalf("expected simple request to reach handler")
	}
	if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != "https://excerpts.example.com" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
	if got := recorder.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("Access-Control-Allow-Credentials = %q", got)
	}

	called = false
	preflight := httptest.NewRequest(http.MethodOptions, "/api/config", nil)
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	preflight.Header.Set("Access-Control-Request-Headers", "content-type")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, preflight)

	if called {
		t.Fatalf("preflight should not reach handler")
	}
	if recorder.Code != http.StatusOK {
		t.Fatalf("preflight status = %d", recorder.Code)
	}
	if got := recorder.Header().Get("Access-Control-Allow-Headers"); got != "content-type" {
		t.Fatalf("Access-Control-Allow-Headers = %q", got)
	}
	if !strings.Contains(recorder.Header().Get("Access-Control-Allow-Methods"), http.MethodPost) {
		t.Fatalf("Access-Control-Allow-Methods missing POST")
	}
}
