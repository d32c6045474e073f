package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gripfinance/grip-backend/internal/api/middleware"
	"github.com/gripfinance/grip-backend/internal/logger"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	base, err := logger.New("debug", logger.FormatJSON, &buf)
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}

	var handlerLogged bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		log.Debug().Msg("inside handler")
		handlerLogged = true
		w.WriteHeader(http.StatusTeapot)
	})

	h := chimw.RequestID(middleware.RequestLogger(base)(next))

	req := httptest.NewRequest(http.MethodGet, "/api/holding", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if !handlerLogged {
		t.Fatal("Expected handler to run")
	}
	if w.Code != http.StatusTeapot {
		t.Errorf("Expected 418, got %d", w.Code)
	}

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d: %s", len(lines), buf.String())
	}

	var inner, entry map[string]any
	if err := json.Unmarshal(lines[0], &inner); err != nil {
		t.Fatalf("Failed to decode log line: %v", err)
	}
	if err := json.Unmarshal(lines[1], &entry); err != nil {
		t.Fatalf("Failed to decode log line: %v", err)
	}

	if inner["request_id"] == "" || inner["request_id"] != entry["request_id"] {
		t.Errorf("Expected matching request ids, got %v and %v", inner["request_id"], entry["request_id"])
	}
	if entry["level"] != "warn" {
		t.Errorf("Expected warn level for 4xx, got %v", entry["level"])
	}
	if entry["path"] != "/api/holding" {
		t.Errorf("Expected path /api/holding, got %v", entry["path"])
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Errorf("Expected status 418, got %v", entry["status"])
	}
}
