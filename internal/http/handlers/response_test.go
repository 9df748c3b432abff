package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

func TestFail_ServerErrorLogsAndEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLog(t)

	r := gin.New()
	// Seed the response header the way the RequestID middleware would.
	r.Use(func(c *gin.Context) { c.Header("X-Request-ID", "rid-500"); c.Next() })
	r.GET("/boom", func(c *gin.Context) {
		fail(c, http.StatusInternalServerError, "stats_failed", "disk on fire")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not an ErrorResponse: %v", err)
	}
	if resp.RequestID != "rid-500" || resp.Code != "stats_failed" || resp.Message != "disk on fire" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}

	logs := buf.String()
	if !strings.Contains(logs, `"message":"api error"`) || !strings.Contains(logs, `"code":"stats_failed"`) {
		t.Fatalf("5xx was not logged, got:\n%s", logs)
	}
}

func TestFail_ClientErrorStaysQuiet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLog(t)

	r := gin.New()
	r.GET("/bad", func(c *gin.Context) {
		Fail(c, http.StatusNotFound, ErrCodeNotFound, "route not found")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not an ErrorResponse: %v", err)
	}
	if resp.Code != ErrCodeNotFound || resp.Message != "route not found" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	// Without a RequestID middleware the field is omitted entirely.
	if strings.Contains(w.Body.String(), "request_id") {
		t.Fatalf("empty request_id should be omitted: %s", w.Body.String())
	}
	// 4xx must not produce server-error log lines.
	if strings.Contains(buf.String(), "api error") {
		t.Fatalf("4xx should not log, got:\n%s", buf.String())
	}
}

func TestOk_WritesBodyAndStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/stats", func(c *gin.Context) {
		ok(c, http.StatusOK, gin.H{"chat_id": -100, "total_messages": 3})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["total_messages"] != float64(3) {
		t.Fatalf("unexpected body: %v", body)
	}
}
