package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func TestHealthHandlerHealth(t *testing.T) {
	tests := []struct {
		name     string
		db       Pinger
		dbStatus string
	}{
		{"base disponible", fakePinger{}, `"db_status":"ok"`},
		{"base indisponible", fakePinger{err: errors.New("down")}, `"db_status":"error"`},
		{"sans base", nil, `"db_status":"error"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler("test", tt.db)

			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			rr := httptest.NewRecorder()
			handler.Health(rr, req)

			if rr.Code != http.StatusOK {
				t.Errorf("Health() status = %v, want %v", rr.Code, http.StatusOK)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Health() Content-Type = %v, want application/json", ct)
			}

			body := rr.Body.String()
			for _, key := range []string{"status", "env", "uptime", "go_version", tt.dbStatus} {
				if !strings.Contains(body, key) {
					t.Errorf("Health() body should contain %q, got %s", key, body)
				}
			}
		})
	}
}
