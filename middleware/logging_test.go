package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"influencia-backend/constants"
)

type fakeReporter struct {
	mu       sync.Mutex
	critical []string
	cors     []string
	done     chan struct{}
}

func newFakeReporter() *fakeReporter {
	return &fakeReporter{done: make(chan struct{}, 4)}
}

func (f *fakeReporter) SendCriticalError(method, path, statusCode, errorMessage, origin, userAgent string) {
	f.mu.Lock()
	f.critical = append(f.critical, statusCode)
	f.mu.Unlock()
	f.done <- struct{}{}
}

func (f *fakeReporter) SendCORSError(method, path, origin, userAgent string) {
	f.mu.Lock()
	f.cors = append(f.cors, origin)
	f.mu.Unlock()
	f.done <- struct{}{}
}

func serveWithStatus(reporter ErrorReporter, status int, origin string) *httptest.ResponseRecorder {
	handler := Logging(reporter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/registrations", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestLogging_requestID(t *testing.T) {
	rr := serveWithStatus(nil, http.StatusOK, "")
	if rr.Header().Get(constants.HeaderRequestID) == "" {
		t.Error("X-Request-ID doit être renseigné")
	}

	handler := Logging(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constants.HeaderRequestID, "abc-123")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if got := rr.Header().Get(constants.HeaderRequestID); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, attendu abc-123", got)
	}
}

func TestLogging_reportsServerErrors(t *testing.T) {
	reporter := newFakeReporter()
	serveWithStatus(reporter, http.StatusInternalServerError, "")

	select {
	case <-reporter.done:
	case <-time.After(time.Second):
		t.Fatal("l'erreur 500 doit être notifiée")
	}

	reporter.mu.Lock()
	defer reporter.mu.Unlock()
	if len(reporter.critical) != 1 || reporter.critical[0] != "500" {
		t.Errorf("notifications = %v", reporter.critical)
	}
}

func TestIsCriticalError(t *testing.T) {
	tests := []struct {
		status      int
		corsRefused bool
		want        bool
	}{
		{http.StatusInternalServerError, false, true},
		{http.StatusBadGateway, false, true},
		{http.StatusForbidden, true, true},
		{http.StatusForbidden, false, false},
		{http.StatusUnauthorized, false, false},
		{http.StatusConflict, false, false},
	}
	for _, tt := range tests {
		if got := isCriticalError(tt.status, tt.corsRefused); got != tt.want {
			t.Errorf("isCriticalError(%d, %v) = %v, attendu %v", tt.status, tt.corsRefused, got, tt.want)
		}
	}
}

func TestLogging_reportsCORSRefusal(t *testing.T) {
	reporter := newFakeReporter()
	handler := Logging(reporter)(CORS([]string{"https://app.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("le handler ne doit pas être appelé")
	})))

	req := httptest.NewRequest(http.MethodOptions, "/api/registrations", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("Code = %v, attendu 403", rr.Code)
	}
	select {
	case <-reporter.done:
	case <-time.After(time.Second):
		t.Fatal("le refus CORS doit être notifié")
	}

	reporter.mu.Lock()
	defer reporter.mu.Unlock()
	if len(reporter.cors) != 1 || reporter.cors[0] != "https://evil.example" || len(reporter.critical) != 0 {
		t.Errorf("cors = %v, critical = %v", reporter.cors, reporter.critical)
	}
}

func TestLogging_forbiddenIsNotCORS(t *testing.T) {
	reporter := newFakeReporter()
	rr := serveWithStatus(reporter, http.StatusForbidden, "https://dash.example")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("Code = %v", rr.Code)
	}

	select {
	case <-reporter.done:
		t.Error("un 403 applicatif ne doit pas être notifié comme refus CORS")
	case <-time.After(100 * time.Millisecond):
	}

	reporter.mu.Lock()
	defer reporter.mu.Unlock()
	if len(reporter.cors) != 0 {
		t.Errorf("cors = %v, attendu aucun", reporter.cors)
	}
}
