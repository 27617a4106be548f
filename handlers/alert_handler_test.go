package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"influencia-backend/models"
)

type fakeAlertStore struct {
	mu     sync.Mutex
	alerts []*models.CriticalAlert
}

func (f *fakeAlertStore) Create(ctx context.Context, alert *models.CriticalAlert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, alert)
	return nil
}

func (f *fakeAlertStore) CountRecent(ctx context.Context, clientIP string, since time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, a := range f.alerts {
		if a.ClientIP == clientIP && time.Since(a.CreatedAt) < since {
			n++
		}
	}
	return n, nil
}

type fakeAlertNotifier struct {
	err   error
	calls int
}

func (f *fakeAlertNotifier) SendFrontendAlert(alert *models.CriticalAlert) error {
	f.calls++
	return f.err
}

func TestSendCriticalAlert_RateLimit(t *testing.T) {
	store := &fakeAlertStore{}
	notifier := &fakeAlertNotifier{}
	h := NewAlertHandler(store, notifier)
	body := `{"errorType":"server_error","errorMessage":"` + strings.Repeat("x", 600) + `","endpointFailed":"/api/register"}`

	for i := 0; i < alertLimit; i++ {
		rr := doRequest(t, h.SendCriticalAlert, http.MethodPost, "/api/alerts/critical", body, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("alerte %d: status = %d (%s)", i, rr.Code, rr.Body.String())
		}
	}

	rr := doRequest(t, h.SendCriticalAlert, http.MethodPost, "/api/alerts/critical", body, nil)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("Retry-After manquant")
	}

	if notifier.calls != alertLimit {
		t.Errorf("notifications = %d, want %d", notifier.calls, alertLimit)
	}
	first := store.alerts[0]
	if first.ErrorType != models.AlertServerError || len(first.ErrorMessage) != models.AlertMessageMaxLength || !first.NotificationSent {
		t.Errorf("alerte stockée = %+v", first)
	}
}

func TestSendCriticalAlert_Validation(t *testing.T) {
	h := NewAlertHandler(&fakeAlertStore{}, nil)

	tests := []struct {
		name string
		body string
	}{
		{"type inconnu", `{"errorType":"OOPS","errorMessage":"x","endpointFailed":"/"}`},
		{"message manquant", `{"errorType":"NETWORK_ERROR","endpointFailed":"/"}`},
		{"endpoint manquant", `{"errorType":"NETWORK_ERROR","errorMessage":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, h.SendCriticalAlert, http.MethodPost, "/api/alerts/critical", tt.body, nil)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
		})
	}
}

func TestSendCriticalAlert_NotifierFailureStillStores(t *testing.T) {
	store := &fakeAlertStore{}
	h := NewAlertHandler(store, &fakeAlertNotifier{err: errors.New("slack down")})

	rr := doRequest(t, h.SendCriticalAlert, http.MethodPost, "/api/alerts/critical",
		`{"errorType":"CONNECTION_ERROR","errorMessage":"x","endpointFailed":"/api/ticket"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if len(store.alerts) != 1 || store.alerts[0].NotificationSent {
		t.Errorf("alertes = %+v", store.alerts)
	}
}

func TestSendCriticalAlert_TruncatesOnCharacters(t *testing.T) {
	store := &fakeAlertStore{}
	h := NewAlertHandler(store, &fakeAlertNotifier{})
	message := "a" + strings.Repeat("é", 600)

	rr := doRequest(t, h.SendCriticalAlert, http.MethodPost, "/api/alerts/critical",
		map[string]string{"errorType": "SERVER_ERROR", "errorMessage": message, "endpointFailed": "/api/register"}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rr.Code, rr.Body.String())
	}

	stored := store.alerts[0].ErrorMessage
	if !utf8.ValidString(stored) {
		t.Fatal("le message stocké doit rester en UTF-8 valide")
	}
	if n := utf8.RuneCountInString(stored); n != models.AlertMessageMaxLength {
		t.Errorf("caractères = %d, want %d", n, models.AlertMessageMaxLength)
	}
	if !strings.HasPrefix(stored, "aé") {
		t.Errorf("début du message = %q", stored[:8])
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"court", 10, "court"},
		{"héllo", 2, "hé"},
		{"日本語テキスト", 3, "日本語"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
