package alerting_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"luxrelay/internal/alerting"
	"luxrelay/internal/config"
	"luxrelay/internal/models"
)

func TestNotifier_Send(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := alerting.NewNotifier(config.NotifierConfig{
		URL:   srv.URL,
		Token: "secret-token",
	})

	err := n.Send(context.Background(), models.AlertMessage{
		To:   "+33600000000",
		Body: "Luminosity dropped to 5 lumens",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got["token"] != "secret-token" {
		t.Errorf("token not forwarded: %+v", got)
	}
	if got["to"] != "+33600000000" {
		t.Errorf("destination not forwarded: %+v", got)
	}
	if got["message"] != "Luminosity dropped to 5 lumens" {
		t.Errorf("message not forwarded: %+v", got)
	}
}

func TestNotifier_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	n := alerting.NewNotifier(config.NotifierConfig{URL: srv.URL, Token: "t"})

	if err := n.Send(context.Background(), models.AlertMessage{To: "x", Body: "y"}); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}

func TestNotifier_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	n := alerting.NewNotifier(config.NotifierConfig{URL: srv.URL, Token: "t"})

	if err := n.Send(context.Background(), models.AlertMessage{To: "x", Body: "y"}); err == nil {
		t.Fatal("expected error on unreachable provider")
	}
}
