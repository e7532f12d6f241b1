package statesource_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"luxrelay/internal/config"
	"luxrelay/internal/logger"
	"luxrelay/internal/statesource"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

func feedSource(url string) *statesource.FeedSource {
	return statesource.NewFeedSource(config.FeedConfig{URL: url, APIKey: "aio-key"})
}

func TestFeedSource_MaintenanceOn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-AIO-Key"); got != "aio-key" {
			t.Errorf("missing or wrong X-AIO-Key header: %q", got)
		}
		w.Write([]byte(`[{"value":"1"},{"value":"0"}]`))
	}))
	defer srv.Close()

	if !feedSource(srv.URL).Current(context.Background()) {
		t.Error("expected maintenance=true for first entry value \"1\"")
	}
}

func TestFeedSource_MaintenanceOff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"value":"0"},{"value":"1"}]`))
	}))
	defer srv.Close()

	if feedSource(srv.URL).Current(context.Background()) {
		t.Error("expected maintenance=false for first entry value \"0\"")
	}
}

func TestFeedSource_FailsOpen(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"empty result set", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}},
		{"malformed response", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"oops"`))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			if feedSource(srv.URL).Current(context.Background()) {
				t.Error("expected maintenance=false on lookup failure")
			}
		})
	}
}

func TestFeedSource_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	if feedSource(srv.URL).Current(context.Background()) {
		t.Error("expected maintenance=false when the feed is unreachable")
	}
}
