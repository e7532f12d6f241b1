package statesource

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"luxrelay/internal/config"
	"luxrelay/internal/logger"
	"luxrelay/internal/metrics"
)

// FeedSource polls the remote data feed on every lookup. The feed
// returns entries newest first; only the first entry is consulted.
type FeedSource struct {
	url    string
	apiKey string
	client *http.Client
}

// feedEntry is one element of the feed's JSON array response.
type feedEntry struct {
	Value string `json:"value"`
}

// NewFeedSource creates a pull-strategy source. The client timeout
// bounds a call the upstream behavior left unbounded.
func NewFeedSource(cfg config.FeedConfig) *FeedSource {
	return &FeedSource{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Current fetches the most recent maintenance entry. Any failure is
// logged and treated as "no maintenance performed".
func (s *FeedSource) Current(ctx context.Context) bool {
	log := logger.WithComponent("feed_source")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		log.Error().Err(err).Msg("building feed request failed")
		metrics.StateLookupsTotal.WithLabelValues("feed", "failed").Inc()
		return false
	}
	req.Header.Set("X-AIO-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("feed request failed")
		metrics.StateLookupsTotal.WithLabelValues("feed", "failed").Inc()
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Str("status", resp.Status).Msg("feed returned non-success status")
		metrics.StateLookupsTotal.WithLabelValues("feed", "failed").Inc()
		return false
	}

	var entries []feedEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		log.Error().Err(err).Msg("decoding feed response failed")
		metrics.StateLookupsTotal.WithLabelValues("feed", "failed").Inc()
		return false
	}

	if len(entries) == 0 {
		log.Warn().Msg("feed returned no entries")
		metrics.StateLookupsTotal.WithLabelValues("feed", "failed").Inc()
		return false
	}

	metrics.StateLookupsTotal.WithLabelValues("feed", "ok").Inc()
	return entries[0].Value == "1"
}

// Close is a no-op; the source holds no persistent connection.
func (s *FeedSource) Close() error { return nil }
