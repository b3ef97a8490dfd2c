package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"reelgrid/utils/hostheaders"
)

// PlaybackHandler hands players the per-host HTTP headers a stream URL needs.
type PlaybackHandler struct{}

func NewPlaybackHandler() *PlaybackHandler {
	return &PlaybackHandler{}
}

type streamInfo struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

// StreamInfo validates the url query parameter and returns it together with
// the header overrides for its hosting provider.
func (h *PlaybackHandler) StreamInfo(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("url"))
	if raw == "" {
		http.Error(w, "query parameter url is required", http.StatusBadRequest)
		return
	}

	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		http.Error(w, "url must be an absolute http(s) URL", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, streamInfo{URL: raw, Headers: hostheaders.For(raw)})
}
