// Package enginetest provides an in-memory HTTP transport for tests that talk
// to fixed upstream hosts.
package enginetest

import (
	"net/http"
	"net/http/httptest"
	"sync"
)

// Transport routes requests to handlers keyed by "host/path" or
// "METHOD host/path". Unrouted requests get a 404. Safe for concurrent use.
type Transport struct {
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  map[string]int
}

// NewTransport creates an empty Transport.
func NewTransport() *Transport {
	return &Transport{routes: map[string]http.HandlerFunc{}, calls: map[string]int{}}
}

// Handle registers h for key ("music.163.com/api/song/lyric" or "HEAD 163cn.tv/abc").
func (t *Transport) Handle(key string, h http.HandlerFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes[key] = h
}

// Body registers a handler that always answers 200 with body and content type.
func (t *Transport) Body(key, contentType, body string) {
	t.Handle(key, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	})
}

// Redirect registers a 302 to location.
func (t *Transport) Redirect(key, location string) {
	t.Handle(key, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, location, http.StatusFound)
	})
}

// Calls returns how many requests hit host/path, any method.
func (t *Transport) Calls(hostPath string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls[hostPath]
}

// Client returns an http.Client using t.
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	hostPath := req.URL.Host + req.URL.Path

	t.mu.Lock()
	t.calls[hostPath]++
	h, ok := t.routes[req.Method+" "+hostPath]
	if !ok {
		h, ok = t.routes[hostPath]
	}
	t.mu.Unlock()

	rec := httptest.NewRecorder()
	if ok {
		h(rec, req)
	} else {
		http.NotFound(rec, req)
	}
	resp := rec.Result()
	resp.Request = req
	return resp, nil
}
