// Package testutil provides shared test helpers for profiles and a canned api-v2 server.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/starford/sonar/internal/storage"
)

// TestProfile creates a temporary profile directory with a storage.Provider.
func TestProfile(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// API serves canned JSON bodies by request path and counts the requests.
type API struct {
	URL string

	mu     sync.Mutex
	bodies map[string]string
	hits   map[string]int
}

// TestAPI starts an API that is shut down with the test. Unknown paths
// answer 404.
func TestAPI(t *testing.T, bodies map[string]string) *API {
	t.Helper()
	a := &API{bodies: bodies, hits: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(a.serve))
	t.Cleanup(srv.Close)
	a.URL = srv.URL
	return a
}

func (a *API) serve(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.hits[r.URL.Path]++
	body, ok := a.bodies[r.URL.Path]
	a.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

// Hits returns how often path was requested.
func (a *API) Hits(path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hits[path]
}
