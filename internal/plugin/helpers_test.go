package plugin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/starford/sonar/internal/history"
	"github.com/starford/sonar/internal/host"
	"github.com/starford/sonar/internal/models"
	"github.com/starford/sonar/internal/storage"
)

const testBase = "plugin://plugin.audio.soundcloud"

var errUpstream = errors.New("upstream down")

// fakeGateway answers from canned collections keyed by call signature and
// records every call in order.
type fakeGateway struct {
	mu          sync.Mutex
	calls       []string
	collections map[string]*models.Collection
	failOn      map[string]bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{collections: map[string]*models.Collection{}, failOn: map[string]bool{}}
}

func (g *fakeGateway) answer(key string) (*models.Collection, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, key)
	if g.failOn[key] {
		return nil, errUpstream
	}
	if c, ok := g.collections[key]; ok {
		return c, nil
	}
	return &models.Collection{}, nil
}

func (g *fakeGateway) called(prefix string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []string
	for _, c := range g.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (g *fakeGateway) Call(_ context.Context, path string) (*models.Collection, error) {
	return g.answer("call:" + path)
}

func (g *fakeGateway) Search(_ context.Context, query, kind string) (*models.Collection, error) {
	return g.answer("search:" + query + ":" + kind)
}

func (g *fakeGateway) Charts(_ context.Context, q models.ChartsQuery) (*models.Collection, error) {
	return g.answer(fmt.Sprintf("charts:%s:%s:%d", q.Kind, q.Genre, q.Limit))
}

func (g *fakeGateway) Discover(_ context.Context, selection string) (*models.Collection, error) {
	return g.answer("discover:" + selection)
}

func (g *fakeGateway) ResolveID(_ context.Context, id string) (*models.Collection, error) {
	return g.answer("id:" + id)
}

func (g *fakeGateway) ResolveURL(_ context.Context, rawURL string) (*models.Collection, error) {
	return g.answer("url:" + rawURL)
}

func (g *fakeGateway) ResolveMediaURL(_ context.Context, mediaURL string) (string, error) {
	if _, err := g.answer("media:" + mediaURL); err != nil {
		return "", err
	}
	return "stream:" + mediaURL, nil
}

type fakeCache struct {
	destroyed int
	err       error
}

func (c *fakeCache) Destroy() error {
	c.destroyed++
	return c.err
}

type testEnv struct {
	gw    *fakeGateway
	hist  *history.Store
	store storage.Provider
	cache *fakeCache
	rec   *host.Recorder
	d     *Dispatcher
}

func newTestEnv(t *testing.T, opts ...host.RecorderOption) *testEnv {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	e := &testEnv{
		gw:    newFakeGateway(),
		hist:  history.New(store, 0),
		store: store,
		cache: &fakeCache{},
		rec:   host.NewRecorder(testBase, 7, opts...),
	}
	e.d = NewDispatcher(Deps{
		Platform: e.rec,
		Factory:  host.DefaultFactory{},
		Strings:  host.English(),
		Gateway:  e.gw,
		History:  e.hist,
		Cache:    e.cache,
	})
	return e
}

// run dispatches rawURL (path plus query) on the env's handle.
func (e *testEnv) run(t *testing.T, rawURL string) (host.Response, error) {
	t.Helper()
	inv, err := ParseInvocation(testBase+rawURL, 7, "")
	if err != nil {
		t.Fatalf("ParseInvocation(%q): %v", rawURL, err)
	}
	err = e.d.Dispatch(context.Background(), inv)
	return e.rec.Response(), err
}

func track(id, label, media string) *models.Track {
	return &models.Track{
		ListItem: models.ListItem{ID: id, Label: label, Info: map[string]any{}},
		Media:    media,
	}
}

func labels(items []host.DirectoryItem) []string {
	out := make([]string, len(items))
	for i, di := range items {
		out[i] = di.Item.Label
	}
	return out
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
