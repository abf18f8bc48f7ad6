package plugin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/sonar/internal/apperr"
	"github.com/starford/sonar/internal/host"
	"github.com/starford/sonar/internal/models"
)

// DefaultWorkers bounds concurrent media resolutions in the play branch.
const DefaultWorkers = 4

// dialogHeading titles the dialogs the plugin shows.
const dialogHeading = "SoundCloud"

// Gateway is the streaming API as seen by the dispatcher.
type Gateway interface {
	Call(ctx context.Context, path string) (*models.Collection, error)
	Search(ctx context.Context, query, kind string) (*models.Collection, error)
	Charts(ctx context.Context, q models.ChartsQuery) (*models.Collection, error)
	Discover(ctx context.Context, selection string) (*models.Collection, error)
	ResolveID(ctx context.Context, id string) (*models.Collection, error)
	ResolveURL(ctx context.Context, rawURL string) (*models.Collection, error)
	ResolveMediaURL(ctx context.Context, mediaURL string) (string, error)
}

// History is the search history the dispatcher reads and mutates.
type History interface {
	HistoryReader
	Add(query string) error
	Remove(query string) error
	Clear() error
}

// CacheStore is the API response cache namespace.
type CacheStore interface {
	Destroy() error
}

// Deps are the collaborators of a Dispatcher.
type Deps struct {
	Platform host.Platform
	Factory  host.Factory
	Strings  host.Localizer
	Gateway  Gateway
	History  History
	Cache    CacheStore
	Logger   *slog.Logger
	// Workers bounds parallel media resolution; <= 0 means DefaultWorkers.
	Workers int
}

// Dispatcher routes one invocation to listings, playback or a side effect.
type Dispatcher struct {
	platform host.Platform
	factory  host.Factory
	l10n     host.Localizer
	api      Gateway
	history  History
	cache    CacheStore
	items    *Items
	log      *slog.Logger
	workers  int
}

// NewDispatcher wires a Dispatcher from deps.
func NewDispatcher(deps Deps) *Dispatcher {
	base := deps.Platform.AddonBaseURL()
	mapper := NewMapper(deps.Factory, base, deps.Strings)
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := deps.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Dispatcher{
		platform: deps.Platform,
		factory:  deps.Factory,
		l10n:     deps.Strings,
		api:      deps.Gateway,
		history:  deps.History,
		cache:    deps.Cache,
		items:    NewItems(deps.Factory, deps.Strings, mapper, deps.History, base),
		log:      logger,
		workers:  workers,
	}
}

// Dispatch handles inv to completion.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation) error {
	d.platform.SetContent(inv.Handle, host.ContentSongs)
	d.log.Debug("dispatch", slog.String("path", inv.Path), slog.String("action", inv.Action()))

	switch inv.Path {
	case PathRoot:
		return d.root(ctx, inv)
	case PathCharts:
		return d.charts(ctx, inv)
	case PathDiscover:
		return d.listCollection(inv.Handle, nil, func() (*models.Collection, error) {
			return d.api.Discover(ctx, inv.Param("selection"))
		})
	case PathPlay:
		return d.play(ctx, inv)
	case PathSearch:
		return d.search(ctx, inv)
	case PathSearchLegacy:
		return d.listCollection(inv.Handle, nil, func() (*models.Collection, error) {
			return d.api.Search(ctx, inv.Param("q"), SearchAll)
		})
	case PathUser:
		return d.user(ctx, inv)
	case PathSettingsCacheClear:
		return d.clearCache()
	default:
		return fmt.Errorf("%w: %s", apperr.ErrInvalidRoute, inv.Path)
	}
}

func (d *Dispatcher) root(ctx context.Context, inv Invocation) error {
	p := newRootParams(inv)
	if err := p.Validate(); err != nil {
		return err
	}
	switch p.Action {
	case ActionCall:
		return d.listCollection(inv.Handle, nil, func() (*models.Collection, error) {
			return d.api.Call(ctx, p.Call)
		})
	case ActionSettings:
		d.platform.OpenSettings()
		return nil
	default:
		d.list(inv.Handle, d.items.Root())
		return nil
	}
}

func (d *Dispatcher) charts(ctx context.Context, inv Invocation) error {
	p := newChartsParams(inv)
	if p.Kind == "" {
		d.list(inv.Handle, d.items.Charts())
		return nil
	}
	if err := p.Validate(); err != nil {
		return err
	}
	q := models.ChartsQuery{Kind: p.Kind, Genre: p.Genre, Limit: chartsLimit}
	return d.listCollection(inv.Handle, nil, func() (*models.Collection, error) {
		return d.api.Charts(ctx, q)
	})
}

func (d *Dispatcher) user(ctx context.Context, inv Invocation) error {
	p := newUserParams(inv)
	if err := p.Validate(); err != nil {
		return err
	}
	return d.listCollection(inv.Handle, d.items.User(p.ID), func() (*models.Collection, error) {
		return d.api.Call(ctx, p.Call)
	})
}

func (d *Dispatcher) search(ctx context.Context, inv Invocation) error {
	p := newSearchParams(inv)
	if err := p.Validate(); err != nil {
		return err
	}

	switch p.Action {
	case ActionRemove:
		if err := d.history.Remove(p.Query); err != nil {
			return err
		}
		d.platform.ExecuteBuiltin(host.BuiltinRefresh)
		return nil
	case ActionClear:
		if err := d.history.Clear(); err != nil {
			return err
		}
		d.platform.ExecuteBuiltin(host.BuiltinRefresh)
		return nil
	}

	if p.Query != "" {
		switch p.Action {
		case ActionPeople:
			return d.searchKind(ctx, inv.Handle, p.Query, SearchUsers, host.ContentArtists)
		case ActionAlbums:
			return d.searchKind(ctx, inv.Handle, p.Query, SearchAlbums, host.ContentAlbums)
		case ActionPlaylists:
			return d.searchKind(ctx, inv.Handle, p.Query, SearchPlaylists, host.ContentAlbums)
		default:
			return d.searchAll(ctx, inv.Handle, p.Query)
		}
	}

	if p.Action == ActionNew {
		query, ok := d.platform.InputDialog(d.l10n.LocalizedString(host.StrSearch))
		if !ok || query == "" {
			return nil
		}
		if err := d.history.Add(query); err != nil {
			d.log.Warn("search history not updated", slog.String("error", err.Error()))
		}
		return d.searchAll(ctx, inv.Handle, query)
	}

	items, err := d.items.Search()
	if err != nil {
		return d.fail(inv.Handle, err)
	}
	d.list(inv.Handle, items)
	return nil
}

// searchAll renders the kind sub-menu followed by the mixed results.
func (d *Dispatcher) searchAll(ctx context.Context, handle int, query string) error {
	return d.listCollection(handle, d.items.SearchSub(query), func() (*models.Collection, error) {
		return d.api.Search(ctx, query, SearchAll)
	})
}

func (d *Dispatcher) searchKind(ctx context.Context, handle int, query, kind, content string) error {
	d.platform.SetContent(handle, content)
	return d.listCollection(handle, nil, func() (*models.Collection, error) {
		return d.api.Search(ctx, query, kind)
	})
}

func (d *Dispatcher) clearCache() error {
	if err := d.cache.Destroy(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	d.platform.ShowOKDialog(dialogHeading, d.l10n.LocalizedString(host.StrCacheCleared))
	return nil
}

// listCollection emits head followed by the fetched collection and ends
// the directory. A fetch error ends it unsuccessfully.
func (d *Dispatcher) listCollection(handle int, head []host.DirectoryItem, fetch func() (*models.Collection, error)) error {
	c, err := fetch()
	if err != nil {
		return d.fail(handle, err)
	}
	d.list(handle, head, d.items.FromCollection(c))
	return nil
}

func (d *Dispatcher) list(handle int, groups ...[]host.DirectoryItem) {
	for _, g := range groups {
		if len(g) > 0 {
			d.platform.AddDirectoryItems(handle, g)
		}
	}
	d.platform.EndOfDirectory(handle, true)
}

func (d *Dispatcher) fail(handle int, err error) error {
	d.platform.EndOfDirectory(handle, false)
	return err
}
