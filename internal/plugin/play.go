package plugin

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/starford/sonar/internal/apperr"
	"github.com/starford/sonar/internal/host"
	"github.com/starford/sonar/internal/models"
)

// play resolves a stream and signals the host exactly once.
func (d *Dispatcher) play(ctx context.Context, inv Invocation) error {
	p := newPlayParams(inv)
	if err := p.Validate(); err != nil {
		return err
	}

	var (
		item *host.ListItem
		err  error
	)
	switch {
	case p.MediaURL != "":
		item, err = d.playMedia(ctx, p.MediaURL)
	case p.TrackID != "":
		item, err = d.playCollection(ctx, func() (*models.Collection, error) {
			return d.api.ResolveID(ctx, p.TrackID)
		}, 1)
	case p.PlaylistID != "":
		item, err = d.playCollection(ctx, func() (*models.Collection, error) {
			return d.api.Call(ctx, fmt.Sprintf("/playlists/%s", p.PlaylistID))
		}, 0)
	default:
		item, err = d.playCollection(ctx, func() (*models.Collection, error) {
			return d.api.ResolveURL(ctx, p.URL)
		}, 0)
	}
	if err != nil {
		d.platform.SetResolvedURL(inv.Handle, false, nil)
		return err
	}
	d.platform.SetResolvedURL(inv.Handle, true, item)
	return nil
}

func (d *Dispatcher) playMedia(ctx context.Context, mediaURL string) (*host.ListItem, error) {
	resolved, err := d.api.ResolveMediaURL(ctx, mediaURL)
	if err != nil {
		return nil, err
	}
	item := d.factory.CreateListItem("", "")
	d.factory.SetItemPath(item, resolved)
	return item, nil
}

// playCollection fetches a collection, resolves the media of up to limit
// playable entries (0 means all) in input order, queues them on the host
// playlist and returns the first one.
func (d *Dispatcher) playCollection(ctx context.Context, fetch func() (*models.Collection, error), limit int) (*host.ListItem, error) {
	c, err := fetch()
	if err != nil {
		return nil, err
	}
	var entries []host.DirectoryItem
	for _, di := range d.items.FromCollection(c) {
		if di.IsFolder {
			continue
		}
		entries = append(entries, di)
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: nothing playable", apperr.ErrNotFound)
	}

	if err := d.resolveAll(ctx, entries); err != nil {
		return nil, err
	}

	playlist := d.platform.MusicPlaylist()
	for _, di := range entries {
		playlist.Add(di.URL, di.Item)
	}
	return entries[0].Item, nil
}

// resolveAll turns each entry's media locator into a stream URL. Each
// goroutine owns one entry, so order is preserved.
func (d *Dispatcher) resolveAll(ctx context.Context, entries []host.DirectoryItem) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for _, di := range entries {
		g.Go(func() error {
			media := d.factory.ItemProperty(di.Item, PropertyMediaURL)
			resolved, err := d.api.ResolveMediaURL(gctx, media)
			if err != nil {
				return fmt.Errorf("resolve %q: %w", media, err)
			}
			d.factory.SetItemPath(di.Item, resolved)
			return nil
		})
	}
	return g.Wait()
}
