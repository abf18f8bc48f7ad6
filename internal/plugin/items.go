package plugin

import (
	"fmt"
	"net/url"

	"github.com/starford/sonar/internal/history"
	"github.com/starford/sonar/internal/host"
	"github.com/starford/sonar/internal/models"
)

// chartsTopEnabled gates the "Top 50" chart. The upstream endpoint stopped
// serving it; the entry stays so it can be switched back on.
const chartsTopEnabled = false

// HistoryReader lists remembered searches, most recent first.
type HistoryReader interface {
	Entries() ([]history.Entry, error)
}

// Items assembles listings.
type Items struct {
	factory host.Factory
	l10n    host.Localizer
	mapper  *Mapper
	history HistoryReader
	base    string
}

// NewItems creates a listing builder.
func NewItems(factory host.Factory, l10n host.Localizer, mapper *Mapper, hist HistoryReader, base string) *Items {
	return &Items{factory: factory, l10n: l10n, mapper: mapper, history: hist, base: base}
}

// Root is the top-level menu.
func (b *Items) Root() []host.DirectoryItem {
	return []host.DirectoryItem{
		b.entry(b.base+PathSearch, b.text(host.StrSearch), true),
		b.entry(b.base+PathCharts, b.text(host.StrCharts), true),
		b.entry(b.base+PathDiscover, b.text(host.StrDiscover), true),
		b.entry(b.mapper.url(PathRoot, url.Values{"action": {ActionSettings}}), b.text(host.StrSettings), false),
	}
}

// Search is the search menu: a new-search entry, then the history.
func (b *Items) Search() ([]host.DirectoryItem, error) {
	items := []host.DirectoryItem{
		b.entry(b.mapper.url(PathSearch, url.Values{"action": {ActionNew}}), host.Bold(b.text(host.StrNewSearch)), true),
	}
	entries, err := b.history.Entries()
	if err != nil {
		return nil, fmt.Errorf("search history: %w", err)
	}
	for _, e := range entries {
		items = append(items, b.entry(b.mapper.url(PathSearch, url.Values{"query": {e.Query}}), e.Query, true))
	}
	return items, nil
}

// SearchSub narrows a query to one kind of result.
func (b *Items) SearchSub(query string) []host.DirectoryItem {
	sub := func(action string, label int) host.DirectoryItem {
		u := b.mapper.url(PathSearch, url.Values{"action": {action}, "query": {query}})
		return b.entry(u, host.Bold(b.text(label)), true)
	}
	return []host.DirectoryItem{
		sub(ActionPeople, host.StrPeople),
		sub(ActionAlbums, host.StrAlbums),
		sub(ActionPlaylists, host.StrPlaylists),
	}
}

// User is the per-user menu shown above the user's tracks.
func (b *Items) User(id string) []host.DirectoryItem {
	sub := func(suffix string, label int) host.DirectoryItem {
		return b.entry(b.mapper.call(fmt.Sprintf("/users/%s/%s", id, suffix)), host.Bold(b.text(label)), true)
	}
	return []host.DirectoryItem{
		sub("albums", host.StrAlbums),
		sub("playlists_without_albums", host.StrPlaylists),
		sub("spotlight", host.StrSpotlight),
	}
}

// Charts is the charts menu.
func (b *Items) Charts() []host.DirectoryItem {
	var items []host.DirectoryItem
	if chartsTopEnabled {
		items = append(items, b.chart(ActionTop, host.StrTop50))
	}
	return append(items, b.chart(ActionTrending, host.StrTrending))
}

func (b *Items) chart(action string, label int) host.DirectoryItem {
	return b.entry(b.mapper.url(PathCharts, url.Values{"action": {action}}), host.Bold(b.text(label)), true)
}

// FromCollection maps every item in order, skipping nil entries, and
// appends a next-page entry when upstream has more.
func (b *Items) FromCollection(c *models.Collection) []host.DirectoryItem {
	if c == nil {
		return nil
	}
	out := make([]host.DirectoryItem, 0, len(c.Items)+1)
	for _, item := range c.Items {
		if item == nil {
			continue
		}
		out = append(out, b.mapper.ToDirectoryItem(item))
	}
	if c.HasMore() {
		out = append(out, b.entry(b.mapper.call(c.NextHref), b.text(host.StrNextPage), true))
	}
	return out
}

func (b *Items) entry(u, label string, folder bool) host.DirectoryItem {
	item := b.factory.CreateListItem(label, "")
	item.Folder = folder
	return host.DirectoryItem{URL: u, Item: item, IsFolder: folder}
}

func (b *Items) text(id int) string {
	return b.l10n.LocalizedString(id)
}
