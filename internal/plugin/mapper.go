package plugin

import (
	"fmt"
	"net/url"

	"github.com/starford/sonar/internal/host"
	"github.com/starford/sonar/internal/models"
)

// PropertyMediaURL carries a track's unresolved media locator.
const PropertyMediaURL = "mediaUrl"

// Mapper turns domain items into host directory items.
type Mapper struct {
	factory        host.Factory
	base           string
	blockedLabel   string
	previewLabel   string
	followersLabel string
	likesLabel     string
}

// NewMapper creates a Mapper whose URLs are rooted at base and whose
// decorations come from l10n.
func NewMapper(factory host.Factory, base string, l10n host.Localizer) *Mapper {
	return &Mapper{
		factory:        factory,
		base:           base,
		blockedLabel:   l10n.LocalizedString(host.StrBlocked),
		previewLabel:   l10n.LocalizedString(host.StrPreview),
		followersLabel: l10n.LocalizedString(host.StrFollowers),
		likesLabel:     l10n.LocalizedString(host.StrLikes),
	}
}

// ToDirectoryItem maps item by its concrete variant.
func (m *Mapper) ToDirectoryItem(item models.Item) host.DirectoryItem {
	switch v := item.(type) {
	case *models.Track:
		return m.track(v)
	case *models.User:
		return m.user(v)
	case *models.Playlist:
		return m.playlist(v)
	case *models.Selection:
		return m.selection(v)
	case nil:
		return m.factory.CreateFolderItem(m.base, "", "", "", nil)
	default:
		return m.factory.CreateFolderItem(m.base, item.Base().Label, "", "", nil)
	}
}

func (m *Mapper) track(t *models.Track) host.DirectoryItem {
	label := t.Label
	var markers string
	if t.Blocked {
		markers += "[" + m.blockedLabel + "]"
	}
	if t.Preview {
		markers += "[" + m.previewLabel + "]"
	}
	if markers != "" {
		label = markers + " " + label
	}

	info := map[string]any{
		"artist":    t.Info["artist"],
		"duration":  t.Info["duration"],
		"genre":     t.Info["genre"],
		"title":     t.Label,
		"playcount": t.Info["playback_count"],
		"comment":   t.Info["description"],
	}
	if date := t.InfoString("date"); len(date) >= 4 {
		info["year"] = date[:4]
	}

	u := m.url(PathPlay, url.Values{"media_url": {t.Media}})
	return m.factory.CreatePlayableItem(u, label, t.Thumb, info, map[string]string{PropertyMediaURL: t.Media})
}

func (m *Mapper) user(u *models.User) host.DirectoryItem {
	link := m.url(PathUser, url.Values{
		"id":   {u.ID},
		"call": {fmt.Sprintf("/users/%s/tracks", u.ID)},
	})
	info := map[string]any{"plot": u.Description(m.followersLabel)}
	return m.factory.CreateFolderItem(link, u.Label, u.Label2, u.Thumb, info)
}

func (m *Mapper) playlist(p *models.Playlist) host.DirectoryItem {
	link := m.call(fmt.Sprintf("/playlists/%s", p.ID))
	info := map[string]any{"plot": p.Description(m.likesLabel)}
	return m.factory.CreateFolderItem(link, p.Label, p.Label2, p.Thumb, info)
}

func (m *Mapper) selection(s *models.Selection) host.DirectoryItem {
	link := m.url(PathDiscover, url.Values{"selection": {s.ID}})
	di := m.factory.CreateFolderItem(link, s.Label, s.Label2, "", nil)
	di.Item.SetInfo("music", map[string]any{"title": s.Info["description"]})
	return di
}

// call links to the root "call" action for an API path or cursor.
func (m *Mapper) call(path string) string {
	return m.url(PathRoot, url.Values{"action": {ActionCall}, "call": {path}})
}

func (m *Mapper) url(path string, params url.Values) string {
	if len(params) == 0 {
		return m.base + path
	}
	return m.base + path + "?" + params.Encode()
}
