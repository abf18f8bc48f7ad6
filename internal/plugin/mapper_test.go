package plugin

import (
	"net/url"
	"strings"
	"testing"

	"github.com/starford/sonar/internal/history"
	"github.com/starford/sonar/internal/host"
	"github.com/starford/sonar/internal/models"
)

func newTestMapper() *Mapper {
	return NewMapper(host.DefaultFactory{}, testBase, host.English())
}

func TestMapper_TrackLabelDecoration(t *testing.T) {
	m := newTestMapper()
	cases := []struct {
		blocked, preview bool
		want             string
	}{
		{false, false, "Song"},
		{true, false, "[Blocked] Song"},
		{false, true, "[Preview] Song"},
		{true, true, "[Blocked][Preview] Song"},
	}
	for _, tc := range cases {
		tr := track("1", "Song", "m")
		tr.Blocked, tr.Preview = tc.blocked, tc.preview
		di := m.ToDirectoryItem(tr)
		if di.Item.Label != tc.want {
			t.Errorf("blocked=%v preview=%v: label %q, want %q", tc.blocked, tc.preview, di.Item.Label, tc.want)
		}
		if di.Item.Info["title"] != "Song" {
			t.Errorf("title = %v, want undecorated label", di.Item.Info["title"])
		}
	}
}

func TestMapper_Track(t *testing.T) {
	tr := track("1", "Song", "https://api/media/1?a=b&c=d")
	tr.Thumb = "https://img/1.jpg"
	tr.Info = map[string]any{
		"artist":         "Artist",
		"duration":       215,
		"genre":          "House",
		"playback_count": 1000,
		"description":    "desc",
		"date":           "2021-03-04T10:00:00Z",
	}
	di := newTestMapper().ToDirectoryItem(tr)

	if di.IsFolder {
		t.Error("track is a folder")
	}
	want := testBase + "/play/?media_url=" + url.QueryEscape(tr.Media)
	if di.URL != want {
		t.Errorf("url = %q, want %q", di.URL, want)
	}
	info := di.Item.Info
	if info["artist"] != "Artist" || info["playcount"] != 1000 || info["comment"] != "desc" || info["year"] != "2021" {
		t.Errorf("info = %v", info)
	}
	if got := di.Item.Property(PropertyMediaURL); got != tr.Media {
		t.Errorf("mediaUrl = %q", got)
	}
	if di.Item.Thumb != tr.Thumb {
		t.Errorf("thumb = %q", di.Item.Thumb)
	}
}

func TestMapper_TrackShortDateHasNoYear(t *testing.T) {
	tr := track("1", "Song", "m")
	tr.Info["date"] = "20"
	di := newTestMapper().ToDirectoryItem(tr)
	if _, ok := di.Item.Info["year"]; ok {
		t.Errorf("year set from short date: %v", di.Item.Info)
	}
}

func TestMapper_Containers(t *testing.T) {
	m := newTestMapper()
	user := &models.User{ListItem: models.ListItem{ID: "5", Label: "dj", Label2: "DJ", Info: map[string]any{"followers": 3, "description": "bio"}}}
	pl := &models.Playlist{ListItem: models.ListItem{ID: "9", Label: "Set", Info: map[string]any{"artist": "dj", "likes": 2, "description": "d"}}}
	sel := &models.Selection{ListItem: models.ListItem{ID: "s/1", Label: "Chill", Info: map[string]any{"description": "Chill picks"}}}

	cases := []struct {
		item models.Item
		url  string
	}{
		{user, testBase + "/user/?call=%2Fusers%2F5%2Ftracks&id=5"},
		{pl, testBase + "/?action=call&call=%2Fplaylists%2F9"},
		{sel, testBase + "/discover/?selection=s%2F1"},
	}
	for _, tc := range cases {
		di := m.ToDirectoryItem(tc.item)
		if !di.IsFolder {
			t.Errorf("%v not a folder", tc.item.Kind())
		}
		if di.URL != tc.url {
			t.Errorf("%v url = %q, want %q", tc.item.Kind(), di.URL, tc.url)
		}
	}

	if got := m.ToDirectoryItem(user).Item.Info["plot"]; got != "DJ\n3 Followers\n\nbio" {
		t.Errorf("user plot = %q", got)
	}
	if got := m.ToDirectoryItem(pl).Item.Info["plot"]; got != "dj\n2 Likes\n\nd" {
		t.Errorf("playlist plot = %q", got)
	}
	selItem := m.ToDirectoryItem(sel).Item
	if selItem.Info["title"] != "Chill picks" || selItem.InfoType != "music" {
		t.Errorf("selection info = %s %v", selItem.InfoType, selItem.Info)
	}
}

func TestMapper_FallbackOnlyForListItem(t *testing.T) {
	m := newTestMapper()
	variants := []models.Item{
		track("1", "t", "m"),
		&models.User{ListItem: models.ListItem{ID: "1"}},
		&models.Playlist{ListItem: models.ListItem{ID: "1"}},
		&models.Selection{ListItem: models.ListItem{ID: "1"}},
	}
	for _, v := range variants {
		if di := m.ToDirectoryItem(v); di.URL == testBase {
			t.Errorf("%v hit the fallback", v.Kind())
		}
	}
	di := m.ToDirectoryItem(&models.ListItem{Label: "plain"})
	if di.URL != testBase || !di.IsFolder || di.Item.Label != "plain" {
		t.Errorf("fallback = %+v", di)
	}
}

type staticHistory []history.Entry

func (h staticHistory) Entries() ([]history.Entry, error) { return h, nil }

func TestItems_FromCollectionPagination(t *testing.T) {
	m := newTestMapper()
	b := NewItems(host.DefaultFactory{}, host.English(), m, staticHistory(nil), testBase)
	c := &models.Collection{Items: []models.Item{track("1", "a", "m1"), track("2", "b", "m2")}}

	if got := b.FromCollection(c); len(got) != 2 {
		t.Errorf("without cursor: %d items, want 2", len(got))
	}
	c.NextHref = "https://api-v2.soundcloud.com/search?offset=20&q=x"
	got := b.FromCollection(c)
	if len(got) != 3 {
		t.Fatalf("with cursor: %d items, want 3", len(got))
	}
	last := got[2]
	u, err := url.Parse(last.URL)
	if err != nil {
		t.Fatal(err)
	}
	if u.Query().Get("call") != c.NextHref || u.Query().Get("action") != ActionCall {
		t.Errorf("next page url = %q", last.URL)
	}
	if !last.IsFolder || last.Item.Label != "Next page" {
		t.Errorf("next page item = %+v", last.Item)
	}
	if b.FromCollection(nil) != nil {
		t.Error("nil collection produced items")
	}
}

func TestItems_FromCollectionSkipsNil(t *testing.T) {
	m := newTestMapper()
	b := NewItems(host.DefaultFactory{}, host.English(), m, staticHistory(nil), testBase)
	c := &models.Collection{Items: []models.Item{nil, track("1", "a", "m1"), nil}}

	got := b.FromCollection(c)
	if len(got) != 1 || got[0].Item.Label != "a" {
		t.Errorf("items = %+v", got)
	}
	if di := m.ToDirectoryItem(nil); di.URL != testBase || di.Item == nil {
		t.Errorf("nil item = %+v", di)
	}
}

func TestItems_ChartsHidesTop(t *testing.T) {
	b := NewItems(host.DefaultFactory{}, host.English(), newTestMapper(), staticHistory(nil), testBase)
	items := b.Charts()
	if len(items) != 1 || !strings.Contains(items[0].URL, "action=trending") {
		t.Errorf("charts = %+v", items)
	}
}
