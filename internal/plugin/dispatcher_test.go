package plugin

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/starford/sonar/internal/apperr"
	"github.com/starford/sonar/internal/history"
	"github.com/starford/sonar/internal/host"
	"github.com/starford/sonar/internal/models"
	"github.com/starford/sonar/internal/storage"
)

func TestDispatch_RootMenu(t *testing.T) {
	e := newTestEnv(t)
	resp, err := e.run(t, "/")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got, want := labels(resp.Items), []string{"Search", "Charts", "Discover", "Settings"}; !sameStrings(got, want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	if resp.Content != host.ContentSongs {
		t.Errorf("content = %q", resp.Content)
	}
	if !resp.Ended || !resp.Succeeded || resp.EndCalls != 1 {
		t.Errorf("end = %v/%v/%d", resp.Ended, resp.Succeeded, resp.EndCalls)
	}
	settings := resp.Items[3]
	if settings.IsFolder || settings.URL != testBase+"/?action=settings" {
		t.Errorf("settings entry = %+v", settings)
	}
	if resp.Items[0].URL != testBase+"/search/" || !resp.Items[0].IsFolder {
		t.Errorf("search entry = %+v", resp.Items[0])
	}
}

func TestDispatch_RootCall(t *testing.T) {
	e := newTestEnv(t)
	e.gw.collections["call:/playlists/9"] = &models.Collection{
		Items:    []models.Item{track("1", "one", "m1"), track("2", "two", "m2")},
		NextHref: "https://api/next?offset=2",
	}
	resp, err := e.run(t, "/?action=call&call=/playlists/9")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(resp.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(resp.Items))
	}
	if !strings.Contains(resp.Items[2].URL, url.QueryEscape("https://api/next?offset=2")) {
		t.Errorf("next page url = %q", resp.Items[2].URL)
	}
}

func TestDispatch_RootSettings(t *testing.T) {
	opened := false
	e := newTestEnv(t, host.WithSettingsHook(func() { opened = true }))
	resp, err := e.run(t, "/?action=settings")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !opened || !resp.SettingsOpened {
		t.Error("settings not opened")
	}
	if resp.Ended || len(resp.Items) != 0 {
		t.Errorf("settings emitted a listing: %+v", resp)
	}
}

func TestDispatch_InvalidRequestsEmitNothing(t *testing.T) {
	cases := []struct {
		url  string
		want error
	}{
		{"/?action=bogus", apperr.ErrInvalidAction},
		{"/?action=call", apperr.ErrInvalidParameters},
		{"/nowhere/", apperr.ErrInvalidRoute},
		{"/play/", apperr.ErrInvalidParameters},
		{"/user/?id=5", apperr.ErrInvalidParameters},
		{"/user/?call=/users/5/tracks", apperr.ErrInvalidParameters},
		{"/search/?action=bogus", apperr.ErrInvalidAction},
		{"/search/?action=new&query=x", apperr.ErrInvalidAction},
	}
	for _, tc := range cases {
		t.Run(tc.url, func(t *testing.T) {
			e := newTestEnv(t)
			resp, err := e.run(t, tc.url)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if !apperr.IsInvalidRequest(err) {
				t.Errorf("IsInvalidRequest(%v) = false", err)
			}
			if resp.Ended || resp.ResolveCalls != 0 || len(resp.Items) != 0 {
				t.Errorf("invalid request signalled the host: %+v", resp)
			}
			if len(e.gw.calls) != 0 {
				t.Errorf("gateway called: %v", e.gw.calls)
			}
		})
	}
}

func TestDispatch_GatewayFailureEndsListingUnsuccessfully(t *testing.T) {
	e := newTestEnv(t)
	e.gw.failOn["discover:"] = true
	resp, err := e.run(t, "/discover/")
	if !errors.Is(err, errUpstream) {
		t.Fatalf("err = %v", err)
	}
	if !resp.Ended || resp.Succeeded || resp.EndCalls != 1 {
		t.Errorf("end = %v/%v/%d", resp.Ended, resp.Succeeded, resp.EndCalls)
	}
}

func TestDispatch_Charts(t *testing.T) {
	e := newTestEnv(t)
	resp, err := e.run(t, "/charts/")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := labels(resp.Items); !sameStrings(got, []string{"[B]Trending[/B]"}) {
		t.Errorf("charts menu = %v", got)
	}

	e = newTestEnv(t)
	if _, err := e.run(t, "/charts/?action=trending"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := e.gw.called("charts:"); !sameStrings(got, []string{"charts:trending:soundcloud:genres:all-music:50"}) {
		t.Errorf("charts calls = %v", got)
	}

	e = newTestEnv(t)
	if _, err := e.run(t, "/charts/?action=top&genre=soundcloud%3Agenres%3Arock"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := e.gw.called("charts:"); !sameStrings(got, []string{"charts:top:soundcloud:genres:rock:50"}) {
		t.Errorf("charts calls = %v", got)
	}
}

func TestDispatch_Discover(t *testing.T) {
	e := newTestEnv(t)
	e.gw.collections["discover:sel-1"] = &models.Collection{Items: []models.Item{
		&models.Playlist{ListItem: models.ListItem{ID: "3", Label: "Mix"}},
	}}
	resp, err := e.run(t, "/discover/?selection=sel-1")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := labels(resp.Items); !sameStrings(got, []string{"Mix"}) {
		t.Errorf("labels = %v", got)
	}
}

func TestDispatch_PlayPrefersMediaURL(t *testing.T) {
	e := newTestEnv(t)
	resp, err := e.run(t, "/play/?media_url=https%3A%2F%2Fapi%2Fmedia%2F1&track_id=42")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(e.gw.called("id:")) != 0 {
		t.Errorf("track_id resolved although media_url was set: %v", e.gw.calls)
	}
	if resp.ResolveCalls != 1 || !resp.Succeeded {
		t.Fatalf("resolve = %d/%v", resp.ResolveCalls, resp.Succeeded)
	}
	if resp.Resolved.Path != "stream:https://api/media/1" {
		t.Errorf("path = %q", resp.Resolved.Path)
	}
	if resp.Ended {
		t.Error("play emitted end of directory")
	}
}

func TestDispatch_PlayTrackID(t *testing.T) {
	e := newTestEnv(t)
	e.gw.collections["id:42"] = &models.Collection{Items: []models.Item{track("42", "Song", "m42")}}
	resp, err := e.run(t, "/play/?track_id=42")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if resp.ResolveCalls != 1 || !resp.Succeeded || resp.Resolved.Path != "stream:m42" {
		t.Fatalf("resolve = %+v", resp)
	}
	if len(resp.Playlist) != 1 || resp.Playlist[0].Item.Label != "Song" {
		t.Errorf("playlist = %+v", resp.Playlist)
	}
}

func TestDispatch_PlayAudioIDAliasWins(t *testing.T) {
	e := newTestEnv(t)
	e.gw.collections["id:7"] = &models.Collection{Items: []models.Item{track("7", "Legacy", "m7")}}
	if _, err := e.run(t, "/play/?track_id=42&audio_id=7"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := e.gw.called("id:"); !sameStrings(got, []string{"id:7"}) {
		t.Errorf("id calls = %v", got)
	}
}

func TestDispatch_PlayPlaylistKeepsOrder(t *testing.T) {
	e := newTestEnv(t)
	var items []models.Item
	var want []string
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		items = append(items, track(id, "t-"+id, "m-"+id))
		want = append(want, "stream:m-"+id)
	}
	e.gw.collections["call:/playlists/5"] = &models.Collection{Items: items, NextHref: "more"}
	resp, err := e.run(t, "/play/?playlist_id=5")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	var got []string
	for _, entry := range resp.Playlist {
		got = append(got, entry.Item.Path)
	}
	if !sameStrings(got, want) {
		t.Errorf("playlist = %v, want %v", got, want)
	}
	if resp.ResolveCalls != 1 || resp.Resolved.Path != "stream:m-a" {
		t.Errorf("resolve = %d %q", resp.ResolveCalls, resp.Resolved.Path)
	}
}

func TestDispatch_PlayURL(t *testing.T) {
	e := newTestEnv(t)
	e.gw.collections["url:https://soundcloud.com/a/b"] = &models.Collection{Items: []models.Item{track("1", "B", "mb")}}
	resp, err := e.run(t, "/play/?url=https%3A%2F%2Fsoundcloud.com%2Fa%2Fb")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(resp.Playlist) != 1 || resp.Resolved.Path != "stream:mb" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestDispatch_PlayFailureSignalsOnce(t *testing.T) {
	e := newTestEnv(t)
	e.gw.collections["call:/playlists/5"] = &models.Collection{Items: []models.Item{track("1", "x", "m1"), track("2", "y", "m2")}}
	e.gw.failOn["media:m2"] = true
	resp, err := e.run(t, "/play/?playlist_id=5")
	if !errors.Is(err, errUpstream) {
		t.Fatalf("err = %v", err)
	}
	if resp.ResolveCalls != 1 || resp.Succeeded || len(resp.Playlist) != 0 {
		t.Errorf("resp = %+v", resp)
	}

	e = newTestEnv(t)
	resp, err = e.run(t, "/play/?track_id=404")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if resp.ResolveCalls != 1 || resp.Succeeded {
		t.Errorf("resp = %+v", resp)
	}
}

func TestDispatch_SearchRemoveWithEmptyQueryRefreshes(t *testing.T) {
	e := newTestEnv(t)
	if err := e.hist.Add("kept"); err != nil {
		t.Fatal(err)
	}
	resp, err := e.run(t, "/search/?action=remove")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !sameStrings(resp.Builtins, []string{host.BuiltinRefresh}) {
		t.Errorf("builtins = %v", resp.Builtins)
	}
	entries, _ := e.hist.Entries()
	if len(entries) != 1 {
		t.Errorf("history = %v", entries)
	}
	if resp.Ended {
		t.Error("remove emitted a listing")
	}
}

func TestDispatch_SearchRemoveAndClear(t *testing.T) {
	e := newTestEnv(t)
	_ = e.hist.Add("a")
	_ = e.hist.Add("b")
	if _, err := e.run(t, "/search/?action=remove&query=a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	entries, _ := e.hist.Entries()
	if len(entries) != 1 || entries[0].Query != "b" {
		t.Errorf("after remove = %v", entries)
	}
	resp, err := e.run(t, "/search/?action=clear")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, _ = e.hist.Entries()
	if len(entries) != 0 {
		t.Errorf("after clear = %v", entries)
	}
	if len(resp.Builtins) != 2 {
		t.Errorf("builtins = %v", resp.Builtins)
	}
}

func TestDispatch_SearchQueryCombined(t *testing.T) {
	e := newTestEnv(t)
	e.gw.collections["search:lofi:"] = &models.Collection{Items: []models.Item{track("1", "Lofi", "m1")}}
	resp, err := e.run(t, "/search/?query=lofi")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	want := []string{"[B]People[/B]", "[B]Albums[/B]", "[B]Playlists[/B]", "Lofi"}
	if got := labels(resp.Items); !sameStrings(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
	if resp.Items[0].URL != testBase+"/search/?action=people&query=lofi" {
		t.Errorf("people url = %q", resp.Items[0].URL)
	}
}

func TestDispatch_SearchKinds(t *testing.T) {
	cases := []struct {
		action, call, content string
	}{
		{"people", "search:x:users", host.ContentArtists},
		{"albums", "search:x:albums", host.ContentAlbums},
		{"playlists", "search:x:playlists_without_albums", host.ContentAlbums},
	}
	for _, tc := range cases {
		t.Run(tc.action, func(t *testing.T) {
			e := newTestEnv(t)
			resp, err := e.run(t, "/search/?query=x&action="+tc.action)
			if err != nil {
				t.Fatalf("Dispatch: %v", err)
			}
			if got := e.gw.called("search:"); !sameStrings(got, []string{tc.call}) {
				t.Errorf("calls = %v", got)
			}
			if resp.Content != tc.content {
				t.Errorf("content = %q, want %q", resp.Content, tc.content)
			}
		})
	}
}

func TestDispatch_SearchNew(t *testing.T) {
	e := newTestEnv(t, host.WithInput(func(string) (string, bool) { return "house", true }))
	resp, err := e.run(t, "/search/?action=new")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	entries, _ := e.hist.Entries()
	if len(entries) != 1 || entries[0].Query != "house" {
		t.Errorf("history = %v", entries)
	}
	if got := e.gw.called("search:"); !sameStrings(got, []string{"search:house:"}) {
		t.Errorf("calls = %v", got)
	}
	if len(resp.Items) != 3 || !resp.Ended {
		t.Errorf("resp = %+v", resp)
	}
}

func TestDispatch_SearchNewCancelled(t *testing.T) {
	e := newTestEnv(t, host.WithInput(func(string) (string, bool) { return "", false }))
	resp, err := e.run(t, "/search/?action=new")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if resp.Ended || len(e.gw.calls) != 0 {
		t.Errorf("cancelled search did work: %+v", resp)
	}
}

func TestDispatch_SearchMenuHistoryOrder(t *testing.T) {
	e := newTestEnv(t)
	doc := map[string]history.Record{"2": {Query: "two"}, "10": {Query: "ten"}, "1": {Query: "one"}}
	if err := storage.WriteJSON(e.store, history.FileName, doc); err != nil {
		t.Fatal(err)
	}
	resp, err := e.run(t, "/search/")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	want := []string{"[B]New search[/B]", "two", "ten", "one"}
	if got := labels(resp.Items); !sameStrings(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
	if resp.Items[1].URL != testBase+"/search/?query=two" {
		t.Errorf("history url = %q", resp.Items[1].URL)
	}
}

func TestDispatch_SearchLegacy(t *testing.T) {
	e := newTestEnv(t)
	if _, err := e.run(t, "/search/query/?q=ambient"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := e.gw.called("search:"); !sameStrings(got, []string{"search:ambient:"}) {
		t.Errorf("calls = %v", got)
	}
}

func TestDispatch_User(t *testing.T) {
	e := newTestEnv(t)
	e.gw.collections["call:/users/5/tracks"] = &models.Collection{Items: []models.Item{track("1", "Hit", "m1")}}
	resp, err := e.run(t, "/user/?id=5&call=%2Fusers%2F5%2Ftracks")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	want := []string{"[B]Albums[/B]", "[B]Playlists[/B]", "[B]Spotlight[/B]", "Hit"}
	if got := labels(resp.Items); !sameStrings(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
	if resp.Items[2].URL != testBase+"/?action=call&call=%2Fusers%2F5%2Fspotlight" {
		t.Errorf("spotlight url = %q", resp.Items[2].URL)
	}
}

func TestDispatch_CacheClear(t *testing.T) {
	e := newTestEnv(t)
	resp, err := e.run(t, "/settings/cache/clear/")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if e.cache.destroyed != 1 {
		t.Errorf("destroyed = %d", e.cache.destroyed)
	}
	if len(resp.Dialogs) != 1 || resp.Dialogs[0].Heading != "SoundCloud" || resp.Dialogs[0].Message != "The cache was cleared" {
		t.Errorf("dialogs = %+v", resp.Dialogs)
	}
	if resp.Ended {
		t.Error("cache clear emitted a listing")
	}
}
