package host

import "fmt"

// String ids used by the listings.
const (
	StrSearch       = 30101
	StrCharts       = 30102
	StrDiscover     = 30103
	StrSettings     = 30108
	StrNewSearch    = 30201
	StrPeople       = 30211
	StrAlbums       = 30212
	StrPlaylists    = 30213
	StrSpotlight    = 30214
	StrTop50        = 30301
	StrTrending     = 30302
	StrCacheCleared = 30501
	StrNextPage     = 30901
	StrBlocked      = 30902
	StrPreview      = 30903
	StrFollowers    = 30904
	StrLikes        = 30905
)

var english = map[int]string{
	StrSearch:       "Search",
	StrCharts:       "Charts",
	StrDiscover:     "Discover",
	StrSettings:     "Settings",
	StrNewSearch:    "New search",
	StrPeople:       "People",
	StrAlbums:       "Albums",
	StrPlaylists:    "Playlists",
	StrSpotlight:    "Spotlight",
	StrTop50:        "Top 50",
	StrTrending:     "Trending",
	StrCacheCleared: "The cache was cleared",
	StrNextPage:     "Next page",
	StrBlocked:      "Blocked",
	StrPreview:      "Preview",
	StrFollowers:    "Followers",
	StrLikes:        "Likes",
}

// Strings is a static Localizer. Unknown ids render as their number so a
// missing translation is visible instead of blank.
type Strings map[int]string

// English returns the built-in English table.
func English() Strings {
	out := make(Strings, len(english))
	for k, v := range english {
		out[k] = v
	}
	return out
}

func (s Strings) LocalizedString(id int) string {
	if v, ok := s[id]; ok {
		return v
	}
	return fmt.Sprintf("#%d", id)
}

// Bold wraps text in the host's bold markup.
func Bold(text string) string {
	return "[B]" + text + "[/B]"
}
