// Package plugin turns one host invocation into listings or a resolved
// stream, backed by the streaming API gateway.
package plugin

// Route paths of the invocation grammar.
const (
	PathRoot               = "/"
	PathCharts             = "/charts/"
	PathDiscover           = "/discover/"
	PathPlay               = "/play/"
	PathSearch             = "/search/"
	PathSearchLegacy       = "/search/query/"
	PathUser               = "/user/"
	PathSettingsCacheClear = "/settings/cache/clear/"
)

// Actions carried by the "action" parameter.
const (
	ActionCall      = "call"
	ActionSettings  = "settings"
	ActionNew       = "new"
	ActionRemove    = "remove"
	ActionClear     = "clear"
	ActionPeople    = "people"
	ActionAlbums    = "albums"
	ActionPlaylists = "playlists"
	ActionTrending  = "trending"
	ActionTop       = "top"
)

// DefaultGenre is used by chart calls without an explicit genre.
const DefaultGenre = "soundcloud:genres:all-music"

// chartsLimit is the page size of chart calls.
const chartsLimit = 50

// Search kinds understood by the gateway. The empty kind searches everything.
const (
	SearchAll       = ""
	SearchUsers     = "users"
	SearchAlbums    = "albums"
	SearchPlaylists = "playlists_without_albums"
)

// Paths names every route the dispatcher serves.
var Paths = []string{
	PathRoot,
	PathCharts,
	PathDiscover,
	PathPlay,
	PathSearch,
	PathSearchLegacy,
	PathUser,
	PathSettingsCacheClear,
}
