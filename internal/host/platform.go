// Package host defines the capabilities the plugin core needs from the
// media-center application, plus an in-memory implementation used by the
// CLI, HTTP and MCP shims.
package host

// Content types understood by the host.
const (
	ContentSongs   = "songs"
	ContentArtists = "artists"
	ContentAlbums  = "albums"
)

// BuiltinRefresh asks the host to reload the current container.
const BuiltinRefresh = "Container.Refresh"

// DirectoryItem is the presentation unit handed to the host.
type DirectoryItem struct {
	URL      string    `json:"url"`
	Item     *ListItem `json:"item"`
	IsFolder bool      `json:"is_folder"`
}

// Playlist is a host-side play queue.
type Playlist interface {
	Add(url string, item *ListItem)
}

// Platform is the set of host primitives the dispatcher drives.
type Platform interface {
	AddonBaseURL() string
	SetContent(handle int, content string)
	AddDirectoryItems(handle int, items []DirectoryItem)
	EndOfDirectory(handle int, succeeded bool)
	SetResolvedURL(handle int, succeeded bool, item *ListItem)
	OpenSettings()
	ExecuteBuiltin(command string)
	MusicPlaylist() Playlist
	ShowOKDialog(heading, message string)
	// InputDialog prompts for text; ok is false when the user cancelled.
	InputDialog(heading string) (text string, ok bool)
}

// Factory builds presentation handles.
type Factory interface {
	CreateListItem(label, label2 string) *ListItem
	CreatePlayableItem(url, label, thumb string, info map[string]any, properties map[string]string) DirectoryItem
	CreateFolderItem(url, label, label2, thumb string, info map[string]any) DirectoryItem
	SetItemProperty(item *ListItem, name, value string)
	ItemProperty(item *ListItem, name string) string
	SetItemPath(item *ListItem, path string)
}

// Localizer looks up UI strings by numeric id.
type Localizer interface {
	LocalizedString(id int) string
}
