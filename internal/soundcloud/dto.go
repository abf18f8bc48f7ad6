package soundcloud

import (
	"bytes"
	"encoding/json"
)

// envelope is any api-v2 response that can carry items: a paginated
// collection, a playlist with its tracks, or a single resource.
type envelope struct {
	Kind       string            `json:"kind"`
	Collection []json.RawMessage `json:"collection"`
	Tracks     []json.RawMessage `json:"tracks"`
	NextHref   string            `json:"next_href"`
}

// wrapper is an element that nests the resource, as in charts
// ({"track": ...}) or stream entries ({"playlist": ...}).
type wrapper struct {
	Kind     string          `json:"kind"`
	Track    json.RawMessage `json:"track"`
	Playlist json.RawMessage `json:"playlist"`
}

// Track is an api-v2 track. A stub carries only id, kind and policy.
type Track struct {
	ID                 int64   `json:"id"`
	Kind               string  `json:"kind"`
	Title              string  `json:"title"`
	ArtworkURL         string  `json:"artwork_url"`
	Description        *string `json:"description"`
	Genre              string  `json:"genre"`
	Duration           int64   `json:"duration"`
	FullDuration       int64   `json:"full_duration"`
	PlaybackCount      int64   `json:"playback_count"`
	DisplayDate        string  `json:"display_date"`
	CreatedAt          string  `json:"created_at"`
	Policy             string  `json:"policy"`
	TrackAuthorization string  `json:"track_authorization"`
	User               User    `json:"user"`
	Media              Media   `json:"media"`
}

// Media lists the stream variants of a track.
type Media struct {
	Transcodings []Transcoding `json:"transcodings"`
}

// Transcoding is one stream variant; URL resolves to the stream itself.
type Transcoding struct {
	URL     string `json:"url"`
	Preset  string `json:"preset"`
	Snipped bool   `json:"snipped"`
	Format  struct {
		Protocol string `json:"protocol"`
		MimeType string `json:"mime_type"`
	} `json:"format"`
}

// User is an api-v2 user.
type User struct {
	ID             int64   `json:"id"`
	Kind           string  `json:"kind"`
	Username       string  `json:"username"`
	FullName       string  `json:"full_name"`
	AvatarURL      string  `json:"avatar_url"`
	FollowersCount int64   `json:"followers_count"`
	Description    *string `json:"description"`
}

// Playlist is an api-v2 playlist or album. System playlists use a URN as id.
type Playlist struct {
	ID          flexID  `json:"id"`
	URN         string  `json:"urn"`
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	ArtworkURL  string  `json:"artwork_url"`
	Description *string `json:"description"`
	LikesCount  int64   `json:"likes_count"`
	IsAlbum     bool    `json:"is_album"`
	SetType     string  `json:"set_type"`
	User        User    `json:"user"`
}

// Selection is a curated group from /mixed-selections.
type Selection struct {
	ID          string   `json:"id"`
	URN         string   `json:"urn"`
	Kind        string   `json:"kind"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Items       envelope `json:"items"`
}

// StreamResponse is the answer to a transcoding URL.
type StreamResponse struct {
	URL string `json:"url"`
}

const (
	kindTrack          = "track"
	kindUser           = "user"
	kindPlaylist       = "playlist"
	kindSystemPlaylist = "system-playlist"
	kindSelection      = "selection"
)

// flexID accepts both numeric and string ids.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = flexID(n.String())
	return nil
}
