package soundcloud

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/starford/sonar/internal/models"
)

// AudioFormat selects the preferred transcoding.
type AudioFormat struct {
	MimeType string
	Protocol string
}

// AudioFormats maps the audio_format setting to a transcoding preference.
var AudioFormats = map[string]AudioFormat{
	"0": {MimeType: `audio/ogg; codecs="opus"`, Protocol: "hls"},
	"1": {MimeType: "audio/mpeg", Protocol: "hls"},
	"2": {MimeType: "audio/mpeg", Protocol: "progressive"},
}

// DefaultAudioFormat is used for unknown settings.
const DefaultAudioFormat = "1"

const (
	policyBlock = "BLOCK"
	policySnip  = "SNIP"
)

// MapTrack converts an api-v2 track.
func MapTrack(t Track, format AudioFormat) *models.Track {
	duration := t.FullDuration
	if duration == 0 {
		duration = t.Duration
	}
	date := t.DisplayDate
	if date == "" {
		date = t.CreatedAt
	}
	return &models.Track{
		ListItem: models.ListItem{
			ID:     strconv.FormatInt(t.ID, 10),
			Label:  t.Title,
			Label2: t.User.Username,
			Thumb:  artwork(t.ArtworkURL, t.User.AvatarURL),
			Info: map[string]any{
				"artist":         t.User.Username,
				"duration":       duration / 1000,
				"genre":          t.Genre,
				"playback_count": t.PlaybackCount,
				"description":    deref(t.Description),
				"date":           date,
			},
		},
		Blocked: t.Policy == policyBlock,
		Preview: t.Policy == policySnip,
		Media:   mediaURL(t, format),
	}
}

// MapUser converts an api-v2 user.
func MapUser(u User) *models.User {
	return &models.User{ListItem: models.ListItem{
		ID:     strconv.FormatInt(u.ID, 10),
		Label:  u.Username,
		Label2: u.FullName,
		Thumb:  artwork(u.AvatarURL, ""),
		Info: map[string]any{
			"followers":   u.FollowersCount,
			"description": deref(u.Description),
		},
	}}
}

// MapPlaylist converts an api-v2 playlist. System playlists keep their URN
// as id.
func MapPlaylist(p Playlist) *models.Playlist {
	id := string(p.ID)
	if p.Kind == kindSystemPlaylist && p.URN != "" {
		id = p.URN
	}
	return &models.Playlist{
		ListItem: models.ListItem{
			ID:     id,
			Label:  p.Title,
			Label2: p.User.Username,
			Thumb:  artwork(p.ArtworkURL, p.User.AvatarURL),
			Info: map[string]any{
				"artist":      p.User.Username,
				"likes":       p.LikesCount,
				"description": deref(p.Description),
			},
		},
		IsAlbum: p.IsAlbum || p.SetType == "album",
	}
}

// MapSelection converts a mixed selection.
func MapSelection(s Selection) *models.Selection {
	return &models.Selection{ListItem: models.ListItem{
		ID:    s.ID,
		Label: s.Title,
		Info:  map[string]any{"description": deref(s.Description)},
	}}
}

// mediaURL picks the transcoding matching format, falling back to the first
// full-length one and then to any. The track authorization travels with
// the locator so it can be resolved later without the track.
func mediaURL(t Track, format AudioFormat) string {
	var match, full, first *Transcoding
	for i := range t.Media.Transcodings {
		tc := &t.Media.Transcodings[i]
		if first == nil {
			first = tc
		}
		if tc.Snipped {
			continue
		}
		if full == nil {
			full = tc
		}
		if match == nil && tc.Format.Protocol == format.Protocol && tc.Format.MimeType == format.MimeType {
			match = tc
		}
	}
	chosen := match
	if chosen == nil {
		chosen = full
	}
	if chosen == nil {
		chosen = first
	}
	if chosen == nil || chosen.URL == "" {
		return ""
	}
	if t.TrackAuthorization == "" {
		return chosen.URL
	}
	u, err := url.Parse(chosen.URL)
	if err != nil {
		return chosen.URL
	}
	q := u.Query()
	q.Set("track_authorization", t.TrackAuthorization)
	u.RawQuery = q.Encode()
	return u.String()
}

// artwork upgrades the default "large" thumbnail to 500x500.
func artwork(primary, fallback string) string {
	src := primary
	if src == "" {
		src = fallback
	}
	return strings.Replace(src, "-large.", "-t500x500.", 1)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
