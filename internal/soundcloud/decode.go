package soundcloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/starford/sonar/internal/models"
)

// slot is one decoded position: a mapped item or a track stub awaiting
// hydration.
type slot struct {
	item   models.Item
	stubID int64
}

// decode turns any api-v2 body into a Collection. Bare arrays come from
// /tracks?ids=, objects are collections, playlists or single resources.
func (c *Client) decode(ctx context.Context, body []byte) (*models.Collection, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("soundcloud: parse list: %w", err)
		}
		return c.fromEnvelope(ctx, envelope{Collection: raws})
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("soundcloud: parse response: %w", err)
	}
	switch {
	case env.Collection != nil:
	case env.Tracks != nil:
		env.Collection = env.Tracks
	case env.Kind != "":
		env.Collection = []json.RawMessage{json.RawMessage(trimmed)}
	}
	return c.fromEnvelope(ctx, env)
}

func (c *Client) fromEnvelope(ctx context.Context, env envelope) (*models.Collection, error) {
	slots := make([]slot, 0, len(env.Collection))
	var stubs []int64
	for _, raw := range env.Collection {
		s, err := c.decodeItem(raw)
		if err != nil {
			return nil, err
		}
		if s == nil {
			continue
		}
		if s.item == nil {
			stubs = append(stubs, s.stubID)
		}
		slots = append(slots, *s)
	}

	hydrated := map[int64]*models.Track{}
	if len(stubs) > 0 {
		var err error
		if hydrated, err = c.hydrate(ctx, stubs); err != nil {
			return nil, err
		}
	}

	out := &models.Collection{NextHref: env.NextHref, Items: make([]models.Item, 0, len(slots))}
	for _, s := range slots {
		switch {
		case s.item != nil:
			out.Items = append(out.Items, s.item)
		case hydrated[s.stubID] != nil:
			out.Items = append(out.Items, hydrated[s.stubID])
		}
	}
	return out, nil
}

// decodeItem maps one element. Unknown kinds yield nil.
func (c *Client) decodeItem(raw json.RawMessage) (*slot, error) {
	var w wrapper
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("soundcloud: parse item: %w", err)
	}
	if w.Kind == "" {
		switch {
		case isObject(w.Track):
			return c.decodeItem(w.Track)
		case isObject(w.Playlist):
			return c.decodeItem(w.Playlist)
		}
		return nil, nil
	}

	switch w.Kind {
	case kindTrack:
		var t Track
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("soundcloud: parse track: %w", err)
		}
		if t.Title == "" {
			return &slot{stubID: t.ID}, nil
		}
		return &slot{item: MapTrack(t, c.format)}, nil
	case kindUser:
		var u User
		if err := json.Unmarshal(raw, &u); err != nil {
			return nil, fmt.Errorf("soundcloud: parse user: %w", err)
		}
		return &slot{item: MapUser(u)}, nil
	case kindPlaylist, kindSystemPlaylist:
		var p Playlist
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("soundcloud: parse playlist: %w", err)
		}
		return &slot{item: MapPlaylist(p)}, nil
	case kindSelection:
		var s Selection
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("soundcloud: parse selection: %w", err)
		}
		return &slot{item: MapSelection(s)}, nil
	default:
		c.logger.Debug("soundcloud: skipping unknown kind", slog.String("kind", w.Kind))
		return nil, nil
	}
}

// hydrate fetches full tracks for stub ids in chunks.
func (c *Client) hydrate(ctx context.Context, ids []int64) (map[int64]*models.Track, error) {
	out := make(map[int64]*models.Track, len(ids))
	for start := 0; start < len(ids); start += hydrateChunk {
		end := min(start+hydrateChunk, len(ids))
		parts := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			parts = append(parts, strconv.FormatInt(id, 10))
		}
		q := url.Values{}
		q.Set("ids", strings.Join(parts, ","))
		body, err := c.get(ctx, "/tracks", q, true)
		if err != nil {
			return nil, fmt.Errorf("soundcloud: hydrate tracks: %w", err)
		}
		var tracks []Track
		if err := json.Unmarshal(body, &tracks); err != nil {
			return nil, fmt.Errorf("soundcloud: parse tracks: %w", err)
		}
		for _, t := range tracks {
			out[t.ID] = MapTrack(t, c.format)
		}
	}
	return out, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
