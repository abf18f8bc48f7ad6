package plugin

import (
	"fmt"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/sonar/internal/apperr"
)

// Invocation is one parsed request from the host.
type Invocation struct {
	Path   string
	Handle int
	Params map[string]string
}

// Param returns the first value of a query parameter or "".
func (inv Invocation) Param(name string) string {
	return inv.Params[name]
}

// Action returns the "action" parameter.
func (inv Invocation) Action() string {
	return inv.Params["action"]
}

// ParseInvocation builds an Invocation from the plugin URL, the host handle
// and the raw query string (with or without the leading "?"). Parameters
// found in rawURL are merged under those from query. Multi-valued
// parameters keep their first value.
func ParseInvocation(rawURL string, handle int, query string) (Invocation, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Invocation{}, fmt.Errorf("%w: parse %q: %v", apperr.ErrInvalidRoute, rawURL, err)
	}
	path := u.Path
	if path == "" {
		path = PathRoot
	}

	params := make(map[string]string)
	for _, raw := range []string{strings.TrimPrefix(query, "?"), u.RawQuery} {
		if raw == "" {
			continue
		}
		values, err := url.ParseQuery(raw)
		if err != nil {
			return Invocation{}, fmt.Errorf("%w: query: %v", apperr.ErrInvalidParameters, err)
		}
		for k, v := range values {
			if _, seen := params[k]; seen || len(v) == 0 {
				continue
			}
			params[k] = v[0]
		}
	}
	return Invocation{Path: path, Handle: handle, Params: params}, nil
}

// checkAction fails with ErrInvalidAction unless action is empty or one of
// allowed.
func checkAction(action string, allowed ...string) error {
	elems := make([]any, len(allowed))
	for i, a := range allowed {
		elems[i] = a
	}
	if err := validation.Validate(action, validation.In(elems...)); err != nil {
		return fmt.Errorf("%w %q: %v", apperr.ErrInvalidAction, action, err)
	}
	return nil
}

func invalidParams(route string, err error) error {
	return fmt.Errorf("%w for %s: %v", apperr.ErrInvalidParameters, route, err)
}

type rootParams struct {
	Action string
	Call   string
}

func newRootParams(inv Invocation) rootParams {
	return rootParams{Action: inv.Action(), Call: inv.Param("call")}
}

func (p *rootParams) Validate() error {
	if err := checkAction(p.Action, ActionCall, ActionSettings); err != nil {
		return err
	}
	if err := validation.ValidateStruct(p,
		validation.Field(&p.Call, validation.When(p.Action == ActionCall, validation.Required)),
	); err != nil {
		return invalidParams(PathRoot, err)
	}
	return nil
}

// maxChartKind bounds the chart kind forwarded upstream.
const maxChartKind = 64

type chartsParams struct {
	Kind  string
	Genre string
}

func newChartsParams(inv Invocation) chartsParams {
	p := chartsParams{Kind: inv.Action(), Genre: inv.Param("genre")}
	if p.Genre == "" {
		p.Genre = DefaultGenre
	}
	return p
}

func (p *chartsParams) Validate() error {
	if err := validation.Validate(p.Kind, validation.Required, validation.Length(1, maxChartKind)); err != nil {
		return fmt.Errorf("%w %q: %v", apperr.ErrInvalidAction, p.Kind, err)
	}
	return nil
}

type playParams struct {
	MediaURL   string
	TrackID    string
	PlaylistID string
	URL        string
}

// newPlayParams folds the deprecated audio_id alias into TrackID. The alias
// wins when both are set.
func newPlayParams(inv Invocation) playParams {
	p := playParams{
		MediaURL:   inv.Param("media_url"),
		TrackID:    inv.Param("track_id"),
		PlaylistID: inv.Param("playlist_id"),
		URL:        inv.Param("url"),
	}
	if alias := inv.Param("audio_id"); alias != "" {
		p.TrackID = alias
	}
	return p
}

func (p *playParams) Validate() error {
	none := p.MediaURL == "" && p.TrackID == "" && p.PlaylistID == "" && p.URL == ""
	if err := validation.ValidateStruct(p,
		validation.Field(&p.URL,
			validation.When(none, validation.Required.Error("one of media_url, track_id, playlist_id or url is required")),
			is.URL,
		),
	); err != nil {
		return invalidParams(PathPlay, err)
	}
	return nil
}

type searchParams struct {
	Action string
	Query  string
}

func newSearchParams(inv Invocation) searchParams {
	return searchParams{Action: inv.Action(), Query: inv.Param("query")}
}

func (p *searchParams) Validate() error {
	if p.Action == ActionRemove || p.Action == ActionClear {
		return nil
	}
	if p.Query != "" {
		return checkAction(p.Action, ActionPeople, ActionAlbums, ActionPlaylists)
	}
	return checkAction(p.Action, ActionNew)
}

type userParams struct {
	ID   string
	Call string
}

func newUserParams(inv Invocation) userParams {
	return userParams{ID: inv.Param("id"), Call: inv.Param("call")}
}

func (p *userParams) Validate() error {
	if err := validation.ValidateStruct(p,
		validation.Field(&p.ID, validation.Required),
		validation.Field(&p.Call, validation.Required),
	); err != nil {
		return invalidParams(PathUser, err)
	}
	return nil
}
