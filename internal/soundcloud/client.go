// Package soundcloud is the api-v2 gateway behind the plugin dispatcher.
// GET responses are cached through the TTL cache.
package soundcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/starford/sonar/internal/apperr"
	"github.com/starford/sonar/internal/cache"
	"github.com/starford/sonar/internal/checksum"
	"github.com/starford/sonar/internal/models"
)

const (
	// DefaultBaseURL is the public api-v2 host.
	DefaultBaseURL = "https://api-v2.soundcloud.com"

	defaultTimeout  = 30 * time.Second
	defaultPageSize = 20
	// hydrateChunk bounds the ids per /tracks lookup.
	hydrateChunk = 50

	systemPlaylistPrefix = "/playlists/soundcloud:system-playlists:"
)

// Locale settings.
const (
	LocaleAuto     = "auto"
	LocaleDisabled = "disabled"
)

// Settings configure a Client.
type Settings struct {
	BaseURL     string
	ClientID    string
	AudioFormat string
	Locale      string
	// Language is the ISO 639-1 code sent as app_locale when Locale is auto.
	Language string
	PageSize int
	// MaxAge is the cache tolerance for GET responses; 0 disables reads.
	MaxAge  time.Duration
	Timeout time.Duration
}

// Client calls api-v2.
type Client struct {
	settings   Settings
	host       string
	format     AudioFormat
	cache      *cache.TTL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client. ttl may be nil to disable caching.
func NewClient(s Settings, ttl *cache.TTL, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
	}
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	if s.PageSize <= 0 {
		s.PageSize = defaultPageSize
	}
	if s.Timeout <= 0 {
		s.Timeout = defaultTimeout
	}
	format, ok := AudioFormats[s.AudioFormat]
	if !ok {
		format = AudioFormats[DefaultAudioFormat]
	}
	var host string
	if base, err := url.Parse(s.BaseURL); err == nil {
		host = base.Host
	}
	return &Client{
		settings:   s,
		host:       host,
		format:     format,
		cache:      ttl,
		httpClient: &http.Client{Timeout: s.Timeout},
		logger:     logger,
	}
}

// Call fetches an API path or a next_href cursor.
func (c *Client) Call(ctx context.Context, path string) (*models.Collection, error) {
	if strings.HasPrefix(path, systemPlaylistPrefix) {
		path = "/system-playlists/" + strings.TrimPrefix(path, "/playlists/")
	}
	return c.collection(ctx, path, nil)
}

// Search queries everything when kind is empty, else one of users, albums
// or playlists_without_albums.
func (c *Client) Search(ctx context.Context, query, kind string) (*models.Collection, error) {
	path := "/search"
	if kind != "" {
		path += "/" + kind
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(c.settings.PageSize))
	return c.collection(ctx, path, q)
}

// Charts fetches one chart.
func (c *Client) Charts(ctx context.Context, cq models.ChartsQuery) (*models.Collection, error) {
	q := url.Values{}
	q.Set("kind", cq.Kind)
	q.Set("genre", cq.Genre)
	q.Set("limit", strconv.Itoa(cq.Limit))
	return c.collection(ctx, "/charts", q)
}

// Discover lists the mixed selections, or the items of one selection.
func (c *Client) Discover(ctx context.Context, selection string) (*models.Collection, error) {
	body, err := c.get(ctx, "/mixed-selections", nil, true)
	if err != nil {
		return nil, err
	}
	if selection == "" {
		return c.decode(ctx, body)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("soundcloud: parse selections: %w", err)
	}
	for _, raw := range env.Collection {
		var s Selection
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("soundcloud: parse selection: %w", err)
		}
		if s.ID == selection || s.URN == selection {
			return c.fromEnvelope(ctx, s.Items)
		}
	}
	return nil, fmt.Errorf("selection %q: %w", selection, apperr.ErrNotFound)
}

// ResolveID looks a track up by id.
func (c *Client) ResolveID(ctx context.Context, id string) (*models.Collection, error) {
	q := url.Values{}
	q.Set("ids", id)
	return c.collection(ctx, "/tracks", q)
}

// ResolveURL resolves a public soundcloud.com URL.
func (c *Client) ResolveURL(ctx context.Context, rawURL string) (*models.Collection, error) {
	q := url.Values{}
	q.Set("url", rawURL)
	return c.collection(ctx, "/resolve", q)
}

// ResolveMediaURL turns a transcoding locator into a stream URL. The
// answer is short-lived and never cached.
func (c *Client) ResolveMediaURL(ctx context.Context, mediaURL string) (string, error) {
	if mediaURL == "" {
		return "", fmt.Errorf("media url: %w", apperr.ErrNotFound)
	}
	body, err := c.get(ctx, mediaURL, nil, false)
	if err != nil {
		return "", err
	}
	var resp StreamResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("soundcloud: parse stream: %w", err)
	}
	if resp.URL == "" {
		return "", fmt.Errorf("stream for %s: %w", mediaURL, apperr.ErrNotFound)
	}
	return resp.URL, nil
}

func (c *Client) collection(ctx context.Context, path string, query url.Values) (*models.Collection, error) {
	body, err := c.get(ctx, path, query, true)
	if err != nil {
		return nil, err
	}
	return c.decode(ctx, body)
}

// endpoint builds the request URL without credentials. path may be
// absolute, as next_href cursors are.
func (c *Client) endpoint(path string, query url.Values) (*url.URL, error) {
	absolute := strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
	target := path
	if !absolute {
		target = c.settings.BaseURL + "/" + strings.TrimLeft(path, "/")
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("soundcloud: bad path %q: %w", path, err)
	}
	// Credentials are only ever sent to the configured API host.
	if absolute && !strings.EqualFold(u.Host, c.host) {
		return nil, fmt.Errorf("%w: foreign host %q", apperr.ErrInvalidParameters, u.Host)
	}
	q := u.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	q.Del("client_id")
	if c.settings.Locale != LocaleDisabled && c.settings.Language != "" {
		q.Set("app_locale", c.settings.Language)
	} else {
		q.Del("app_locale")
	}
	u.RawQuery = q.Encode()
	return u, nil
}

// get performs a GET. Cacheable responses are served from and written to
// the TTL cache under the checksum of the credential-free URL.
func (c *Client) get(ctx context.Context, path string, query url.Values, cacheable bool) ([]byte, error) {
	u, err := c.endpoint(path, query)
	if err != nil {
		return nil, err
	}
	key := checksum.Key(u.String(), ".json")
	useCache := cacheable && c.cache != nil

	if useCache {
		if data, ok := c.cache.Get(key, c.settings.MaxAge); ok {
			c.logger.Debug("soundcloud: cache hit", slog.String("url", u.String()))
			return data, nil
		}
	}

	q := u.Query()
	if c.settings.ClientID != "" {
		q.Set("client_id", c.settings.ClientID)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("soundcloud: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("soundcloud: request", slog.String("path", path))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("soundcloud: request %s: %w", path, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("soundcloud: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("soundcloud: %s: %w", path, apperr.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		c.logger.Error("soundcloud: request error", slog.Int("status", resp.StatusCode), slog.String("path", path))
		return nil, fmt.Errorf("soundcloud: %s: unexpected status %d", path, resp.StatusCode)
	}

	if useCache {
		if _, err := c.cache.Add(key, body); err != nil {
			c.logger.Warn("soundcloud: cache write failed", slog.String("error", err.Error()))
		}
	}
	return body, nil
}
