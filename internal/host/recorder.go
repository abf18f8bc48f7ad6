package host

import "sync"

// PlaylistEntry is one queued track.
type PlaylistEntry struct {
	URL  string    `json:"url"`
	Item *ListItem `json:"item"`
}

// Dialog is a message shown to the user.
type Dialog struct {
	Heading string `json:"heading"`
	Message string `json:"message"`
}

// Response is everything a single invocation asked the host to do.
type Response struct {
	Handle         int             `json:"handle"`
	Content        string          `json:"content,omitempty"`
	Items          []DirectoryItem `json:"items,omitempty"`
	Ended          bool            `json:"ended"`
	Succeeded      bool            `json:"succeeded"`
	Resolved       *ListItem       `json:"resolved,omitempty"`
	ResolveCalls   int             `json:"resolve_calls,omitempty"`
	Playlist       []PlaylistEntry `json:"playlist,omitempty"`
	Builtins       []string        `json:"builtins,omitempty"`
	Dialogs        []Dialog        `json:"dialogs,omitempty"`
	SettingsOpened bool            `json:"settings_opened,omitempty"`
	EndCalls       int             `json:"-"`
}

// Signaled reports whether the plugin ended a listing or answered a
// resolve request, successfully or not.
func (r Response) Signaled() bool {
	return r.EndCalls > 0 || r.ResolveCalls > 0
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithInput sets the function answering input dialogs.
func WithInput(fn func(heading string) (string, bool)) RecorderOption {
	return func(r *Recorder) { r.input = fn }
}

// WithBuiltinHook is called for every builtin command the core executes.
func WithBuiltinHook(fn func(command string)) RecorderOption {
	return func(r *Recorder) { r.onBuiltin = fn }
}

// WithSettingsHook is called when the core asks to open the settings.
func WithSettingsHook(fn func()) RecorderOption {
	return func(r *Recorder) { r.onSettings = fn }
}

// Recorder is an in-memory Platform that captures one invocation's output.
type Recorder struct {
	base       string
	input      func(heading string) (string, bool)
	onBuiltin  func(string)
	onSettings func()

	mu   sync.Mutex
	resp Response
}

var _ Platform = (*Recorder)(nil)

// NewRecorder creates a Recorder for the plugin addressed by base
// (e.g. "plugin://plugin.audio.soundcloud").
func NewRecorder(base string, handle int, opts ...RecorderOption) *Recorder {
	r := &Recorder{base: base, resp: Response{Handle: handle}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Response returns a snapshot of what was recorded.
func (r *Recorder) Response() Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.resp
	out.Items = append([]DirectoryItem(nil), r.resp.Items...)
	out.Playlist = append([]PlaylistEntry(nil), r.resp.Playlist...)
	out.Builtins = append([]string(nil), r.resp.Builtins...)
	out.Dialogs = append([]Dialog(nil), r.resp.Dialogs...)
	return out
}

func (r *Recorder) AddonBaseURL() string { return r.base }

func (r *Recorder) SetContent(_ int, content string) {
	r.mu.Lock()
	r.resp.Content = content
	r.mu.Unlock()
}

func (r *Recorder) AddDirectoryItems(_ int, items []DirectoryItem) {
	r.mu.Lock()
	r.resp.Items = append(r.resp.Items, items...)
	r.mu.Unlock()
}

func (r *Recorder) EndOfDirectory(_ int, succeeded bool) {
	r.mu.Lock()
	r.resp.Ended = true
	r.resp.Succeeded = succeeded
	r.resp.EndCalls++
	r.mu.Unlock()
}

func (r *Recorder) SetResolvedURL(_ int, succeeded bool, item *ListItem) {
	r.mu.Lock()
	r.resp.Succeeded = succeeded
	r.resp.Resolved = item
	r.resp.ResolveCalls++
	r.mu.Unlock()
}

func (r *Recorder) OpenSettings() {
	r.mu.Lock()
	r.resp.SettingsOpened = true
	r.mu.Unlock()
	if r.onSettings != nil {
		r.onSettings()
	}
}

func (r *Recorder) ExecuteBuiltin(command string) {
	r.mu.Lock()
	r.resp.Builtins = append(r.resp.Builtins, command)
	r.mu.Unlock()
	if r.onBuiltin != nil {
		r.onBuiltin(command)
	}
}

func (r *Recorder) MusicPlaylist() Playlist {
	return recorderPlaylist{r}
}

func (r *Recorder) ShowOKDialog(heading, message string) {
	r.mu.Lock()
	r.resp.Dialogs = append(r.resp.Dialogs, Dialog{Heading: heading, Message: message})
	r.mu.Unlock()
}

func (r *Recorder) InputDialog(heading string) (string, bool) {
	if r.input == nil {
		return "", false
	}
	return r.input(heading)
}

type recorderPlaylist struct{ r *Recorder }

func (p recorderPlaylist) Add(url string, item *ListItem) {
	p.r.mu.Lock()
	p.r.resp.Playlist = append(p.r.resp.Playlist, PlaylistEntry{URL: url, Item: item})
	p.r.mu.Unlock()
}
