package host

import "context"

// Request is one invocation as a host shim receives it.
type Request struct {
	Path   string `json:"path"`
	Query  string `json:"query,omitempty"`
	Handle int    `json:"handle"`
	// Input answers input dialogs; nil cancels them.
	Input *string `json:"input,omitempty"`
}

// Invoker runs one request against the plugin and reports what the
// plugin asked the host to do.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (Response, error)
}

// InputOption answers input dialogs from req.Input.
func (req Request) InputOption() RecorderOption {
	return WithInput(func(string) (string, bool) {
		if req.Input == nil {
			return "", false
		}
		return *req.Input, true
	})
}
