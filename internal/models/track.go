package models

// Track is a playable audio item.
type Track struct {
	ListItem
	Blocked bool   // not streamable in the listener's region
	Preview bool   // only a 30s snippet is streamable
	Media   string // transcoding locator resolved to a stream at play time
}

func (t *Track) Kind() Kind      { return KindTrack }
func (t *Track) Base() *ListItem { return &t.ListItem }
