// Package models defines the domain entities returned by the streaming API.
package models

// Kind enumerates the closed set of Item variants.
type Kind int

const (
	KindListItem Kind = iota
	KindTrack
	KindUser
	KindPlaylist
	KindSelection
)

// String returns the upstream "kind" discriminator of the variant.
func (k Kind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindUser:
		return "user"
	case KindPlaylist:
		return "playlist"
	case KindSelection:
		return "selection"
	default:
		return "item"
	}
}

// Item is the polymorphic entity shown in a listing. The unexported method
// seals the set to the types in this package.
type Item interface {
	Kind() Kind
	Base() *ListItem
	sealed()
}

// ListItem carries the attributes every variant shares. It is also the
// generic fallback variant.
type ListItem struct {
	ID     string
	Label  string
	Label2 string
	Thumb  string
	Info   map[string]any
}

func (l *ListItem) Kind() Kind      { return KindListItem }
func (l *ListItem) Base() *ListItem { return l }
func (l *ListItem) sealed()         {}

// InfoString returns Info[key] formatted as a string, or "" when absent.
func (l *ListItem) InfoString(key string) string {
	v, ok := l.Info[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return formatValue(v)
}

// Collection is one page of items plus the upstream continuation cursor.
type Collection struct {
	Items    []Item
	NextHref string
}

// HasMore reports whether upstream has another page.
func (c *Collection) HasMore() bool {
	return c.NextHref != ""
}

// Compile-time checks that every variant satisfies Item.
var (
	_ Item = (*ListItem)(nil)
	_ Item = (*Track)(nil)
	_ Item = (*User)(nil)
	_ Item = (*Playlist)(nil)
	_ Item = (*Selection)(nil)
)
