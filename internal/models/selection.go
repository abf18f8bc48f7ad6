package models

// Selection is a curated grouping of playlists referenced by its ID.
type Selection struct {
	ListItem
}

func (s *Selection) Kind() Kind      { return KindSelection }
func (s *Selection) Base() *ListItem { return &s.ListItem }
