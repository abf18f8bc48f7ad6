package models

import "fmt"

// Playlist is a playlist or an album.
type Playlist struct {
	ListItem
	IsAlbum bool
}

func (p *Playlist) Kind() Kind      { return KindPlaylist }
func (p *Playlist) Base() *ListItem { return &p.ListItem }

// Description combines artist, like count and free-text description.
func (p *Playlist) Description(likesLabel string) string {
	return fmt.Sprintf("%s\n%s %s\n\n%s",
		p.InfoString("artist"), p.InfoString("likes"), likesLabel, p.InfoString("description"))
}
