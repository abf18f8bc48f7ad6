package models

// ChartsQuery selects one upstream chart.
type ChartsQuery struct {
	Kind  string // "trending" or "top"
	Genre string // e.g. "soundcloud:genres:all-music"
	Limit int
}
