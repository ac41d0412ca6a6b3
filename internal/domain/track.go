package domain

import "time"

// Track is a catalog track with the audio attributes used to drive
// recommendations. Attribute columns are nullable in the catalog, so
// optional fields are pointers.
type Track struct {
	ID               string
	Title            string
	Artist           string
	Album            *string
	Genre            *string
	ReleaseYear      *int
	Tempo            *float64
	MusicalKey       *string
	Energy           *float64
	Danceability     *float64
	Valence          *float64
	Acousticness     *float64
	Instrumentalness *float64
	Popularity       *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Summary returns the identifying fields exposed in result metadata.
func (t *Track) Summary() TrackSummary {
	return TrackSummary{
		ID:     t.ID,
		Title:  t.Title,
		Artist: t.Artist,
	}
}

// TrackSummary identifies the input track in result metadata.
type TrackSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// TitleArtist is one (title, artist) search term for catalog lookups.
type TitleArtist struct {
	Title  string
	Artist string
}
