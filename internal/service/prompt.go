package service

import (
	"fmt"
	"strings"

	"github.com/fiston-user/musicez-api/internal/domain"
)

// systemPrompt establishes the matching philosophy and the output contract.
// The model is steered toward audio-attribute similarity rather than genre
// labels, and must answer with a single JSON object.
const systemPrompt = `You are a music recommendation expert. Given a track and its audio attributes, recommend similar tracks that listeners would enjoy.

Base your recommendations on musical similarity: tempo, key, energy, danceability, valence, acousticness, and instrumentalness. Do not recommend tracks purely because they share a genre label.

Respond with a single JSON object of the form:
{"recommendations": [{"title": "...", "artist": "...", "reason": "...", "score": 0.95}]}

Each score is a number between 0 and 1 indicating similarity confidence. Order recommendations from highest to lowest score. Do not include any text outside the JSON object.`

// BuildSystemPrompt returns the fixed system instruction for the model.
func BuildSystemPrompt() string {
	return systemPrompt
}

// BuildUserPrompt renders the input track's attributes into the user
// instruction. Only attributes present on the track are listed; absent
// attributes are omitted entirely. Identical inputs produce identical text.
func BuildUserPrompt(track *domain.Track, limit int, includeAnalysis bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Recommend exactly %d tracks similar to %q by %s.\n\n", limit, track.Title, track.Artist)
	b.WriteString("Track attributes:\n")

	if track.Album != nil {
		fmt.Fprintf(&b, "- Album: %s\n", *track.Album)
	}
	if track.Genre != nil {
		fmt.Fprintf(&b, "- Genre: %s\n", *track.Genre)
	}
	if track.ReleaseYear != nil {
		fmt.Fprintf(&b, "- Release year: %d\n", *track.ReleaseYear)
	}
	if track.Tempo != nil {
		fmt.Fprintf(&b, "- Tempo: %.1f BPM\n", *track.Tempo)
	}
	if track.MusicalKey != nil {
		fmt.Fprintf(&b, "- Key: %s\n", *track.MusicalKey)
	}
	if track.Energy != nil {
		fmt.Fprintf(&b, "- Energy: %.2f\n", *track.Energy)
	}
	if track.Danceability != nil {
		fmt.Fprintf(&b, "- Danceability: %.2f\n", *track.Danceability)
	}
	if track.Valence != nil {
		fmt.Fprintf(&b, "- Valence: %.2f\n", *track.Valence)
	}
	if track.Acousticness != nil {
		fmt.Fprintf(&b, "- Acousticness: %.2f\n", *track.Acousticness)
	}
	if track.Instrumentalness != nil {
		fmt.Fprintf(&b, "- Instrumentalness: %.2f\n", *track.Instrumentalness)
	}
	if track.Popularity != nil {
		fmt.Fprintf(&b, "- Popularity: %d/100\n", *track.Popularity)
	}

	if includeAnalysis {
		b.WriteString("\nFor each recommendation, provide a detailed reason explaining the musical similarity to the input track.")
	}

	return b.String()
}
