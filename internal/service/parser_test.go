package service

import (
	"errors"
	"testing"

	"github.com/fiston-user/musicez-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuggestions_Valid(t *testing.T) {
	raw := `{"recommendations": [
		{"title": "Somebody to Love", "artist": "Queen", "reason": "same vocal layering", "score": 0.92},
		{"title": "Stairway to Heaven", "artist": "Led Zeppelin", "reason": "multi-part structure", "score": 0.81}
	]}`

	suggestions, err := ParseSuggestions(raw)

	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "Somebody to Love", suggestions[0].Title)
	assert.Equal(t, "Queen", suggestions[0].Artist)
	assert.Equal(t, "same vocal layering", suggestions[0].Reason)
	assert.Equal(t, 0.92, suggestions[0].Score)
	assert.Equal(t, "Led Zeppelin", suggestions[1].Artist)
}

func TestParseSuggestions_MarkdownFence(t *testing.T) {
	raw := "```json\n{\"recommendations\": [{\"title\": \"Song\", \"artist\": \"Artist\", \"score\": 0.5}]}\n```"

	suggestions, err := ParseSuggestions(raw)

	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Song", suggestions[0].Title)
}

func TestParseSuggestions_SurroundingProse(t *testing.T) {
	raw := `Here are your recommendations:
{"recommendations": [{"title": "Song", "artist": "Artist", "score": 0.5}]}
Enjoy!`

	suggestions, err := ParseSuggestions(raw)

	require.NoError(t, err)
	require.Len(t, suggestions, 1)
}

func TestParseSuggestions_ClampsScores(t *testing.T) {
	raw := `{"recommendations": [
		{"title": "High", "artist": "A", "score": 1.4},
		{"title": "Low", "artist": "B", "score": -0.2},
		{"title": "Mid", "artist": "C", "score": 0.5}
	]}`

	suggestions, err := ParseSuggestions(raw)

	require.NoError(t, err)
	require.Len(t, suggestions, 3)
	assert.Equal(t, 1.0, suggestions[0].Score)
	assert.Equal(t, 0.0, suggestions[1].Score)
	assert.Equal(t, 0.5, suggestions[2].Score)
}

func TestParseSuggestions_EmptyList(t *testing.T) {
	suggestions, err := ParseSuggestions(`{"recommendations": []}`)

	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestParseSuggestions_InvalidInputs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty content", ""},
		{"no json object", "the model refused to answer"},
		{"malformed json", `{"recommendations": [`},
		{"missing recommendations key", `{"results": []}`},
		{"missing title", `{"recommendations": [{"artist": "A", "score": 0.5}]}`},
		{"empty title", `{"recommendations": [{"title": "", "artist": "A", "score": 0.5}]}`},
		{"missing artist", `{"recommendations": [{"title": "T", "score": 0.5}]}`},
		{"missing score", `{"recommendations": [{"title": "T", "artist": "A"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggestions, err := ParseSuggestions(tt.raw)

			assert.Nil(t, suggestions)
			var domErr *domain.DomainError
			require.True(t, errors.As(err, &domErr))
			assert.Equal(t, domain.ErrCodeInvalidResponseFormat, domErr.Code)
		})
	}
}

func TestParseSuggestions_ZeroScoreIsValid(t *testing.T) {
	suggestions, err := ParseSuggestions(`{"recommendations": [{"title": "T", "artist": "A", "score": 0}]}`)

	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, 0.0, suggestions[0].Score)
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced no language", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prose wrapped", `before {"a": 1} after`, `{"a": 1}`},
		{"no object", "nothing here", ""},
		{"unbalanced", "}{", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSONObject(tt.content))
		})
	}
}
