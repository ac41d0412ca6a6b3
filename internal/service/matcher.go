package service

import (
	"context"
	"strings"

	"github.com/fiston-user/musicez-api/internal/domain"
)

// TrackSearchRepository defines the catalog lookup used for matching
type TrackSearchRepository interface {
	SearchByTitleArtist(ctx context.Context, terms []domain.TitleArtist) ([]*domain.Track, error)
}

// MatcherService reconciles AI suggestions against the catalog. Titles and
// artists from the model frequently carry qualifiers ("(Remastered)",
// "feat. X"), so matching is case-insensitive substring containment rather
// than exact equality.
type MatcherService struct {
	repo TrackSearchRepository
}

// NewMatcherService creates a new MatcherService instance
func NewMatcherService(repo TrackSearchRepository) *MatcherService {
	return &MatcherService{repo: repo}
}

// Match resolves each suggestion to at most one catalog track. One batched
// lookup covers all suggestions; suggestions with no satisfying row are
// dropped silently. Result order follows suggestion order.
func (s *MatcherService) Match(ctx context.Context, suggestions []domain.AISuggestion) ([]domain.MatchedRecommendation, error) {
	if len(suggestions) == 0 {
		return []domain.MatchedRecommendation{}, nil
	}

	terms := make([]domain.TitleArtist, 0, len(suggestions))
	for _, sug := range suggestions {
		terms = append(terms, domain.TitleArtist{Title: sug.Title, Artist: sug.Artist})
	}

	candidates, err := s.repo.SearchByTitleArtist(ctx, terms)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.MatchedRecommendation, 0, len(suggestions))
	for _, sug := range suggestions {
		track := firstSatisfying(candidates, sug)
		if track == nil {
			continue
		}
		matched = append(matched, domain.MatchedRecommendation{
			Track:  track.Summary(),
			Score:  sug.Score,
			Reason: sug.Reason,
		})
	}

	return matched, nil
}

func firstSatisfying(candidates []*domain.Track, sug domain.AISuggestion) *domain.Track {
	for _, track := range candidates {
		if track == nil {
			continue
		}
		if containsFold(track.Title, sug.Title) && containsFold(track.Artist, sug.Artist) {
			return track
		}
	}
	return nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
