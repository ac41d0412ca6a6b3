package service

import (
	"encoding/json"
	"strings"

	"github.com/fiston-user/musicez-api/internal/domain"
)

// rawSuggestion carries pointer fields so missing keys can be told apart
// from zero values during shape validation.
type rawSuggestion struct {
	Title  *string  `json:"title"`
	Artist *string  `json:"artist"`
	Reason string   `json:"reason"`
	Score  *float64 `json:"score"`
}

type rawResponse struct {
	Recommendations *[]rawSuggestion `json:"recommendations"`
}

// ParseSuggestions parses and validates the model's raw output. This is the
// untrusted-input gate: after it succeeds, downstream code may assume shape
// validity. Out-of-range scores are clamped into [0,1] rather than rejected.
func ParseSuggestions(rawContent string) ([]domain.AISuggestion, error) {
	payload := extractJSONObject(rawContent)
	if payload == "" {
		return nil, domain.ErrAIInvalidResponse
	}

	var resp rawResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInvalidResponseFormat, "AI response is not valid JSON", err)
	}
	if resp.Recommendations == nil {
		return nil, domain.NewDomainError(domain.ErrCodeInvalidResponseFormat, "AI response is missing the recommendations array")
	}

	suggestions := make([]domain.AISuggestion, 0, len(*resp.Recommendations))
	for _, raw := range *resp.Recommendations {
		if raw.Title == nil || *raw.Title == "" || raw.Artist == nil || *raw.Artist == "" || raw.Score == nil {
			return nil, domain.NewDomainError(domain.ErrCodeInvalidResponseFormat, "AI recommendation is missing title, artist, or score")
		}
		suggestions = append(suggestions, domain.AISuggestion{
			Title:  *raw.Title,
			Artist: *raw.Artist,
			Reason: raw.Reason,
			Score:  clampScore(*raw.Score),
		})
	}

	return suggestions, nil
}

// extractJSONObject tolerates markdown code fences and surrounding prose by
// cutting the outermost {...} from the content.
func extractJSONObject(content string) string {
	clean := strings.TrimSpace(content)

	if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```json")
		clean = strings.TrimPrefix(clean, "```")
		clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
		clean = strings.TrimSpace(clean)
	}

	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return clean[start : end+1]
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
