package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError(ErrCodeValidation, "bad input")
	assert.Equal(t, "[VALIDATION_ERROR] bad input", err.Error())
}

func TestDomainError_ErrorWithCause(t *testing.T) {
	cause := errors.New("boom")
	err := NewDomainErrorWithCause(ErrCodeInternalError, "something broke", cause)

	assert.Contains(t, err.Error(), "INTERNAL_ERROR")
	assert.Contains(t, err.Error(), "boom")
	assert.ErrorIs(t, err, cause)
}

func TestDomainError_As(t *testing.T) {
	var wrapped error = NewDomainErrorWithCause(ErrCodeAIServiceTimeout, "timed out", errors.New("deadline"))

	var domErr *DomainError
	require.True(t, errors.As(wrapped, &domErr))
	assert.Equal(t, ErrCodeAIServiceTimeout, domErr.Code)
}

func TestSentinelErrorCodes(t *testing.T) {
	tests := []struct {
		err  *DomainError
		code string
	}{
		{ErrLimitOutOfRange, ErrCodeValidation},
		{ErrBatchLimitOutOfRange, ErrCodeValidation},
		{ErrBatchSizeOutOfRange, ErrCodeValidation},
		{ErrMissingTrackID, ErrCodeValidation},
		{ErrTrackNotFound, ErrCodeSongNotFound},
		{ErrAIRateLimited, ErrCodeRateLimitExceeded},
		{ErrAITimeout, ErrCodeAIServiceTimeout},
		{ErrAIInvalidResponse, ErrCodeInvalidResponseFormat},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code, tt.err.Message)
	}
}

func TestTrack_Summary(t *testing.T) {
	track := &Track{ID: "t1", Title: "Song", Artist: "Artist"}

	summary := track.Summary()

	assert.Equal(t, TrackSummary{ID: "t1", Title: "Song", Artist: "Artist"}, summary)
}
