package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fiston-user/musicez-api/internal/api"
	"github.com/fiston-user/musicez-api/internal/domain"
	"github.com/fiston-user/musicez-api/internal/service"
)

type RecommendationService interface {
	Generate(ctx context.Context, trackID string, params service.GenerateParams) (*domain.RecommendationResult, error)
}

type BatchService interface {
	GenerateBatch(ctx context.Context, trackIDs []string, params service.BatchParams) (*domain.BatchResult, error)
}

type RecommendationHandler struct {
	svc   RecommendationService
	batch BatchService
}

func NewRecommendationHandler(svc RecommendationService, batch BatchService) *RecommendationHandler {
	return &RecommendationHandler{svc: svc, batch: batch}
}

// Limit is a pointer so an omitted field (default applies) can be told
// apart from an explicit zero (rejected by validation).
type GenerateRequest struct {
	TrackID         string `json:"trackId"`
	Limit           *int   `json:"limit,omitempty"`
	IncludeAnalysis bool   `json:"includeAnalysis,omitempty"`
	ForceRefresh    bool   `json:"forceRefresh,omitempty"`
}

type GenerateBatchRequest struct {
	TrackIDs        []string `json:"trackIds"`
	Limit           *int     `json:"limit,omitempty"`
	IncludeAnalysis bool     `json:"includeAnalysis,omitempty"`
}

// Generate handles POST /recommendations
func (h *RecommendationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Generate(r.Context(), req.TrackID, service.GenerateParams{
		Limit:           req.Limit,
		IncludeAnalysis: req.IncludeAnalysis,
		ForceRefresh:    req.ForceRefresh,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}

// GenerateBatch handles POST /recommendations/batch
func (h *RecommendationHandler) GenerateBatch(w http.ResponseWriter, r *http.Request) {
	var req GenerateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.batch.GenerateBatch(r.Context(), req.TrackIDs, service.BatchParams{
		Limit:           req.Limit,
		IncludeAnalysis: req.IncludeAnalysis,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}
