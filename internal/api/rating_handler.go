package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/scholarfund/scholarfund-api/internal/api/shared"
	"github.com/scholarfund/scholarfund-api/internal/collab"
	"github.com/scholarfund/scholarfund-api/internal/service"
)

// RatingHandler handles rating submissions and the reputation read surface.
type RatingHandler struct {
	reputation service.ReputationService
	// rewardToken gates rating weight: a rater may not stake more weight
	// than their reward-unit balance.
	rewardToken collab.RewardToken
	validator   *validator.Validate
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(reputation service.ReputationService, rewardToken collab.RewardToken) *RatingHandler {
	return &RatingHandler{
		reputation:  reputation,
		rewardToken: rewardToken,
		validator:   validator.New(),
	}
}

// Rate handles POST /scholarships/{id}/ratings requests.
func (h *RatingHandler) Rate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := getCallerID(w, r)
	if !ok {
		return
	}
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req RateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	// Stake sufficiency is the reward token's call, made here at the
	// boundary; the reputation engine takes the weight as given.
	if err := h.rewardToken.RequireBalance(r.Context(), callerID, req.Weight); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := h.reputation.Rate(r.Context(), id, req.Score, req.Weight, callerID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetScore handles GET /scholarships/{id}/score requests.
func (h *RatingHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	score, err := h.reputation.GetScholarshipScore(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ScoreResponse{Score: score})
}

// GetRatingCount handles GET /scholarships/{id}/ratings/count requests.
func (h *RatingHandler) GetRatingCount(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	count, err := h.reputation.GetRatingCount(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CountResponse{Count: int(count)})
}

// GetRatingTokens handles GET /scholarships/{id}/ratings/tokens requests.
func (h *RatingHandler) GetRatingTokens(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.reputation.GetTotalRatingTokens(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, RatingTokensResponse{Tokens: tokens})
}

// GetFrozen handles GET /scholarships/{id}/frozen requests, reporting the
// persisted freeze flag.
func (h *RatingHandler) GetFrozen(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	frozen, err := h.reputation.IsFrozen(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, FrozenResponse{Frozen: frozen})
}

// GetFrozenDerived handles GET /scholarships/{id}/frozen/derived requests,
// reporting the score-implied value without applying it. It can differ from
// the persisted flag while a manual override is in force.
func (h *RatingHandler) GetFrozenDerived(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	frozen, err := h.reputation.ShouldBeFrozen(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, FrozenResponse{Frozen: frozen})
}

// RecomputeFreeze handles POST /scholarships/{id}/freeze/recompute requests.
// Any authenticated caller may trigger the evaluation; the outcome depends
// only on the recorded score.
func (h *RatingHandler) RecomputeFreeze(w http.ResponseWriter, r *http.Request) {
	if _, ok := getCallerID(w, r); !ok {
		return
	}
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.reputation.RecomputeFreezeStatus(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
