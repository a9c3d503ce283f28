package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/scholarfund/scholarfund-api/internal/api/shared"
	"github.com/scholarfund/scholarfund-api/internal/service"
)

// AdminHandler handles the administrative endpoints: the freeze override and
// protocol configuration changes. Routes using it sit behind the admin role
// middleware.
type AdminHandler struct {
	reputation service.ReputationService
	configs    service.ConfigService
	validator  *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(reputation service.ReputationService, configs service.ConfigService) *AdminHandler {
	return &AdminHandler{
		reputation: reputation,
		configs:    configs,
		validator:  validator.New(),
	}
}

// SetFrozen handles PUT /scholarships/{id}/frozen requests. The override is
// immediate but the next automatic evaluation overwrites it.
func (h *AdminHandler) SetFrozen(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req SetFrozenRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.reputation.SetFrozenStatus(r.Context(), id, *req.Frozen); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetConfig handles GET /config requests.
func (h *AdminHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.configs.Get(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ConfigResponse{
		FeeBps:             cfg.FeeBps,
		RewardRatePerUnit:  cfg.RewardRatePerUnit,
		CurrencyDecimals:   cfg.CurrencyDecimals,
		RewardDecimals:     cfg.RewardDecimals,
		TreasuryAddress:    cfg.TreasuryAddress,
		RegistryAddress:    cfg.RegistryAddress,
		RewardTokenAddress: cfg.RewardTokenAddress,
		VaultAddress:       cfg.VaultAddress,
		UpdatedAt:          cfg.UpdatedAt,
	})
}

// SetFee handles PUT /config/fee requests.
func (h *AdminHandler) SetFee(w http.ResponseWriter, r *http.Request) {
	var req SetFeeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.configs.SetFeeBps(r.Context(), *req.FeeBps); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetRewardRate handles PUT /config/reward-rate requests.
func (h *AdminHandler) SetRewardRate(w http.ResponseWriter, r *http.Request) {
	var req SetRewardRateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.configs.SetRewardRate(r.Context(), *req.RatePerUnit); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetCollaborators handles PUT /config/collaborators requests.
func (h *AdminHandler) SetCollaborators(w http.ResponseWriter, r *http.Request) {
	var req SetCollaboratorsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	err := h.configs.SetCollaborators(
		r.Context(),
		req.TreasuryAddress,
		req.RegistryAddress,
		req.RewardTokenAddress,
		req.VaultAddress,
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
