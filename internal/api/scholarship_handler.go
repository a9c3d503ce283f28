package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/scholarfund/scholarfund-api/internal/api/shared"
	"github.com/scholarfund/scholarfund-api/internal/service"
)

// defaultTopRatedLimit caps the top-rated listing when the client does not
// pass a limit.
const defaultTopRatedLimit = 10

// ScholarshipHandler handles scholarship lifecycle and read requests.
type ScholarshipHandler struct {
	scholarships service.ScholarshipService
	reputation   service.ReputationService
	validator    *validator.Validate
}

// NewScholarshipHandler creates a new ScholarshipHandler.
func NewScholarshipHandler(
	scholarships service.ScholarshipService,
	reputation service.ReputationService,
) *ScholarshipHandler {
	return &ScholarshipHandler{
		scholarships: scholarships,
		reputation:   reputation,
		validator:    validator.New(),
	}
}

// CreateScholarship handles POST /scholarships requests. The authenticated
// caller becomes the scholarship's student.
func (h *ScholarshipHandler) CreateScholarship(w http.ResponseWriter, r *http.Request) {
	callerID, ok := getCallerID(w, r)
	if !ok {
		return
	}

	var req CreateScholarshipRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	id, err := h.scholarships.CreateScholarship(r.Context(), callerID, req.Metadata)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateScholarshipResponse{ID: id})
}

// GetScholarship handles GET /scholarships/{id} requests.
func (h *ScholarshipHandler) GetScholarship(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.scholarships.GetScholarshipData(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ScholarshipResponse{
		ID:       data.ID,
		Owner:    data.Owner,
		Metadata: data.Metadata,
		Balance:  data.Balance,
		Frozen:   data.Frozen,
	})
}

// ListScholarships handles GET /scholarships requests.
func (h *ScholarshipHandler) ListScholarships(w http.ResponseWriter, r *http.Request) {
	ids, err := h.scholarships.GetAllScholarships(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, IDListResponse{IDs: ids})
}

// ListTopRated handles GET /scholarships/top requests.
func (h *ScholarshipHandler) ListTopRated(w http.ResponseWriter, r *http.Request) {
	limit, err := getQueryLimit(r, defaultTopRatedLimit)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ranked, err := h.reputation.GetTopRatedScholarships(r.Context(), limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	entries := make([]RankedScholarshipEntry, len(ranked))
	for i, row := range ranked {
		entries[i] = RankedScholarshipEntry{ID: row.ScholarshipID, Score: row.Average}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, TopRatedResponse{Scholarships: entries})
}

// ListByStudent handles GET /students/{student}/scholarships requests.
func (h *ScholarshipHandler) ListByStudent(w http.ResponseWriter, r *http.Request) {
	student, err := getPathUUID(r, "student")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ids, err := h.scholarships.GetScholarshipsByStudent(r.Context(), student)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, IDListResponse{IDs: ids})
}
