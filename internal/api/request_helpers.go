package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/scholarfund/scholarfund-api/internal/api/middleware"
	"github.com/scholarfund/scholarfund-api/internal/api/shared"
)

// getCallerID extracts the authenticated caller's UUID from the request
// context, writing an error response when it is missing. Returns false when
// the response has already been written.
func getCallerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	callerID, ok := middleware.GetCallerID(r)
	if !ok || callerID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Caller identity not found")
		return uuid.Nil, false
	}
	return callerID, true
}

// getPathID extracts a numeric scholarship id from the URL path.
func getPathID(r *http.Request, paramName string) (uint64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, fmt.Errorf("%s is required", paramName)
	}
	id, err := strconv.ParseUint(pathParam, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a positive integer", paramName)
	}
	return id, nil
}

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%s is required", paramName)
	}
	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s has invalid format", paramName)
	}
	return id, nil
}

// getPathIndex extracts a non-negative integer from the URL path.
func getPathIndex(r *http.Request, paramName string) (int, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, fmt.Errorf("%s is required", paramName)
	}
	index, err := strconv.Atoi(pathParam)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", paramName)
	}
	return index, nil
}

// getQueryUint64 extracts an unsigned integer query parameter.
func getQueryUint64(r *http.Request, name string) (uint64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%s query parameter is required", name)
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return value, nil
}

// getQueryLimit extracts an optional positive limit query parameter, falling
// back to def.
func getQueryLimit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	return limit, nil
}
