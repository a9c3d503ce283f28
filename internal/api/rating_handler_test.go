package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarfund/scholarfund-api/internal/collab"
	"github.com/scholarfund/scholarfund-api/internal/store"
)

// MockReputationService is a function-field mock of service.ReputationService.
type MockReputationService struct {
	RateFn                    func(ctx context.Context, id, score, weight uint64, rater uuid.UUID) error
	GetScholarshipScoreFn     func(ctx context.Context, id uint64) (uint64, error)
	GetRatingCountFn          func(ctx context.Context, id uint64) (uint64, error)
	GetTotalRatingTokensFn    func(ctx context.Context, id uint64) (uint64, error)
	GetTopRatedScholarshipsFn func(ctx context.Context, limit int) ([]store.RankedScholarship, error)
	IsFrozenFn                func(ctx context.Context, id uint64) (bool, error)
	ShouldBeFrozenFn          func(ctx context.Context, id uint64) (bool, error)
	RecomputeFreezeStatusFn   func(ctx context.Context, id uint64) error
	SetFrozenStatusFn         func(ctx context.Context, id uint64, frozen bool) error
}

func (m *MockReputationService) Rate(
	ctx context.Context,
	id, score, weight uint64,
	rater uuid.UUID,
) error {
	if m.RateFn != nil {
		return m.RateFn(ctx, id, score, weight, rater)
	}
	return nil
}

func (m *MockReputationService) GetScholarshipScore(ctx context.Context, id uint64) (uint64, error) {
	if m.GetScholarshipScoreFn != nil {
		return m.GetScholarshipScoreFn(ctx, id)
	}
	return 0, nil
}

func (m *MockReputationService) GetRatingCount(ctx context.Context, id uint64) (uint64, error) {
	if m.GetRatingCountFn != nil {
		return m.GetRatingCountFn(ctx, id)
	}
	return 0, nil
}

func (m *MockReputationService) GetTotalRatingTokens(ctx context.Context, id uint64) (uint64, error) {
	if m.GetTotalRatingTokensFn != nil {
		return m.GetTotalRatingTokensFn(ctx, id)
	}
	return 0, nil
}

func (m *MockReputationService) GetTopRatedScholarships(
	ctx context.Context,
	limit int,
) ([]store.RankedScholarship, error) {
	if m.GetTopRatedScholarshipsFn != nil {
		return m.GetTopRatedScholarshipsFn(ctx, limit)
	}
	return nil, nil
}

func (m *MockReputationService) IsFrozen(ctx context.Context, id uint64) (bool, error) {
	if m.IsFrozenFn != nil {
		return m.IsFrozenFn(ctx, id)
	}
	return false, nil
}

func (m *MockReputationService) ShouldBeFrozen(ctx context.Context, id uint64) (bool, error) {
	if m.ShouldBeFrozenFn != nil {
		return m.ShouldBeFrozenFn(ctx, id)
	}
	return false, nil
}

func (m *MockReputationService) RecomputeFreezeStatus(ctx context.Context, id uint64) error {
	if m.RecomputeFreezeStatusFn != nil {
		return m.RecomputeFreezeStatusFn(ctx, id)
	}
	return nil
}

func (m *MockReputationService) SetFrozenStatus(ctx context.Context, id uint64, frozen bool) error {
	if m.SetFrozenStatusFn != nil {
		return m.SetFrozenStatusFn(ctx, id, frozen)
	}
	return nil
}

func TestRatingHandler_Rate(t *testing.T) {
	callerID := uuid.MustParse("55555555-5555-5555-5555-555555555555")

	tests := []struct {
		name           string
		body           RateRequest
		raterBalance   uint64
		setupMock      func(*MockReputationService)
		expectedStatus int
		expectedErrMsg string
	}{
		{
			name:         "successful_rating",
			body:         RateRequest{Score: 8, Weight: 50},
			raterBalance: 100,
			setupMock: func(ms *MockReputationService) {
				ms.RateFn = func(ctx context.Context, id, score, weight uint64, rater uuid.UUID) error {
					assert.Equal(t, uint64(1), id)
					assert.Equal(t, uint64(8), score)
					assert.Equal(t, uint64(50), weight)
					assert.Equal(t, callerID, rater)
					return nil
				}
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "weight_above_reward_balance",
			body:           RateRequest{Score: 8, Weight: 500},
			raterBalance:   100,
			setupMock:      func(ms *MockReputationService) {},
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Insufficient reward balance",
		},
		{
			name:           "score_above_ten_rejected_by_validation",
			body:           RateRequest{Score: 11, Weight: 50},
			raterBalance:   100,
			setupMock:      func(ms *MockReputationService) {},
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid Score",
		},
		{
			name:           "zero_weight_rejected_by_validation",
			body:           RateRequest{Score: 8, Weight: 0},
			raterBalance:   100,
			setupMock:      func(ms *MockReputationService) {},
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Invalid Weight",
		},
		{
			name:         "unknown_scholarship",
			body:         RateRequest{Score: 8, Weight: 50},
			raterBalance: 100,
			setupMock: func(ms *MockReputationService) {
				ms.RateFn = func(ctx context.Context, id, score, weight uint64, rater uuid.UUID) error {
					return store.ErrScholarshipNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
			expectedErrMsg: "Scholarship not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockReputationService{}
			tt.setupMock(mockService)

			rewardToken := collab.NewMemoryRewardToken()
			if tt.raterBalance > 0 {
				require.NoError(t, rewardToken.Mint(context.Background(), callerID, tt.raterBalance))
			}
			handler := NewRatingHandler(mockService, rewardToken)

			body, err := json.Marshal(tt.body)
			require.NoError(t, err)

			req := withCaller(newRequestWithParams(
				http.MethodPost,
				"/api/scholarships/1/ratings",
				body,
				map[string]string{"id": "1"},
			), callerID)

			w := httptest.NewRecorder()
			handler.Rate(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedErrMsg != "" {
				var respBody map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
				assert.Contains(t, respBody["error"], tt.expectedErrMsg)
			}
		})
	}
}

func TestRatingHandler_ReadEndpoints(t *testing.T) {
	mockService := &MockReputationService{
		GetScholarshipScoreFn: func(ctx context.Context, id uint64) (uint64, error) {
			return 742, nil
		},
		GetRatingCountFn: func(ctx context.Context, id uint64) (uint64, error) {
			return 3, nil
		},
		GetTotalRatingTokensFn: func(ctx context.Context, id uint64) (uint64, error) {
			return 950, nil
		},
		IsFrozenFn: func(ctx context.Context, id uint64) (bool, error) {
			return true, nil
		},
		ShouldBeFrozenFn: func(ctx context.Context, id uint64) (bool, error) {
			// Differs from the persisted flag while an override is in force.
			return false, nil
		},
	}
	handler := NewRatingHandler(mockService, collab.NewMemoryRewardToken())

	get := func(t *testing.T, path string, handle http.HandlerFunc, out interface{}) {
		t.Helper()
		req := newRequestWithParams(http.MethodGet, path, nil, map[string]string{"id": "1"})
		w := httptest.NewRecorder()
		handle(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}

	t.Run("score", func(t *testing.T) {
		var resp ScoreResponse
		get(t, "/api/scholarships/1/score", handler.GetScore, &resp)
		assert.Equal(t, uint64(742), resp.Score)
	})

	t.Run("rating_count", func(t *testing.T) {
		var resp CountResponse
		get(t, "/api/scholarships/1/ratings/count", handler.GetRatingCount, &resp)
		assert.Equal(t, 3, resp.Count)
	})

	t.Run("rating_tokens", func(t *testing.T) {
		var resp RatingTokensResponse
		get(t, "/api/scholarships/1/ratings/tokens", handler.GetRatingTokens, &resp)
		assert.Equal(t, uint64(950), resp.Tokens)
	})

	t.Run("frozen_vs_derived", func(t *testing.T) {
		var persisted FrozenResponse
		get(t, "/api/scholarships/1/frozen", handler.GetFrozen, &persisted)
		assert.True(t, persisted.Frozen)

		var derived FrozenResponse
		get(t, "/api/scholarships/1/frozen/derived", handler.GetFrozenDerived, &derived)
		assert.False(t, derived.Frozen)
	})
}

func TestRatingHandler_RecomputeFreeze(t *testing.T) {
	callerID := uuid.New()

	t.Run("authenticated_caller_triggers_evaluation", func(t *testing.T) {
		var recomputedID uint64
		mockService := &MockReputationService{
			RecomputeFreezeStatusFn: func(ctx context.Context, id uint64) error {
				recomputedID = id
				return nil
			},
		}
		handler := NewRatingHandler(mockService, collab.NewMemoryRewardToken())

		req := withCaller(newRequestWithParams(
			http.MethodPost, "/api/scholarships/7/freeze/recompute", nil,
			map[string]string{"id": "7"},
		), callerID)
		w := httptest.NewRecorder()
		handler.RecomputeFreeze(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, uint64(7), recomputedID)
	})

	t.Run("anonymous_caller_rejected", func(t *testing.T) {
		handler := NewRatingHandler(&MockReputationService{}, collab.NewMemoryRewardToken())

		req := newRequestWithParams(
			http.MethodPost, "/api/scholarships/7/freeze/recompute", nil,
			map[string]string{"id": "7"},
		)
		w := httptest.NewRecorder()
		handler.RecomputeFreeze(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("frozen_error_surfaces", func(t *testing.T) {
		mockService := &MockReputationService{
			RecomputeFreezeStatusFn: func(ctx context.Context, id uint64) error {
				return store.ErrScholarshipNotFound
			},
		}
		handler := NewRatingHandler(mockService, collab.NewMemoryRewardToken())

		req := withCaller(newRequestWithParams(
			http.MethodPost, "/api/scholarships/7/freeze/recompute", nil,
			map[string]string{"id": "7"},
		), callerID)
		w := httptest.NewRecorder()
		handler.RecomputeFreeze(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
