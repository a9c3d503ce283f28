package domain

// Score constants. Raters submit an integer score in [0, MaxScore]; the
// aggregate stores it at 2-decimal fixed point (×ScoreScale), so a weighted
// average of 700 reads as 7.00.
const (
	MaxScore   = 10
	ScoreScale = 100
)

// RatingAggregate is the only rating state kept per scholarship: running
// sums, no per-rating log. Weight is the rater's stake in the reward unit at
// rating time; sufficiency is enforced by the reward-token collaborator
// before the rating reaches the ledger and is not re-checked here.
type RatingAggregate struct {
	ScholarshipID  uint64 `json:"scholarship_id"`
	WeightSum      uint64 `json:"weight_sum"`
	ScoreWeightSum uint64 `json:"score_weight_sum"`
	RatingCount    uint64 `json:"rating_count"`
}

// AddRating folds one rating into the aggregate. score is on the raw [0, 10]
// scale and is stored ×ScoreScale. Any overflow rejects the rating with the
// aggregate untouched.
func (a *RatingAggregate) AddRating(score uint64, weight uint64) error {
	if score > MaxScore {
		return ErrInvalidScore
	}
	if weight == 0 {
		return ErrZeroWeight
	}

	scaled, err := CheckedMul(score*ScoreScale, weight)
	if err != nil {
		return err
	}
	scoreWeightSum, err := CheckedAdd(a.ScoreWeightSum, scaled)
	if err != nil {
		return err
	}
	weightSum, err := CheckedAdd(a.WeightSum, weight)
	if err != nil {
		return err
	}
	count, err := CheckedAdd(a.RatingCount, 1)
	if err != nil {
		return err
	}

	a.ScoreWeightSum = scoreWeightSum
	a.WeightSum = weightSum
	a.RatingCount = count
	return nil
}

// WeightedAverage returns the stake-weighted average score at 2-decimal fixed
// point, truncating. A scholarship with no ratings reports 0.
func (a *RatingAggregate) WeightedAverage() uint64 {
	if a.RatingCount == 0 || a.WeightSum == 0 {
		return 0
	}
	return a.ScoreWeightSum / a.WeightSum
}
