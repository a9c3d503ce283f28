package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aggregateWithAverage(t *testing.T, score, weight uint64) *RatingAggregate {
	t.Helper()
	agg := &RatingAggregate{ScholarshipID: 1}
	require.NoError(t, agg.AddRating(score, weight))
	return agg
}

func TestShouldBeFrozen(t *testing.T) {
	t.Parallel()

	t.Run("zero ratings never frozen", func(t *testing.T) {
		t.Parallel()
		assert.False(t, ShouldBeFrozen(&RatingAggregate{ScholarshipID: 1}))
	})

	t.Run("average below threshold frozen", func(t *testing.T) {
		t.Parallel()
		// score=2 weight=100 -> average 200
		assert.True(t, ShouldBeFrozen(aggregateWithAverage(t, 2, 100)))
	})

	t.Run("average exactly at threshold stays active", func(t *testing.T) {
		t.Parallel()
		// score=3 -> average exactly 300; the threshold is non-strict
		assert.False(t, ShouldBeFrozen(aggregateWithAverage(t, 3, 100)))
	})

	t.Run("average above threshold active", func(t *testing.T) {
		t.Parallel()
		assert.False(t, ShouldBeFrozen(aggregateWithAverage(t, 8, 5)))
	})
}

func TestResolveFreeze(t *testing.T) {
	t.Parallel()

	newScholarship := func(t *testing.T) *Scholarship {
		t.Helper()
		s, err := NewScholarship(1, uuid.New(), "ipfs://Qm1")
		require.NoError(t, err)
		return s
	}

	t.Run("flip reported only on actual change", func(t *testing.T) {
		t.Parallel()

		s := newScholarship(t)
		low := aggregateWithAverage(t, 2, 100)

		assert.True(t, ResolveFreeze(s, low), "Active -> Frozen is a flip")
		assert.True(t, s.Frozen)

		assert.False(t, ResolveFreeze(s, low), "re-evaluating the same state is not a flip")
		assert.True(t, s.Frozen)
	})

	t.Run("recovery unfreezes symmetrically", func(t *testing.T) {
		t.Parallel()

		s := newScholarship(t)
		agg := &RatingAggregate{ScholarshipID: 1}
		require.NoError(t, agg.AddRating(2, 100))
		require.True(t, ResolveFreeze(s, agg))

		// A large high-score stake pulls the average back over the line.
		require.NoError(t, agg.AddRating(10, 400))
		assert.True(t, ResolveFreeze(s, agg))
		assert.False(t, s.Frozen)
	})
}

func TestManualOverride_NotSticky(t *testing.T) {
	t.Parallel()

	s, err := NewScholarship(1, uuid.New(), "ipfs://Qm1")
	require.NoError(t, err)
	healthy := aggregateWithAverage(t, 8, 100)

	// Admin freezes a healthy scholarship: immediate effect.
	assert.True(t, OverrideFreeze(s, true))
	assert.True(t, s.Frozen)
	require.NotNil(t, s.FrozenOverride)
	assert.True(t, *s.FrozenOverride)

	// The next automatic evaluation overwrites the override with the
	// score-implied value and clears the marker. This non-stickiness is the
	// intended contract, not a bug.
	assert.True(t, ResolveFreeze(s, healthy))
	assert.False(t, s.Frozen)
	assert.Nil(t, s.FrozenOverride)

	// The mirror case: admin unfreezes a failing scholarship, the next
	// evaluation re-freezes it.
	failing := aggregateWithAverage(t, 1, 100)
	require.True(t, ResolveFreeze(s, failing))
	assert.True(t, OverrideFreeze(s, false))
	assert.False(t, s.Frozen)
	assert.True(t, ResolveFreeze(s, failing))
	assert.True(t, s.Frozen)
}

func TestOverrideFreeze_NoChange(t *testing.T) {
	t.Parallel()

	s, err := NewScholarship(1, uuid.New(), "ipfs://Qm1")
	require.NoError(t, err)

	// Overriding to the current value is not a flip but still records the
	// override marker.
	assert.False(t, OverrideFreeze(s, false))
	require.NotNil(t, s.FrozenOverride)
	assert.False(t, *s.FrozenOverride)
}
