package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitWithdrawal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		gross   uint64
		feeBps  uint64
		wantNet uint64
		wantFee uint64
	}{
		{name: "100 bps on 300", gross: 300, feeBps: 100, wantNet: 297, wantFee: 3},
		{name: "fee floors toward zero", gross: 999, feeBps: 100, wantNet: 990, wantFee: 9},
		{name: "zero fee rate", gross: 1000, feeBps: 0, wantNet: 1000, wantFee: 0},
		{name: "zero gross", gross: 0, feeBps: 1000, wantNet: 0, wantFee: 0},
		{name: "max fee rate", gross: 1000, feeBps: 1000, wantNet: 900, wantFee: 100},
		{name: "tiny gross rounds fee to zero", gross: 9, feeBps: 1000, wantNet: 9, wantFee: 0},
		{
			name:    "huge gross does not overflow the intermediate product",
			gross:   math.MaxUint64,
			feeBps:  1000,
			wantFee: math.MaxUint64 / 10,
			wantNet: math.MaxUint64 - math.MaxUint64/10,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			net, fee, err := SplitWithdrawal(tt.gross, tt.feeBps)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNet, net)
			assert.Equal(t, tt.wantFee, fee)
			assert.Equal(t, tt.gross, net+fee, "net + fee must reconstruct the gross amount")
		})
	}

	t.Run("rate above cap rejected", func(t *testing.T) {
		t.Parallel()

		_, _, err := SplitWithdrawal(1000, MaxFeeBps+1)
		assert.ErrorIs(t, err, ErrFeeTooHigh)
	})
}
