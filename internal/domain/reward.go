package domain

import "math/big"

// Default precision of the funding currency and the reward unit. The
// decimal-adjustment exponent is a static configuration constant; it is NOT
// derived from the currency collaborator's declared precision. Known
// limitation: a collaborator with a different precision requires a
// configuration change, not a code path.
const (
	DefaultCurrencyDecimals = 6
	DefaultRewardDecimals   = 18
)

// RewardPolicy converts funded amounts (currency minor units) into reward
// units (reward minor units) at a fixed configured rate.
type RewardPolicy struct {
	// RatePerUnit is the reward-minor-unit amount issued per whole currency
	// unit, i.e. 10^RewardDecimals means 1:1.
	RatePerUnit      uint64
	CurrencyDecimals uint8
	RewardDecimals   uint8
}

// DefaultRewardPolicy returns the 1:1 policy at the default precisions.
func DefaultRewardPolicy() RewardPolicy {
	return RewardPolicy{
		RatePerUnit:      pow10(DefaultRewardDecimals),
		CurrencyDecimals: DefaultCurrencyDecimals,
		RewardDecimals:   DefaultRewardDecimals,
	}
}

// Reward computes the reward-minor-unit amount for a funded amount:
//
//	reward = amount * 10^(rewardDecimals-currencyDecimals) * ratePerUnit / 10^rewardDecimals
//
// Integer arithmetic throughout, truncating (never rounding up). The
// intermediate products run through math/big so a legitimate result is never
// rejected for intermediate overflow; only a final value outside uint64 fails
// with ErrArithmeticOverflow.
func (p RewardPolicy) Reward(amount uint64) (uint64, error) {
	if p.RewardDecimals < p.CurrencyDecimals {
		return 0, ErrConfigurationInvalid
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(p.RewardDecimals-p.CurrencyDecimals)), nil)
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(p.RewardDecimals)), nil)

	reward := new(big.Int).SetUint64(amount)
	reward.Mul(reward, scale)
	reward.Mul(reward, new(big.Int).SetUint64(p.RatePerUnit))
	reward.Quo(reward, denom)

	if !reward.IsUint64() {
		return 0, ErrArithmeticOverflow
	}
	return reward.Uint64(), nil
}

// pow10 returns 10^n for small n. n is always a decimals constant well below
// 20, so the result fits in a uint64.
func pow10(n uint8) uint64 {
	v := uint64(1)
	for i := uint8(0); i < n; i++ {
		v *= 10
	}
	return v
}
