package domain

import "time"

// FeeDenominator is the basis-point scale: a fee of 100 bps is 1%.
const FeeDenominator = 10000

// MaxFeeBps is the hard cap on the protocol fee, enforced at the
// configuration setter so fee <= gross always holds at withdrawal time.
const MaxFeeBps = 1000

// WithdrawalRecord is one entry in a scholarship's append-only withdrawal
// log. Index is the 0-based position in the log; NetAmount + FeeAmount always
// equals the gross amount requested, with the fee floored at the rate in
// force when the withdrawal executed.
type WithdrawalRecord struct {
	ScholarshipID uint64    `json:"scholarship_id"`
	Index         int       `json:"index"`
	NetAmount     uint64    `json:"net_amount"`
	FeeAmount     uint64    `json:"fee_amount"`
	Timestamp     time.Time `json:"timestamp"`
}

// Gross returns the gross amount the withdrawal was requested for.
func (w *WithdrawalRecord) Gross() uint64 {
	// Net and fee were split from a single uint64, so the sum cannot
	// overflow.
	return w.NetAmount + w.FeeAmount
}

// SplitWithdrawal computes the fee and net portions of a gross withdrawal at
// the given fee rate: fee = floor(gross * feeBps / 10000). feeBps above
// MaxFeeBps is a configuration bug upstream and is rejected here as a last
// line of defense.
func SplitWithdrawal(gross uint64, feeBps uint64) (net, fee uint64, err error) {
	if feeBps > MaxFeeBps {
		return 0, 0, ErrFeeTooHigh
	}
	// 128-bit intermediate: gross * feeBps may exceed uint64, but the
	// quotient is <= gross because feeBps < FeeDenominator.
	fee = mulDiv(gross, feeBps, FeeDenominator)
	return gross - fee, fee, nil
}
