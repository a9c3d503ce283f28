package domain

import (
	"time"

	"github.com/google/uuid"
)

// Contribution is the cumulative amount a single investor has put into one
// scholarship. There is at most one record per (scholarship, investor) pair;
// it is created on the first contribution and only ever incremented.
//
// Position is the investor's insertion index in the per-scholarship investor
// list (0-based, assigned on first contribution) and fixes the order
// GetInvestors reports.
type Contribution struct {
	ScholarshipID uint64    `json:"scholarship_id"`
	Investor      uuid.UUID `json:"investor"`
	Amount        uint64    `json:"amount"`
	Position      int       `json:"position"`
	FirstAt       time.Time `json:"first_at"`
}

// Add credits amount to the cumulative contribution, rejecting on overflow.
func (c *Contribution) Add(amount uint64) error {
	total, err := CheckedAdd(c.Amount, amount)
	if err != nil {
		return err
	}
	c.Amount = total
	return nil
}
