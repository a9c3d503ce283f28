package domain

import (
	"time"

	"github.com/google/uuid"
)

// Scholarship is a funding record uniquely identified by a dense, sequential,
// 1-based id assigned by the token registry at creation and immutable
// afterwards.
//
// Owner holds the identity the record was minted to. It is a snapshot for
// reporting only: authorization decisions always re-read the current owner
// from the registry at execution time, because ownership can change outside
// the ledger.
//
// The invariant Balance == TotalFunded - TotalWithdrawn holds at every
// observation point; ApplyFunding and ApplyWithdrawal are the only mutators
// and preserve it.
type Scholarship struct {
	ID             uint64     `json:"id"`
	Owner          uuid.UUID  `json:"owner"`
	Metadata       string     `json:"metadata"`
	Balance        uint64     `json:"balance"`
	TotalFunded    uint64     `json:"total_funded"`
	TotalWithdrawn uint64     `json:"total_withdrawn"`
	Frozen         bool       `json:"frozen"`
	FrozenOverride *bool      `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewScholarship creates a Scholarship with the given id, owner and metadata.
// Every new scholarship starts Active regardless of anything else; a record
// with zero ratings must never report frozen.
func NewScholarship(id uint64, owner uuid.UUID, metadata string) (*Scholarship, error) {
	s := &Scholarship{
		ID:        id,
		Owner:     owner,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks structural validity of the record. Metadata content is
// opaque and deliberately not inspected beyond non-emptiness.
func (s *Scholarship) Validate() error {
	if s.Owner == uuid.Nil {
		return ErrOwnerEmpty
	}
	if s.Metadata == "" {
		return ErrMetadataEmpty
	}
	return nil
}

// ApplyFunding credits amount to the balance and the cumulative funded total.
// A zero amount is an error here; the asymmetry with withdrawal is
// deliberate. Overflow of either field rejects the update with both fields
// untouched.
func (s *Scholarship) ApplyFunding(amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	if s.Frozen {
		return ErrFrozen
	}
	balance, err := CheckedAdd(s.Balance, amount)
	if err != nil {
		return err
	}
	funded, err := CheckedAdd(s.TotalFunded, amount)
	if err != nil {
		return err
	}
	s.Balance = balance
	s.TotalFunded = funded
	return nil
}

// ApplyWithdrawal debits the gross amount from the balance and adds it to the
// cumulative withdrawn total. amount must already have been checked against
// the live balance; this re-checks so a stale caller cannot drive the balance
// negative.
func (s *Scholarship) ApplyWithdrawal(amount uint64) error {
	if s.Frozen {
		return ErrFrozen
	}
	if amount > s.Balance {
		return ErrAmountExceedsBalance
	}
	withdrawn, err := CheckedAdd(s.TotalWithdrawn, amount)
	if err != nil {
		return err
	}
	s.Balance -= amount
	s.TotalWithdrawn = withdrawn
	return nil
}

// HasEnoughBalance reports whether the scholarship currently holds at least
// amount.
func (s *Scholarship) HasEnoughBalance(amount uint64) bool {
	return s.Balance >= amount
}
