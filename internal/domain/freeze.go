package domain

// FreezeThreshold is the weighted-average score (2-decimal fixed point) below
// which a rated scholarship is frozen. The comparison is strict: an average
// of exactly 300 (3.00) stays Active.
const FreezeThreshold = 300

// ShouldBeFrozen derives the freeze state implied by the rating aggregate.
// A scholarship with zero ratings is never frozen.
func ShouldBeFrozen(a *RatingAggregate) bool {
	return a.RatingCount > 0 && a.WeightedAverage() < FreezeThreshold
}

// ResolveFreeze applies an automatic evaluation to the scholarship: the
// score-derived value always wins and any manual override is cleared. A
// manual override is immediate but non-sticky, and this is the single place
// that contract is enforced. Returns true when the persisted flag actually
// flipped, so callers can suppress redundant status-change notifications.
func ResolveFreeze(s *Scholarship, a *RatingAggregate) (changed bool) {
	derived := ShouldBeFrozen(a)
	changed = s.Frozen != derived
	s.Frozen = derived
	s.FrozenOverride = nil
	return changed
}

// OverrideFreeze applies an administrative override. The override takes
// effect immediately but the next automatic evaluation overwrites it with the
// score-implied value.
func OverrideFreeze(s *Scholarship, frozen bool) (changed bool) {
	changed = s.Frozen != frozen
	s.Frozen = frozen
	v := frozen
	s.FrozenOverride = &v
	return changed
}
