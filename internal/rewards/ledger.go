package rewards

// GlossaryViewXP is the reward for opening a glossary term for the first time.
const GlossaryViewXP = 10

// Ledger is one user's reward state. It is a value: operations return the
// next ledger instead of mutating the receiver, so a caller holding an older
// ledger never observes a half-applied award.
type Ledger struct {
	Viewed     map[string]bool `json:"viewed"`
	TotalXP    int             `json:"total_xp"`
	GlossaryXP int             `json:"glossary_xp"`
}

// Award is the outcome of a reward attempt.
type Award struct {
	Awarded  bool `json:"awarded"`
	XPEarned int  `json:"xp_earned"`
	TotalXP  int  `json:"total_xp"`
}

// HasViewed reports whether termID has already earned its reward.
func (l Ledger) HasViewed(termID string) bool {
	return l.Viewed[termID]
}

// ViewedCount returns the number of rewarded terms.
func (l Ledger) ViewedCount() int {
	return len(l.Viewed)
}

// AwardIfFirstView grants GlossaryViewXP the first time termID is seen.
// A repeat call returns Awarded false and the ledger unchanged.
func (l Ledger) AwardIfFirstView(termID string) (Ledger, Award) {
	return l.AwardIfFirstViewXP(termID, GlossaryViewXP)
}

// AwardIfFirstViewXP is AwardIfFirstView with a configurable increment.
func (l Ledger) AwardIfFirstViewXP(termID string, xp int) (Ledger, Award) {
	if l.Viewed[termID] {
		return l, Award{TotalXP: l.TotalXP}
	}

	viewed := make(map[string]bool, len(l.Viewed)+1)
	for id := range l.Viewed {
		viewed[id] = true
	}
	viewed[termID] = true

	next := Ledger{
		Viewed:     viewed,
		TotalXP:    l.TotalXP + xp,
		GlossaryXP: l.GlossaryXP + xp,
	}
	return next, Award{Awarded: true, XPEarned: xp, TotalXP: next.TotalXP}
}
