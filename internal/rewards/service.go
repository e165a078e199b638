package rewards

import (
	"context"

	"go.uber.org/zap"
)

// DefaultUserID is used when a request does not name a user.
const DefaultUserID = "default_user"

// Service applies awards to the stored ledger and reports them.
type Service struct {
	store    *Store
	reporter *Reporter
	xp       int
	logger   *zap.Logger
}

// NewService creates a rewards service. xp <= 0 selects GlossaryViewXP.
// reporter may be nil.
func NewService(store *Store, reporter *Reporter, xp int, logger *zap.Logger) *Service {
	if xp <= 0 {
		xp = GlossaryViewXP
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, reporter: reporter, xp: xp, logger: logger.Named("rewards")}
}

// Store returns the underlying store.
func (s *Service) Store() *Store { return s.store }

// RecordTermView awards the glossary XP for termID if userID has not seen it
// yet and queues a report of the award.
func (s *Service) RecordTermView(ctx context.Context, userID, termID, termName string) (Award, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	award, err := s.store.AwardGlossaryView(ctx, userID, termID, s.xp)
	if err != nil {
		return Award{}, err
	}
	if award.Awarded {
		s.logger.Debug("glossary xp awarded",
			zap.String("user_id", userID), zap.String("term_id", termID), zap.Int("total_xp", award.TotalXP))
		s.reporter.Report(Event{UserID: userID, TermID: termID, TermName: termName, XPEarned: award.XPEarned})
	}
	return award, nil
}
