package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"concoin/events"
	"concoin/models"

	log "github.com/sirupsen/logrus"
)

// CreditConfig carries the injectable parameters of the daily credit
// job; tests construct it with arbitrary amounts and zones.
type CreditConfig struct {
	// Amount credited to every registered user per calendar day
	Amount int64

	// Location determines which calendar day "now" falls on
	Location *time.Location
}

type dailyCreditService struct {
	uowFactory UnitOfWorkFactory
	cfg        CreditConfig

	// Held while a run is active; TryLock keeps overlapping trigger
	// firings from queueing up behind each other.
	running sync.Mutex
}

// NewDailyCreditService creates a new daily credit service
func NewDailyCreditService(uowFactory UnitOfWorkFactory, cfg CreditConfig) DailyCreditService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &dailyCreditService{
		uowFactory: uowFactory,
		cfg:        cfg,
	}
}

// Run credits every registered user the configured amount for now's
// calendar day. The bulk credit and the run-date marker commit in the
// same transaction, and the marker's unique constraint makes the run
// exactly-once per day even if the trigger fires twice.
func (s *dailyCreditService) Run(ctx context.Context, now time.Time) (*models.CreditRun, error) {
	if !s.running.TryLock() {
		log.Warn("Daily credit trigger fired while a run is still active, skipping")
		return nil, ErrCreditRunInProgress
	}
	defer s.running.Unlock()

	day := now.In(s.cfg.Location)
	log.WithField("date", day.Format("2006-01-02")).Info("Running daily credit job")

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Cheap skip for the common re-fire case; the Create below is the
	// authoritative guard.
	existing, err := uow.CreditRunRepository().GetByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing credit run: %w", err)
	}
	if existing != nil {
		log.WithFields(log.Fields{
			"date":          existing.RunDate.Format("2006-01-02"),
			"usersCredited": existing.UsersCredited,
		}).Info("Daily credit already applied for this date, skipping")
		return nil, fmt.Errorf("%w: %s", ErrAlreadyCredited, day.Format("2006-01-02"))
	}

	ids, err := uow.UserRepository().ListAllIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}

	credited := 0
	if len(ids) > 0 {
		credited, err = uow.UserRepository().BulkCredit(ctx, ids, s.cfg.Amount)
		if err != nil {
			return nil, fmt.Errorf("failed to bulk credit users: %w", err)
		}
	}

	run := &models.CreditRun{
		RunDate:       day,
		Amount:        s.cfg.Amount,
		UsersCredited: credited,
	}
	if err := uow.CreditRunRepository().Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record credit run: %w", err)
	}

	uow.EventBus().Publish(events.DailyCreditAppliedEvent{
		RunDate:       run.RunDate,
		Amount:        run.Amount,
		UsersCredited: run.UsersCredited,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"amount":        run.Amount,
		"usersCredited": run.UsersCredited,
	}).Info("Daily credit job completed")

	return run, nil
}
