package service

import (
	"context"
	"fmt"

	"concoin/events"
	"concoin/models"
)

type transferService struct {
	uowFactory UnitOfWorkFactory
}

// NewTransferService creates a new transfer service
func NewTransferService(uowFactory UnitOfWorkFactory) TransferService {
	return &transferService{
		uowFactory: uowFactory,
	}
}

// Transfer debits the sender and credits the recipient inside one
// transaction: either both mutations commit or neither does. The
// sufficiency check rides on the conditional debit, so two transfers
// racing on the same source cannot overdraw it.
func (s *transferService) Transfer(ctx context.Context, fromUserID, toUserID int64, amount int64) (*models.TransferResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}
	if fromUserID == toUserID {
		return nil, ErrSelfTransfer
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	fromUser, err := uow.UserRepository().GetByID(ctx, fromUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sender: %w", err)
	}
	if fromUser == nil {
		return nil, fmt.Errorf("%w: sender %d", ErrUserNotFound, fromUserID)
	}

	toUser, err := uow.UserRepository().GetByID(ctx, toUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}
	if toUser == nil {
		return nil, fmt.Errorf("%w: recipient %d", ErrUserNotFound, toUserID)
	}

	if err := uow.UserRepository().DeductBalance(ctx, fromUserID, amount); err != nil {
		return nil, fmt.Errorf("failed to deduct transfer amount: %w", err)
	}

	if err := uow.UserRepository().AddBalance(ctx, toUserID, amount); err != nil {
		return nil, fmt.Errorf("failed to add transfer amount: %w", err)
	}

	newFromBalance, err := uow.UserRepository().GetBalance(ctx, fromUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to read sender balance: %w", err)
	}

	// Flushed only after the commit below succeeds
	uow.EventBus().Publish(events.TransferCompletedEvent{
		FromUserID:     fromUserID,
		FromName:       fromUser.DisplayName,
		ToUserID:       toUserID,
		ToName:         toUser.DisplayName,
		Amount:         amount,
		NewFromBalance: newFromBalance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TransferResult{
		Amount:        amount,
		RecipientID:   toUserID,
		RecipientName: toUser.DisplayName,
		NewBalance:    newFromBalance,
	}, nil
}
