package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	borrowerService "classlib-backend/internal/domains/borrower/service"
	"classlib-backend/internal/domains/circulation/model"
	"classlib-backend/internal/domains/circulation/repository"
	itemModel "classlib-backend/internal/domains/item/model"
	itemRepo "classlib-backend/internal/domains/item/repository"
	"classlib-backend/internal/shared"
	"classlib-backend/pkg/clock"
	"classlib-backend/pkg/database"
)

type CirculationService struct {
	tx       database.Transactor
	clock    clock.Clock
	resolver borrowerService.Resolver
	items    itemRepo.RepositoryInterface
	history  repository.HistoryRepository
	roster   RosterInvalidator // optional
}

func NewCirculationService(
	tx database.Transactor,
	clk clock.Clock,
	resolver borrowerService.Resolver,
	items itemRepo.RepositoryInterface,
	history repository.HistoryRepository,
	roster RosterInvalidator,
) ServiceInterface {
	return &CirculationService{
		tx:       tx,
		clock:    clk,
		resolver: resolver,
		items:    items,
		history:  history,
		roster:   roster,
	}
}

// CheckOut implements ServiceInterface.CheckOut
//
// One transaction: upsert borrower (borrower row lock), lock item, verify it
// is available, flip it to checked out. Any failure rolls back the borrower
// upsert too.
func (s *CirculationService) CheckOut(ctx context.Context, itemID int64, req model.CheckoutRequest) error {
	if itemID <= 0 {
		return itemModel.ErrInvalidItemID
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrValidation, err)
	}

	var borrowerID int64
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		borrower, err := s.resolver.ResolveOrCreate(ctx, tx, req.BorrowerName, req.Classification)
		if err != nil {
			return err
		}

		item, err := s.items.LockByID(ctx, tx, itemID)
		if err != nil {
			return err
		}

		if item.IsCheckedOut() {
			return model.ErrItemAlreadyCheckedOut
		}

		// a new loan never starts before the previous one ended
		now := s.clock.Now()
		if item.LastReturnedAt != nil && now.Before(*item.LastReturnedAt) {
			now = *item.LastReturnedAt
		}

		if err := s.items.MarkCheckedOut(ctx, tx, itemID, borrower.ID, now); err != nil {
			return err
		}

		borrowerID = borrower.ID
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Int64("item_id", itemID).
		Int64("borrower_id", borrowerID).
		Msg("Item checked out")

	s.invalidateRoster(ctx, "checkout")
	return nil
}

// Return implements ServiceInterface.Return
func (s *CirculationService) Return(ctx context.Context, itemID int64) (*model.HistoryEntry, error) {
	if itemID <= 0 {
		return nil, itemModel.ErrInvalidItemID
	}

	entry, err := database.WithTransactionResult(ctx, s.tx, func(ctx context.Context, tx pgx.Tx) (*model.HistoryEntry, error) {
		item, err := s.items.LockByID(ctx, tx, itemID)
		if err != nil {
			return nil, err
		}

		if !item.IsCheckedOut() || item.CurrentBorrowerID == nil {
			return nil, model.ErrItemNotCheckedOut
		}

		// checked_in_at never precedes checked_out_at
		now := s.clock.Now()
		if item.CheckedOutAt != nil && now.Before(*item.CheckedOutAt) {
			now = *item.CheckedOutAt
		}

		entry, err := s.history.Append(ctx, tx, model.HistoryEntry{
			BorrowerID:   *item.CurrentBorrowerID,
			ItemID:       itemID,
			CheckedOutAt: item.CheckedOutAt,
			CheckedInAt:  now,
			DurationMs:   model.LoanDuration(item.CheckedOutAt, now),
		})
		if err != nil {
			return nil, err
		}

		if err := s.items.MarkReturned(ctx, tx, itemID, now); err != nil {
			return nil, err
		}

		return entry, nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("item_id", itemID).
		Int64("borrower_id", entry.BorrowerID).
		Int64("history_id", entry.ID).
		Msg("Item returned")

	s.invalidateRoster(ctx, "return")
	return entry, nil
}

// ItemHistory implements ServiceInterface.ItemHistory
func (s *CirculationService) ItemHistory(ctx context.Context, itemID int64) ([]model.HistoryEntry, error) {
	if itemID <= 0 {
		return nil, itemModel.ErrInvalidItemID
	}
	return s.history.ListByItem(ctx, itemID)
}

func (s *CirculationService) invalidateRoster(ctx context.Context, reason string) {
	if s.roster == nil {
		return
	}
	s.roster.Invalidate(context.WithoutCancel(ctx), reason)
}
