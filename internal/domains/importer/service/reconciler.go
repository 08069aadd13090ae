package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	borrowerModel "classlib-backend/internal/domains/borrower/model"
	borrowerService "classlib-backend/internal/domains/borrower/service"
	"classlib-backend/internal/domains/importer/model"
	itemModel "classlib-backend/internal/domains/item/model"
	itemRepo "classlib-backend/internal/domains/item/repository"
	"classlib-backend/pkg/database"
)

// savepointFunc isolates one row so a failing statement does not abort the
// whole batch.
type savepointFunc func(ctx context.Context, tx pgx.Tx, fn database.TxFunc) error

type reconciler struct {
	tx        database.Transactor
	resolver  borrowerService.Resolver
	items     itemRepo.RepositoryInterface
	savepoint savepointFunc
}

func NewReconciler(
	tx database.Transactor,
	resolver borrowerService.Resolver,
	items itemRepo.RepositoryInterface,
) Reconciler {
	return &reconciler{
		tx:        tx,
		resolver:  resolver,
		items:     items,
		savepoint: database.InSavepoint,
	}
}

// ========================================
// BORROWERS
// ========================================

// ImportBorrowers implements Reconciler.ImportBorrowers
//
// Rows are upserted in name order so two concurrent imports lock borrower
// rows in the same order.
func (r *reconciler) ImportBorrowers(ctx context.Context, rows []model.BorrowerRow) (*model.ImportResult, error) {
	var (
		rejected []model.RowError
		valid    []model.BorrowerRow
	)
	for _, row := range rows {
		row.Name = borrowerModel.NormalizeName(row.Name)
		row.Classification = borrowerModel.NormalizeClassification(row.Classification)
		if err := row.Validate(); err != nil {
			rejected = append(rejected, model.RowError{Row: row.Row, Message: err.Error()})
			continue
		}
		valid = append(valid, row)
	}

	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Name < valid[j].Name })

	result, err := database.WithTransactionResult(ctx, r.tx, func(ctx context.Context, tx pgx.Tx) (*model.ImportResult, error) {
		result := newResult(rejected)

		for _, row := range valid {
			var res borrowerModel.Resolution
			err := r.savepoint(ctx, tx, func(ctx context.Context, sp pgx.Tx) error {
				var err error
				res, err = r.resolver.ResolveOrCreate(ctx, sp, row.Name, row.Classification)
				return err
			})
			if err != nil {
				if !isRowError(err) {
					return nil, err
				}
				result.Errors = append(result.Errors, model.RowError{Row: row.Row, Message: rowMessage(err)})
				continue
			}
			result.Count(res.Inserted)
		}

		return result, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import borrowers: %w", err)
	}

	result.SortErrors()
	log.Info().
		Int("rows", len(rows)).
		Int("inserted", result.InsertedCount).
		Int("updated", result.UpdatedCount).
		Int("errors", len(result.Errors)).
		Msg("Borrowers imported")

	return result, nil
}

// ========================================
// ITEMS
// ========================================

type itemRow struct {
	model.ItemRow
	id *int64 // nil: allocate
}

// ImportItems implements Reconciler.ImportItems
//
// Lock order: id allocation lock, referenced borrowers by name, then items.
func (r *reconciler) ImportItems(ctx context.Context, rows []model.ItemRow) (*model.ImportResult, error) {
	var (
		rejected []model.RowError
		valid    []itemRow
	)
	for _, row := range rows {
		parsed, err := prepareItemRow(row)
		if err != nil {
			rejected = append(rejected, model.RowError{Row: row.Row, Message: err.Error()})
			continue
		}
		valid = append(valid, parsed)
	}

	borrowerNames := referencedBorrowers(valid)

	result, err := database.WithTransactionResult(ctx, r.tx, func(ctx context.Context, tx pgx.Tx) (*model.ImportResult, error) {
		result := newResult(rejected)

		if err := r.items.LockIDAllocation(ctx, tx); err != nil {
			return nil, err
		}

		failedBorrowers := make(map[string]string)
		for _, name := range borrowerNames {
			err := r.savepoint(ctx, tx, func(ctx context.Context, sp pgx.Tx) error {
				_, err := r.resolver.ResolveOrCreate(ctx, sp, name, nil)
				return err
			})
			if err != nil {
				if !isRowError(err) {
					return nil, err
				}
				failedBorrowers[name] = rowMessage(err)
			}
		}

		alloc := &idAllocator{items: r.items}
		for _, row := range valid {
			if row.Borrower != nil {
				if msg, failed := failedBorrowers[*row.Borrower]; failed {
					result.Errors = append(result.Errors, model.RowError{Row: row.Row, Message: "borrower: " + msg})
					continue
				}
			}

			id, err := alloc.next(ctx, tx, row.id)
			if err != nil {
				return nil, err
			}

			var inserted bool
			err = r.savepoint(ctx, tx, func(ctx context.Context, sp pgx.Tx) error {
				var err error
				inserted, err = r.items.Upsert(ctx, sp, itemModel.ItemFields{
					ID:     id,
					Title:  row.Title,
					Author: row.Author,
					ISBN:   row.ISBN,
					Genre:  row.Genre,
				})
				return err
			})
			if err != nil {
				if !isRowError(err) {
					return nil, err
				}
				result.Errors = append(result.Errors, model.RowError{Row: row.Row, Message: rowMessage(err)})
				continue
			}
			result.Count(inserted)
		}

		return result, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import items: %w", err)
	}

	result.SortErrors()
	log.Info().
		Int("rows", len(rows)).
		Int("inserted", result.InsertedCount).
		Int("updated", result.UpdatedCount).
		Int("errors", len(result.Errors)).
		Msg("Items imported")

	return result, nil
}

func prepareItemRow(row model.ItemRow) (itemRow, error) {
	row.Title = strings.TrimSpace(row.Title)
	row.Author = strings.TrimSpace(row.Author)
	row.ID = trimOptional(row.ID)
	row.ISBN = trimOptional(row.ISBN)
	row.Genre = trimOptional(row.Genre)
	row.Borrower = trimOptional(row.Borrower)

	if err := row.Validate(); err != nil {
		return itemRow{}, err
	}

	out := itemRow{ItemRow: row}
	if row.ID != nil {
		id, err := strconv.ParseInt(*row.ID, 10, 64)
		if err != nil || id <= 0 {
			return itemRow{}, fmt.Errorf("id: must be a positive integer, got %q", *row.ID)
		}
		out.id = &id
	}
	return out, nil
}

func referencedBorrowers(rows []itemRow) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, row := range rows {
		if row.Borrower == nil {
			continue
		}
		if _, ok := seen[*row.Borrower]; ok {
			continue
		}
		seen[*row.Borrower] = struct{}{}
		names = append(names, *row.Borrower)
	}
	sort.Strings(names)
	return names
}

// idAllocator hands out max(id)+1, max(id)+2, ... for rows without an id.
// The max is read on first use, under the allocation lock.
type idAllocator struct {
	items  itemRepo.RepositoryInterface
	nextID int64
}

func (a *idAllocator) next(ctx context.Context, tx pgx.Tx, explicit *int64) (int64, error) {
	if explicit != nil {
		if a.nextID != 0 && *explicit >= a.nextID {
			a.nextID = *explicit + 1
		}
		return *explicit, nil
	}

	if a.nextID == 0 {
		maxID, err := a.items.MaxID(ctx, tx)
		if err != nil {
			return 0, err
		}
		a.nextID = maxID + 1
	}

	id := a.nextID
	a.nextID++
	return id, nil
}

// ========================================
// HELPERS
// ========================================

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func newResult(rejected []model.RowError) *model.ImportResult {
	errs := make([]model.RowError, len(rejected), len(rejected)+4)
	copy(errs, rejected)
	return &model.ImportResult{Errors: errs}
}

// isRowError: data errors and validation errors belong to the row, anything
// else fails the call.
func isRowError(err error) bool {
	return database.IsDataError(err) || errors.Is(err, borrowerModel.ErrBlankName)
}

func rowMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return err.Error()
}
