package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	borrowerRepo "classlib-backend/internal/domains/borrower/repository"
	borrowerService "classlib-backend/internal/domains/borrower/service"
	"classlib-backend/internal/domains/importer/model"
	itemRepo "classlib-backend/internal/domains/item/repository"
	"classlib-backend/internal/testutil"
)

func newIntegrationReconciler(t *testing.T) (Reconciler, *pgxpool.Pool) {
	db := testutil.NewPostgres(t)
	r := NewReconciler(
		db.TxManager(),
		borrowerService.NewResolver(borrowerRepo.NewRepository(db.Pool)),
		itemRepo.NewRepository(db.Pool),
	)
	return r, db.Pool
}

func Test_Integration_ImportBorrowers_MergeNeverErases(t *testing.T) {
	r, pool := newIntegrationReconciler(t)
	ctx := context.Background()

	first, err := r.ImportBorrowers(ctx, []model.BorrowerRow{{Row: 2, Name: "Ana", Classification: strPtr("C1")}})
	require.NoError(t, err)
	assert.Equal(t, 1, first.InsertedCount)

	second, err := r.ImportBorrowers(ctx, []model.BorrowerRow{{Row: 2, Name: "Ana"}})
	require.NoError(t, err)
	assert.Equal(t, 1, second.UpdatedCount)

	var cls *string
	require.NoError(t, pool.QueryRow(ctx, `SELECT classification FROM borrowers WHERE name = 'Ana'`).Scan(&cls))
	require.NotNil(t, cls)
	assert.Equal(t, "C1", *cls)
}

func Test_Integration_ImportItems_AllocatesFromMax(t *testing.T) {
	r, pool := newIntegrationReconciler(t)
	ctx := context.Background()

	_, err := r.ImportItems(ctx, []model.ItemRow{{Row: 2, ID: strPtr("9"), Title: "Nine", Author: "A"}})
	require.NoError(t, err)

	result, err := r.ImportItems(ctx, []model.ItemRow{
		{Row: 2, Title: "Ten", Author: "A"},
		{Row: 3, Title: "", Author: "A"},
		{Row: 4, Title: "Eleven", Author: "A"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.InsertedCount)
	assert.Equal(t, 0, result.UpdatedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)

	var titles []string
	rows, err := pool.Query(ctx, `SELECT title FROM items WHERE id IN (10, 11) ORDER BY id`)
	require.NoError(t, err)
	for rows.Next() {
		var title string
		require.NoError(t, rows.Scan(&title))
		titles = append(titles, title)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"Ten", "Eleven"}, titles)
}

func Test_Integration_ImportItems_ReimportKeepsLoanState(t *testing.T) {
	r, pool := newIntegrationReconciler(t)
	ctx := context.Background()

	_, err := r.ImportItems(ctx, []model.ItemRow{{Row: 2, ID: strPtr("1"), Title: "Dune", Author: "Herbert", Borrower: strPtr("Ana")}})
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `
		UPDATE items SET available = FALSE, checked_out_at = now(),
			current_borrower_id = (SELECT id FROM borrowers WHERE name = 'Ana')
		WHERE id = 1`)
	require.NoError(t, err)

	result, err := r.ImportItems(ctx, []model.ItemRow{{Row: 2, ID: strPtr("1"), Title: "Dune II", Author: "Herbert"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.UpdatedCount)

	var (
		title     string
		available bool
	)
	require.NoError(t, pool.QueryRow(ctx, `SELECT title, available FROM items WHERE id = 1`).Scan(&title, &available))
	assert.Equal(t, "Dune II", title)
	assert.False(t, available)
}

func Test_Integration_ImportItems_ConcurrentAllocationsDoNotCollide(t *testing.T) {
	r, pool := newIntegrationReconciler(t)
	ctx := context.Background()

	const imports, perImport = 4, 5
	var wg sync.WaitGroup
	errs := make([]error, imports)
	for i := 0; i < imports; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rows := make([]model.ItemRow, perImport)
			for j := range rows {
				rows[j] = model.ItemRow{Row: j + 2, Title: fmt.Sprintf("T%d-%d", i, j), Author: "A"}
			}
			res, err := r.ImportItems(ctx, rows)
			if err == nil && res.InsertedCount != perImport {
				err = fmt.Errorf("import %d inserted %d", i, res.InsertedCount)
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM items`).Scan(&count))
	assert.Equal(t, imports*perImport, count)
}
