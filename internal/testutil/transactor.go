// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"

	"github.com/jackc/pgx/v5"

	"classlib-backend/pkg/database"
)

// FakeTransactor runs fn without a database. Repositories are mocked, so
// they receive a nil tx.
type FakeTransactor struct {
	Calls int
}

var _ database.Transactor = (*FakeTransactor)(nil)

func (f *FakeTransactor) WithTx(ctx context.Context, fn database.TxFunc) error {
	f.Calls++
	return fn(ctx, nil)
}

// FixedTx returns the given tx to fn, for repositories that check it.
type FixedTx struct {
	Tx pgx.Tx
}

func (f FixedTx) WithTx(ctx context.Context, fn database.TxFunc) error {
	return fn(ctx, f.Tx)
}
