package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"classlib-backend/internal/domains/borrower/model"
	"classlib-backend/internal/domains/borrower/repository"
)

type resolver struct {
	repo repository.RepositoryInterface
}

func NewResolver(repo repository.RepositoryInterface) Resolver {
	return &resolver{repo: repo}
}

func (r *resolver) ResolveOrCreate(ctx context.Context, tx pgx.Tx, name string, classification *string) (model.Resolution, error) {
	name = model.NormalizeName(name)
	if name == "" {
		return model.Resolution{}, model.ErrBlankName
	}

	return r.repo.Upsert(ctx, tx, name, model.NormalizeClassification(classification))
}
