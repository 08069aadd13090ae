package repository

import (
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"

	"classlib-backend/internal/domains/item/model"
)

const dialectPostgres = "postgres"

// buildListQuery builds the item projection query for the given filter.
func buildListQuery(filter model.ListItemsRequest) (string, []any, error) {
	stmt := goqu.Dialect(dialectPostgres).
		From(goqu.T("items").As("i")).
		LeftJoin(
			goqu.T("borrowers").As("b"),
			goqu.On(goqu.I("b.id").Eq(goqu.I("i.current_borrower_id"))),
		).
		Select(
			goqu.I("i.id"),
			goqu.I("i.title"),
			goqu.I("i.author"),
			goqu.I("i.isbn"),
			goqu.I("i.genre"),
			goqu.I("i.available"),
			goqu.I("b.name"),
			goqu.I("i.checked_out_at"),
			goqu.I("i.last_returned_at"),
		).
		Order(goqu.I("i.id").Asc()).
		Prepared(true)

	where := make([]exp.Expression, 0, 2)

	if filter.Available != nil {
		where = append(where, goqu.I("i.available").Eq(*filter.Available))
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		where = append(where, goqu.Or(
			goqu.I("i.title").ILike(pattern),
			goqu.I("i.author").ILike(pattern),
			goqu.I("b.name").ILike(pattern),
		))
	}

	if len(where) > 0 {
		stmt = stmt.Where(where...)
	}

	query, args, err := stmt.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build item list query: %w", err)
	}

	return query, args, nil
}

// escapeLike makes % and _ in user input match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
