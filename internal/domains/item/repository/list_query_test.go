package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classlib-backend/internal/domains/item/model"
)

func Test_BuildListQuery_NoFilter(t *testing.T) {
	query, args, err := buildListQuery(model.ListItemsRequest{})

	require.NoError(t, err)
	assert.Empty(t, args)
	assert.Contains(t, query, `LEFT JOIN "borrowers" AS "b"`)
	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, `ORDER BY "i"."id" ASC`)
}

func Test_BuildListQuery_AvailableFilter(t *testing.T) {
	available := false

	query, _, err := buildListQuery(model.ListItemsRequest{Available: &available})

	require.NoError(t, err)
	assert.Contains(t, query, "WHERE")
	assert.Contains(t, query, `"i"."available"`)
}

func Test_BuildListQuery_SearchIsBoundNotInlined(t *testing.T) {
	query, args, err := buildListQuery(model.ListItemsRequest{Query: " O'Brien "})

	require.NoError(t, err)
	assert.NotContains(t, query, "O'Brien")
	assert.Contains(t, query, "ILIKE $1")
	assert.Equal(t, []any{"%O'Brien%", "%O'Brien%", "%O'Brien%"}, args)
}

func Test_EscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\x`, escapeLike(`c:\x`))
}
