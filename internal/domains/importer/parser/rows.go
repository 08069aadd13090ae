package parser

import (
	"fmt"

	"classlib-backend/internal/domains/importer/model"
)

// Column aliases. The first name of each list is the canonical header.
var (
	colBorrowerName   = []string{"name", "student", "student_name"}
	colClassification = []string{"classification", "class_id", "class"}

	colItemID       = []string{"id"}
	colItemTitle    = []string{"title"}
	colItemAuthor   = []string{"author"}
	colItemISBN     = []string{"isbn"}
	colItemGenre    = []string{"genre"}
	colItemBorrower = []string{"borrower", "student_name"}
)

// rowNumber maps a data record index to its file line: 1-based plus header.
func rowNumber(index int) int {
	return index + 2
}

// BorrowerRows maps a table to borrower rows.
func BorrowerRows(t *Table) ([]model.BorrowerRow, error) {
	if !t.HasColumn(colBorrowerName...) {
		return nil, fmt.Errorf("%w: %s", model.ErrMissingColumn, colBorrowerName[0])
	}

	rows := make([]model.BorrowerRow, 0, len(t.Records))
	for i, rec := range t.Records {
		rows = append(rows, model.BorrowerRow{
			Row:            rowNumber(i),
			Name:           t.Cell(rec, colBorrowerName...),
			Classification: t.OptionalCell(rec, colClassification...),
		})
	}
	return rows, nil
}

// ItemRows maps a table to item rows.
func ItemRows(t *Table) ([]model.ItemRow, error) {
	for _, col := range [][]string{colItemTitle, colItemAuthor} {
		if !t.HasColumn(col...) {
			return nil, fmt.Errorf("%w: %s", model.ErrMissingColumn, col[0])
		}
	}

	rows := make([]model.ItemRow, 0, len(t.Records))
	for i, rec := range t.Records {
		rows = append(rows, model.ItemRow{
			Row:      rowNumber(i),
			ID:       t.OptionalCell(rec, colItemID...),
			Title:    t.Cell(rec, colItemTitle...),
			Author:   t.Cell(rec, colItemAuthor...),
			ISBN:     t.OptionalCell(rec, colItemISBN...),
			Genre:    t.OptionalCell(rec, colItemGenre...),
			Borrower: t.OptionalCell(rec, colItemBorrower...),
		})
	}
	return rows, nil
}
