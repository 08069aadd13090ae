package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"classlib-backend/internal/domains/item/model"
	"classlib-backend/internal/domains/item/repository"
)

const (
	exportSheetName  = "Items"
	exportTimeLayout = "2006-01-02 15:04:05"
)

// exportHeaders: the first five match the import column names.
var exportHeaders = []string{
	"id",
	"title",
	"author",
	"isbn",
	"genre",
	"available",
	"borrower",
	"checked_out_at",
	"last_returned_at",
}

type ItemService struct {
	repo repository.RepositoryInterface
}

func NewItemService(repo repository.RepositoryInterface) ServiceInterface {
	return &ItemService{repo: repo}
}

func (s *ItemService) ListItems(ctx context.Context, req model.ListItemsRequest) ([]model.ItemView, error) {
	return s.repo.List(ctx, req)
}

func (s *ItemService) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	if id <= 0 {
		return nil, model.ErrInvalidItemID
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ItemService) ExportItemsToExcel(ctx context.Context, req model.ListItemsRequest) (*excelize.File, error) {
	items, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	f, err := buildItemsExcelFile(items)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}

	return f, nil
}

func buildItemsExcelFile(items []model.ItemView) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, err
	}

	// Row 1: Header
	for colIdx, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		lastCell, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheetName, "A1", lastCell, headerStyle)
	}

	// Data rows, bắt đầu từ row 2
	for i, it := range items {
		row := []interface{}{
			it.ID,
			it.Title,
			it.Author,
			deref(it.ISBN),
			deref(it.Genre),
			it.Available,
			deref(it.BorrowerName),
			formatTime(it.CheckedOutAt),
			formatTime(it.LastReturnedAt),
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportTimeLayout)
}
