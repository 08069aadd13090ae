package service

import (
	"context"

	"github.com/xuri/excelize/v2"

	"classlib-backend/internal/domains/item/model"
)

// ServiceInterface serves the item projection.
type ServiceInterface interface {
	ListItems(ctx context.Context, req model.ListItemsRequest) ([]model.ItemView, error)
	GetItem(ctx context.Context, id int64) (*model.Item, error)

	// ExportItemsToExcel builds a workbook that can be re-imported as an
	// items file.
	ExportItemsToExcel(ctx context.Context, req model.ListItemsRequest) (*excelize.File, error)
}
