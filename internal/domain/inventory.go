package domain

import (
	"context"
	"database/sql"
	"time"
)

//go:generate mockgen -destination mocks/mock_inventory_repository.go -package mocks github.com/careops/careops/internal/domain InventoryRepository

type InventoryItem struct {
	ID                string    `json:"id"`
	WorkspaceID       string    `json:"workspace_id"`
	ItemName          string    `json:"item_name"`
	Quantity          int       `json:"quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	SKU               string    `json:"sku"`
	CreatedAt         time.Time `json:"created_at"`
}

type InventoryRepository interface {
	Create(ctx context.Context, item *InventoryItem) error
	CreateTx(ctx context.Context, tx *sql.Tx, item *InventoryItem) error
}
