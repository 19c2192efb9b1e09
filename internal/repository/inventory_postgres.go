package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careops/careops/internal/domain"
)

type inventoryRepository struct {
	systemDB *sql.DB
}

func NewInventoryRepository(db *sql.DB) domain.InventoryRepository {
	return &inventoryRepository{systemDB: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	return r.create(ctx, r.systemDB, item)
}

func (r *inventoryRepository) CreateTx(ctx context.Context, tx *sql.Tx, item *domain.InventoryItem) error {
	return r.create(ctx, tx, item)
}

func (r *inventoryRepository) create(ctx context.Context, db execer, item *domain.InventoryItem) error {
	if item.WorkspaceID == "" {
		return fmt.Errorf("inventory workspace id is required")
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = time.Now().UTC()

	query, args, err := psql.
		Insert("inventory").
		Columns("id", "workspace_id", "item_name", "quantity", "low_stock_threshold", "sku", "created_at").
		Values(item.ID, item.WorkspaceID, item.ItemName, item.Quantity, item.LowStockThreshold, item.SKU, item.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}

	return nil
}
