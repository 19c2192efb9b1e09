package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careops/careops/internal/domain"
)

type serviceRepository struct {
	systemDB *sql.DB
}

// NewServiceRepository creates a repository for bookable services
func NewServiceRepository(db *sql.DB) domain.ServiceRepository {
	return &serviceRepository{systemDB: db}
}

func (r *serviceRepository) Create(ctx context.Context, service *domain.ServiceOffering) error {
	return r.create(ctx, r.systemDB, service)
}

func (r *serviceRepository) CreateTx(ctx context.Context, tx *sql.Tx, service *domain.ServiceOffering) error {
	return r.create(ctx, tx, service)
}

func (r *serviceRepository) create(ctx context.Context, db execer, service *domain.ServiceOffering) error {
	if service.WorkspaceID == "" {
		return fmt.Errorf("service workspace id is required")
	}
	if service.ID == "" {
		service.ID = uuid.New().String()
	}
	service.CreatedAt = time.Now().UTC()

	var price interface{}
	if service.Price != nil {
		price = *service.Price
	}

	query, args, err := psql.
		Insert("services").
		Columns("id", "workspace_id", "name", "duration", "price", "location", "slug", "is_active", "created_at").
		Values(
			service.ID, service.WorkspaceID, service.Name, service.Duration, price,
			service.Location, service.Slug, service.IsActive, service.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	return nil
}
