package domain

import (
	"context"
	"database/sql"
	"time"
)

//go:generate mockgen -destination mocks/mock_service_repository.go -package mocks github.com/careops/careops/internal/domain ServiceRepository

// ServiceOffering is a bookable service. Duration is in minutes.
type ServiceOffering struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Duration    int       `json:"duration"`
	Price       *float64  `json:"price,omitempty"`
	Location    string    `json:"location,omitempty"`
	Slug        string    `json:"slug"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type ServiceRepository interface {
	Create(ctx context.Context, service *ServiceOffering) error
	CreateTx(ctx context.Context, tx *sql.Tx, service *ServiceOffering) error
}
