package repository

import (
	"context"
	"database/sql"

	"github.com/careops/careops/internal/domain"
)

type onboardingStore struct {
	workspaceRepo domain.WorkspaceRepository
	serviceRepo   domain.ServiceRepository
	inventoryRepo domain.InventoryRepository
}

// NewOnboardingStore pairs wizard inserts with the high-water mark update
// so both commit or neither does
func NewOnboardingStore(
	workspaceRepo domain.WorkspaceRepository,
	serviceRepo domain.ServiceRepository,
	inventoryRepo domain.InventoryRepository,
) domain.OnboardingStore {
	return &onboardingStore{
		workspaceRepo: workspaceRepo,
		serviceRepo:   serviceRepo,
		inventoryRepo: inventoryRepo,
	}
}

func (s *onboardingStore) InsertServiceAndAdvance(ctx context.Context, service *domain.ServiceOffering, mark int) error {
	return s.workspaceRepo.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := s.serviceRepo.CreateTx(ctx, tx, service); err != nil {
			return err
		}
		return s.workspaceRepo.AdvanceOnboardingTx(ctx, tx, service.WorkspaceID, mark)
	})
}

func (s *onboardingStore) InsertInventoryAndAdvance(ctx context.Context, item *domain.InventoryItem, mark int) error {
	return s.workspaceRepo.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := s.inventoryRepo.CreateTx(ctx, tx, item); err != nil {
			return err
		}
		return s.workspaceRepo.AdvanceOnboardingTx(ctx, tx, item.WorkspaceID, mark)
	})
}
