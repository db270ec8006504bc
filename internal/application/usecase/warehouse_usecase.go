package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

// WarehouseUseCase lectura del maestro de bodegas para los selectores del tablero.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// List devuelve las bodegas. Con onlyActive se omiten las inactivas.
func (uc *WarehouseUseCase) List(ctx context.Context, onlyActive bool) (*dto.WarehouseListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar bodegas: %w", err)
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for i := range list {
		if onlyActive && !list[i].Active {
			continue
		}
		items = append(items, toWarehouseResponse(&list[i]))
	}
	return &dto.WarehouseListResponse{Items: items}, nil
}

func toWarehouseResponse(w *entity.Warehouse) dto.WarehouseResponse {
	return dto.WarehouseResponse{
		ID:       w.ID,
		Code:     w.Code,
		Name:     w.Name,
		AliasRef: w.AliasRef,
		Active:   w.Active,
	}
}
