package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

// ProductUseCase búsqueda y consulta de productos para los reportes.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Search busca productos por nombre o código de barras.
func (uc *ProductUseCase) Search(ctx context.Context, in dto.ProductSearchRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.Search(ctx, strings.TrimSpace(in.Search), in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("buscar productos: %w", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for i := range list {
		items = append(items, toProductResponse(&list[i]))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id es requerido", domain.ErrInvalidInput)
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	out := toProductResponse(p)
	return &out, nil
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:       p.ID,
		Barcode:  p.Barcode,
		Name:     p.Name,
		Category: p.Category,
		UOM:      p.UOM,
		Active:   p.Active,
	}
}
