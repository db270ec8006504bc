package repository

import (
	"context"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// ProductRepository define el puerto de lectura para Product (DIP).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Search(ctx context.Context, term string, limit, offset int) ([]entity.Product, error)
}
