package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tenderhub/tender-backend/internal/domain/entity"
)

type TenderFilter struct {
	Category string
	Query    string
	Limit    int
	Offset   int
}

// TenderRepository - чтение тендеров (CRUD ведёт внешняя система).
type TenderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Tender, error)
	List(ctx context.Context, filter TenderFilter) ([]*entity.Tender, int, error)
}

// CompanyRepository - чтение профилей компаний (CRUD ведёт внешняя система).
type CompanyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Company, error)
	FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*entity.Company, error)
}
