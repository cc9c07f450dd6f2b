package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/tenderhub/tender-backend/internal/domain/entity"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
)

const companyColumns = `id, owner_user_id, name, description, certifications, experience, created_at, updated_at`

type CompanyRepositoryAdapter struct {
	db *sqlx.DB
}

func NewCompanyRepositoryAdapter(db *sqlx.DB) *CompanyRepositoryAdapter {
	return &CompanyRepositoryAdapter{db: db}
}

func (r *CompanyRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	var row companyRow
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ErrCompanyNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить профиль компании")
	}
	return row.toEntity(), nil
}

func (r *CompanyRepositoryAdapter) FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*entity.Company, error) {
	var row companyRow
	query := `SELECT ` + companyColumns + ` FROM companies WHERE owner_user_id = $1`
	if err := r.db.GetContext(ctx, &row, query, ownerUserID); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ErrCompanyNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить профиль компании")
	}
	return row.toEntity(), nil
}

type companyRow struct {
	ID             uuid.UUID      `db:"id"`
	OwnerUserID    uuid.UUID      `db:"owner_user_id"`
	Name           string         `db:"name"`
	Description    string         `db:"description"`
	Certifications pq.StringArray `db:"certifications"`
	Experience     string         `db:"experience"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (c *companyRow) toEntity() *entity.Company {
	return &entity.Company{
		ID:             c.ID,
		OwnerUserID:    c.OwnerUserID,
		Name:           c.Name,
		Description:    c.Description,
		Certifications: c.Certifications,
		Experience:     c.Experience,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
