package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/tenderhub/tender-backend/internal/domain/entity"
	"github.com/tenderhub/tender-backend/internal/domain/repository"
	"github.com/tenderhub/tender-backend/internal/domain/valueobject"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
)

const tenderColumns = `id, reference, title, description, category, requirements, budget, deadline, status, created_at, updated_at`

type TenderRepositoryAdapter struct {
	db *sqlx.DB
}

func NewTenderRepositoryAdapter(db *sqlx.DB) *TenderRepositoryAdapter {
	return &TenderRepositoryAdapter{db: db}
}

func (r *TenderRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Tender, error) {
	var row tenderRow
	query := `SELECT ` + tenderColumns + ` FROM tenders WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ErrTenderNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить тендер")
	}
	return row.toEntity(), nil
}

func (r *TenderRepositoryAdapter) List(ctx context.Context, filter repository.TenderFilter) ([]*entity.Tender, int, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `SELECT ` + tenderColumns + ` FROM tenders WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM tenders WHERE 1=1`
	args := []interface{}{}
	countArgs := []interface{}{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		countArgs = append(countArgs, filter.Category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
		countQuery += fmt.Sprintf(` AND category = $%d`, len(countArgs))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		countArgs = append(countArgs, "%"+filter.Query+"%")
		query += fmt.Sprintf(` AND (title ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
		countQuery += fmt.Sprintf(` AND (title ILIKE $%d OR description ILIKE $%d)`, len(countArgs), len(countArgs))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать тендеры")
	}

	args = append(args, limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	var rows []tenderRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить тендеры")
	}

	result := make([]*entity.Tender, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, total, nil
}

type tenderRow struct {
	ID           uuid.UUID      `db:"id"`
	Reference    string         `db:"reference"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	Category     string         `db:"category"`
	Requirements pq.StringArray `db:"requirements"`
	Budget       *float64       `db:"budget"`
	Deadline     *time.Time     `db:"deadline"`
	Status       string         `db:"status"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (t *tenderRow) toEntity() *entity.Tender {
	return &entity.Tender{
		ID:           t.ID,
		Reference:    t.Reference,
		Title:        t.Title,
		Description:  t.Description,
		Category:     t.Category,
		Requirements: t.Requirements,
		Budget:       t.Budget,
		Deadline:     t.Deadline,
		Status:       valueobject.TenderStatus(t.Status),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
