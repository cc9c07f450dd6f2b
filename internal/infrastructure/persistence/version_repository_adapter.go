package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/tenderhub/tender-backend/internal/domain/entity"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
)

type VersionRepositoryAdapter struct {
	db *sqlx.DB
}

func NewVersionRepositoryAdapter(db *sqlx.DB) *VersionRepositoryAdapter {
	return &VersionRepositoryAdapter{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// appendVersionTx вставляет снимок с проверкой непрерывности нумерации:
// версия обязана быть ровно max(version)+1 для заявки, иначе вставка
// не проходит. Дубликаты дополнительно блокирует UNIQUE (proposal_id, version).
func appendVersionTx(ctx context.Context, ex execer, proposalID uuid.UUID, version int, content string, summary *string) error {
	query := `
		INSERT INTO proposal_versions (id, proposal_id, version, content, summary)
		SELECT $1, $2, $3, $4, $5
		WHERE $3 = COALESCE((SELECT MAX(version) FROM proposal_versions WHERE proposal_id = $2), 0) + 1
	`
	res, err := ex.ExecContext(ctx, query, uuid.New(), proposalID, version, content, summary)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось добавить снимок версии")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось добавить снимок версии")
	}
	if affected == 0 {
		return apperror.New(apperror.ErrCodeConflict, "номер версии нарушает последовательность снимков")
	}
	return nil
}

func (r *VersionRepositoryAdapter) Append(ctx context.Context, proposalID uuid.UUID, version int, content string, summary *string) (*entity.ProposalVersion, error) {
	if err := appendVersionTx(ctx, r.db, proposalID, version, content, summary); err != nil {
		return nil, err
	}
	return r.Get(ctx, proposalID, version)
}

func (r *VersionRepositoryAdapter) ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]*entity.ProposalVersion, error) {
	var rows []versionRow
	query := `
		SELECT id, proposal_id, version, content, summary, created_at
		FROM proposal_versions WHERE proposal_id = $1 ORDER BY version DESC
	`
	if err := r.db.SelectContext(ctx, &rows, query, proposalID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить историю версий")
	}
	result := make([]*entity.ProposalVersion, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, nil
}

func (r *VersionRepositoryAdapter) Get(ctx context.Context, proposalID uuid.UUID, version int) (*entity.ProposalVersion, error) {
	var row versionRow
	query := `
		SELECT id, proposal_id, version, content, summary, created_at
		FROM proposal_versions WHERE proposal_id = $1 AND version = $2
	`
	if err := r.db.GetContext(ctx, &row, query, proposalID, version); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ErrVersionNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить версию")
	}
	return row.toEntity(), nil
}

type versionRow struct {
	ID         uuid.UUID `db:"id"`
	ProposalID uuid.UUID `db:"proposal_id"`
	Version    int       `db:"version"`
	Content    string    `db:"content"`
	Summary    *string   `db:"summary"`
	CreatedAt  time.Time `db:"created_at"`
}

func (v *versionRow) toEntity() *entity.ProposalVersion {
	return &entity.ProposalVersion{
		ID:         v.ID,
		ProposalID: v.ProposalID,
		Version:    v.Version,
		Content:    v.Content,
		Summary:    v.Summary,
		CreatedAt:  v.CreatedAt,
	}
}
