package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/tenderhub/tender-backend/internal/domain/entity"
	"github.com/tenderhub/tender-backend/internal/domain/valueobject"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
)

const proposalColumns = `id, tender_id, company_id, content, status, version, attestation_ref, created_at, updated_at`

type ProposalRepositoryAdapter struct {
	db *sqlx.DB
}

func NewProposalRepositoryAdapter(db *sqlx.DB) *ProposalRepositoryAdapter {
	return &ProposalRepositoryAdapter{db: db}
}

// Create сохраняет новую заявку вместе с первым снимком в одной транзакции.
func (r *ProposalRepositoryAdapter) Create(ctx context.Context, proposal *entity.Proposal, summary *string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось начать транзакцию")
	}
	defer tx.Rollback()

	query := `
		INSERT INTO proposals (id, tender_id, company_id, content, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, query,
		proposal.ID, proposal.TenderID, proposal.CompanyID, proposal.Content,
		string(proposal.Status), proposal.Version, proposal.CreatedAt, proposal.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать заявку")
	}

	if err := appendVersionTx(ctx, tx, proposal.ID, proposal.Version, proposal.Content, summary); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось зафиксировать транзакцию")
	}
	return nil
}

func (r *ProposalRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error) {
	var row proposalRow
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ErrProposalNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заявку")
	}
	return row.toEntity(), nil
}

func (r *ProposalRepositoryAdapter) FindByTenderAndCompany(ctx context.Context, tenderID, companyID uuid.UUID) (*entity.Proposal, error) {
	var row proposalRow
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE tender_id = $1 AND company_id = $2`
	if err := r.db.GetContext(ctx, &row, query, tenderID, companyID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заявку")
	}
	return row.toEntity(), nil
}

func (r *ProposalRepositoryAdapter) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*entity.Proposal, error) {
	var rows []proposalRow
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE company_id = $1 ORDER BY updated_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, companyID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заявки")
	}
	return toProposalEntities(rows), nil
}

func (r *ProposalRepositoryAdapter) ListByTender(ctx context.Context, tenderID uuid.UUID) ([]*entity.Proposal, error) {
	var rows []proposalRow
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE tender_id = $1 ORDER BY updated_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, tenderID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заявки")
	}
	return toProposalEntities(rows), nil
}

// UpdateContent пишет содержимое заявки без снимка. Отправленные заявки
// отклоняются условием status='draft' - защита на уровне данных.
func (r *ProposalRepositoryAdapter) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*entity.Proposal, error) {
	var row proposalRow
	query := `
		UPDATE proposals SET content = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'draft'
		RETURNING ` + proposalColumns
	if err := r.db.GetContext(ctx, &row, query, id, content); err != nil {
		if err == sql.ErrNoRows {
			return nil, r.diagnoseWriteFailure(ctx, id)
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить заявку")
	}
	return row.toEntity(), nil
}

// SaveRevision атомарно пишет содержимое и добавляет снимок version+1.
// Условие version=$3 отклоняет сохранение из устаревшей сессии.
func (r *ProposalRepositoryAdapter) SaveRevision(ctx context.Context, id uuid.UUID, expectedVersion int, content string, summary *string) (*entity.Proposal, *entity.ProposalVersion, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось начать транзакцию")
	}
	defer tx.Rollback()

	var row proposalRow
	query := `
		UPDATE proposals SET content = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND status = 'draft' AND version = $3
		RETURNING ` + proposalColumns
	if err := tx.GetContext(ctx, &row, query, id, content, expectedVersion); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, r.diagnoseRevisionFailure(ctx, id, expectedVersion)
		}
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить заявку")
	}

	if err := appendVersionTx(ctx, tx, id, row.Version, content, summary); err != nil {
		return nil, nil, err
	}

	var snap versionRow
	getSnap := `SELECT id, proposal_id, version, content, summary, created_at FROM proposal_versions WHERE proposal_id = $1 AND version = $2`
	if err := tx.GetContext(ctx, &snap, getSnap, id, row.Version); err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось прочитать снимок")
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось зафиксировать транзакцию")
	}
	return row.toEntity(), snap.toEntity(), nil
}

// SetSubmitted переводит заявку в submitted. Повторная отправка отклоняется
// условием status='draft'.
func (r *ProposalRepositoryAdapter) SetSubmitted(ctx context.Context, id uuid.UUID, attestationRef string) (*entity.Proposal, error) {
	var row proposalRow
	query := `
		UPDATE proposals SET status = 'submitted', attestation_ref = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'draft'
		RETURNING ` + proposalColumns
	if err := r.db.GetContext(ctx, &row, query, id, attestationRef); err != nil {
		if err == sql.ErrNoRows {
			return nil, r.diagnoseWriteFailure(ctx, id)
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отправить заявку")
	}
	return row.toEntity(), nil
}

// Delete удаляет заявку. Допустимо только для черновиков.
func (r *ProposalRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM proposals WHERE id = $1 AND status = 'draft'`, id)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось удалить заявку")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось удалить заявку")
	}
	if affected == 0 {
		return r.diagnoseWriteFailure(ctx, id)
	}
	return nil
}

// diagnoseWriteFailure различает отсутствующую заявку и отправленную.
func (r *ProposalRepositoryAdapter) diagnoseWriteFailure(ctx context.Context, id uuid.UUID) error {
	var status string
	err := r.db.GetContext(ctx, &status, `SELECT status FROM proposals WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return apperror.ErrProposalNotFound
	}
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить статус заявки")
	}
	if status == string(valueobject.ProposalStatusSubmitted) {
		return apperror.ErrProposalImmutable
	}
	return apperror.ErrProposalNotFound
}

func (r *ProposalRepositoryAdapter) diagnoseRevisionFailure(ctx context.Context, id uuid.UUID, expectedVersion int) error {
	var row struct {
		Status  string `db:"status"`
		Version int    `db:"version"`
	}
	err := r.db.GetContext(ctx, &row, `SELECT status, version FROM proposals WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return apperror.ErrProposalNotFound
	}
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить статус заявки")
	}
	if row.Status == string(valueobject.ProposalStatusSubmitted) {
		return apperror.ErrProposalImmutable
	}
	if row.Version != expectedVersion {
		return apperror.New(apperror.ErrCodeConflict, "версия заявки изменилась с момента открытия сессии")
	}
	return apperror.ErrProposalNotFound
}

type proposalRow struct {
	ID             uuid.UUID  `db:"id"`
	TenderID       uuid.UUID  `db:"tender_id"`
	CompanyID      uuid.UUID  `db:"company_id"`
	Content        string     `db:"content"`
	Status         string     `db:"status"`
	Version        int        `db:"version"`
	AttestationRef *string    `db:"attestation_ref"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

func (p *proposalRow) toEntity() *entity.Proposal {
	status, _ := valueobject.NewProposalStatus(p.Status)
	return &entity.Proposal{
		ID:             p.ID,
		TenderID:       p.TenderID,
		CompanyID:      p.CompanyID,
		Content:        p.Content,
		Status:         status,
		Version:        p.Version,
		AttestationRef: p.AttestationRef,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toProposalEntities(rows []proposalRow) []*entity.Proposal {
	result := make([]*entity.Proposal, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result
}
