package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tenderhub/tender-backend/internal/domain/entity"
)

// ProposalRepository - шлюз персистентности заявок.
// Неизменяемость отправленных заявок обеспечивается на уровне данных:
// UpdateContent и SaveRevision обязаны отклонять заявки со статусом submitted.
type ProposalRepository interface {
	Create(ctx context.Context, proposal *entity.Proposal, summary *string) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error)
	FindByTenderAndCompany(ctx context.Context, tenderID, companyID uuid.UUID) (*entity.Proposal, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*entity.Proposal, error)
	ListByTender(ctx context.Context, tenderID uuid.UUID) ([]*entity.Proposal, error)
	// UpdateContent пишет содержимое без создания снимка. Используется
	// только внешними вызовами контракта; основной путь - SaveRevision.
	UpdateContent(ctx context.Context, id uuid.UUID, content string) (*entity.Proposal, error)
	// SaveRevision атомарно обновляет содержимое заявки и добавляет снимок
	// с номером версии expectedVersion+1. Возвращает обновлённую заявку и снимок.
	SaveRevision(ctx context.Context, id uuid.UUID, expectedVersion int, content string, summary *string) (*entity.Proposal, *entity.ProposalVersion, error)
	SetSubmitted(ctx context.Context, id uuid.UUID, attestationRef string) (*entity.Proposal, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
