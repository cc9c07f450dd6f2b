package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tenderhub/tender-backend/internal/domain/entity"
)

// VersionRepository - append-only история снимков заявки.
// Append обязан отклонять версию, не равную max(version)+1 для заявки:
// история без пропусков и дубликатов.
type VersionRepository interface {
	Append(ctx context.Context, proposalID uuid.UUID, version int, content string, summary *string) (*entity.ProposalVersion, error)
	ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]*entity.ProposalVersion, error)
	Get(ctx context.Context, proposalID uuid.UUID, version int) (*entity.ProposalVersion, error)
}
