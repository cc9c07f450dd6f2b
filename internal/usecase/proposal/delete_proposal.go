package proposal

import (
	"context"

	"github.com/google/uuid"
	"github.com/tenderhub/tender-backend/internal/domain/repository"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
)

// DeleteProposalUseCase удаляет черновик заявки. Отправленные заявки
// удалить нельзя - защиту дублирует и слой данных.
type DeleteProposalUseCase struct {
	proposalRepo repository.ProposalRepository
}

func NewDeleteProposalUseCase(proposalRepo repository.ProposalRepository) *DeleteProposalUseCase {
	return &DeleteProposalUseCase{proposalRepo: proposalRepo}
}

func (uc *DeleteProposalUseCase) Execute(ctx context.Context, proposalID, companyID uuid.UUID) error {
	p, err := uc.proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		return err
	}
	if !p.IsOwnedBy(companyID) {
		return apperror.ErrForbidden
	}
	if p.IsSubmitted() {
		return apperror.ErrProposalImmutable
	}
	return uc.proposalRepo.Delete(ctx, proposalID)
}
