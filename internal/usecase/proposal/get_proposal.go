package proposal

import (
	"context"

	"github.com/google/uuid"
	"github.com/tenderhub/tender-backend/internal/domain/entity"
	"github.com/tenderhub/tender-backend/internal/domain/repository"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
)

type GetProposalUseCase struct {
	proposalRepo repository.ProposalRepository
}

func NewGetProposalUseCase(proposalRepo repository.ProposalRepository) *GetProposalUseCase {
	return &GetProposalUseCase{proposalRepo: proposalRepo}
}

func (uc *GetProposalUseCase) Execute(ctx context.Context, proposalID, companyID uuid.UUID) (*entity.Proposal, error) {
	p, err := uc.proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(companyID) {
		return nil, apperror.ErrForbidden
	}
	return p, nil
}

type ListMyProposalsUseCase struct {
	proposalRepo repository.ProposalRepository
}

func NewListMyProposalsUseCase(proposalRepo repository.ProposalRepository) *ListMyProposalsUseCase {
	return &ListMyProposalsUseCase{proposalRepo: proposalRepo}
}

func (uc *ListMyProposalsUseCase) Execute(ctx context.Context, companyID uuid.UUID) ([]*entity.Proposal, error) {
	return uc.proposalRepo.ListByCompany(ctx, companyID)
}
