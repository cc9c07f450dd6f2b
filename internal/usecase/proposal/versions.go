package proposal

import (
	"context"

	"github.com/google/uuid"
	"github.com/tenderhub/tender-backend/internal/domain/entity"
	"github.com/tenderhub/tender-backend/internal/domain/repository"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
)

// ListVersionsUseCase возвращает историю снимков заявки (новые первыми).
type ListVersionsUseCase struct {
	proposalRepo repository.ProposalRepository
	versionRepo  repository.VersionRepository
}

func NewListVersionsUseCase(proposalRepo repository.ProposalRepository, versionRepo repository.VersionRepository) *ListVersionsUseCase {
	return &ListVersionsUseCase{proposalRepo: proposalRepo, versionRepo: versionRepo}
}

func (uc *ListVersionsUseCase) Execute(ctx context.Context, proposalID, companyID uuid.UUID) ([]*entity.ProposalVersion, error) {
	p, err := uc.proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(companyID) {
		return nil, apperror.ErrForbidden
	}
	return uc.versionRepo.ListByProposal(ctx, proposalID)
}

type GetVersionUseCase struct {
	proposalRepo repository.ProposalRepository
	versionRepo  repository.VersionRepository
}

func NewGetVersionUseCase(proposalRepo repository.ProposalRepository, versionRepo repository.VersionRepository) *GetVersionUseCase {
	return &GetVersionUseCase{proposalRepo: proposalRepo, versionRepo: versionRepo}
}

func (uc *GetVersionUseCase) Execute(ctx context.Context, proposalID, companyID uuid.UUID, version int) (*entity.ProposalVersion, error) {
	p, err := uc.proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(companyID) {
		return nil, apperror.ErrForbidden
	}
	return uc.versionRepo.Get(ctx, proposalID, version)
}
