package proposal

import (
	"context"

	"github.com/google/uuid"
	"github.com/tenderhub/tender-backend/internal/domain/entity"
	"github.com/tenderhub/tender-backend/internal/domain/repository"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
)

type CreateProposalInput struct {
	TenderID    uuid.UUID
	CompanyID   uuid.UUID
	FromScratch bool
}

// CreateProposalUseCase создаёт черновик заявки на тендер. По умолчанию
// первичное содержимое генерирует AI сервис одной задачей generate;
// FromScratch создаёт пустой черновик без обращения к AI.
type CreateProposalUseCase struct {
	proposalRepo repository.ProposalRepository
	tenderRepo   repository.TenderRepository
	companyRepo  repository.CompanyRepository
	aiService    repository.AIService
}

func NewCreateProposalUseCase(
	proposalRepo repository.ProposalRepository,
	tenderRepo repository.TenderRepository,
	companyRepo repository.CompanyRepository,
	aiService repository.AIService,
) *CreateProposalUseCase {
	return &CreateProposalUseCase{
		proposalRepo: proposalRepo,
		tenderRepo:   tenderRepo,
		companyRepo:  companyRepo,
		aiService:    aiService,
	}
}

func (uc *CreateProposalUseCase) Execute(ctx context.Context, input CreateProposalInput) (*entity.Proposal, error) {
	tender, err := uc.tenderRepo.FindByID(ctx, input.TenderID)
	if err != nil {
		return nil, err
	}
	if !tender.IsOpen() {
		return nil, apperror.New(apperror.ErrCodeValidation, "тендер закрыт для подачи заявок")
	}

	company, err := uc.companyRepo.FindByID(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}

	existing, err := uc.proposalRepo.FindByTenderAndCompany(ctx, input.TenderID, input.CompanyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "заявка на этот тендер уже существует")
	}

	content := ""
	var summary *string
	if !input.FromScratch {
		if uc.aiService == nil {
			return nil, apperror.New(apperror.ErrCodeValidation, "AI сервис недоступен, создайте заявку вручную")
		}
		result, err := uc.aiService.Transform(ctx, repository.TransformRequest{
			Task:    repository.AITaskGenerate,
			Tender:  tender,
			Company: company,
		})
		if err != nil {
			return nil, err
		}
		content = result.Content
		s := "Первичный черновик, сгенерирован AI"
		summary = &s
	} else {
		s := "Пустой черновик"
		summary = &s
	}

	proposal, err := entity.NewProposal(input.TenderID, input.CompanyID, content)
	if err != nil {
		return nil, err
	}

	if err := uc.proposalRepo.Create(ctx, proposal, summary); err != nil {
		return nil, err
	}

	return proposal, nil
}
