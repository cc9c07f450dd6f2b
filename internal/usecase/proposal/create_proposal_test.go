package proposal_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tenderhub/tender-backend/internal/domain/entity"
	"github.com/tenderhub/tender-backend/internal/domain/repository"
	"github.com/tenderhub/tender-backend/internal/domain/valueobject"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
	"github.com/tenderhub/tender-backend/internal/usecase/proposal"
)

type mockProposalRepository struct {
	proposals map[uuid.UUID]*entity.Proposal
	snapshots int
}

func newMockProposalRepository() *mockProposalRepository {
	return &mockProposalRepository{proposals: make(map[uuid.UUID]*entity.Proposal)}
}

func (m *mockProposalRepository) Create(ctx context.Context, p *entity.Proposal, summary *string) error {
	m.proposals[p.ID] = p
	m.snapshots++
	return nil
}

func (m *mockProposalRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error) {
	if p, ok := m.proposals[id]; ok {
		return p, nil
	}
	return nil, apperror.ErrProposalNotFound
}

func (m *mockProposalRepository) FindByTenderAndCompany(ctx context.Context, tenderID, companyID uuid.UUID) (*entity.Proposal, error) {
	for _, p := range m.proposals {
		if p.TenderID == tenderID && p.CompanyID == companyID {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockProposalRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*entity.Proposal, error) {
	var result []*entity.Proposal
	for _, p := range m.proposals {
		if p.CompanyID == companyID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockProposalRepository) ListByTender(ctx context.Context, tenderID uuid.UUID) ([]*entity.Proposal, error) {
	return nil, nil
}

func (m *mockProposalRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*entity.Proposal, error) {
	return nil, nil
}

func (m *mockProposalRepository) SaveRevision(ctx context.Context, id uuid.UUID, expectedVersion int, content string, summary *string) (*entity.Proposal, *entity.ProposalVersion, error) {
	return nil, nil, nil
}

func (m *mockProposalRepository) SetSubmitted(ctx context.Context, id uuid.UUID, attestationRef string) (*entity.Proposal, error) {
	return nil, nil
}

func (m *mockProposalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	p, ok := m.proposals[id]
	if !ok {
		return apperror.ErrProposalNotFound
	}
	if p.IsSubmitted() {
		return apperror.ErrProposalImmutable
	}
	delete(m.proposals, id)
	return nil
}

type mockTenderRepository struct {
	tenders map[uuid.UUID]*entity.Tender
}

func newMockTenderRepository() *mockTenderRepository {
	return &mockTenderRepository{tenders: make(map[uuid.UUID]*entity.Tender)}
}

func (m *mockTenderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Tender, error) {
	if t, ok := m.tenders[id]; ok {
		return t, nil
	}
	return nil, apperror.ErrTenderNotFound
}

func (m *mockTenderRepository) List(ctx context.Context, filter repository.TenderFilter) ([]*entity.Tender, int, error) {
	return nil, 0, nil
}

type mockCompanyRepository struct {
	companies map[uuid.UUID]*entity.Company
}

func newMockCompanyRepository() *mockCompanyRepository {
	return &mockCompanyRepository{companies: make(map[uuid.UUID]*entity.Company)}
}

func (m *mockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	if c, ok := m.companies[id]; ok {
		return c, nil
	}
	return nil, apperror.ErrCompanyNotFound
}

func (m *mockCompanyRepository) FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*entity.Company, error) {
	return nil, apperror.ErrCompanyNotFound
}

type mockGenerator struct {
	content string
	err     error
	calls   int
}

func (m *mockGenerator) Transform(ctx context.Context, req repository.TransformRequest) (*repository.TransformResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &repository.TransformResult{Content: m.content}, nil
}

func (m *mockGenerator) StreamTransform(ctx context.Context, req repository.TransformRequest, onDelta func(chunk string) error) error {
	return nil
}

func createTestTender(status valueobject.TenderStatus) *entity.Tender {
	return &entity.Tender{
		ID:        uuid.New(),
		Reference: "T-2025-042",
		Title:     "Поставка серверного оборудования",
		Category:  "ИТ услуги",
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func createTestCompany() *entity.Company {
	return &entity.Company{
		ID:          uuid.New(),
		OwnerUserID: uuid.New(),
		Name:        "ООО Техносервис",
		Experience:  "10 лет на рынке",
	}
}

func TestCreateProposalUseCase_GeneratesInitialDraft(t *testing.T) {
	proposalRepo := newMockProposalRepository()
	tenderRepo := newMockTenderRepository()
	companyRepo := newMockCompanyRepository()
	generator := &mockGenerator{content: "# Предложение\n\nТекст заявки"}
	uc := proposal.NewCreateProposalUseCase(proposalRepo, tenderRepo, companyRepo, generator)

	tender := createTestTender(valueobject.TenderStatusOpen)
	company := createTestCompany()
	tenderRepo.tenders[tender.ID] = tender
	companyRepo.companies[company.ID] = company

	result, err := uc.Execute(context.Background(), proposal.CreateProposalInput{
		TenderID:  tender.ID,
		CompanyID: company.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Content != "# Предложение\n\nТекст заявки" {
		t.Errorf("expected AI generated content, got %q", result.Content)
	}
	if result.Version != 1 {
		t.Errorf("expected version 1, got %d", result.Version)
	}
	if result.Status != valueobject.ProposalStatusDraft {
		t.Errorf("expected draft status, got %s", result.Status)
	}
	if generator.calls != 1 {
		t.Errorf("expected 1 AI call, got %d", generator.calls)
	}
	if proposalRepo.snapshots != 1 {
		t.Errorf("expected initial snapshot, got %d", proposalRepo.snapshots)
	}
}

func TestCreateProposalUseCase_FromScratchSkipsAI(t *testing.T) {
	proposalRepo := newMockProposalRepository()
	tenderRepo := newMockTenderRepository()
	companyRepo := newMockCompanyRepository()
	generator := &mockGenerator{content: "should not be used"}
	uc := proposal.NewCreateProposalUseCase(proposalRepo, tenderRepo, companyRepo, generator)

	tender := createTestTender(valueobject.TenderStatusOpen)
	company := createTestCompany()
	tenderRepo.tenders[tender.ID] = tender
	companyRepo.companies[company.ID] = company

	result, err := uc.Execute(context.Background(), proposal.CreateProposalInput{
		TenderID:    tender.ID,
		CompanyID:   company.ID,
		FromScratch: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Content != "" {
		t.Errorf("expected empty draft, got %q", result.Content)
	}
	if generator.calls != 0 {
		t.Errorf("AI must not be called for from-scratch draft, got %d calls", generator.calls)
	}
}

func TestCreateProposalUseCase_ClosedTender(t *testing.T) {
	proposalRepo := newMockProposalRepository()
	tenderRepo := newMockTenderRepository()
	companyRepo := newMockCompanyRepository()
	uc := proposal.NewCreateProposalUseCase(proposalRepo, tenderRepo, companyRepo, &mockGenerator{})

	tender := createTestTender(valueobject.TenderStatusClosed)
	company := createTestCompany()
	tenderRepo.tenders[tender.ID] = tender
	companyRepo.companies[company.ID] = company

	_, err := uc.Execute(context.Background(), proposal.CreateProposalInput{
		TenderID:  tender.ID,
		CompanyID: company.ID,
	})
	if !apperror.IsValidation(err) {
		t.Errorf("expected validation error for closed tender, got %v", err)
	}
}

func TestCreateProposalUseCase_DuplicateProposal(t *testing.T) {
	proposalRepo := newMockProposalRepository()
	tenderRepo := newMockTenderRepository()
	companyRepo := newMockCompanyRepository()
	uc := proposal.NewCreateProposalUseCase(proposalRepo, tenderRepo, companyRepo, &mockGenerator{content: "x"})

	tender := createTestTender(valueobject.TenderStatusOpen)
	company := createTestCompany()
	tenderRepo.tenders[tender.ID] = tender
	companyRepo.companies[company.ID] = company

	existing, err := entity.NewProposal(tender.ID, company.ID, "первая заявка")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	proposalRepo.proposals[existing.ID] = existing

	_, err = uc.Execute(context.Background(), proposal.CreateProposalInput{
		TenderID:  tender.ID,
		CompanyID: company.ID,
	})
	if err == nil {
		t.Fatal("expected error for duplicate proposal")
	}
	if apperror.Code(err) != apperror.ErrCodeConflict {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestDeleteProposalUseCase_SubmittedRejected(t *testing.T) {
	proposalRepo := newMockProposalRepository()
	uc := proposal.NewDeleteProposalUseCase(proposalRepo)

	companyID := uuid.New()
	p, err := entity.NewProposal(uuid.New(), companyID, "содержимое")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Submit("0xref"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	proposalRepo.proposals[p.ID] = p

	err = uc.Execute(context.Background(), p.ID, companyID)
	if !apperror.IsImmutable(err) {
		t.Errorf("expected immutable error, got %v", err)
	}
	if _, ok := proposalRepo.proposals[p.ID]; !ok {
		t.Error("submitted proposal must not be deleted")
	}
}

func TestDeleteProposalUseCase_ForeignCompany(t *testing.T) {
	proposalRepo := newMockProposalRepository()
	uc := proposal.NewDeleteProposalUseCase(proposalRepo)

	p, err := entity.NewProposal(uuid.New(), uuid.New(), "содержимое")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	proposalRepo.proposals[p.ID] = p

	err = uc.Execute(context.Background(), p.ID, uuid.New())
	if apperror.Code(err) != apperror.ErrCodeForbidden {
		t.Errorf("expected forbidden error, got %v", err)
	}
}
