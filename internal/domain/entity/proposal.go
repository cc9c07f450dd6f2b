package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tenderhub/tender-backend/internal/domain/valueobject"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
)

// Proposal - заявка компании на тендер. Содержимое хранится как markdown-текст.
// После отправки (status=submitted) заявка становится неизменяемой.
type Proposal struct {
	ID             uuid.UUID
	TenderID       uuid.UUID
	CompanyID      uuid.UUID
	Content        string
	Status         valueobject.ProposalStatus
	Version        int
	AttestationRef *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewProposal(tenderID, companyID uuid.UUID, content string) (*Proposal, error) {
	if tenderID == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "тендер обязателен")
	}
	if companyID == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "компания обязательна")
	}

	now := time.Now()
	return &Proposal{
		ID:        uuid.New(),
		TenderID:  tenderID,
		CompanyID: companyID,
		Content:   content,
		Status:    valueobject.ProposalStatusDraft,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsMutable сообщает, допускает ли заявка изменения содержимого.
func (p *Proposal) IsMutable() bool {
	return p.Status == valueobject.ProposalStatusDraft
}

func (p *Proposal) IsSubmitted() bool {
	return p.Status == valueobject.ProposalStatusSubmitted
}

// ApplyRevision фиксирует новое содержимое после успешного сохранения.
func (p *Proposal) ApplyRevision(content string, version int, updatedAt time.Time) error {
	if !p.IsMutable() {
		return apperror.ErrProposalImmutable
	}
	if version != p.Version+1 {
		return apperror.New(apperror.ErrCodeConflict, "номер версии нарушает последовательность")
	}
	p.Content = content
	p.Version = version
	p.UpdatedAt = updatedAt
	return nil
}

// Submit переводит заявку в терминальное состояние submitted.
// Обратного перехода нет.
func (p *Proposal) Submit(attestationRef string) error {
	if !p.Status.CanTransitionTo(valueobject.ProposalStatusSubmitted) {
		return apperror.ErrProposalImmutable
	}
	if strings.TrimSpace(p.Content) == "" {
		return apperror.New(apperror.ErrCodeValidation, "нельзя отправить заявку с пустым содержимым")
	}
	if attestationRef == "" {
		return apperror.New(apperror.ErrCodeValidation, "отсутствует ссылка аттестации")
	}
	p.Status = valueobject.ProposalStatusSubmitted
	p.AttestationRef = &attestationRef
	p.UpdatedAt = time.Now()
	return nil
}

// IsOwnedBy - чистый предикат, поэтому объявлен на значении:
// его вызывают и на копиях заявки, отданных наружу сессией.
func (p Proposal) IsOwnedBy(companyID uuid.UUID) bool {
	return p.CompanyID == companyID
}
