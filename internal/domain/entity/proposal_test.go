package entity_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/tenderhub/tender-backend/internal/domain/entity"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
)

func TestProposal_IsOwnedByOnSnapshotCopy(t *testing.T) {
	owner := uuid.New()
	p, err := entity.NewProposal(uuid.New(), owner, "Черновик")
	if err != nil {
		t.Fatalf("NewProposal: %v", err)
	}

	// Сессия отдаёт наружу копию заявки по значению, и проверка владельца
	// должна работать прямо на результате вызова.
	snapshot := func() entity.Proposal { return *p }

	if !snapshot().IsOwnedBy(owner) {
		t.Error("владелец не распознан на копии заявки")
	}
	if snapshot().IsOwnedBy(uuid.New()) {
		t.Error("чужая компания распознана как владелец")
	}
}

func TestProposal_SubmitIsTerminal(t *testing.T) {
	p, err := entity.NewProposal(uuid.New(), uuid.New(), "## Введение\nТекст заявки")
	if err != nil {
		t.Fatalf("NewProposal: %v", err)
	}

	if err := p.Submit("0xref"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !p.IsSubmitted() {
		t.Error("заявка не перешла в submitted")
	}

	if err := p.Submit("0xref2"); !apperror.IsImmutable(err) {
		t.Errorf("повторный Submit: ожидалась ошибка неизменяемости, получено %v", err)
	}
	if err := p.ApplyRevision("новый текст", p.Version+1, p.UpdatedAt); !apperror.IsImmutable(err) {
		t.Errorf("ApplyRevision после submit: ожидалась ошибка неизменяемости, получено %v", err)
	}
}

func TestProposal_ApplyRevisionRejectsGap(t *testing.T) {
	p, err := entity.NewProposal(uuid.New(), uuid.New(), "Версия 1")
	if err != nil {
		t.Fatalf("NewProposal: %v", err)
	}

	if err := p.ApplyRevision("Версия 3", p.Version+2, p.UpdatedAt); apperror.Code(err) != apperror.ErrCodeConflict {
		t.Errorf("пропуск номера версии: ожидался конфликт, получено %v", err)
	}
	if err := p.ApplyRevision("Версия 2", p.Version+1, p.UpdatedAt); err != nil {
		t.Errorf("последовательная версия отклонена: %v", err)
	}
	if p.Version != 2 {
		t.Errorf("версия после ревизии = %d, ожидалось 2", p.Version)
	}
}
