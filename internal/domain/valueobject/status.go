package valueobject

import "github.com/tenderhub/tender-backend/internal/pkg/apperror"

type ProposalStatus string

const (
	ProposalStatusDraft     ProposalStatus = "draft"
	ProposalStatusSubmitted ProposalStatus = "submitted"
)

func (s ProposalStatus) IsValid() bool {
	switch s {
	case ProposalStatusDraft, ProposalStatusSubmitted:
		return true
	}
	return false
}

// CanTransitionTo описывает допустимые переходы статуса.
// Статус монотонный: submitted - терминальное состояние.
func (s ProposalStatus) CanTransitionTo(newStatus ProposalStatus) bool {
	transitions := map[ProposalStatus][]ProposalStatus{
		ProposalStatusDraft:     {ProposalStatusSubmitted},
		ProposalStatusSubmitted: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewProposalStatus(status string) (ProposalStatus, error) {
	s := ProposalStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус заявки")
	}
	return s, nil
}

type TenderStatus string

const (
	TenderStatusOpen   TenderStatus = "open"
	TenderStatusClosed TenderStatus = "closed"
)

func (s TenderStatus) IsValid() bool {
	switch s {
	case TenderStatusOpen, TenderStatusClosed:
		return true
	}
	return false
}
