package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/tenderhub/tender-backend/internal/domain/entity"
)

type CreateProposalRequest struct {
	TenderID    uuid.UUID `json:"tender_id" binding:"required"`
	FromScratch bool      `json:"from_scratch"`
}

type ProposalResponse struct {
	ID             uuid.UUID `json:"id"`
	TenderID       uuid.UUID `json:"tender_id"`
	CompanyID      uuid.UUID `json:"company_id"`
	Content        string    `json:"content"`
	Status         string    `json:"status"`
	Version        int       `json:"version"`
	AttestationRef *string   `json:"attestation_ref"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToProposalResponse(proposal *entity.Proposal) ProposalResponse {
	return ProposalResponse{
		ID:             proposal.ID,
		TenderID:       proposal.TenderID,
		CompanyID:      proposal.CompanyID,
		Content:        proposal.Content,
		Status:         string(proposal.Status),
		Version:        proposal.Version,
		AttestationRef: proposal.AttestationRef,
		CreatedAt:      proposal.CreatedAt,
		UpdatedAt:      proposal.UpdatedAt,
	}
}

func ToProposalResponses(proposals []*entity.Proposal) []ProposalResponse {
	responses := make([]ProposalResponse, 0, len(proposals))
	for _, proposal := range proposals {
		responses = append(responses, ToProposalResponse(proposal))
	}
	return responses
}

type VersionResponse struct {
	ID         uuid.UUID `json:"id"`
	ProposalID uuid.UUID `json:"proposal_id"`
	Version    int       `json:"version"`
	Content    string    `json:"content"`
	Summary    *string   `json:"summary"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToVersionResponse(version *entity.ProposalVersion) VersionResponse {
	return VersionResponse{
		ID:         version.ID,
		ProposalID: version.ProposalID,
		Version:    version.Version,
		Content:    version.Content,
		Summary:    version.Summary,
		CreatedAt:  version.CreatedAt,
	}
}

func ToVersionResponses(versions []*entity.ProposalVersion) []VersionResponse {
	responses := make([]VersionResponse, 0, len(versions))
	for _, version := range versions {
		responses = append(responses, ToVersionResponse(version))
	}
	return responses
}
