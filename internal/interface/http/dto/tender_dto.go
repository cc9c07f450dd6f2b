package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/tenderhub/tender-backend/internal/domain/entity"
)

type TenderResponse struct {
	ID           uuid.UUID  `json:"id"`
	Reference    string     `json:"reference"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Requirements []string   `json:"requirements"`
	Budget       *float64   `json:"budget"`
	Deadline     *time.Time `json:"deadline"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

func ToTenderResponse(tender *entity.Tender) TenderResponse {
	return TenderResponse{
		ID:           tender.ID,
		Reference:    tender.Reference,
		Title:        tender.Title,
		Description:  tender.Description,
		Category:     tender.Category,
		Requirements: tender.Requirements,
		Budget:       tender.Budget,
		Deadline:     tender.Deadline,
		Status:       string(tender.Status),
		CreatedAt:    tender.CreatedAt,
	}
}

func ToTenderResponses(tenders []*entity.Tender) []TenderResponse {
	responses := make([]TenderResponse, 0, len(tenders))
	for _, tender := range tenders {
		responses = append(responses, ToTenderResponse(tender))
	}
	return responses
}
