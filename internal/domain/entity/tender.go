package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/tenderhub/tender-backend/internal/domain/valueobject"
)

// Tender - государственный тендер. CRUD тендеров ведёт внешняя система,
// здесь только чтение для контекста AI-задач и выдачи в UI.
type Tender struct {
	ID           uuid.UUID
	Reference    string
	Title        string
	Description  string
	Category     string
	Requirements []string
	Budget       *float64
	Deadline     *time.Time
	Status       valueobject.TenderStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (t *Tender) IsOpen() bool {
	return t.Status == valueobject.TenderStatusOpen
}
