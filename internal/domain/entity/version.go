package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProposalVersion - неизменяемый снимок содержимого заявки.
// Номера версий строго возрастают без пропусков, начиная с 1.
type ProposalVersion struct {
	ID         uuid.UUID
	ProposalID uuid.UUID
	Version    int
	Content    string
	Summary    *string
	CreatedAt  time.Time
}
