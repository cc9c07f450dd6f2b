package entity

import (
	"time"

	"github.com/google/uuid"
)

// Company - профиль компании-участника. Ведётся внешней системой,
// здесь только чтение для контекста AI-задач.
type Company struct {
	ID             uuid.UUID
	OwnerUserID    uuid.UUID
	Name           string
	Description    string
	Certifications []string
	Experience     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
