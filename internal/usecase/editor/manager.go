package editor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tenderhub/tender-backend/internal/domain/repository"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
)

// Deps - зависимости сессии редактирования.
type Deps struct {
	Proposals  repository.ProposalRepository
	Versions   repository.VersionRepository
	Tenders    repository.TenderRepository
	Companies  repository.CompanyRepository
	AIService  repository.AIService
	Translator repository.TranslationService
	Attestor   repository.AttestationService
}

// Manager держит не более одной активной сессии редактирования на заявку
// (модель single-writer). Неактивные сессии вытесняются по TTL.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	deps     Deps
}

func NewManager(deps Deps, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		deps:     deps,
	}
}

// Open возвращает активную сессию заявки или создаёт новую. Доступ только
// у компании-владельца.
func (m *Manager) Open(ctx context.Context, proposalID, companyID uuid.UUID) (*Session, error) {
	m.mu.Lock()
	if session, ok := m.sessions[proposalID]; ok {
		owned := session.Proposal().IsOwnedBy(companyID)
		m.mu.Unlock()
		if !owned {
			return nil, apperror.ErrForbidden
		}
		return session, nil
	}
	m.mu.Unlock()

	proposal, err := m.deps.Proposals.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if !proposal.IsOwnedBy(companyID) {
		return nil, apperror.ErrForbidden
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Повторная проверка: сессию могли создать, пока мы ходили в базу.
	if session, ok := m.sessions[proposalID]; ok {
		return session, nil
	}

	session := newSession(proposal, m.deps)
	m.sessions[proposalID] = session
	return session, nil
}

// Close закрывает сессию и отбрасывает буфер. При несохранённых правках
// без force возвращает ошибку - основание для предупреждения пользователю.
func (m *Manager) Close(proposalID, companyID uuid.UUID, force bool) error {
	m.mu.Lock()
	session, ok := m.sessions[proposalID]
	m.mu.Unlock()

	if !ok {
		return nil
	}
	if !session.Proposal().IsOwnedBy(companyID) {
		return apperror.ErrForbidden
	}
	if session.HasUnsavedChanges() && !force {
		return apperror.New(apperror.ErrCodeConflict, "есть несохранённые изменения, подтвердите закрытие")
	}

	m.mu.Lock()
	delete(m.sessions, proposalID)
	m.mu.Unlock()
	return nil
}

// EvictIdle удаляет сессии, неактивные дольше TTL. Возвращает число
// вытесненных сессий.
func (m *Manager) EvictIdle() int {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, session := range m.sessions {
		if session.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// RunEviction периодически вытесняет неактивные сессии до отмены контекста.
func (m *Manager) RunEviction(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.EvictIdle()
		}
	}
}
