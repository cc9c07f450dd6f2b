package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/tenderhub/tender-backend/internal/domain/entity"
	"github.com/tenderhub/tender-backend/internal/domain/repository"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
)

// Buffer - эфемерный буфер редактируемого содержимого. Существует только
// пока заявка открыта в сессии редактирования и сам по себе не сохраняется.
type Buffer struct {
	Content              string
	Dirty                bool
	LastPersistedVersion int
}

// Session - контроллер жизненного цикла заявки: единственная точка изменения
// открытой заявки. Все мутации буфера и переходы статуса идут через неё.
//
// Edit/ApplyTransform/ApplyTranslation/LoadVersion - чистые мутации буфера,
// внешне видимые эффекты есть только у Save и Submit. Save и Submit делят
// один слот выполнения: второй вызов во время незавершённого первого
// отклоняется сразу, без очереди.
type Session struct {
	mu       sync.Mutex
	inFlight bool

	proposal    *entity.Proposal
	buffer      Buffer
	translation *repository.TranslationResult
	history     []repository.HistoryMessage

	lastActivity time.Time

	proposals  repository.ProposalRepository
	versions   repository.VersionRepository
	tenders    repository.TenderRepository
	companies  repository.CompanyRepository
	aiService  repository.AIService
	translator repository.TranslationService
	attestor   repository.AttestationService
}

func newSession(proposal *entity.Proposal, deps Deps) *Session {
	return &Session{
		proposal: proposal,
		buffer: Buffer{
			Content:              proposal.Content,
			Dirty:                false,
			LastPersistedVersion: proposal.Version,
		},
		lastActivity: time.Now(),
		proposals:    deps.Proposals,
		versions:     deps.Versions,
		tenders:      deps.Tenders,
		companies:    deps.Companies,
		aiService:    deps.AIService,
		translator:   deps.Translator,
		attestor:     deps.Attestor,
	}
}

// Edit заменяет содержимое буфера. Без внешних эффектов.
func (s *Session) Edit(newContent string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.proposal.IsMutable() {
		return apperror.ErrProposalImmutable
	}

	s.buffer.Content = newContent
	s.buffer.Dirty = true
	return nil
}

// ApplyTransform выполняет AI задачу над текущим буфером. При сбое сервиса
// буфер остаётся нетронутым. Задачи generate/improve заменяют содержимое
// буфера, eligibility возвращает только insights.
func (s *Session) ApplyTransform(ctx context.Context, task repository.AITask, instruction string) (*repository.TransformResult, error) {
	s.mu.Lock()
	if !s.proposal.IsMutable() {
		s.mu.Unlock()
		return nil, apperror.ErrProposalImmutable
	}
	s.touch()
	currentContent := s.buffer.Content
	tenderID := s.proposal.TenderID
	companyID := s.proposal.CompanyID
	history := append([]repository.HistoryMessage(nil), s.history...)
	s.mu.Unlock()

	tender, err := s.tenders.FindByID(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result, err := s.aiService.Transform(ctx, repository.TransformRequest{
		Task:           task,
		Tender:         tender,
		Company:        company,
		CurrentContent: currentContent,
		Instruction:    instruction,
		History:        history,
	})
	if err != nil {
		return nil, mapTransformErr(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.proposal.IsMutable() {
		return nil, apperror.ErrProposalImmutable
	}

	if task != repository.AITaskEligibility {
		s.buffer.Content = result.Content
		s.buffer.Dirty = true
	}

	if instruction != "" {
		s.history = append(s.history,
			repository.HistoryMessage{Role: "user", Content: instruction},
			repository.HistoryMessage{Role: "assistant", Content: result.Content},
		)
	}

	return result, nil
}

// ApplyTranslation строит вторичный перевод содержимого буфера.
// Основной буфер не меняется: принятие перевода - отдельный явный
// вызов AdoptTranslation.
func (s *Session) ApplyTranslation(ctx context.Context, sourceLang, targetLang string) (*repository.TranslationResult, error) {
	s.mu.Lock()
	if !s.proposal.IsMutable() {
		s.mu.Unlock()
		return nil, apperror.ErrProposalImmutable
	}
	s.touch()
	content := s.buffer.Content
	s.mu.Unlock()

	result, err := s.translator.Translate(ctx, content, sourceLang, targetLang)
	if err != nil {
		return nil, mapTransformErr(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.translation = result
	return result, nil
}

// AdoptTranslation продвигает вторичный перевод в основной буфер.
// Эквивалент Edit с текстом перевода.
func (s *Session) AdoptTranslation() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.proposal.IsMutable() {
		return apperror.ErrProposalImmutable
	}
	if s.translation == nil {
		return apperror.New(apperror.ErrCodeValidation, "нет перевода для принятия")
	}

	s.buffer.Content = s.translation.Content
	s.buffer.Dirty = true
	s.translation = nil
	return nil
}

// LoadVersion копирует содержимое исторического снимка в буфер. История
// append-only: восстановленное содержимое сохраняется как новая версия
// только явным Save.
func (s *Session) LoadVersion(ctx context.Context, version int) error {
	s.mu.Lock()
	if !s.proposal.IsMutable() {
		s.mu.Unlock()
		return apperror.ErrProposalImmutable
	}
	s.touch()
	proposalID := s.proposal.ID
	s.mu.Unlock()

	snap, err := s.versions.Get(ctx, proposalID, version)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.proposal.IsMutable() {
		return apperror.ErrProposalImmutable
	}

	s.buffer.Content = snap.Content
	s.buffer.Dirty = true
	return nil
}

// Save сохраняет буфер: обновляет заявку и добавляет снимок version+1 как
// одну логическую операцию на стороне персистентности. Идемпотентный no-op
// при чистом буфере. При сбое буфер не меняется.
func (s *Session) Save(ctx context.Context, summary *string) error {
	s.mu.Lock()
	s.touch()

	if !s.proposal.IsMutable() {
		s.mu.Unlock()
		return apperror.ErrProposalImmutable
	}
	if s.inFlight {
		s.mu.Unlock()
		return apperror.ErrOperationInFlight
	}
	if !s.buffer.Dirty {
		s.mu.Unlock()
		return nil
	}

	content := s.buffer.Content
	expectedVersion := s.proposal.Version
	proposalID := s.proposal.ID
	s.inFlight = true
	s.mu.Unlock()

	updated, _, err := s.proposals.SaveRevision(ctx, proposalID, expectedVersion, content, summary)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if err != nil {
		return mapPersistenceErr(err)
	}

	s.proposal = updated
	s.buffer.LastPersistedVersion = updated.Version
	// Не сбрасываем флаг, если во время сохранения буфер успел измениться.
	if s.buffer.Content == content {
		s.buffer.Dirty = false
	}
	return nil
}

// Submit необратимо переводит заявку в submitted. Работает с сохранённым
// содержимым: несохранённый буфер игнорируется и при успехе отбрасывается.
// При сбое статус остаётся draft, вызов можно повторить.
func (s *Session) Submit(ctx context.Context) (*entity.Proposal, error) {
	s.mu.Lock()
	s.touch()

	if !s.proposal.IsMutable() {
		s.mu.Unlock()
		return nil, apperror.ErrProposalImmutable
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, apperror.ErrOperationInFlight
	}
	// Предусловие проверяется до обращения к сервису аттестации.
	if strings.TrimSpace(s.proposal.Content) == "" {
		s.mu.Unlock()
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя отправить заявку с пустым содержимым")
	}

	proposalID := s.proposal.ID
	content := s.proposal.Content
	s.inFlight = true
	s.mu.Unlock()

	ref, err := s.attestor.Attest(ctx, proposalID, content)
	if err != nil {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
		return nil, mapAttestationErr(err)
	}

	updated, err := s.proposals.SetSubmitted(ctx, proposalID, ref)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if err != nil {
		return nil, mapPersistenceErr(err)
	}

	s.proposal = updated
	s.buffer.Dirty = false
	s.buffer.Content = updated.Content
	s.buffer.LastPersistedVersion = updated.Version
	return updated, nil
}

// Buffer возвращает копию текущего буфера.
func (s *Session) Buffer() Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer
}

// Proposal возвращает копию текущего состояния заявки.
func (s *Session) Proposal() entity.Proposal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.proposal
}

// Translation возвращает текущий вторичный перевод, если он есть.
func (s *Session) Translation() *repository.TranslationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.translation
}

// HasUnsavedChanges сообщает о несохранённых правках - основа предупреждения
// при уходе со страницы редактирования.
func (s *Session) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer.Dirty
}

func (s *Session) touch() {
	s.lastActivity = time.Now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// mapPersistenceErr приводит ошибки шлюза персистентности к таксономии.
func mapPersistenceErr(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "ошибка сохранения заявки")
}

// mapTransformErr приводит ошибки AI/перевода к таксономии.
func mapTransformErr(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Wrap(err, apperror.ErrCodeTransform, "сбой AI сервиса")
}

func mapAttestationErr(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Wrap(err, apperror.ErrCodeAttestation, "сбой сервиса аттестации")
}
