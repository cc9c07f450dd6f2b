package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tenderhub/tender-backend/internal/domain/entity"
)

type AITask string

const (
	AITaskGenerate    AITask = "generate"
	AITaskImprove     AITask = "improve"
	AITaskEligibility AITask = "eligibility"
)

// HistoryMessage - сообщение из истории диалога с ассистентом.
// В запрос передаётся ограниченное окно последних сообщений.
type HistoryMessage struct {
	Role    string
	Content string
}

// TransformRequest - самодостаточный запрос к AI сервису: весь контекст
// (тендер, компания, текущее содержимое) передаётся явно.
type TransformRequest struct {
	Task           AITask
	Tender         *entity.Tender
	Company        *entity.Company
	CurrentContent string
	Instruction    string
	History        []HistoryMessage
}

type TransformResult struct {
	Content  string
	Insights *string
}

type TranslationResult struct {
	Content        string
	TargetLanguage string
}

// AIService - порт AI сервиса трансформации содержимого.
type AIService interface {
	Transform(ctx context.Context, req TransformRequest) (*TransformResult, error)
	StreamTransform(ctx context.Context, req TransformRequest, onDelta func(chunk string) error) error
}

// TranslationService - порт сервиса перевода.
type TranslationService interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (*TranslationResult, error)
}

// AttestationService - порт шлюза аттестации. Вызов обязан быть идемпотентным
// по id заявки: повтор после неоднозначного сбоя не создаёт вторую аттестацию.
type AttestationService interface {
	Attest(ctx context.Context, proposalID uuid.UUID, content string) (string, error)
}
