package ai

import (
	"context"

	"github.com/tenderhub/tender-backend/internal/ai"
	"github.com/tenderhub/tender-backend/internal/domain/repository"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
	"github.com/tenderhub/tender-backend/internal/translate"
)

// AIServiceAdapter транслирует абстрактные запросы контроллера жизненного
// цикла в вызовы AI клиента.
type AIServiceAdapter struct {
	client *ai.Client
}

func NewAIServiceAdapter(client *ai.Client) *AIServiceAdapter {
	if client == nil {
		return nil
	}
	return &AIServiceAdapter{client: client}
}

func (a *AIServiceAdapter) Transform(ctx context.Context, req repository.TransformRequest) (*repository.TransformResult, error) {
	switch req.Task {
	case repository.AITaskGenerate:
		content, err := a.client.GenerateProposal(ctx, req.Tender, req.Company)
		if err != nil {
			return nil, err
		}
		return &repository.TransformResult{Content: content}, nil

	case repository.AITaskImprove:
		content, err := a.client.ImproveProposal(ctx, req.Tender, req.Company, req.CurrentContent, req.Instruction, toMessages(req.History))
		if err != nil {
			return nil, err
		}
		return &repository.TransformResult{Content: content}, nil

	case repository.AITaskEligibility:
		// Проверка соответствия не меняет содержимое заявки:
		// результат возвращается как insights при неизменном контенте.
		verdict, err := a.client.CheckEligibility(ctx, req.Tender, req.Company)
		if err != nil {
			return nil, err
		}
		return &repository.TransformResult{Content: req.CurrentContent, Insights: &verdict}, nil

	default:
		return nil, apperror.New(apperror.ErrCodeBadRequest, "неизвестная AI задача")
	}
}

func (a *AIServiceAdapter) StreamTransform(ctx context.Context, req repository.TransformRequest, onDelta func(chunk string) error) error {
	switch req.Task {
	case repository.AITaskGenerate:
		return a.client.StreamGenerateProposal(ctx, req.Tender, req.Company, onDelta)
	case repository.AITaskImprove:
		return a.client.StreamImproveProposal(ctx, req.Tender, req.Company, req.CurrentContent, req.Instruction, toMessages(req.History), onDelta)
	default:
		return apperror.New(apperror.ErrCodeBadRequest, "потоковый режим поддерживает только задачи generate и improve")
	}
}

func toMessages(history []repository.HistoryMessage) []ai.Message {
	result := make([]ai.Message, len(history))
	for i, m := range history {
		result[i] = ai.Message{Role: m.Role, Content: m.Content}
	}
	return result
}

// TranslationAdapter оборачивает клиент сервиса перевода в доменный порт.
type TranslationAdapter struct {
	client *translate.Client
}

func NewTranslationAdapter(client *translate.Client) *TranslationAdapter {
	if client == nil {
		return nil
	}
	return &TranslationAdapter{client: client}
}

func (a *TranslationAdapter) Translate(ctx context.Context, text, sourceLang, targetLang string) (*repository.TranslationResult, error) {
	translated, err := a.client.Translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		return nil, err
	}
	return &repository.TranslationResult{Content: translated, TargetLanguage: targetLang}, nil
}
