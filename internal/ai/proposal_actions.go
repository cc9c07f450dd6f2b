package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/tenderhub/tender-backend/internal/domain/entity"
)

const proposalSystemPrompt = "Ты помощник по подготовке заявок на государственные тендеры. " +
	"Пиши деловым языком, структурируй текст markdown-заголовками разделов " +
	"(## Введение, ## Опыт компании, ## Техническое предложение, ## Сроки и стоимость). " +
	"Не выдумывай факты о компании, используй только переданный контекст."

// GenerateProposal генерирует первичный черновик заявки по тендеру и профилю компании.
func (c *Client) GenerateProposal(ctx context.Context, tender *entity.Tender, company *entity.Company) (string, error) {
	content, err := c.chatCompletion(ctx, c.generateMessages(tender, company))
	if err != nil {
		return "", err
	}
	content = strings.TrimSpace(content)
	if err := validateProposalMarkdown(content); err != nil {
		return "", err
	}
	return content, nil
}

// StreamGenerateProposal - потоковый вариант GenerateProposal для live-превью.
func (c *Client) StreamGenerateProposal(ctx context.Context, tender *entity.Tender, company *entity.Company, onDelta func(chunk string) error) error {
	return c.streamChat(ctx, c.generateMessages(tender, company), onDelta)
}

func (c *Client) generateMessages(tender *entity.Tender, company *entity.Company) []map[string]string {
	prompt := fmt.Sprintf(`Подготовь черновик заявки на тендер от лица компании.

%s
%s
Заявка должна закрывать требования тендера и подчёркивать сильные стороны компании. Раздели текст на разделы markdown-заголовками.`,
		buildTenderContext(tender), buildCompanyContext(company))

	return []map[string]string{
		{"role": "system", "content": proposalSystemPrompt},
		{"role": "user", "content": prompt},
	}
}

// ImproveProposal улучшает текущее содержимое заявки по инструкции пользователя.
// history - ограниченное окно последних сообщений диалога с ассистентом.
func (c *Client) ImproveProposal(ctx context.Context, tender *entity.Tender, company *entity.Company, currentContent, instruction string, history []Message) (string, error) {
	messages := c.improveMessages(tender, company, currentContent, instruction, history)

	content, err := c.chatCompletion(ctx, messages)
	if err != nil {
		return "", err
	}
	content = strings.TrimSpace(content)
	if err := validateProposalMarkdown(content); err != nil {
		return "", err
	}
	return content, nil
}

// StreamImproveProposal - потоковый вариант ImproveProposal для live-превью.
// Валидация структуры на стороне вызывающего: итоговое принятие текста
// всё равно идёт через обычный ImproveProposal/Edit.
func (c *Client) StreamImproveProposal(ctx context.Context, tender *entity.Tender, company *entity.Company, currentContent, instruction string, history []Message, onDelta func(chunk string) error) error {
	messages := c.improveMessages(tender, company, currentContent, instruction, history)
	return c.streamChat(ctx, messages, onDelta)
}

func (c *Client) improveMessages(tender *entity.Tender, company *entity.Company, currentContent, instruction string, history []Message) []map[string]string {
	if instruction == "" {
		instruction = "Улучши текст заявки: усили аргументацию, убери воду, сохрани структуру разделов."
	}

	prompt := fmt.Sprintf(`%s
%s
Текущий текст заявки:
---
%s
---

Задача: %s

Верни полный обновлённый текст заявки с markdown-заголовками разделов, без пояснений до и после.`,
		buildTenderContext(tender), buildCompanyContext(company), currentContent, instruction)

	messages := []map[string]string{
		{"role": "system", "content": proposalSystemPrompt},
	}
	messages = append(messages, historyWindow(history)...)
	messages = append(messages, map[string]string{"role": "user", "content": prompt})
	return messages
}

// CheckEligibility проверяет соответствие компании требованиям тендера.
// Ответ обязан содержать распознаваемый вердикт.
func (c *Client) CheckEligibility(ctx context.Context, tender *entity.Tender, company *entity.Company) (string, error) {
	prompt := fmt.Sprintf(`Оцени, соответствует ли компания требованиям тендера.

%s
%s
Пройдись по каждому требованию и дай итоговый вердикт одной из категорий: СООТВЕТСТВУЕТ, ЧАСТИЧНО СООТВЕТСТВУЕТ, НЕ СООТВЕТСТВУЕТ. Вердикт укажи отдельной строкой в конце.`,
		buildTenderContext(tender), buildCompanyContext(company))

	messages := []map[string]string{
		{"role": "system", "content": "Ты эксперт по тендерной документации. Отвечай кратко и по пунктам."},
		{"role": "user", "content": prompt},
	}

	content, err := c.chatCompletion(ctx, messages)
	if err != nil {
		return "", err
	}
	content = strings.TrimSpace(content)
	if err := validateEligibility(content); err != nil {
		return "", err
	}
	return content, nil
}
