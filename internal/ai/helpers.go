package ai

import (
	"fmt"
	"strings"

	"github.com/tenderhub/tender-backend/internal/domain/entity"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
)

// Message - сообщение из истории диалога с ассистентом.
type Message struct {
	Role    string
	Content string
}

// historyWindowSize - сколько последних сообщений истории попадает в запрос.
const historyWindowSize = 10

// buildTenderContext собирает текстовый контекст тендера для промпта.
func buildTenderContext(tender *entity.Tender) string {
	if tender == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Тендер: %s\n", tender.Title)
	if tender.Reference != "" {
		fmt.Fprintf(&b, "Номер закупки: %s\n", tender.Reference)
	}
	if tender.Category != "" {
		fmt.Fprintf(&b, "Категория: %s\n", tender.Category)
	}
	if tender.Description != "" {
		fmt.Fprintf(&b, "Описание: %s\n", tender.Description)
	}
	if len(tender.Requirements) > 0 {
		fmt.Fprintf(&b, "Требования:\n")
		for _, req := range tender.Requirements {
			fmt.Fprintf(&b, "- %s\n", req)
		}
	}
	if tender.Budget != nil {
		fmt.Fprintf(&b, "Бюджет: %.2f\n", *tender.Budget)
	}
	if tender.Deadline != nil {
		fmt.Fprintf(&b, "Срок подачи: %s\n", tender.Deadline.Format("02.01.2006"))
	}
	return b.String()
}

// buildCompanyContext собирает текстовый контекст компании для промпта.
func buildCompanyContext(company *entity.Company) string {
	if company == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Компания: %s\n", company.Name)
	if company.Description != "" {
		fmt.Fprintf(&b, "О компании: %s\n", company.Description)
	}
	if len(company.Certifications) > 0 {
		fmt.Fprintf(&b, "Сертификаты: %s\n", strings.Join(company.Certifications, ", "))
	}
	if company.Experience != "" {
		fmt.Fprintf(&b, "Опыт: %s\n", company.Experience)
	}
	return b.String()
}

// historyWindow возвращает ограниченное окно последних сообщений,
// сконвертированное в формат chat-запроса.
func historyWindow(history []Message) []map[string]string {
	if len(history) > historyWindowSize {
		history = history[len(history)-historyWindowSize:]
	}
	result := make([]map[string]string, 0, len(history))
	for _, m := range history {
		role := m.Role
		if role != "user" && role != "assistant" {
			role = "user"
		}
		result = append(result, map[string]string{"role": role, "content": m.Content})
	}
	return result
}

// validateProposalMarkdown проверяет, что ответ генерации/улучшения заявки
// структурно пригоден: непустой и содержит хотя бы один markdown-заголовок
// раздела. Иначе ответ не передаётся в буфер редактора.
func validateProposalMarkdown(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return apperror.New(apperror.ErrCodeMalformedAI, "ai: пустое содержимое заявки")
	}
	for _, line := range strings.Split(trimmed, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			return nil
		}
	}
	return apperror.New(apperror.ErrCodeMalformedAI, "ai: в ответе нет заголовков разделов заявки")
}

// validateEligibility проверяет, что ответ проверки соответствия содержит
// распознаваемый вердикт.
func validateEligibility(content string) error {
	upper := strings.ToUpper(content)
	if strings.Contains(upper, "СООТВЕТСТВУЕТ") {
		return nil
	}
	return apperror.New(apperror.ErrCodeMalformedAI, "ai: в ответе нет вердикта о соответствии")
}
