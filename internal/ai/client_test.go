package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tenderhub/tender-backend/internal/domain/entity"
	"github.com/tenderhub/tender-backend/internal/domain/valueobject"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
)

func createTestTender() *entity.Tender {
	budget := 12_500_000.0
	return &entity.Tender{
		ID:           uuid.New(),
		Reference:    "T-2025-017",
		Title:        "Капитальный ремонт школы №14",
		Description:  "Ремонт кровли, фасада и внутренних помещений учебного корпуса.",
		Category:     "строительство",
		Requirements: []string{"СРО на строительные работы", "опыт госконтрактов от 3 лет"},
		Budget:       &budget,
		Status:       valueobject.TenderStatusOpen,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func createTestCompany() *entity.Company {
	return &entity.Company{
		ID:             uuid.New(),
		OwnerUserID:    uuid.New(),
		Name:           "ООО СтройГарант",
		Description:    "Генподрядчик полного цикла",
		Certifications: []string{"СРО-С-0123", "ISO 9001"},
		Experience:     "12 лет, 40 выполненных госконтрактов",
	}
}

// newTestClient поднимает фейковый OpenAI-совместимый сервер с фиксированным ответом.
func newTestClient(t *testing.T, content string) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-model", 48000), server
}

func TestGenerateProposal_ReturnsMarkdown(t *testing.T) {
	client, _ := newTestClient(t, "# Предложение\n\n## О компании\n\nТекст заявки")

	content, err := client.GenerateProposal(context.Background(), createTestTender(), createTestCompany())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(content, "# Предложение") {
		t.Errorf("expected markdown content, got %q", content)
	}
}

func TestGenerateProposal_RejectsNonMarkdownResponse(t *testing.T) {
	client, _ := newTestClient(t, "просто текст без структуры")

	_, err := client.GenerateProposal(context.Background(), createTestTender(), createTestCompany())
	if apperror.Code(err) != apperror.ErrCodeMalformedAI {
		t.Errorf("expected malformed response error, got %v", err)
	}
}

func TestCheckEligibility_RequiresVerdict(t *testing.T) {
	client, _ := newTestClient(t, "Компания выглядит неплохо.")

	_, err := client.CheckEligibility(context.Background(), createTestTender(), createTestCompany())
	if apperror.Code(err) != apperror.ErrCodeMalformedAI {
		t.Errorf("expected malformed response error, got %v", err)
	}
}

func TestCheckEligibility_AcceptsVerdict(t *testing.T) {
	client, _ := newTestClient(t, "Вердикт: СООТВЕТСТВУЕТ. Компания покрывает все требования.")

	verdict, err := client.CheckEligibility(context.Background(), createTestTender(), createTestCompany())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(strings.ToUpper(verdict), "СООТВЕТСТВУЕТ") {
		t.Errorf("expected verdict in response, got %q", verdict)
	}
}

func TestImproveProposal_InputBudgetExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the AI service when the budget is exceeded")
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-model", 1000)
	oversized := strings.Repeat("а", 2000)

	_, err := client.ImproveProposal(context.Background(), createTestTender(), createTestCompany(), oversized, "сократи", nil)
	if apperror.Code(err) != apperror.ErrCodeContextTooLarge {
		t.Errorf("expected context too large error, got %v", err)
	}
}

func TestChatCompletion_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error": "upstream down"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-model", 48000)
	_, err := client.GenerateProposal(context.Background(), createTestTender(), createTestCompany())
	if apperror.Code(err) != apperror.ErrCodeTransform {
		t.Errorf("expected transform error, got %v", err)
	}
}

func TestValidateProposalMarkdown(t *testing.T) {
	if err := validateProposalMarkdown("# Раздел\nтекст"); err != nil {
		t.Errorf("unexpected error for valid markdown: %v", err)
	}
	if err := validateProposalMarkdown(""); err == nil {
		t.Error("expected error for empty content")
	}
	if err := validateProposalMarkdown("текст без заголовков"); err == nil {
		t.Error("expected error for content without headers")
	}
}

func TestHistoryWindow_LimitsMessages(t *testing.T) {
	history := make([]Message, 25)
	for i := range history {
		history[i] = Message{Role: "user", Content: "сообщение"}
	}

	window := historyWindow(history)
	if len(window) != historyWindowSize {
		t.Errorf("expected window of %d messages, got %d", historyWindowSize, len(window))
	}
}

func TestHistoryWindow_NormalizesRoles(t *testing.T) {
	window := historyWindow([]Message{{Role: "system", Content: "x"}})
	if window[0]["role"] != "user" {
		t.Errorf("unexpected role %q", window[0]["role"])
	}
}
