package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
)

// Client реализует AI помощника через OpenAI-совместимый API (Bothub).
type Client struct {
	baseURL       string
	apiKey        string
	model         string
	maxInputChars int
	httpClient    *http.Client
}

// NewClient создаёт экземпляр клиента. maxInputChars - бюджет входного
// контекста модели в символах; запросы сверх бюджета отклоняются,
// а не обрезаются молча.
func NewClient(baseURL, model string, maxInputChars int) *Client {
	apiKey := os.Getenv("BOTHUB_ACCESS_TOKEN")
	if apiKey == "" {
		apiKey = os.Getenv("AI_API_KEY")
	}

	if model == "" {
		model = "gpt-4o-mini"
	}
	if maxInputChars <= 0 {
		maxInputChars = 48000
	}

	return &Client{
		baseURL:       baseURL,
		apiKey:        apiKey,
		model:         model,
		maxInputChars: maxInputChars,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// checkInputBudget проверяет суммарный размер сообщений против бюджета модели.
func (c *Client) checkInputBudget(messages []map[string]string) error {
	total := 0
	for _, m := range messages {
		total += len(m["content"])
	}
	if total > c.maxInputChars {
		return apperror.New(apperror.ErrCodeContextTooLarge,
			fmt.Sprintf("входной контекст %d символов превышает лимит %d", total, c.maxInputChars))
	}
	return nil
}

// chatCompletion выполняет запрос к OpenAI-совместимому API.
func (c *Client) chatCompletion(ctx context.Context, messages []map[string]string) (string, error) {
	return c.chatCompletionWithOptions(ctx, messages, 2048, 0.7)
}

// chatCompletionWithOptions выполняет запрос с настраиваемыми параметрами.
func (c *Client) chatCompletionWithOptions(ctx context.Context, messages []map[string]string, maxTokens int, temperature float64) (string, error) {
	if c.baseURL == "" {
		return "", apperror.New(apperror.ErrCodeTransform, "ai: baseURL не задан")
	}
	if err := c.checkInputBudget(messages); err != nil {
		return "", err
	}

	payload := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := c.baseURL
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	url += "chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeTransform, "ai: запрос не удался")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorBody map[string]any
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return "", apperror.New(apperror.ErrCodeTransform,
			fmt.Sprintf("ai: код ответа %d: %v", resp.StatusCode, errorBody))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeMalformedAI, "ai: не удалось разобрать ответ")
	}

	if len(result.Choices) == 0 {
		return "", apperror.New(apperror.ErrCodeMalformedAI, "ai: пустой ответ")
	}

	return result.Choices[0].Message.Content, nil
}

// streamChat выполняет запрос с stream=true и передаёт текстовые чанки в onDelta.
func (c *Client) streamChat(ctx context.Context, messages []map[string]string, onDelta func(chunk string) error) error {
	if c.baseURL == "" {
		return apperror.New(apperror.ErrCodeTransform, "ai: baseURL не задан")
	}
	if err := c.checkInputBudget(messages); err != nil {
		return err
	}

	payload := map[string]any{
		"model":    c.model,
		"messages": messages,
		"stream":   true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := c.baseURL
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	url += "chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeTransform, "ai: запрос не удался")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorBody map[string]any
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return apperror.New(apperror.ErrCodeTransform,
			fmt.Sprintf("ai: код ответа %d: %v", resp.StatusCode, errorBody))
	}

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == context.Canceled || strings.Contains(err.Error(), "EOF") {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}
		if data == "[DONE]" {
			return nil
		}

		var event struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			continue
		}
		if len(event.Choices) == 0 || event.Choices[0].Delta.Content == "" {
			continue
		}
		if err := onDelta(event.Choices[0].Delta.Content); err != nil {
			return err
		}
	}
}
