package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
)

// maxTextChars - документированный лимит сервиса перевода на размер текста.
// Тексты сверх лимита отклоняются, а не обрезаются молча.
const maxTextChars = 30000

// Client - клиент сервиса перевода (LibreTranslate-совместимый API).
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 45 * time.Second,
		},
	}
}

// Translate переводит текст с sourceLang на targetLang.
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if c.baseURL == "" {
		return "", apperror.New(apperror.ErrCodeTransform, "translate: baseURL не задан")
	}
	if strings.TrimSpace(text) == "" {
		return "", apperror.New(apperror.ErrCodeValidation, "translate: пустой текст")
	}
	if len(text) > maxTextChars {
		return "", apperror.New(apperror.ErrCodeContextTooLarge,
			fmt.Sprintf("translate: текст %d символов превышает лимит %d", len(text), maxTextChars))
	}

	payload := map[string]string{
		"q":      text,
		"source": sourceLang,
		"target": targetLang,
		"format": "text",
	}
	if c.apiKey != "" {
		payload["api_key"] = c.apiKey
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/translate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeTransform, "translate: запрос не удался")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorBody map[string]any
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return "", apperror.New(apperror.ErrCodeTransform,
			fmt.Sprintf("translate: код ответа %d: %v", resp.StatusCode, errorBody))
	}

	var result struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeMalformedAI, "translate: не удалось разобрать ответ")
	}
	if strings.TrimSpace(result.TranslatedText) == "" {
		return "", apperror.New(apperror.ErrCodeMalformedAI, "translate: пустой перевод")
	}

	return result.TranslatedText, nil
}
