package attestation

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
	"golang.org/x/crypto/sha3"
)

// Client - клиент шлюза аттестации: фиксирует факт отправки заявки в реестре
// и возвращает непрозрачную ссылку транзакции.
//
// Идемпотентность: ключом служит id заявки (передаётся и в теле, и в заголовке
// Idempotency-Key), поэтому повтор после неоднозначного сбоя сети не создаёт
// вторую аттестацию для той же заявки.
type Client struct {
	baseURL    string
	mock       bool
	httpClient *http.Client
}

// NewClient создаёт клиент. При mock=true (development) ссылка транзакции
// выводится детерминированно из дайджеста содержимого - повторный вызов
// для той же заявки с тем же содержимым даёт ту же ссылку.
func NewClient(baseURL string, mock bool) *Client {
	return &Client{
		baseURL: baseURL,
		mock:    mock,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ContentDigest возвращает sha3-256 дайджест содержимого заявки.
func ContentDigest(content string) string {
	sum := sha3.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Attest фиксирует отправку заявки и возвращает ссылку транзакции.
func (c *Client) Attest(ctx context.Context, proposalID uuid.UUID, content string) (string, error) {
	digest := ContentDigest(content)

	if c.mock {
		// Детерминированный псевдо-реф: по id и дайджесту, без состояния.
		sum := sha3.Sum256([]byte(proposalID.String() + ":" + digest))
		return "0x" + hex.EncodeToString(sum[:]), nil
	}

	if c.baseURL == "" {
		return "", apperror.New(apperror.ErrCodeAttestation, "attestation: baseURL не задан")
	}

	payload := map[string]string{
		"proposal_id":    proposalID.String(),
		"content_digest": digest,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/attestations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", proposalID.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeAttestation, "attestation: запрос не удался")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorBody map[string]any
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return "", apperror.New(apperror.ErrCodeAttestation,
			fmt.Sprintf("attestation: код ответа %d: %v", resp.StatusCode, errorBody))
	}

	var result struct {
		TransactionRef string `json:"transaction_ref"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeAttestation, "attestation: не удалось разобрать ответ")
	}
	if result.TransactionRef == "" {
		return "", apperror.New(apperror.ErrCodeAttestation, "attestation: пустая ссылка транзакции")
	}

	return result.TransactionRef, nil
}
