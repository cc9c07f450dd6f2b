package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tenderhub/tender-backend/internal/domain/repository"
	"github.com/tenderhub/tender-backend/internal/logger"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
	"github.com/tenderhub/tender-backend/internal/service"
	"github.com/tenderhub/tender-backend/internal/usecase/editor"
)

const (
	writeWait     = 10 * time.Second
	readLimit     = 512 * 1024
	streamTimeout = 5 * time.Minute
)

type streamRequest struct {
	Task        string `json:"task"`
	Instruction string `json:"instruction"`
}

type streamEvent struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// StreamHandler стримит дельты AI переписывания по WebSocket для живого
// предпросмотра. Результат стрима не попадает в буфер: принятие идёт
// обычным путём через сессию редактирования.
type StreamHandler struct {
	manager   *editor.Manager
	tenders   repository.TenderRepository
	companies repository.CompanyRepository
	aiService repository.AIService
	tokens    *service.TokenManager
	upgrader  websocket.Upgrader
}

func NewStreamHandler(
	manager *editor.Manager,
	tenders repository.TenderRepository,
	companies repository.CompanyRepository,
	aiService repository.AIService,
	tokens *service.TokenManager,
	allowedOrigins []string,
) *StreamHandler {
	return &StreamHandler{
		manager:   manager,
		tenders:   tenders,
		companies: companies,
		aiService: aiService,
		tokens:    tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				return false
			},
		},
	}
}

// Handle принимает соединение GET /api/ws/proposals/:id/transform.
// Браузер не может выставить Authorization заголовок для WebSocket,
// поэтому токен передаётся query параметром.
func (h *StreamHandler) Handle(c *gin.Context) {
	token := c.Query("token")
	userID, companyID, err := h.tokens.ParseAccess(token)
	if err != nil || userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "токен невалиден"})
		return
	}
	if companyID == uuid.Nil {
		company, err := h.companies.FindByOwner(c.Request.Context(), userID)
		if err != nil || company == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "профиль компании не найден"})
			return
		}
		companyID = company.ID
	}

	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный ID заявки"})
		return
	}

	session, err := h.manager.Open(c.Request.Context(), proposalID, companyID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "заявка недоступна"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.WithField("error", err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(readLimit)

	var req streamRequest
	if err := conn.ReadJSON(&req); err != nil {
		h.writeEvent(conn, streamEvent{Type: "error", Error: "некорректный запрос"})
		return
	}
	task := repository.AITask(req.Task)
	if task != repository.AITaskImprove && task != repository.AITaskGenerate {
		h.writeEvent(conn, streamEvent{Type: "error", Error: "неподдерживаемая задача для стриминга"})
		return
	}

	proposal := session.Proposal()
	if !proposal.IsMutable() {
		h.writeEvent(conn, streamEvent{Type: "error", Error: apperror.ErrProposalImmutable.Message})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), streamTimeout)
	defer cancel()

	tender, err := h.tenders.FindByID(ctx, proposal.TenderID)
	if err != nil {
		h.writeEvent(conn, streamEvent{Type: "error", Error: "тендер не найден"})
		return
	}
	company, err := h.companies.FindByID(ctx, proposal.CompanyID)
	if err != nil {
		h.writeEvent(conn, streamEvent{Type: "error", Error: "профиль компании не найден"})
		return
	}

	err = h.aiService.StreamTransform(ctx, repository.TransformRequest{
		Task:           task,
		Tender:         tender,
		Company:        company,
		CurrentContent: session.Buffer().Content,
		Instruction:    req.Instruction,
	}, func(chunk string) error {
		return h.writeEvent(conn, streamEvent{Type: "delta", Content: chunk})
	})
	if err != nil {
		h.writeEvent(conn, streamEvent{Type: "error", Error: "сбой AI сервиса"})
		return
	}

	h.writeEvent(conn, streamEvent{Type: "done"})
}

func (h *StreamHandler) writeEvent(conn *websocket.Conn, event streamEvent) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(event)
}
