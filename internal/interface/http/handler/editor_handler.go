package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tenderhub/tender-backend/internal/domain/repository"
	"github.com/tenderhub/tender-backend/internal/interface/http/dto"
	"github.com/tenderhub/tender-backend/internal/interface/http/response"
	"github.com/tenderhub/tender-backend/internal/usecase/editor"
)

// EditorHandler - HTTP фасад сессии редактирования. Каждый запрос открывает
// (или переиспользует) сессию заявки через Manager и вызывает одну операцию.
type EditorHandler struct {
	manager *editor.Manager
}

func NewEditorHandler(manager *editor.Manager) *EditorHandler {
	return &EditorHandler{manager: manager}
}

func (h *EditorHandler) openSession(c *gin.Context) (*editor.Session, bool) {
	companyID, err := getCompanyID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return nil, false
	}

	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный ID заявки")
		return nil, false
	}

	session, err := h.manager.Open(c.Request.Context(), proposalID, companyID)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return session, true
}

func (h *EditorHandler) Edit(c *gin.Context) {
	session, ok := h.openSession(c)
	if !ok {
		return
	}

	var req dto.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	if err := session.Edit(req.Content); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBufferResponse(session.Buffer()))
}

func (h *EditorHandler) Transform(c *gin.Context) {
	session, ok := h.openSession(c)
	if !ok {
		return
	}

	var req dto.TransformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	result, err := session.ApplyTransform(c.Request.Context(), repository.AITask(req.Task), req.Instruction)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToTransformResponse(result))
}

func (h *EditorHandler) Translate(c *gin.Context) {
	session, ok := h.openSession(c)
	if !ok {
		return
	}

	var req dto.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	result, err := session.ApplyTranslation(c.Request.Context(), req.SourceLanguage, req.TargetLanguage)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToTranslationResponse(result))
}

func (h *EditorHandler) AdoptTranslation(c *gin.Context) {
	session, ok := h.openSession(c)
	if !ok {
		return
	}

	if err := session.AdoptTranslation(); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBufferResponse(session.Buffer()))
}

func (h *EditorHandler) Restore(c *gin.Context) {
	session, ok := h.openSession(c)
	if !ok {
		return
	}

	var req dto.RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	if err := session.LoadVersion(c.Request.Context(), req.Version); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBufferResponse(session.Buffer()))
}

func (h *EditorHandler) Save(c *gin.Context) {
	session, ok := h.openSession(c)
	if !ok {
		return
	}

	var req dto.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	if err := session.Save(c.Request.Context(), req.Summary); err != nil {
		response.Error(c, err)
		return
	}

	p := session.Proposal()
	response.Success(c, gin.H{
		"proposal": dto.ToProposalResponse(&p),
		"buffer":   dto.ToBufferResponse(session.Buffer()),
	})
}

func (h *EditorHandler) Submit(c *gin.Context) {
	session, ok := h.openSession(c)
	if !ok {
		return
	}

	updated, err := session.Submit(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponse(updated))
}

func (h *EditorHandler) GetBuffer(c *gin.Context) {
	session, ok := h.openSession(c)
	if !ok {
		return
	}

	response.Success(c, dto.ToBufferResponse(session.Buffer()))
}

func (h *EditorHandler) Close(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный ID заявки")
		return
	}

	var req dto.CloseRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	if err := h.manager.Close(proposalID, companyID, req.Force); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"closed": true})
}
