package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tenderhub/tender-backend/internal/domain/repository"
	"github.com/tenderhub/tender-backend/internal/interface/http/dto"
	"github.com/tenderhub/tender-backend/internal/interface/http/response"
)

// TenderHandler отдаёт тендеры только на чтение: их жизненный цикл
// ведёт внешняя система.
type TenderHandler struct {
	tenderRepo repository.TenderRepository
}

func NewTenderHandler(tenderRepo repository.TenderRepository) *TenderHandler {
	return &TenderHandler{tenderRepo: tenderRepo}
}

func (h *TenderHandler) ListTenders(c *gin.Context) {
	filter := repository.TenderFilter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
		Limit:    parseIntQuery(c, "limit", 20),
		Offset:   parseIntQuery(c, "offset", 0),
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	tenders, total, err := h.tenderRepo.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToTenderResponses(tenders), total, filter.Limit, filter.Offset)
}

func (h *TenderHandler) GetTender(c *gin.Context) {
	tenderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный ID тендера")
		return
	}

	tender, err := h.tenderRepo.FindByID(c.Request.Context(), tenderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToTenderResponse(tender))
}
