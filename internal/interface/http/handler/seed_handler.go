package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tenderhub/tender-backend/internal/interface/http/response"
	"github.com/tenderhub/tender-backend/internal/service"
)

// SeedHandler доступен только в development окружении.
type SeedHandler struct {
	seedService *service.SeedService
}

func NewSeedHandler(seedService *service.SeedService) *SeedHandler {
	return &SeedHandler{seedService: seedService}
}

func (h *SeedHandler) Seed(c *gin.Context) {
	tenderCount := parseIntQuery(c, "tenders", 20)
	companyCount := parseIntQuery(c, "companies", 10)

	if err := h.seedService.Seed(c.Request.Context(), tenderCount, companyCount); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"seeded": true})
}
