package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tenderhub/tender-backend/internal/interface/http/dto"
	"github.com/tenderhub/tender-backend/internal/interface/http/response"
	"github.com/tenderhub/tender-backend/internal/usecase/proposal"
)

type ProposalHandler struct {
	createProposalUC  *proposal.CreateProposalUseCase
	getProposalUC     *proposal.GetProposalUseCase
	listMyProposalsUC *proposal.ListMyProposalsUseCase
	deleteProposalUC  *proposal.DeleteProposalUseCase
	listVersionsUC    *proposal.ListVersionsUseCase
	getVersionUC      *proposal.GetVersionUseCase
}

func NewProposalHandler(
	createProposalUC *proposal.CreateProposalUseCase,
	getProposalUC *proposal.GetProposalUseCase,
	listMyProposalsUC *proposal.ListMyProposalsUseCase,
	deleteProposalUC *proposal.DeleteProposalUseCase,
	listVersionsUC *proposal.ListVersionsUseCase,
	getVersionUC *proposal.GetVersionUseCase,
) *ProposalHandler {
	return &ProposalHandler{
		createProposalUC:  createProposalUC,
		getProposalUC:     getProposalUC,
		listMyProposalsUC: listMyProposalsUC,
		deleteProposalUC:  deleteProposalUC,
		listVersionsUC:    listVersionsUC,
		getVersionUC:      getVersionUC,
	}
}

func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var req dto.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.createProposalUC.Execute(c.Request.Context(), proposal.CreateProposalInput{
		TenderID:    req.TenderID,
		CompanyID:   companyID,
		FromScratch: req.FromScratch,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToProposalResponse(created))
}

func (h *ProposalHandler) GetProposal(c *gin.Context) {
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

	p, err := h.getProposalUC.Execute(c.Request.Context(), proposalID, companyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponse(p))
}

func (h *ProposalHandler) ListMyProposals(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	proposals, err := h.listMyProposalsUC.Execute(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponses(proposals))
}

func (h *ProposalHandler) DeleteProposal(c *gin.Context) {
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

	if err := h.deleteProposalUC.Execute(c.Request.Context(), proposalID, companyID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

func (h *ProposalHandler) ListVersions(c *gin.Context) {
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

	versions, err := h.listVersionsUC.Execute(c.Request.Context(), proposalID, companyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToVersionResponses(versions))
}

func (h *ProposalHandler) GetVersion(c *gin.Context) {
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

	n, err := parseVersionParam(c)
	if err != nil {
		response.BadRequest(c, "некорректный номер версии")
		return
	}

	v, err := h.getVersionUC.Execute(c.Request.Context(), proposalID, companyID, n)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToVersionResponse(v))
}
