package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clienthub.app/hub/internal/http/dto"
	"clienthub.app/hub/internal/service"
)

type OrganizationHandler struct {
	orgService service.OrganizationService
}

func NewOrganizationHandler(orgService service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

func (h *OrganizationHandler) Get(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	org, err := h.orgService.Get(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "get organization")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

func (h *OrganizationHandler) Update(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	org, err := h.orgService.UpdateSettings(c.Request.Context(), caller, service.UpdateOrganizationInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		respondError(c, err, "update organization")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}
