package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clienthub.app/hub/internal/http/dto"
	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/service"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileService.UpdateName(c.Request.Context(), caller, req.FullName)
	if err != nil {
		respondError(c, err, "update profile")
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileResponse(profile))
}

func (h *ProfileHandler) ListMembers(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	members, err := h.profileService.ListMembers(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "list members")
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileResponses(members))
}

func (h *ProfileHandler) ChangeRole(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	profileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileService.ChangeRole(c.Request.Context(), caller, profileID, model.Role(req.Role))
	if err != nil {
		respondError(c, err, "change role")
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileResponse(profile))
}

func (h *ProfileHandler) GrantPortalAccess(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.GrantPortalAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileService.GrantPortalAccess(c.Request.Context(), caller, clientID, service.GrantPortalAccessInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		respondError(c, err, "grant portal access")
		return
	}

	c.JSON(http.StatusCreated, dto.ToProfileResponse(profile))
}

func (h *ProfileHandler) ListPortalUsers(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	users, err := h.profileService.ListPortalUsers(c.Request.Context(), caller, clientID)
	if err != nil {
		respondError(c, err, "list portal users")
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileResponses(users))
}
