package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clienthub.app/hub/internal/http/dto"
	"clienthub.app/hub/internal/http/middleware"
	"clienthub.app/hub/internal/service"
)

type AuthHandler struct {
	authService  service.AuthService
	isProduction bool
}

func NewAuthHandler(authService service.AuthService, isProduction bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		isProduction: isProduction,
	}
}

func (h *AuthHandler) SignInWithPassword(c *gin.Context) {
	var req dto.PasswordSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.SignInWithPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "password sign-in")
		return
	}

	h.setSessionCookie(c, result.Session.Token, result.Session.ExpiresAt)
	c.JSON(http.StatusOK, dto.ToSessionResponse(result))
}

// SendMagicLink always answers 202 so the endpoint cannot be used to probe
// which emails belong to portal clients.
func (h *AuthHandler) SendMagicLink(c *gin.Context) {
	var req dto.MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.SendMagicLink(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrAuthProviderUnavailable) {
			respondError(c, err, "send magic link")
			return
		}
		slog.WarnContext(c.Request.Context(), "magic link not sent", "error", err)
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "sent"})
}

func (h *AuthHandler) VerifyMagicLink(c *gin.Context) {
	var req dto.MagicLinkVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.SignInWithMagicLink(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		respondError(c, err, "magic link sign-in")
		return
	}

	h.setSessionCookie(c, result.Session.Token, result.Session.ExpiresAt)
	c.JSON(http.StatusOK, dto.ToSessionResponse(result))
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, org, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		FullName:         req.FullName,
		Email:            req.Email,
		Password:         req.Password,
		OrganizationName: req.OrganizationName,
	})
	if err != nil {
		respondError(c, err, "register")
		return
	}

	h.setSessionCookie(c, result.Session.Token, result.Session.ExpiresAt)
	c.JSON(http.StatusCreated, dto.RegisterResponse{
		SessionResponse: dto.ToSessionResponse(result),
		Organization:    dto.ToOrganizationResponse(org),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sessionToken, err := middleware.SessionToken(c)
	if err == nil {
		if err := h.authService.SignOut(c.Request.Context(), sessionToken); err != nil {
			slog.WarnContext(c.Request.Context(), "failed to delete session", "error", err)
		}
	}

	middleware.ClearSessionCookie(c, h.isProduction)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToMeResponse(caller))
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sessionToken string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.SessionCookieName,
		sessionToken,
		maxAge,
		"/",
		"",
		h.isProduction,
		true,
	)
}
