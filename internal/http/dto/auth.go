package dto

import (
	"time"

	"clienthub.app/hub/internal/service"
)

type PasswordSignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type MagicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type MagicLinkVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,min=4,max=16"`
}

type RegisterRequest struct {
	FullName         string `json:"full_name" binding:"required,min=1,max=255" jsonschema:"required"`
	Email            string `json:"email" binding:"required,email" jsonschema:"required,format=email"`
	Password         string `json:"password" binding:"required,min=8" jsonschema:"required,minLength=8"`
	OrganizationName string `json:"organization_name" binding:"required,min=1,max=255" jsonschema:"required"`
}

type SessionResponse struct {
	SessionToken string     `json:"session_token"`
	ExpiresAt    time.Time  `json:"expires_at"`
	Me           MeResponse `json:"me"`
}

type RegisterResponse struct {
	SessionResponse
	Organization *OrganizationResponse `json:"organization"`
}

func ToSessionResponse(result *service.AuthResult) SessionResponse {
	return SessionResponse{
		SessionToken: result.Session.Token,
		ExpiresAt:    result.Session.ExpiresAt,
		Me:           ToMeResponse(result.Identity),
	}
}
