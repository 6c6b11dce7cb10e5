package handler_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/http/handler"
	"clienthub.app/hub/internal/http/middleware"
	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/service"
)

var _ = Describe("AuthHandler", func() {
	var (
		router *gin.Engine
		svc    *mockAuthService
		result *service.AuthResult
	)

	BeforeEach(func() {
		svc = &mockAuthService{}
		router = authedRouter(staffIdentity(model.RoleAdmin))
		h := handler.NewAuthHandler(svc, false)
		router.POST("/auth/password", h.SignInWithPassword)
		router.POST("/auth/magic-link", h.SendMagicLink)
		router.POST("/auth/magic-link/verify", h.VerifyMagicLink)
		router.POST("/auth/register", h.Register)
		router.GET("/auth/me", h.Me)

		result = &service.AuthResult{
			Identity: staffIdentity(model.RoleAdmin),
			Session:  model.Session{ID: 555, ProfileID: 1, TokenHash: "hashed", Token: "opaque-token", ExpiresAt: time.Now().Add(time.Hour)},
		}
	})

	It("sets the session cookie on password sign-in", func() {
		svc.signInWithPasswordFn = func(_ context.Context, email, password string) (*service.AuthResult, error) {
			Expect(email).To(Equal("avery@studio.test"))
			return result, nil
		}

		w := serve(router, http.MethodPost, "/auth/password", map[string]any{
			"email":    "avery@studio.test",
			"password": "correct-horse",
		})

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Set-Cookie")).To(ContainSubstring(middleware.SessionCookieName + "=opaque-token"))
		Expect(w.Header().Get("Set-Cookie")).NotTo(ContainSubstring("555"))
		resp := decode(w)
		Expect(resp["session_token"]).To(Equal("opaque-token"))
		Expect(resp).NotTo(HaveKey("session_id"))
		Expect(w.Body.String()).NotTo(ContainSubstring("hashed"))
	})

	It("returns 401 on bad credentials", func() {
		w := serve(router, http.MethodPost, "/auth/password", map[string]any{
			"email":    "avery@studio.test",
			"password": "nope",
		})
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("returns 403 when a portal client uses password sign-in", func() {
		svc.signInWithPasswordFn = func(context.Context, string, string) (*service.AuthResult, error) {
			return nil, domain.ErrForbidden
		}
		w := serve(router, http.MethodPost, "/auth/password", map[string]any{
			"email":    "casey@client.test",
			"password": "whatever1",
		})
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("answers 202 for magic links even when sending fails quietly", func() {
		svc.sendMagicLinkFn = func(context.Context, string) error {
			return errors.New("rate limited")
		}
		w := serve(router, http.MethodPost, "/auth/magic-link", map[string]any{"email": "someone@else.test"})
		Expect(w.Code).To(Equal(http.StatusAccepted))
	})

	It("returns 503 when the identity provider is down", func() {
		svc.sendMagicLinkFn = func(context.Context, string) error {
			return service.ErrAuthProviderUnavailable
		}
		w := serve(router, http.MethodPost, "/auth/magic-link", map[string]any{"email": "casey@client.test"})
		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
	})

	It("signs a client in with a magic code", func() {
		result.Identity = portalIdentity()
		svc.signInWithMagicLinkFn = func(_ context.Context, _ string, code string) (*service.AuthResult, error) {
			Expect(code).To(Equal("123456"))
			return result, nil
		}

		w := serve(router, http.MethodPost, "/auth/magic-link/verify", map[string]any{
			"email": "casey@client.test",
			"code":  "123456",
		})

		Expect(w.Code).To(Equal(http.StatusOK))
		me := decode(w)["me"].(map[string]any)
		Expect(me["is_staff"]).To(BeFalse())
		Expect(me["scope"].(map[string]any)["client_id"]).To(Equal("11"))
	})

	It("registers an organization", func() {
		svc.registerFn = func(_ context.Context, input service.RegisterInput) (*service.AuthResult, *model.Organization, error) {
			Expect(input.OrganizationName).To(Equal("Studio Nord"))
			return result, &model.Organization{ID: orgID, Name: input.OrganizationName, Slug: "studio-nord", Plan: model.PlanFreelance}, nil
		}

		w := serve(router, http.MethodPost, "/auth/register", map[string]any{
			"full_name":         "Avery Staff",
			"email":             "avery@studio.test",
			"password":          "long-enough",
			"organization_name": "Studio Nord",
		})

		Expect(w.Code).To(Equal(http.StatusCreated))
		org := decode(w)["organization"].(map[string]any)
		Expect(org["slug"]).To(Equal("studio-nord"))
		Expect(org["id"]).To(Equal("100"))
	})

	It("returns 409 when the email is taken", func() {
		svc.registerFn = func(context.Context, service.RegisterInput) (*service.AuthResult, *model.Organization, error) {
			return nil, nil, domain.ErrConflict
		}
		w := serve(router, http.MethodPost, "/auth/register", map[string]any{
			"full_name":         "Avery Staff",
			"email":             "avery@studio.test",
			"password":          "long-enough",
			"organization_name": "Studio Nord",
		})
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("returns the resolved caller from /me", func() {
		w := serve(router, http.MethodGet, "/auth/me", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["is_staff"]).To(BeTrue())
	})

	Describe("Logout", func() {
		It("deletes the session and clears the cookie", func() {
			var signedOut string
			svc.signOutFn = func(_ context.Context, raw string) error {
				signedOut = raw
				return nil
			}
			r := gin.New()
			r.POST("/auth/logout", handler.NewAuthHandler(svc, false).Logout)

			req := httptest.NewRequest(http.MethodPost, "/auth/logout", bytes.NewBufferString(""))
			req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "opaque-token"})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(signedOut).To(Equal("opaque-token"))
			Expect(w.Header().Get("Set-Cookie")).To(ContainSubstring("Max-Age=0"))
		})
	})
})
