package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/http/handler"
	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/service"
)

var _ = Describe("error mapping", func() {
	var (
		router *gin.Engine
		svc    *mockOrganizationService
	)

	BeforeEach(func() {
		svc = &mockOrganizationService{}
		router = authedRouter(staffIdentity(model.RoleAdmin))
		router.GET("/organization", handler.NewOrganizationHandler(svc).Get)
	})

	DescribeTable("maps service errors to status codes",
		func(err error, code int) {
			svc.getFn = func(context.Context, domain.Identity) (*model.Organization, error) {
				return nil, err
			}
			Expect(serve(router, http.MethodGet, "/organization", nil).Code).To(Equal(code))
		},
		Entry("validation", domain.Validation("name is required"), http.StatusBadRequest),
		Entry("identity not found", domain.ErrIdentityNotFound, http.StatusUnauthorized),
		Entry("invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized),
		Entry("forbidden", domain.ErrForbidden, http.StatusForbidden),
		Entry("out of scope write", domain.ErrOutOfScope, http.StatusForbidden),
		Entry("not found", domain.ErrNotFound, http.StatusNotFound),
		Entry("invalid transition", fmt.Errorf("%w: review to new", domain.ErrInvalidTransition), http.StatusUnprocessableEntity),
		Entry("conflict", domain.ErrConflict, http.StatusConflict),
		Entry("store unavailable", fmt.Errorf("get org: %w: %w", domain.ErrStoreUnavailable, errors.New("dial tcp")), http.StatusServiceUnavailable),
		Entry("provider unavailable", service.ErrAuthProviderUnavailable, http.StatusServiceUnavailable),
		Entry("anything else", errors.New("boom"), http.StatusInternalServerError),
	)

	It("does not leak internal error text", func() {
		svc.getFn = func(context.Context, domain.Identity) (*model.Organization, error) {
			return nil, fmt.Errorf("get org: %w: %w", domain.ErrStoreUnavailable, errors.New("password=hunter2"))
		}
		w := serve(router, http.MethodGet, "/organization", nil)
		Expect(w.Body.String()).NotTo(ContainSubstring("hunter2"))
	})
})
