package handler

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/invopop/jsonschema"

	"clienthub.app/hub/internal/http/dto"
)

// SchemaHandler publishes JSON schemas for the write payloads so the
// dashboard and portal can validate forms before submitting.
type SchemaHandler struct {
	schemas map[string]*jsonschema.Schema
}

func NewSchemaHandler() *SchemaHandler {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	return &SchemaHandler{
		schemas: map[string]*jsonschema.Schema{
			"register":           reflector.Reflect(&dto.RegisterRequest{}),
			"organization":       reflector.Reflect(&dto.UpdateOrganizationRequest{}),
			"profile":            reflector.Reflect(&dto.UpdateProfileRequest{}),
			"role":               reflector.Reflect(&dto.ChangeRoleRequest{}),
			"portal-access":      reflector.Reflect(&dto.GrantPortalAccessRequest{}),
			"client":             reflector.Reflect(&dto.ClientRequest{}),
			"request":            reflector.Reflect(&dto.CreateRequestRequest{}),
			"request-transition": reflector.Reflect(&dto.TransitionRequest{}),
			"comment":            reflector.Reflect(&dto.CreateCommentRequest{}),
		},
	}
}

func (h *SchemaHandler) List(c *gin.Context) {
	names := make([]string, 0, len(h.schemas))
	for name := range h.schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	c.JSON(http.StatusOK, gin.H{"schemas": names})
}

func (h *SchemaHandler) Get(c *gin.Context) {
	schema, ok := h.schemas[c.Param("name")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown schema"})
		return
	}
	c.JSON(http.StatusOK, schema)
}
