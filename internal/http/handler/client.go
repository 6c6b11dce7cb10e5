package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clienthub.app/hub/internal/http/dto"
	"clienthub.app/hub/internal/service"
)

type ClientHandler struct {
	clientService service.ClientService
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

func (h *ClientHandler) List(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	clients, err := h.clientService.List(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "list clients")
		return
	}

	c.JSON(http.StatusOK, dto.ToClientResponses(clients))
}

func (h *ClientHandler) Get(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.Get(c.Request.Context(), caller, clientID)
	if err != nil {
		respondError(c, err, "get client")
		return
	}

	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

func (h *ClientHandler) Create(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), caller, req.ToInput())
	if err != nil {
		respondError(c, err, "create client")
		return
	}

	c.JSON(http.StatusCreated, dto.ToClientResponse(client))
}

func (h *ClientHandler) Update(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), caller, clientID, req.ToInput())
	if err != nil {
		respondError(c, err, "update client")
		return
	}

	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}
