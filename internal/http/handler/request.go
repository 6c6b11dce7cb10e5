package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/http/dto"
	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/service"
)

type RequestHandler struct {
	requestService service.RequestService
	commentService service.CommentService
	now            func() time.Time
}

func NewRequestHandler(requestService service.RequestService, commentService service.CommentService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		commentService: commentService,
		now:            time.Now,
	}
}

func (h *RequestHandler) List(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var query dto.ListRequestsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bucket, err := domain.ParseBucket(query.Status)
	if err != nil {
		respondError(c, err, "list requests")
		return
	}

	input := service.ListRequestsInput{
		Bucket:     bucket,
		Search:     query.Search,
		HasDueDate: query.HasDueDate,
	}
	if query.ClientID != "" {
		clientID, err := strconv.ParseInt(query.ClientID, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
			return
		}
		input.ClientID = &clientID
	}

	requests, err := h.requestService.List(c.Request.Context(), caller, input)
	if err != nil {
		respondError(c, err, "list requests")
		return
	}

	c.JSON(http.StatusOK, dto.ToRequestResponses(requests, h.now()))
}

func (h *RequestHandler) Get(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	req, err := h.requestService.Get(c.Request.Context(), caller, requestID)
	if err != nil {
		respondError(c, err, "get request")
		return
	}

	c.JSON(http.StatusOK, dto.ToRequestResponse(req, domain.IsOverdue(*req, h.now())))
}

func (h *RequestHandler) Create(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var body dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.requestService.Create(c.Request.Context(), caller, body.ToInput())
	if err != nil {
		respondError(c, err, "create request")
		return
	}

	c.JSON(http.StatusCreated, dto.ToRequestResponse(req, domain.IsOverdue(*req, h.now())))
}

func (h *RequestHandler) TransitionStatus(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var body dto.TransitionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.requestService.TransitionStatus(
		c.Request.Context(), caller, requestID, model.RequestStatus(body.Status), body.ExpectedVersion,
	)
	if err != nil {
		respondError(c, err, "transition request")
		return
	}

	c.JSON(http.StatusOK, dto.ToRequestResponse(req, domain.IsOverdue(*req, h.now())))
}

func (h *RequestHandler) ListComments(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.List(c.Request.Context(), caller, requestID)
	if err != nil {
		respondError(c, err, "list comments")
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentResponses(comments))
}

func (h *RequestHandler) PostComment(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var body dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Post(c.Request.Context(), caller, requestID, body.Content, body.IsInternal)
	if err != nil {
		respondError(c, err, "post comment")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentResponse(comment))
}
