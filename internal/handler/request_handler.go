package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/settlement-api/internal/middleware"
	"github.com/noah-isme/settlement-api/internal/models"
	"github.com/noah-isme/settlement-api/internal/service"
	"github.com/noah-isme/settlement-api/pkg/response"
)

type requestService interface {
	Create(ctx context.Context, req service.CreateRequestInput) (*models.Request, error)
	List(ctx context.Context, query service.RequestListQuery) ([]models.Request, *models.Pagination, error)
	ListForUser(ctx context.Context, userID int64, query service.RequestListQuery) ([]models.Request, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.Request, bool, error)
	Update(ctx context.Context, id int64, req service.UpdateRequestInput) (*models.Request, error)
	UpdateStatus(ctx context.Context, id int64, req service.UpdateRequestStatusInput) (*models.Request, error)
}

// RequestHandler handles request endpoints.
type RequestHandler struct {
	service requestService
}

// NewRequestHandler creates a new request handler.
func NewRequestHandler(svc requestService) *RequestHandler {
	return &RequestHandler{service: svc}
}

// Create godoc
// @Summary Create request
// @Description Create a new request for a user
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body service.CreateRequestInput true "Create request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	var req service.CreateRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}

	request, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Request created successfully", request)
}

// List godoc
// @Summary List requests
// @Description List requests with filtering and offset pagination
// @Tags Requests
// @Produce json
// @Param status query string false "Status filter" Enums(PENDING, IN_PROGRESS, APPROVED, REJECTED)
// @Param type query string false "Type filter" Enums(REFUND, CREDIT, INVOICE_REQUEST, SETTLEMENT)
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Rows to skip" default(0)
// @Param orderBy query string false "Ascending sort field" default(createdAt)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	var query service.RequestListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, invalidQuery(c, err))
		return
	}

	requests, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Requests fetched successfully", requests, pagination)
}

// ListForUser godoc
// @Summary List user requests
// @Description List the requests submitted by one user
// @Tags Requests
// @Produce json
// @Param userId path int true "User ID"
// @Param status query string false "Status filter"
// @Param type query string false "Type filter"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Rows to skip" default(0)
// @Param orderBy query string false "Ascending sort field" default(createdAt)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /requests/user/{userId} [get]
func (h *RequestHandler) ListForUser(c *gin.Context) {
	userID, err := idParam(c, "userId")
	if err != nil {
		response.Error(c, err)
		return
	}
	var query service.RequestListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, invalidQuery(c, err))
		return
	}

	requests, pagination, err := h.service.ListForUser(c.Request.Context(), userID, query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "User requests fetched successfully", requests, pagination)
}

// Get godoc
// @Summary Get request
// @Description Get a request by id. Unknown ids answer 200 without data.
// @Tags Requests
// @Produce json
// @Param requestId path int true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /requests/{requestId} [get]
func (h *RequestHandler) Get(c *gin.Context) {
	id, err := idParam(c, "requestId")
	if err != nil {
		response.Error(c, err)
		return
	}

	request, hit, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)

	if request == nil {
		response.OK(c, fmt.Sprintf("No request found for id #%d", id), nil, middleware.ResponseMeta(c))
		return
	}
	response.OK(c, "Request fetched successfully", request, middleware.ResponseMeta(c))
}

// Update godoc
// @Summary Update request
// @Description Partially update a request; omitted fields are unchanged
// @Tags Requests
// @Accept json
// @Produce json
// @Param requestId path int true "Request ID"
// @Param payload body service.UpdateRequestInput true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /requests/update/{requestId} [patch]
func (h *RequestHandler) Update(c *gin.Context) {
	id, err := idParam(c, "requestId")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}

	request, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Request updated successfully", request)
}

// UpdateStatus godoc
// @Summary Update request status
// @Description Change only the status of a request
// @Tags Requests
// @Accept json
// @Produce json
// @Param requestId path int true "Request ID"
// @Param payload body service.UpdateRequestStatusInput true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /requests/update/status/{requestId} [patch]
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	id, err := idParam(c, "requestId")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateRequestStatusInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}

	request, err := h.service.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Request status updated successfully", request)
}
