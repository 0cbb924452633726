package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/settlement-api/internal/models"
	"github.com/noah-isme/settlement-api/internal/service"
	"github.com/noah-isme/settlement-api/pkg/response"
)

type settlementService interface {
	Create(ctx context.Context, req service.CreateSettlementInput) (*models.Settlement, error)
	List(ctx context.Context, query service.SettlementListQuery) ([]models.Settlement, *models.Pagination, error)
	ListForUser(ctx context.Context, userID int64, query service.SettlementListQuery) ([]models.Settlement, *models.Pagination, error)
	GetByRequestID(ctx context.Context, requestID int64) ([]models.Settlement, error)
	UpdateByRequestID(ctx context.Context, requestID int64, req service.UpdateSettlementInput) (*models.BatchResult, error)
}

// SettlementHandler handles settlement endpoints.
type SettlementHandler struct {
	service settlementService
}

// NewSettlementHandler creates a new settlement handler.
func NewSettlementHandler(svc settlementService) *SettlementHandler {
	return &SettlementHandler{service: svc}
}

// Create godoc
// @Summary Create settlement
// @Description Record the settlement of a request. A request holds at most one settlement.
// @Tags Settlements
// @Accept json
// @Produce json
// @Param payload body service.CreateSettlementInput true "Create settlement payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /settlement [post]
func (h *SettlementHandler) Create(c *gin.Context) {
	var req service.CreateSettlementInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}

	settlement, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Settlement request created successfully", settlement)
}

// List godoc
// @Summary List settlements
// @Description List settlements with filtering and offset pagination
// @Tags Settlements
// @Produce json
// @Param requestStatus query string false "Settlement status filter" Enums(PENDING, IN_PROGRESS, COMPLETED, FAILED)
// @Param thirdPartyResponseStatus query string false "Provider status filter" Enums(PENDING, SUCCESS, FAILED)
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Rows to skip" default(0)
// @Param orderBy query string false "Ascending sort field" default(createdAt)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /settlement [get]
func (h *SettlementHandler) List(c *gin.Context) {
	var query service.SettlementListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, invalidQuery(c, err))
		return
	}

	settlements, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Successfully fetched settlements", settlements, pagination)
}

// ListForUser godoc
// @Summary List user settlements
// @Description List the settlements of one user
// @Tags Settlements
// @Produce json
// @Param userId path int true "User ID"
// @Param requestStatus query string false "Settlement status filter"
// @Param thirdPartyResponseStatus query string false "Provider status filter"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Rows to skip" default(0)
// @Param orderBy query string false "Ascending sort field" default(createdAt)
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /settlement/user/{userId} [get]
func (h *SettlementHandler) ListForUser(c *gin.Context) {
	userID, err := idParam(c, "userId")
	if err != nil {
		response.Error(c, err)
		return
	}
	var query service.SettlementListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, invalidQuery(c, err))
		return
	}

	settlements, pagination, err := h.service.ListForUser(c.Request.Context(), userID, query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, fmt.Sprintf("Successfully fetched user settlements for user id #%d", userID), settlements, pagination)
}

// GetByRequestID godoc
// @Summary Get settlement
// @Description Get the settlements recorded for a request
// @Tags Settlements
// @Produce json
// @Param requestId path int true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /settlement/{requestId} [get]
func (h *SettlementHandler) GetByRequestID(c *gin.Context) {
	requestID, err := idParam(c, "requestId")
	if err != nil {
		response.Error(c, err)
		return
	}

	settlements, err := h.service.GetByRequestID(c.Request.Context(), requestID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, fmt.Sprintf("Successfully fetched settlement for request id #%d", requestID), settlements)
}

// UpdateByRequestID godoc
// @Summary Update settlement
// @Description Partially update every settlement of a request and report how many rows changed
// @Tags Settlements
// @Accept json
// @Produce json
// @Param requestId path int true "Request ID"
// @Param payload body service.UpdateSettlementInput true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /settlement/{requestId} [patch]
func (h *SettlementHandler) UpdateByRequestID(c *gin.Context) {
	requestID, err := idParam(c, "requestId")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateSettlementInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}

	result, err := h.service.UpdateByRequestID(c.Request.Context(), requestID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, fmt.Sprintf("Successfully updated settlement request for request id #%d", requestID), result)
}
