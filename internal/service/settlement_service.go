package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/settlement-api/internal/models"
	"github.com/noah-isme/settlement-api/internal/repository"
	"github.com/noah-isme/settlement-api/pkg/config"
	appErrors "github.com/noah-isme/settlement-api/pkg/errors"
)

type settlementRepository interface {
	List(ctx context.Context, filter models.SettlementFilter) ([]models.Settlement, int, error)
	FindByRequestID(ctx context.Context, requestID int64) ([]models.Settlement, error)
	ExistsByRequestID(ctx context.Context, requestID int64) (bool, error)
	Create(ctx context.Context, settlement *models.Settlement) error
	UpdateByRequestID(ctx context.Context, requestID int64, patch models.SettlementPatch) (int64, error)
}

// existenceChecker answers whether a row with the id is stored.
type existenceChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// CreateSettlementInput captures fields for creating settlements.
type CreateSettlementInput struct {
	RequestID                int64                           `json:"requestId" validate:"required,gt=0"`
	UserID                   int64                           `json:"userId" validate:"required,gt=0"`
	AdminID                  int64                           `json:"adminId" validate:"required,gt=0"`
	RequestStatus            models.SettlementStatus         `json:"requestStatus" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED FAILED"`
	ThirdPartyResponseStatus models.ThirdPartyResponseStatus `json:"thirdPartyResponseStatus" validate:"required,oneof=PENDING SUCCESS FAILED"`
	TransactionID            int64                           `json:"transactionId" validate:"required,gt=0"`
	Content                  *types.JSONText                 `json:"content,omitempty" swaggertype:"object"`
}

// UpdateSettlementInput is a partial update applied to every settlement of a request.
type UpdateSettlementInput struct {
	RequestStatus            *models.SettlementStatus         `json:"requestStatus,omitempty" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED FAILED"`
	ThirdPartyResponseStatus *models.ThirdPartyResponseStatus `json:"thirdPartyResponseStatus,omitempty" validate:"omitempty,oneof=PENDING SUCCESS FAILED"`
	Content                  *types.JSONText                  `json:"content,omitempty" swaggertype:"object"`
}

// SettlementListQuery holds the raw listing parameters accepted on the query string.
type SettlementListQuery struct {
	RequestStatus            models.SettlementStatus         `form:"requestStatus" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED FAILED"`
	ThirdPartyResponseStatus models.ThirdPartyResponseStatus `form:"thirdPartyResponseStatus" validate:"omitempty,oneof=PENDING SUCCESS FAILED"`
	Limit                    *int                            `form:"limit" validate:"omitempty,gte=1"`
	Offset                   *int                            `form:"offset" validate:"omitempty,gte=0"`
	OrderBy                  string                          `form:"orderBy"`
}

// SettlementService handles settlement workflows. Referenced requests and
// users are checked one query at a time before dependent rows are written.
type SettlementService struct {
	repo       settlementRepository
	requests   existenceChecker
	users      existenceChecker
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	pagination config.PaginationConfig
}

// NewSettlementService creates a new settlement service.
func NewSettlementService(repo settlementRepository, requests, users existenceChecker, metrics *MetricsService, pagination config.PaginationConfig, validate *validator.Validate, logger *zap.Logger) *SettlementService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettlementService{
		repo:       repo,
		requests:   requests,
		users:      users,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		pagination: pagination,
	}
}

// Create persists a settlement for a request that has none yet. The unique
// index on request_id decides concurrent races; the pre-check only saves a round trip.
func (s *SettlementService) Create(ctx context.Context, req CreateSettlementInput) (*models.Settlement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid settlement payload")
	}

	if err := s.ensureRequest(ctx, req.RequestID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByRequestID(ctx, req.RequestID)
	if err != nil {
		s.logger.Error("check duplicate settlement failed", zap.Int64("request_id", req.RequestID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create the settlement")
	}
	if exists {
		s.metrics.SettlementConflict()
		return nil, duplicateSettlement(req.RequestID)
	}

	settlement := &models.Settlement{
		RequestID:                req.RequestID,
		UserID:                   req.UserID,
		AdminID:                  req.AdminID,
		RequestStatus:            req.RequestStatus,
		ThirdPartyResponseStatus: req.ThirdPartyResponseStatus,
		TransactionID:            req.TransactionID,
		Content:                  models.NormalizeContent(req.Content),
	}

	if err := s.repo.Create(ctx, settlement); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			s.metrics.SettlementConflict()
			return nil, duplicateSettlement(req.RequestID)
		case errors.Is(err, repository.ErrForeignKey):
			return nil, requestNotFound(req.RequestID)
		}
		s.logger.Error("create settlement failed",
			zap.Int64("request_id", req.RequestID),
			zap.Int64("user_id", req.UserID),
			zap.Error(err),
		)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create the settlement")
	}

	s.metrics.SettlementCreated()
	s.logger.Info("settlement created",
		zap.Int64("settlement_id", settlement.SettlementID),
		zap.Int64("request_id", settlement.RequestID),
		zap.Int64("user_id", settlement.UserID),
	)
	return settlement, nil
}

// List returns a page of settlements of any user.
func (s *SettlementService) List(ctx context.Context, query SettlementListQuery) ([]models.Settlement, *models.Pagination, error) {
	page, err := s.resolveQuery(query)
	if err != nil {
		return nil, nil, err
	}
	return s.list(ctx, nil, query, page)
}

// ListForUser returns a page of the settlements of userID, failing with not-found for unknown users.
func (s *SettlementService) ListForUser(ctx context.Context, userID int64, query SettlementListQuery) ([]models.Settlement, *models.Pagination, error) {
	page, err := s.resolveQuery(query)
	if err != nil {
		return nil, nil, err
	}
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		s.logger.Error("check user failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user settlements")
	}
	if !exists {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("user %d not found", userID))
	}
	return s.list(ctx, &userID, query, page)
}

func (s *SettlementService) resolveQuery(query SettlementListQuery) (models.Page, error) {
	if err := s.validator.Struct(query); err != nil {
		return models.Page{}, appErrors.Validation(err, "invalid settlement filter")
	}
	return resolvePage(query.Limit, query.Offset, query.OrderBy, models.SettlementSortColumns, s.pagination)
}

func (s *SettlementService) list(ctx context.Context, userID *int64, query SettlementListQuery, page models.Page) ([]models.Settlement, *models.Pagination, error) {
	filter := models.SettlementFilter{
		UserID:                   userID,
		RequestStatus:            query.RequestStatus,
		ThirdPartyResponseStatus: query.ThirdPartyResponseStatus,
		Page:                     page,
	}
	settlements, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list settlements failed", zap.Error(err))
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch settlements")
	}
	return settlements, &models.Pagination{Limit: page.Limit, Offset: page.Offset, TotalCount: total}, nil
}

// GetByRequestID returns the settlements recorded against an existing request.
func (s *SettlementService) GetByRequestID(ctx context.Context, requestID int64) ([]models.Settlement, error) {
	if err := s.ensureRequest(ctx, requestID); err != nil {
		return nil, err
	}
	settlements, err := s.repo.FindByRequestID(ctx, requestID)
	if err != nil {
		s.logger.Error("get settlement failed", zap.Int64("request_id", requestID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch the settlement")
	}
	return settlements, nil
}

// UpdateByRequestID applies a partial update to every settlement of an existing request.
func (s *SettlementService) UpdateByRequestID(ctx context.Context, requestID int64, req UpdateSettlementInput) (*models.BatchResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid settlement payload")
	}
	patch := models.SettlementPatch{
		RequestStatus:            req.RequestStatus,
		ThirdPartyResponseStatus: req.ThirdPartyResponseStatus,
		Content:                  models.NormalizeContent(req.Content),
	}
	if patch.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}

	if err := s.ensureRequest(ctx, requestID); err != nil {
		return nil, err
	}

	count, err := s.repo.UpdateByRequestID(ctx, requestID, patch)
	if err != nil {
		s.logger.Error("update settlement failed", zap.Int64("request_id", requestID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update the settlement")
	}
	return &models.BatchResult{Count: count}, nil
}

func (s *SettlementService) ensureRequest(ctx context.Context, requestID int64) error {
	exists, err := s.requests.Exists(ctx, requestID)
	if err != nil {
		s.logger.Error("check request failed", zap.Int64("request_id", requestID), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check the request")
	}
	if !exists {
		return requestNotFound(requestID)
	}
	return nil
}

func requestNotFound(requestID int64) error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("request %d not found", requestID))
}

func duplicateSettlement(requestID int64) error {
	return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("settlement already exists for request %d", requestID))
}
