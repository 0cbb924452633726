package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/settlement-api/internal/models"
	"github.com/noah-isme/settlement-api/pkg/config"
	appErrors "github.com/noah-isme/settlement-api/pkg/errors"
)

type requestRepository interface {
	List(ctx context.Context, filter models.RequestFilter) ([]models.Request, int, error)
	FindByID(ctx context.Context, id int64) (*models.Request, error)
	Create(ctx context.Context, request *models.Request) error
	Update(ctx context.Context, id int64, patch models.RequestPatch) (*models.Request, error)
}

// CreateRequestInput captures fields for creating requests.
type CreateRequestInput struct {
	UserID          int64                `json:"userId" validate:"required,gt=0"`
	Title           string               `json:"title" validate:"required,notblank"`
	Description     string               `json:"description" validate:"required,notblank"`
	Status          models.RequestStatus `json:"status" validate:"required,oneof=PENDING IN_PROGRESS APPROVED REJECTED"`
	Type            models.RequestType   `json:"type" validate:"required,oneof=REFUND CREDIT INVOICE_REQUEST SETTLEMENT"`
	RequestContent  *types.JSONText      `json:"requestContent,omitempty" swaggertype:"object"`
	ResponseContent *types.JSONText      `json:"responseContent,omitempty" swaggertype:"object"`
	Remark          *string              `json:"remark,omitempty"`
}

// UpdateRequestInput is a partial update; omitted fields keep their stored value.
type UpdateRequestInput struct {
	Title           *string               `json:"title,omitempty" validate:"omitempty,notblank"`
	Description     *string               `json:"description,omitempty" validate:"omitempty,notblank"`
	Status          *models.RequestStatus `json:"status,omitempty" validate:"omitempty,oneof=PENDING IN_PROGRESS APPROVED REJECTED"`
	Type            *models.RequestType   `json:"type,omitempty" validate:"omitempty,oneof=REFUND CREDIT INVOICE_REQUEST SETTLEMENT"`
	RequestContent  *types.JSONText       `json:"requestContent,omitempty" swaggertype:"object"`
	ResponseContent *types.JSONText       `json:"responseContent,omitempty" swaggertype:"object"`
	Remark          *string               `json:"remark,omitempty" validate:"omitempty,notblank"`
}

// UpdateRequestStatusInput changes only the status of a request.
type UpdateRequestStatusInput struct {
	Status models.RequestStatus `json:"status" validate:"required,oneof=PENDING IN_PROGRESS APPROVED REJECTED"`
}

// RequestListQuery holds the raw listing parameters accepted on the query string.
type RequestListQuery struct {
	Status  models.RequestStatus `form:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS APPROVED REJECTED"`
	Type    models.RequestType   `form:"type" validate:"omitempty,oneof=REFUND CREDIT INVOICE_REQUEST SETTLEMENT"`
	Limit   *int                 `form:"limit" validate:"omitempty,gte=1"`
	Offset  *int                 `form:"offset" validate:"omitempty,gte=0"`
	OrderBy string               `form:"orderBy"`
}

const cacheGenerationStripes = 64

// RequestService handles the request lifecycle.
type RequestService struct {
	repo       requestRepository
	cache      *CacheService
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	pagination config.PaginationConfig

	// generations advance on every write to a request id stripe. A read only
	// fills the cache when the stripe did not move while it hit the database.
	cacheMu     sync.Mutex
	generations [cacheGenerationStripes]uint64
}

// NewRequestService creates a new request service. cache and metrics may be nil.
func NewRequestService(repo requestRepository, cache *CacheService, metrics *MetricsService, pagination config.PaginationConfig, validate *validator.Validate, logger *zap.Logger) *RequestService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger, pagination: pagination}
}

// Create persists a new request with the caller-supplied status and type.
func (s *RequestService) Create(ctx context.Context, req CreateRequestInput) (*models.Request, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid request payload")
	}

	request := &models.Request{
		UserID:          req.UserID,
		Title:           req.Title,
		Description:     req.Description,
		Status:          req.Status,
		Type:            req.Type,
		RequestContent:  models.NormalizeContent(req.RequestContent),
		ResponseContent: models.NormalizeContent(req.ResponseContent),
		Remark:          req.Remark,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		s.logger.Error("create request failed", zap.Int64("user_id", req.UserID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create the request")
	}
	s.metrics.RequestCreated(string(request.Type))
	return request, nil
}

// List returns a page of requests of any user.
func (s *RequestService) List(ctx context.Context, query RequestListQuery) ([]models.Request, *models.Pagination, error) {
	return s.list(ctx, nil, query)
}

// ListForUser returns a page of the requests owned by userID.
func (s *RequestService) ListForUser(ctx context.Context, userID int64, query RequestListQuery) ([]models.Request, *models.Pagination, error) {
	return s.list(ctx, &userID, query)
}

func (s *RequestService) list(ctx context.Context, userID *int64, query RequestListQuery) ([]models.Request, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Validation(err, "invalid request filter")
	}
	page, err := resolvePage(query.Limit, query.Offset, query.OrderBy, models.RequestSortColumns, s.pagination)
	if err != nil {
		return nil, nil, err
	}

	filter := models.RequestFilter{UserID: userID, Status: query.Status, Type: query.Type, Page: page}
	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		if userID != nil {
			fields = append(fields, zap.Int64("user_id", *userID))
		}
		s.logger.Error("list requests failed", fields...)
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch requests")
	}

	return requests, &models.Pagination{Limit: page.Limit, Offset: page.Offset, TotalCount: total}, nil
}

// Get returns the request with id, or nil when none exists. The boolean reports a cache hit.
func (s *RequestService) Get(ctx context.Context, id int64) (*models.Request, bool, error) {
	key := requestCacheKey(id)
	var cached models.Request
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}
	generation := s.generation(id)

	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		s.logger.Error("get request failed", zap.Int64("request_id", id), zap.Error(err))
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch the request")
	}

	s.cacheMu.Lock()
	if s.generations[stripe(id)] == generation {
		_ = s.cache.Set(ctx, key, request, 0)
	}
	s.cacheMu.Unlock()
	return request, false, nil
}

// Update applies a partial update to the request.
func (s *RequestService) Update(ctx context.Context, id int64, req UpdateRequestInput) (*models.Request, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid request payload")
	}

	patch := models.RequestPatch{
		Title:           req.Title,
		Description:     req.Description,
		Status:          req.Status,
		Type:            req.Type,
		RequestContent:  models.NormalizeContent(req.RequestContent),
		ResponseContent: models.NormalizeContent(req.ResponseContent),
		Remark:          req.Remark,
	}
	if patch.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}
	return s.apply(ctx, id, patch, "failed to update the request")
}

// UpdateStatus changes only the status of the request.
func (s *RequestService) UpdateStatus(ctx context.Context, id int64, req UpdateRequestStatusInput) (*models.Request, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid request status")
	}
	status := req.Status
	return s.apply(ctx, id, models.RequestPatch{Status: &status}, "failed to update the request status")
}

func (s *RequestService) apply(ctx context.Context, id int64, patch models.RequestPatch, failure string) (*models.Request, error) {
	s.advance(ctx, id)
	request, err := s.repo.Update(ctx, id, patch)
	s.advance(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("request %d not found", id))
		}
		s.logger.Error(failure, zap.Int64("request_id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, failure)
	}
	return request, nil
}

func (s *RequestService) generation(id int64) uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generations[stripe(id)]
}

// advance drops the cached entry and moves the stripe so in-flight reads
// do not store what they loaded before the write.
func (s *RequestService) advance(ctx context.Context, id int64) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generations[stripe(id)]++
	_ = s.cache.Invalidate(ctx, requestCacheKey(id))
}

func stripe(id int64) int {
	return int(uint64(id) % cacheGenerationStripes)
}

func requestCacheKey(id int64) string {
	return fmt.Sprintf("requests:%d", id)
}
