package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/settlement-api/internal/models"
	"github.com/noah-isme/settlement-api/internal/service"
	appErrors "github.com/noah-isme/settlement-api/pkg/errors"
)

type settlementServiceMock struct {
	created     service.CreateSettlementInput
	listQuery   service.SettlementListQuery
	updateInput service.UpdateSettlementInput
	err         error
}

func (m *settlementServiceMock) Create(ctx context.Context, req service.CreateSettlementInput) (*models.Settlement, error) {
	m.created = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.Settlement{SettlementID: 1, RequestID: req.RequestID, UserID: req.UserID}, nil
}

func (m *settlementServiceMock) List(ctx context.Context, query service.SettlementListQuery) ([]models.Settlement, *models.Pagination, error) {
	m.listQuery = query
	return []models.Settlement{{SettlementID: 1}}, &models.Pagination{Limit: 10, TotalCount: 1}, m.err
}

func (m *settlementServiceMock) ListForUser(ctx context.Context, userID int64, query service.SettlementListQuery) ([]models.Settlement, *models.Pagination, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return []models.Settlement{{SettlementID: 1, UserID: userID}}, &models.Pagination{Limit: 10, TotalCount: 1}, nil
}

func (m *settlementServiceMock) GetByRequestID(ctx context.Context, requestID int64) ([]models.Settlement, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []models.Settlement{{SettlementID: 1, RequestID: requestID}}, nil
}

func (m *settlementServiceMock) UpdateByRequestID(ctx context.Context, requestID int64, req service.UpdateSettlementInput) (*models.BatchResult, error) {
	m.updateInput = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.BatchResult{Count: 1}, nil
}

func newSettlementTestRouter(svc settlementService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	binding.EnableDecoderDisallowUnknownFields = true
	h := NewSettlementHandler(svc)
	r := gin.New()
	r.POST("/settlement", h.Create)
	r.GET("/settlement", h.List)
	r.GET("/settlement/user/:userId", h.ListForUser)
	r.GET("/settlement/:requestId", h.GetByRequestID)
	r.PATCH("/settlement/:requestId", h.UpdateByRequestID)
	return r
}

func TestSettlementHandlerCreate(t *testing.T) {
	svc := &settlementServiceMock{}
	r := newSettlementTestRouter(svc)

	w := perform(r, http.MethodPost, "/settlement", map[string]interface{}{
		"requestId":                5,
		"userId":                   2,
		"adminId":                  1,
		"requestStatus":            "PENDING",
		"thirdPartyResponseStatus": "PENDING",
		"transactionId":            77,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Settlement request created successfully", decodeEnvelope(t, w)["message"])
	assert.Equal(t, int64(5), svc.created.RequestID)
	assert.Equal(t, int64(77), svc.created.TransactionID)
}

func TestSettlementHandlerCreateConflict(t *testing.T) {
	svc := &settlementServiceMock{err: appErrors.Clone(appErrors.ErrConflict, "settlement already exists for request 5")}
	r := newSettlementTestRouter(svc)

	w := perform(r, http.MethodPost, "/settlement", map[string]interface{}{"requestId": 5})
	assert.Equal(t, http.StatusConflict, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "CONFLICT", body["error"].(map[string]interface{})["code"])
	_, hasData := body["data"]
	assert.False(t, hasData)
}

func TestSettlementHandlerList(t *testing.T) {
	svc := &settlementServiceMock{}
	r := newSettlementTestRouter(svc)

	w := perform(r, http.MethodGet, "/settlement?requestStatus=COMPLETED&thirdPartyResponseStatus=SUCCESS&offset=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.SettlementStatusCompleted, svc.listQuery.RequestStatus)
	assert.Equal(t, models.ThirdPartyResponseSuccess, svc.listQuery.ThirdPartyResponseStatus)
	require.NotNil(t, svc.listQuery.Offset)
	assert.Equal(t, 3, *svc.listQuery.Offset)
	assert.Equal(t, "Successfully fetched settlements", decodeEnvelope(t, w)["message"])
}

func TestSettlementHandlerListForUnknownUser(t *testing.T) {
	svc := &settlementServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "user 9 not found")}
	r := newSettlementTestRouter(svc)

	w := perform(r, http.MethodGet, "/settlement/user/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettlementHandlerGetByRequestID(t *testing.T) {
	r := newSettlementTestRouter(&settlementServiceMock{})

	w := perform(r, http.MethodGet, "/settlement/5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "Successfully fetched settlement for request id #5", body["message"])
	assert.Len(t, body["data"], 1)

	w = perform(r, http.MethodGet, "/settlement/zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettlementHandlerUpdate(t *testing.T) {
	svc := &settlementServiceMock{}
	r := newSettlementTestRouter(svc)

	w := perform(r, http.MethodPatch, "/settlement/5", map[string]interface{}{"thirdPartyResponseStatus": "SUCCESS"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, float64(1), body["data"].(map[string]interface{})["count"])
	require.NotNil(t, svc.updateInput.ThirdPartyResponseStatus)
	assert.Equal(t, models.ThirdPartyResponseSuccess, *svc.updateInput.ThirdPartyResponseStatus)
	assert.Nil(t, svc.updateInput.RequestStatus)
}

func TestSettlementHandlerUpdateRejectsUnknownFields(t *testing.T) {
	r := newSettlementTestRouter(&settlementServiceMock{})

	w := perform(r, http.MethodPatch, "/settlement/5", map[string]interface{}{"requestId": 42, "requestStatus": "COMPLETED"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	details := decodeEnvelope(t, w)["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Equal(t, "is not allowed", details["requestId"])
}

func TestSettlementHandlerListNonNumericOffset(t *testing.T) {
	r := newSettlementTestRouter(&settlementServiceMock{})

	w := perform(r, http.MethodGet, "/settlement/user/10?offset=ten", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	details := decodeEnvelope(t, w)["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Equal(t, "must be an integer", details["offset"])
}
