package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/settlement-api/internal/middleware"
	"github.com/noah-isme/settlement-api/internal/models"
	"github.com/noah-isme/settlement-api/internal/service"
	appErrors "github.com/noah-isme/settlement-api/pkg/errors"
)

type requestServiceMock struct {
	created     service.CreateRequestInput
	listQuery   service.RequestListQuery
	listUserID  int64
	request     *models.Request
	cacheHit    bool
	err         error
	statusInput service.UpdateRequestStatusInput
}

func (m *requestServiceMock) Create(ctx context.Context, req service.CreateRequestInput) (*models.Request, error) {
	m.created = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.Request{RequestID: 1, UserID: req.UserID, Title: req.Title, Status: req.Status, Type: req.Type}, nil
}

func (m *requestServiceMock) List(ctx context.Context, query service.RequestListQuery) ([]models.Request, *models.Pagination, error) {
	m.listQuery = query
	if m.err != nil {
		return nil, nil, m.err
	}
	return []models.Request{{RequestID: 1}, {RequestID: 2}}, &models.Pagination{Limit: 2, Offset: 0, TotalCount: 5}, nil
}

func (m *requestServiceMock) ListForUser(ctx context.Context, userID int64, query service.RequestListQuery) ([]models.Request, *models.Pagination, error) {
	m.listUserID = userID
	m.listQuery = query
	return []models.Request{}, &models.Pagination{Limit: 10}, m.err
}

func (m *requestServiceMock) Get(ctx context.Context, id int64) (*models.Request, bool, error) {
	return m.request, m.cacheHit, m.err
}

func (m *requestServiceMock) Update(ctx context.Context, id int64, req service.UpdateRequestInput) (*models.Request, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Request{RequestID: id, Title: *req.Title}, nil
}

func (m *requestServiceMock) UpdateStatus(ctx context.Context, id int64, req service.UpdateRequestStatusInput) (*models.Request, error) {
	m.statusInput = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.Request{RequestID: id, Status: req.Status}, nil
}

func newRequestTestRouter(svc requestService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	binding.EnableDecoderDisallowUnknownFields = true
	h := NewRequestHandler(svc)
	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	r.POST("/requests", h.Create)
	r.GET("/requests", h.List)
	r.GET("/requests/user/:userId", h.ListForUser)
	r.GET("/requests/:requestId", h.Get)
	r.PATCH("/requests/update/status/:requestId", h.UpdateStatus)
	r.PATCH("/requests/update/:requestId", h.Update)
	return r
}

func perform(r http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if raw, ok := body.(string); ok {
		reader = bytes.NewReader([]byte(raw))
	} else if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequestHandlerCreate(t *testing.T) {
	svc := &requestServiceMock{}
	r := newRequestTestRouter(svc)

	w := perform(r, http.MethodPost, "/requests", map[string]interface{}{
		"userId":         3,
		"title":          "Refund",
		"description":    "Broken item",
		"status":         "PENDING",
		"type":           "REFUND",
		"requestContent": map[string]interface{}{"orderId": 42},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "Request created successfully", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["requestId"])
	assert.Equal(t, int64(3), svc.created.UserID)
	require.NotNil(t, svc.created.RequestContent)
	assert.JSONEq(t, `{"orderId":42}`, string(*svc.created.RequestContent))
}

func TestRequestHandlerCreateMalformedBody(t *testing.T) {
	r := newRequestTestRouter(&requestServiceMock{})

	w := perform(r, http.MethodPost, "/requests", `{"userId": "three"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "invalid payload", body["message"])
	assert.Equal(t, "VALIDATION_ERROR", body["error"].(map[string]interface{})["code"])
}

func TestRequestHandlerCreateFieldTypeMismatch(t *testing.T) {
	svc := &requestServiceMock{}
	r := newRequestTestRouter(svc)

	w := perform(r, http.MethodPost, "/requests", `{"userId":"abc","title":"t","description":"d","status":"PENDING","type":"REFUND"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	appErr := decodeEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", appErr["code"])
	assert.Equal(t, map[string]interface{}{"userId": "must be an integer"}, appErr["details"])
	assert.Empty(t, svc.created.Title)
}

func TestRequestHandlerCreateRejectsUnknownFields(t *testing.T) {
	svc := &requestServiceMock{}
	r := newRequestTestRouter(svc)

	w := perform(r, http.MethodPost, "/requests", `{"userId":1,"title":"t","description":"d","status":"PENDING","statuz":"APPROVED","type":"REFUND"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "invalid payload", body["message"])
	details := body["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Equal(t, "is not allowed", details["statuz"])
	assert.Zero(t, svc.created.UserID)
}

func TestRequestHandlerCreateServiceErrors(t *testing.T) {
	svc := &requestServiceMock{err: appErrors.Wrap(fmt.Errorf("pq: connection refused"), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create the request")}
	r := newRequestTestRouter(svc)

	w := perform(r, http.MethodPost, "/requests", map[string]interface{}{"userId": 1})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestRequestHandlerList(t *testing.T) {
	svc := &requestServiceMock{}
	r := newRequestTestRouter(svc)

	w := perform(r, http.MethodGet, "/requests?status=APPROVED&limit=2&offset=0&orderBy=title", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "Requests fetched successfully", body["message"])
	assert.Len(t, body["data"], 2)
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(5), pagination["totalCount"])

	assert.Equal(t, models.RequestStatusApproved, svc.listQuery.Status)
	require.NotNil(t, svc.listQuery.Limit)
	assert.Equal(t, 2, *svc.listQuery.Limit)
	assert.Equal(t, "title", svc.listQuery.OrderBy)
}

func TestRequestHandlerListBadLimit(t *testing.T) {
	r := newRequestTestRouter(&requestServiceMock{})

	w := perform(r, http.MethodGet, "/requests?limit=ten", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestHandlerListForUser(t *testing.T) {
	svc := &requestServiceMock{}
	r := newRequestTestRouter(svc)

	w := perform(r, http.MethodGet, "/requests/user/12?type=CREDIT", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(12), svc.listUserID)
	assert.Equal(t, models.RequestTypeCredit, svc.listQuery.Type)
	body := decodeEnvelope(t, w)
	assert.Equal(t, []interface{}{}, body["data"])

	w = perform(r, http.MethodGet, "/requests/user/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestHandlerGet(t *testing.T) {
	svc := &requestServiceMock{request: &models.Request{RequestID: 7, Title: "Credit"}, cacheHit: true}
	r := newRequestTestRouter(svc)

	w := perform(r, http.MethodGet, "/requests/7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "Request fetched successfully", body["message"])
	assert.Equal(t, float64(7), body["data"].(map[string]interface{})["requestId"])
	assert.Equal(t, true, body["meta"].(map[string]interface{})["cacheHit"])
}

func TestRequestHandlerGetMissing(t *testing.T) {
	r := newRequestTestRouter(&requestServiceMock{})

	w := perform(r, http.MethodGet, "/requests/99", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	_, hasData := body["data"]
	assert.False(t, hasData)
	assert.Contains(t, body["message"], "#99")

	w = perform(r, http.MethodGet, "/requests/-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestHandlerListNonNumericLimit(t *testing.T) {
	r := newRequestTestRouter(&requestServiceMock{})

	w := perform(r, http.MethodGet, "/requests?status=PENDING&limit=abc", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "invalid query parameters", body["message"])
	details := body["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Equal(t, "must be an integer", details["limit"])
}

func TestRequestHandlerUpdate(t *testing.T) {
	r := newRequestTestRouter(&requestServiceMock{})

	w := perform(r, http.MethodPatch, "/requests/update/4", map[string]interface{}{"title": "New"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "Request updated successfully", body["message"])
	assert.Equal(t, "New", body["data"].(map[string]interface{})["title"])
}

func TestRequestHandlerUpdateNotFound(t *testing.T) {
	svc := &requestServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "request 4 not found")}
	r := newRequestTestRouter(svc)

	w := perform(r, http.MethodPatch, "/requests/update/4", map[string]interface{}{"title": "New"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "request 4 not found", decodeEnvelope(t, w)["message"])
}

func TestRequestHandlerUpdateStatus(t *testing.T) {
	svc := &requestServiceMock{}
	r := newRequestTestRouter(svc)

	w := perform(r, http.MethodPatch, "/requests/update/status/4", map[string]interface{}{"status": "APPROVED"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RequestStatusApproved, svc.statusInput.Status)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "Request status updated successfully", body["message"])
	assert.Equal(t, "APPROVED", body["data"].(map[string]interface{})["status"])
}
