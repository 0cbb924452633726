package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/settlement-api/internal/models"
)

const requestColumns = "request_id, user_id, title, description, status, type, request_content, response_content, remark, created_at, updated_at"

const defaultListLimit = 10

// RequestRepository handles persistence for requests.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository creates a new repository instance.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// List returns requests matching filters together with the unpaged total.
func (r *RequestRepository) List(ctx context.Context, filter models.RequestFilter) ([]models.Request, int, error) {
	base := "FROM requests WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, *filter.UserID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, string(filter.Status))
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, string(filter.Type))
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	orderBy := orderClause(models.RequestSortColumns, filter.OrderBy, "request_id")
	limit, offset := pageBounds(filter.Page)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s LIMIT %d OFFSET %d", requestColumns, base, orderBy, limit, offset)
	requests := make([]models.Request, 0)
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	return requests, total, nil
}

// FindByID returns a request by id or sql.ErrNoRows.
func (r *RequestRepository) FindByID(ctx context.Context, id int64) (*models.Request, error) {
	query := "SELECT " + requestColumns + " FROM requests WHERE request_id = $1"
	var request models.Request
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// Exists reports whether a request with the id is stored.
func (r *RequestRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM requests WHERE request_id = $1 LIMIT 1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check request: %w", err)
	}
	return true, nil
}

// Create persists a new request and fills in the generated id and timestamps.
func (r *RequestRepository) Create(ctx context.Context, request *models.Request) error {
	const query = `INSERT INTO requests (user_id, title, description, status, type, request_content, response_content, remark) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING request_id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query,
		request.UserID,
		request.Title,
		request.Description,
		string(request.Status),
		string(request.Type),
		request.RequestContent,
		request.ResponseContent,
		request.Remark,
	)
	if err := row.Scan(&request.RequestID, &request.CreatedAt, &request.UpdatedAt); err != nil {
		return classify("create request", err)
	}
	return nil
}

// Update applies the non-nil fields of patch and returns the stored row.
// It returns sql.ErrNoRows when no request has the id.
func (r *RequestRepository) Update(ctx context.Context, id int64, patch models.RequestPatch) (*models.Request, error) {
	var sets []string
	var args []interface{}
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.Type != nil {
		set("type", string(*patch.Type))
	}
	if patch.RequestContent != nil {
		set("request_content", *patch.RequestContent)
	}
	if patch.ResponseContent != nil {
		set("response_content", *patch.ResponseContent)
	}
	if patch.Remark != nil {
		set("remark", *patch.Remark)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE requests SET %s WHERE request_id = $%d RETURNING %s", strings.Join(sets, ", "), len(args), requestColumns)
	var request models.Request
	if err := r.db.GetContext(ctx, &request, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, classify("update request", err)
	}
	return &request, nil
}

// orderClause resolves a public sort key to an ascending ORDER BY with a
// stable tie-break on the primary key. Unknown keys fall back to created_at.
func orderClause(columns map[string]string, key, pk string) string {
	column, ok := columns[key]
	if !ok {
		column = "created_at"
	}
	if column == pk {
		return column + " ASC"
	}
	return fmt.Sprintf("%s ASC, %s ASC", column, pk)
}

func pageBounds(page models.Page) (int, int) {
	limit := page.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
