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

const settlementColumns = "settlement_id, request_id, user_id, admin_id, request_status, third_party_response_status, transaction_id, content, created_at, updated_at"

// SettlementRepository handles persistence for settlements.
type SettlementRepository struct {
	db *sqlx.DB
}

// NewSettlementRepository creates a new repository instance.
func NewSettlementRepository(db *sqlx.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

// List returns settlements matching filters together with the unpaged total.
func (r *SettlementRepository) List(ctx context.Context, filter models.SettlementFilter) ([]models.Settlement, int, error) {
	base := "FROM settlements WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, *filter.UserID)
	}
	if filter.RequestStatus != "" {
		conditions = append(conditions, fmt.Sprintf("request_status = $%d", len(args)+1))
		args = append(args, string(filter.RequestStatus))
	}
	if filter.ThirdPartyResponseStatus != "" {
		conditions = append(conditions, fmt.Sprintf("third_party_response_status = $%d", len(args)+1))
		args = append(args, string(filter.ThirdPartyResponseStatus))
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	orderBy := orderClause(models.SettlementSortColumns, filter.OrderBy, "settlement_id")
	limit, offset := pageBounds(filter.Page)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s LIMIT %d OFFSET %d", settlementColumns, base, orderBy, limit, offset)
	settlements := make([]models.Settlement, 0)
	if err := r.db.SelectContext(ctx, &settlements, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list settlements: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count settlements: %w", err)
	}

	return settlements, total, nil
}

// FindByRequestID returns every settlement recorded against a request.
func (r *SettlementRepository) FindByRequestID(ctx context.Context, requestID int64) ([]models.Settlement, error) {
	query := "SELECT " + settlementColumns + " FROM settlements WHERE request_id = $1 ORDER BY settlement_id ASC"
	settlements := make([]models.Settlement, 0)
	if err := r.db.SelectContext(ctx, &settlements, query, requestID); err != nil {
		return nil, fmt.Errorf("find settlements by request: %w", err)
	}
	return settlements, nil
}

// ExistsByRequestID reports whether a settlement already references the request.
func (r *SettlementRepository) ExistsByRequestID(ctx context.Context, requestID int64) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM settlements WHERE request_id = $1 LIMIT 1", requestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check settlement: %w", err)
	}
	return true, nil
}

// Create persists a new settlement. A second settlement for the same request
// fails with ErrDuplicate; an unknown request fails with ErrForeignKey.
func (r *SettlementRepository) Create(ctx context.Context, settlement *models.Settlement) error {
	const query = `INSERT INTO settlements (request_id, user_id, admin_id, request_status, third_party_response_status, transaction_id, content) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING settlement_id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query,
		settlement.RequestID,
		settlement.UserID,
		settlement.AdminID,
		string(settlement.RequestStatus),
		string(settlement.ThirdPartyResponseStatus),
		settlement.TransactionID,
		settlement.Content,
	)
	if err := row.Scan(&settlement.SettlementID, &settlement.CreatedAt, &settlement.UpdatedAt); err != nil {
		return classify("create settlement", err)
	}
	return nil
}

// UpdateByRequestID applies patch to every settlement of the request and returns the affected row count.
func (r *SettlementRepository) UpdateByRequestID(ctx context.Context, requestID int64, patch models.SettlementPatch) (int64, error) {
	var sets []string
	var args []interface{}
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.RequestStatus != nil {
		set("request_status", string(*patch.RequestStatus))
	}
	if patch.ThirdPartyResponseStatus != nil {
		set("third_party_response_status", string(*patch.ThirdPartyResponseStatus))
	}
	if patch.Content != nil {
		set("content", *patch.Content)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, requestID)

	query := fmt.Sprintf("UPDATE settlements SET %s WHERE request_id = $%d", strings.Join(sets, ", "), len(args))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify("update settlements", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update settlements rows affected: %w", err)
	}
	return affected, nil
}
