package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// SettlementStatus tracks reconciliation progress of a settlement.
type SettlementStatus string

const (
	SettlementStatusPending    SettlementStatus = "PENDING"
	SettlementStatusInProgress SettlementStatus = "IN_PROGRESS"
	SettlementStatusCompleted  SettlementStatus = "COMPLETED"
	SettlementStatusFailed     SettlementStatus = "FAILED"
)

// Valid reports whether s is a declared settlement status.
func (s SettlementStatus) Valid() bool {
	switch s {
	case SettlementStatusPending, SettlementStatusInProgress, SettlementStatusCompleted, SettlementStatusFailed:
		return true
	}
	return false
}

// ThirdPartyResponseStatus is the outcome reported by the payment provider.
type ThirdPartyResponseStatus string

const (
	ThirdPartyResponsePending ThirdPartyResponseStatus = "PENDING"
	ThirdPartyResponseSuccess ThirdPartyResponseStatus = "SUCCESS"
	ThirdPartyResponseFailed  ThirdPartyResponseStatus = "FAILED"
)

// Valid reports whether s is a declared provider status.
func (s ThirdPartyResponseStatus) Valid() bool {
	switch s {
	case ThirdPartyResponsePending, ThirdPartyResponseSuccess, ThirdPartyResponseFailed:
		return true
	}
	return false
}

// Settlement is the reconciliation record for exactly one request.
type Settlement struct {
	SettlementID             int64                    `db:"settlement_id" json:"settlementId"`
	RequestID                int64                    `db:"request_id" json:"requestId"`
	UserID                   int64                    `db:"user_id" json:"userId"`
	AdminID                  int64                    `db:"admin_id" json:"adminId"`
	RequestStatus            SettlementStatus         `db:"request_status" json:"requestStatus"`
	ThirdPartyResponseStatus ThirdPartyResponseStatus `db:"third_party_response_status" json:"thirdPartyResponseStatus"`
	TransactionID            int64                    `db:"transaction_id" json:"transactionId"`
	Content                  *types.JSONText          `db:"content" json:"content,omitempty"`
	CreatedAt                time.Time                `db:"created_at" json:"createdAt"`
	UpdatedAt                time.Time                `db:"updated_at" json:"updatedAt"`
}

// SettlementPatch lists the columns a bulk update may touch.
type SettlementPatch struct {
	RequestStatus            *SettlementStatus
	ThirdPartyResponseStatus *ThirdPartyResponseStatus
	Content                  *types.JSONText
}

// Empty reports whether the patch changes nothing.
func (p SettlementPatch) Empty() bool {
	return p.RequestStatus == nil && p.ThirdPartyResponseStatus == nil && p.Content == nil
}

// BatchResult reports how many rows a bulk write touched.
type BatchResult struct {
	Count int64 `json:"count"`
}

// SettlementFilter captures supported filters for listing settlements.
type SettlementFilter struct {
	UserID                   *int64
	RequestStatus            SettlementStatus
	ThirdPartyResponseStatus ThirdPartyResponseStatus
	Page
}

// SettlementSortColumns maps the public orderBy names to columns.
var SettlementSortColumns = map[string]string{
	"settlementId":             "settlement_id",
	"requestId":                "request_id",
	"userId":                   "user_id",
	"adminId":                  "admin_id",
	"transactionId":            "transaction_id",
	"requestStatus":            "request_status",
	"thirdPartyResponseStatus": "third_party_response_status",
	"createdAt":                "created_at",
	"updatedAt":                "updated_at",
}
