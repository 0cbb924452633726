package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// RequestStatus tracks where a request sits in its review lifecycle.
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "PENDING"
	RequestStatusInProgress RequestStatus = "IN_PROGRESS"
	RequestStatusApproved   RequestStatus = "APPROVED"
	RequestStatusRejected   RequestStatus = "REJECTED"
)

// Valid reports whether s is a declared status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusInProgress, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

// RequestType classifies what the user is asking for.
type RequestType string

const (
	RequestTypeRefund         RequestType = "REFUND"
	RequestTypeCredit         RequestType = "CREDIT"
	RequestTypeInvoiceRequest RequestType = "INVOICE_REQUEST"
	RequestTypeSettlement     RequestType = "SETTLEMENT"
)

// Valid reports whether t is a declared type.
func (t RequestType) Valid() bool {
	switch t {
	case RequestTypeRefund, RequestTypeCredit, RequestTypeInvoiceRequest, RequestTypeSettlement:
		return true
	}
	return false
}

// Request is a user-submitted item stored in the requests table.
type Request struct {
	RequestID       int64           `db:"request_id" json:"requestId"`
	UserID          int64           `db:"user_id" json:"userId"`
	Title           string          `db:"title" json:"title"`
	Description     string          `db:"description" json:"description"`
	Status          RequestStatus   `db:"status" json:"status"`
	Type            RequestType     `db:"type" json:"type"`
	RequestContent  *types.JSONText `db:"request_content" json:"requestContent,omitempty"`
	ResponseContent *types.JSONText `db:"response_content" json:"responseContent,omitempty"`
	Remark          *string         `db:"remark" json:"remark,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
}

// RequestPatch lists the columns a partial update may touch. Nil fields are left unchanged.
type RequestPatch struct {
	Title           *string
	Description     *string
	Status          *RequestStatus
	Type            *RequestType
	RequestContent  *types.JSONText
	ResponseContent *types.JSONText
	Remark          *string
}

// Empty reports whether the patch changes nothing.
func (p RequestPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Type == nil &&
		p.RequestContent == nil && p.ResponseContent == nil && p.Remark == nil
}

// RequestFilter captures supported filters for listing requests.
type RequestFilter struct {
	UserID *int64
	Status RequestStatus
	Type   RequestType
	Page
}

// RequestSortColumns maps the public orderBy names to columns.
var RequestSortColumns = map[string]string{
	"requestId": "request_id",
	"userId":    "user_id",
	"title":     "title",
	"status":    "status",
	"type":      "type",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}
