package models

// DefaultOrderBy is the sort key used when a listing names none.
const DefaultOrderBy = "createdAt"

// Page holds offset pagination and the ascending sort key of a listing.
type Page struct {
	Limit   int
	Offset  int
	OrderBy string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
	TotalCount int `json:"totalCount"`
}
