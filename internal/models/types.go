package models

import "encoding/json"

// ErrorResponse is the envelope returned for every failed gateway call
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UnauthorizedResponse is returned by the bearer check before any remote call
type UnauthorizedResponse struct {
	Error string `json:"error"`
}

// Envelope is the normalized response of a non-paginated proxy call
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Pagination describes the slice of a filtered dataset that was returned
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// PaginatedResult is the envelope returned by every list route
type PaginatedResult[T any] struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message"`
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Filters holds the soft filters applied in process after the bulk fetch.
// Zero values mean "not requested".
type Filters struct {
	BranchName   string `json:"branch_name,omitempty"`
	CategoryID   string `json:"category_id,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	SupplierName string `json:"supplier_name,omitempty"`
	Search       string `json:"search,omitempty"`
}

// ListRequest is built per HTTP call from query parameters and is never persisted
type ListRequest struct {
	Action  string
	Page    int
	Limit   int
	Filters Filters
	// Scope is forwarded to the Apps Script as hard scoping parameters
	// (for example branch_name on the karyawan listing).
	Scope map[string]string
}
