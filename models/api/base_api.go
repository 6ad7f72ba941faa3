package apimodels

import (
	"party-find-backend/models"

	"github.com/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Response struct {
	Status  string      `json:"status"`            // fail/success
	Message string      `json:"message,omitempty"` // error code, see models.ErrorCode
	Details string      `json:"details,omitempty"` // human readable cause of a validation error
	Data    interface{} `json:"data,omitempty"`
}

type ScrollerResponse struct {
	Response
	RowCount int64 `json:"row_count"` // total rows matching the filter
}

func NewCodeError(code models.ErrorCode) Response {
	return Response{
		Status:  "fail",
		Message: string(code),
	}
}

// NewValidationError rejects malformed input with commonError, keeping the cause in Details.
func NewValidationError(details string) Response {
	resp := NewCodeError(models.ErrCommon)
	resp.Details = details
	return resp
}

func NewResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

func NewScrollerResponse(data interface{}, rowCount int64) ScrollerResponse {
	return ScrollerResponse{
		Response: Response{
			Status: "success",
			Data:   data,
		},
		RowCount: rowCount,
	}
}

type Pagination struct {
	Limit int `json:"limit"` // rows per page
	Page  int `json:"page"`  // 1-based page number
}

func (r Pagination) Validate() error {
	if r.Limit < 0 || r.Page < 0 {
		return errors.New("pagination values must not be negative")
	}
	return nil
}

func (r Pagination) GetPage() (page, limit int) {
	page = 1
	limit = defaultPageSize
	if r.Page > 0 {
		page = r.Page
	}
	if r.Limit > 0 {
		limit = r.Limit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// GetOffset returns the row offset of the requested page.
func (r Pagination) GetOffset() int {
	page, limit := r.GetPage()
	return (page - 1) * limit
}
