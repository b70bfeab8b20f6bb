package api

import (
	"time"

	"github.com/starford/calpick/internal/selections"
)

// ManageDataRequest is the request body for POST /api/manage-data.
type ManageDataRequest struct {
	SelectedDate string `json:"selectedDate" example:"2024-07-10" validate:"required"`
}

// SelectionListResponse wraps recent selections.
type SelectionListResponse struct {
	Selections []selections.Selection `json:"selections" validate:"required"`
	Generated  time.Time              `json:"generated"`
}
