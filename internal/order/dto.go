package order

// UpdateStatusRequest payload for a dashboard status change.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status Status `json:"status" example:"Delivered"`
}

// SetFilterRequest payload for changing the list filter.
// swagger:model SetFilterRequest
type SetFilterRequest struct {
	Filter Filter `json:"filter" example:"Pending"`
}

// HTTPError is the error body of the order API. The client reads Message first.
// swagger:model
type HTTPError struct {
	// Error message
	// example: order not found
	Message string `json:"message"`
}
