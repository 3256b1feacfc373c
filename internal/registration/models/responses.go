package models

// RegistrationResponse wraps a single record in the success envelope.
type RegistrationResponse struct {
	Success      bool          `json:"success"`
	Registration *Registration `json:"registration"`
}

// Pagination describes the window a page response covers.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// PageResponse is the dashboard listing envelope.
type PageResponse struct {
	Success    bool            `json:"success"`
	Data       []*Registration `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

// MessageResponse acknowledges an operation with no returned record.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FilterOptionsResponse carries the dashboard's derived filter option lists.
type FilterOptionsResponse struct {
	Success bool     `json:"success"`
	States  []string `json:"states"`
	Cities  []string `json:"cities"`
}

// NewPagination computes the page-count metadata for a listing.
func NewPagination(total int64, page, limit int) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
