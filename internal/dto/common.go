package dto

// CategorizeRequest asks for the category of a title.
type CategorizeRequest struct {
	Title string `json:"title" binding:"required"`
}

// CategorizeResponse returns the resolved category.
type CategorizeResponse struct {
	Success  bool   `json:"success"`
	Category string `json:"category"`
}

// SuccessResponse is the bare success envelope.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
