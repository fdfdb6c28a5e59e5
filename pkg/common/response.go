package common

// APIResponse represents the structure of a standard write response.
type APIResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// NewAPIResponse wraps an optional payload with a confirmation message.
func NewAPIResponse(message string, data any) APIResponse {
	return APIResponse{Message: message, Data: data}
}
