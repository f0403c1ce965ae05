package dto

// ErrorResponse is the only failure body clients see. It never says which
// step failed.
type ErrorResponse struct {
	Error string `json:"error" msgpack:"error"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Error: message}
}
