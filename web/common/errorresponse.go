package common

// ErrorResponse is the {"error": "..."} body the client shows to the user as is.
type ErrorResponse struct {
	Error string `json:"error"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		Error: message,
	}
}

// DetailResponse is the {"detail": "..."} body used for authentication failures.
type DetailResponse struct {
	Detail string `json:"detail"`
}

func NewDetailResponse(detail string) *DetailResponse {
	return &DetailResponse{Detail: detail}
}
