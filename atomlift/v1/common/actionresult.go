package common

// ActionResult is what create/update/delete calls hand back to callers.
type ActionResult[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}
