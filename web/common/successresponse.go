package common

import "github.com/gin-gonic/gin"

type SuccessResponse struct {
	Data interface{} `json:"data"`
}

func NewSuccessResponse(data interface{}) *SuccessResponse {
	return &SuccessResponse{
		Data: data,
	}
}

// NewActionResponse builds the {success, message, <key>} envelope of write endpoints. An empty key
// leaves the object out.
func NewActionResponse(message, key string, value interface{}) gin.H {
	body := gin.H{"success": true, "message": message}
	if key != "" {
		body[key] = value
	}
	return body
}
