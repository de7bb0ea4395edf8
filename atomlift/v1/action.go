package v1

import (
	"encoding/json"
	"net/http"
	"strings"

	"technuob.com/atomlift/atomlift/v1/common"
)

// decodeAction reads the {success, message, <key>} envelope that create/update/delete endpoints
// return. Endpoints that answer with the created object itself have it decoded as Data.
func decodeAction[T any](resp *Response, key, defaultMessage, fallback string) (*common.ActionResult[T], error) {
	result := &common.ActionResult[T]{Success: true, Message: defaultMessage}
	if len(strings.TrimSpace(string(resp.Data))) == 0 {
		return result, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(resp.Data, &envelope); err != nil {
		if err := json.Unmarshal(resp.Data, &result.Data); err != nil {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(nil, fallback), Err: err}
		}
		return result, nil
	}

	if raw, ok := envelope["success"]; ok {
		var success bool
		if json.Unmarshal(raw, &success) == nil {
			result.Success = success
		}
	}
	if raw, ok := envelope["message"]; ok {
		var message string
		if json.Unmarshal(raw, &message) == nil && message != "" {
			result.Message = message
		}
	}
	if !result.Success {
		if raw, ok := envelope["error"]; ok {
			var message string
			if json.Unmarshal(raw, &message) == nil && message != "" {
				result.Message = message
			}
		}
	}

	if raw, ok := envelope[key]; ok && key != "" {
		if err := json.Unmarshal(raw, &result.Data); err != nil {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(nil, fallback), Err: err}
		}
		return result, nil
	}
	// The object itself; a bare {success, message} body just leaves Data zero.
	_ = json.Unmarshal(resp.Data, &result.Data)
	return result, nil
}

// decodeCreated is for endpoints that answer a create with 201 and the new object. Any other 2xx
// status is reported as an unsuccessful result carrying the backend's message.
func decodeCreated[T any](resp *Response, defaultMessage, fallback string) (*common.ActionResult[T], error) {
	if resp.StatusCode != http.StatusCreated {
		return &common.ActionResult[T]{Success: false, Message: errorMessage(resp.Data, fallback)}, nil
	}
	result := &common.ActionResult[T]{Success: true, Message: defaultMessage}
	if len(strings.TrimSpace(string(resp.Data))) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(resp.Data, &result.Data); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(nil, fallback), Err: err}
	}
	return result, nil
}
