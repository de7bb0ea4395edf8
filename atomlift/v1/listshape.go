package v1

import (
	"bytes"
	"encoding/json"
)

// NormalizeList decodes a list response whatever envelope the endpoint used this time:
//
//	[...]                      bare array
//	{"results": [...]}         DRF pagination
//	{"<key>": [...]}           named array, e.g. leave_requests, amc_types
//	{"results": {"<key>": [...]}}
//	{"data": {"<key>": [...]}} or {"data": [...]}
//
// ok is false when none of the shapes matched; items is then empty, not nil.
func NormalizeList[T any](data []byte, keys ...string) (items []T, ok bool, err error) {
	raw, found := findList(data, keys)
	if !found {
		return []T{}, false, nil
	}
	items = []T{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return []T{}, true, err
	}
	return items, true, nil
}

func findList(data []byte, keys []string) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(data)
	if isArray(trimmed) {
		return trimmed, true
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, false
	}

	if raw, ok := obj["results"]; ok && isArray(raw) {
		return raw, true
	}
	for _, key := range keys {
		if raw, ok := obj[key]; ok && isArray(raw) {
			return raw, true
		}
	}
	for _, wrapper := range []string{"results", "data"} {
		inner, ok := obj[wrapper]
		if !ok {
			continue
		}
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(inner, &nested); err != nil {
			continue
		}
		for _, key := range keys {
			if raw, ok := nested[key]; ok && isArray(raw) {
				return raw, true
			}
		}
	}
	if raw, ok := obj["data"]; ok && isArray(raw) {
		return raw, true
	}
	return nil, false
}

func isArray(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// decodeList wraps NormalizeList with the transport's logging and error policy.
func decodeList[T any](t *Transport, resp *Response, fallback string, keys ...string) ([]T, error) {
	items, ok, err := NormalizeList[T](resp.Data, keys...)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(nil, fallback), Err: err}
	}
	if !ok {
		t.Log.Warn().Str("request_id", resp.RequestID).Strs("keys", keys).Msg("unexpected list response shape")
	}
	return items, nil
}
