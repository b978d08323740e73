package source

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeList reads the item list out of a provider payload. The payload may
// be {"<key>": [...]}, a bare array, or a JSON string holding either. An
// object without key is an error, since that is how providers report
// failures such as {"message": "Bad credentials"}.
func decodeList[T any](raw json.RawMessage, key string) ([]T, error) {
	if isBlank(raw) {
		return nil, nil
	}

	var inner string
	if err := json.Unmarshal(raw, &inner); err == nil {
		raw = json.RawMessage(inner)
		if isBlank(raw) {
			return nil, nil
		}
	}

	raw = bytes.TrimSpace(raw)
	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	list, ok := obj[key]
	if !ok {
		return nil, fmt.Errorf("unexpected payload without %q: %s", key, truncatePayload(raw))
	}
	if isBlank(list) {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(list, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func isBlank(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || string(raw) == "null"
}

// truncatePayload keeps error messages short when a provider returns a
// large error body.
func truncatePayload(raw []byte) string {
	const maxLen = 200
	if len(raw) > maxLen {
		return string(raw[:maxLen]) + "..."
	}
	return string(raw)
}
