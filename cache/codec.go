package cache

import (
	"encoding/json"
	"fmt"
)

// Serialize encodes a typed value for storage.
func Serialize[T any](value T) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("serializing %T: %w", value, err)
	}
	return string(data), nil
}

// Deserialize decodes a stored value into T.
func Deserialize[T any](raw string) (T, error) {
	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return value, fmt.Errorf("deserializing %T: %w", value, err)
	}
	return value, nil
}
