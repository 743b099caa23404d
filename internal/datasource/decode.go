package datasource

import (
	"encoding/json"

	apperrors "hdfhr-backend/pkg/errors"
)

// decodeList parses a PostgREST array response.
func decodeList[T any](data []byte, what string) ([]T, error) {
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, apperrors.NewExternal("failed to decode "+what, err)
	}
	return out, nil
}

// decodeOne parses a PostgREST array response holding at most one row.
// No rows decodes to nil without error.
func decodeOne[T any](data []byte, what string) (*T, error) {
	rows, err := decodeList[T](data, what)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
