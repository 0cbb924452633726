package models

import (
	"encoding/json"

	"github.com/jmoiron/sqlx/types"
)

// NormalizeContent unwraps a JSON string that itself holds a JSON document,
// so clients posting `"{\"a\":1}"` store the object rather than the string.
// Anything else is returned untouched.
func NormalizeContent(content *types.JSONText) *types.JSONText {
	if content == nil || len(*content) == 0 {
		return content
	}
	var raw string
	if err := json.Unmarshal(*content, &raw); err != nil {
		return content
	}
	if !json.Valid([]byte(raw)) {
		return content
	}
	unwrapped := types.JSONText(raw)
	return &unwrapped
}
