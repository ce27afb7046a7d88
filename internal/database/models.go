package database

import (
	"encoding/json"
	"time"
)

// EvaluationRecord is a stored project evaluation, keyed by repository name
type EvaluationRecord struct {
	Repository string          `json:"repository"`
	Data       json.RawMessage `json:"data"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
