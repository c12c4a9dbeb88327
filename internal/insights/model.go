package insights

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no insight has the requested ID.
var ErrNotFound = errors.New("insight not found")

// Insight is a stored analysis result.
type Insight struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Subject   string         `json:"subject,omitempty"`
	Outcome   string         `json:"outcome"`
	Result    map[string]any `json:"result"`
	CreatedAt time.Time      `json:"createdAt"`
}
