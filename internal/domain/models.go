package domain

import "time"

type Status string

const (
	StatusOK      Status = "OK"
	StatusWarning Status = "WARNING"
	StatusError   Status = "ERROR"
)

// Outcome is the result of checking one host's certificate.
// Expiry and DaysLeft are nil exactly when Status is ERROR
// (pointers to allow nil).
type Outcome struct {
	Host     string     `json:"host"`
	Port     int        `json:"port"`
	Expiry   *time.Time `json:"expiry"`
	DaysLeft *int       `json:"days_left"`
	Status   Status     `json:"status"`
	Error    string     `json:"error,omitempty"`
}

type Summary struct {
	Total   int `json:"total"`
	OK      int `json:"ok"`
	Warning int `json:"warning"`
	Error   int `json:"error"`
}

type BucketCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// BatchResult is read-only once returned to the caller.
type BatchResult struct {
	Outcomes  []Outcome     `json:"outcomes"`
	Summary   Summary       `json:"summary"`
	Buckets   []BucketCount `json:"buckets"`
	CheckedAt time.Time     `json:"checked_at"`
}
