package models

import "time"

// FetchEvent records a partial failure that was absorbed while aggregating a
// clinical history.
type FetchEvent struct {
	Kind       string    `json:"kind"`
	RequestID  string    `json:"request_id,omitempty"`
	ServiceURL string    `json:"service_url"`
	PatientID  string    `json:"patient_id"`
	Category   string    `json:"category"`
	Reference  string    `json:"reference,omitempty"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
