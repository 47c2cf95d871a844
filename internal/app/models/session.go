package models

import "time"

// LaunchState is the transient record kept between the authorize redirect and
// the callback of a SMART launch.
type LaunchState struct {
	State         string    `json:"state"`
	Issuer        string    `json:"issuer"`
	CodeVerifier  string    `json:"code_verifier"`
	TokenEndpoint string    `json:"token_endpoint"`
	CreatedAt     time.Time `json:"created_at"`
}

// LaunchContext is what a completed handshake yields: where to talk, with
// what token, about which patient and on behalf of whom.
type LaunchContext struct {
	SessionID     string    `json:"session_id"`
	ServiceURL    string    `json:"service_url"`
	AccessToken   string    `json:"access_token"`
	PatientID     string    `json:"patient_id"`
	UserReference string    `json:"user_reference"`
	ExpiresAt     time.Time `json:"expires_at"`
}

func (c *LaunchContext) IsExpired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

type BootstrapResult struct {
	ServiceURL string           `json:"service_url"`
	User       *Practitioner    `json:"user"`
	Patient    *Patient         `json:"patient"`
	History    *ClinicalHistory `json:"history"`
}
