package models

import (
	"deathcert-service/internal/pkg/constvars"
	"time"

	"github.com/goccy/go-json"
)

// ClinicalResource is the common view over the clinical record variants.
type ClinicalResource interface {
	ResourceType() string
	GetID() string
	GetDescription() string
	GetStartDate() *time.Time
	GetRaw() json.RawMessage
}

// Resource holds the fields every clinical variant shares. Raw keeps the
// source record for fields not modeled here.
type Resource struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	Raw         json.RawMessage `json:"-"`
}

func (r *Resource) GetID() string            { return r.ID }
func (r *Resource) GetDescription() string   { return r.Description }
func (r *Resource) GetStartDate() *time.Time { return r.StartDate }
func (r *Resource) GetRaw() json.RawMessage  { return r.Raw }

type Condition struct {
	Resource
}

func (*Condition) ResourceType() string { return constvars.ResourceCondition }

type Procedure struct {
	Resource
}

func (*Procedure) ResourceType() string { return constvars.ResourceProcedure }

type Observation struct {
	Resource
}

func (*Observation) ResourceType() string { return constvars.ResourceObservation }
