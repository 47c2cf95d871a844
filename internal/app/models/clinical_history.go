package models

import (
	"slices"
	"time"
)

// ClinicalHistory is a patient's aggregated record. Slices are never nil so a
// degraded category still serializes as an empty array.
type ClinicalHistory struct {
	Conditions         []*Condition         `json:"conditions"`
	MedicationRequests []*MedicationRequest `json:"medication_requests"`
	Procedures         []*Procedure         `json:"procedures"`
	Observations       []*Observation       `json:"observations"`

	DegradedCategories []string `json:"-"`
}

func NewClinicalHistory() *ClinicalHistory {
	return &ClinicalHistory{
		Conditions:         []*Condition{},
		MedicationRequests: []*MedicationRequest{},
		Procedures:         []*Procedure{},
		Observations:       []*Observation{},
	}
}

func (h *ClinicalHistory) MarkDegraded(category string) {
	if !slices.Contains(h.DegradedCategories, category) {
		h.DegradedCategories = append(h.DegradedCategories, category)
	}
}

func (h *ClinicalHistory) IsDegraded(category string) bool {
	return slices.Contains(h.DegradedCategories, category)
}

// PendingMedicationRequests returns the requests whose medication still has
// to be resolved.
func (h *ClinicalHistory) PendingMedicationRequests() []*MedicationRequest {
	var pending []*MedicationRequest
	for _, request := range h.MedicationRequests {
		if request.IsPending() {
			pending = append(pending, request)
		}
	}
	return pending
}

// SortByStartDate orders resources newest first. Resources without a start
// date go last and ties keep their input order.
func SortByStartDate[T ClinicalResource](resources []T) {
	slices.SortStableFunc(resources, func(a, b T) int {
		return compareStartDates(a.GetStartDate(), b.GetStartDate())
	})
}

func compareStartDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return b.Compare(*a)
}
