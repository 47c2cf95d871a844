package fhir_dto

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateTimePrecisionYear  = "YYYY"
	DateTimePrecisionMonth = "YYYY-MM"
	DateTimePrecisionDay   = "YYYY-MM-DD"
	DateTimePrecisionFull  = "FULL"
)

// DateTime represents a FHIR date or dateTime, which may be partial.
type DateTime struct {
	time.Time
	Precision string
}

var fullDateTimeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
}

// ParseDateTime parses the FHIR date/dateTime lexical forms. Partial dates are
// anchored to the start of the period they denote, in UTC.
func ParseDateTime(value string) (DateTime, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return DateTime{}, fmt.Errorf("empty datetime")
	}

	switch len(s) {
	case 4:
		if t, err := time.Parse("2006", s); err == nil {
			return DateTime{Time: t, Precision: DateTimePrecisionYear}, nil
		}
	case 7:
		if t, err := time.Parse("2006-01", s); err == nil {
			return DateTime{Time: t, Precision: DateTimePrecisionMonth}, nil
		}
	case 10:
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return DateTime{Time: t, Precision: DateTimePrecisionDay}, nil
		}
	}

	var lastErr error
	for _, format := range fullDateTimeFormats {
		t, err := time.Parse(format, s)
		if err == nil {
			return DateTime{Time: t, Precision: DateTimePrecisionFull}, nil
		}
		lastErr = err
	}
	return DateTime{}, fmt.Errorf("invalid datetime format: %s (last error: %v)", s, lastErr)
}

// FirstDateTime returns the first candidate that parses, or nil when none do.
func FirstDateTime(candidates ...string) *time.Time {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		parsed, err := ParseDateTime(candidate)
		if err != nil {
			continue
		}
		t := parsed.Time
		return &t
	}
	return nil
}

func (p *Period) StartValue() string {
	if p == nil {
		return ""
	}
	return p.Start
}
