package fhir_dto

import "github.com/goccy/go-json"

// RawResource is an unvalidated FHIR record. Only the declared type and id are
// decoded eagerly; the payload is kept verbatim for the typed decoders.
type RawResource struct {
	ResourceType string
	ID           string
	Raw          json.RawMessage
}

func (r *RawResource) UnmarshalJSON(data []byte) error {
	var head struct {
		ResourceType string `json:"resourceType"`
		ID           string `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	r.ResourceType = head.ResourceType
	r.ID = head.ID
	r.Raw = append(r.Raw[:0], data...)
	return nil
}

func (r RawResource) MarshalJSON() ([]byte, error) {
	if len(r.Raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

// Decode unmarshals the verbatim payload into a typed resource.
func (r RawResource) Decode(target interface{}) error {
	return json.Unmarshal(r.Raw, target)
}
