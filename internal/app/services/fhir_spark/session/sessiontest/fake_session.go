// Package sessiontest provides an in-memory FHIR session for tests.
package sessiontest

import (
	"context"
	"deathcert-service/internal/app/contracts"
	"deathcert-service/internal/pkg/fhir_dto"
	"net/url"
	"sync"
)

type SearchCall struct {
	ResourceType string
	Filter       url.Values
}

// FakeSession answers searches by resource type and reads by "Type/id".
type FakeSession struct {
	URL   string
	Token string

	mu           sync.Mutex
	results      map[string][]fhir_dto.RawResource
	searchErrors map[string]error
	resources    map[string]fhir_dto.RawResource
	readErrors   map[string]error
	searches     []SearchCall
	reads        []string
}

func NewFakeSession(serviceURL string) *FakeSession {
	return &FakeSession{
		URL:          serviceURL,
		results:      map[string][]fhir_dto.RawResource{},
		searchErrors: map[string]error{},
		resources:    map[string]fhir_dto.RawResource{},
		readErrors:   map[string]error{},
	}
}

// Raw builds a raw resource from JSON and panics on malformed input.
func Raw(body string) fhir_dto.RawResource {
	var raw fhir_dto.RawResource
	if err := raw.UnmarshalJSON([]byte(body)); err != nil {
		panic(err)
	}
	return raw
}

func (f *FakeSession) WithSearchResult(resourceType string, bodies ...string) *FakeSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, body := range bodies {
		f.results[resourceType] = append(f.results[resourceType], Raw(body))
	}
	return f
}

func (f *FakeSession) WithSearchError(resourceType string, err error) *FakeSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchErrors[resourceType] = err
	return f
}

func (f *FakeSession) WithResource(body string) *FakeSession {
	raw := Raw(body)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resources[raw.ResourceType+"/"+raw.ID] = raw
	return f
}

func (f *FakeSession) WithReadError(resourceType, id string, err error) *FakeSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readErrors[resourceType+"/"+id] = err
	return f
}

func (f *FakeSession) Searches() []SearchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SearchCall(nil), f.searches...)
}

func (f *FakeSession) Reads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.reads...)
}

func (f *FakeSession) ServiceURL() string  { return f.URL }
func (f *FakeSession) Authenticated() bool { return f.Token != "" }

func (f *FakeSession) Search(ctx context.Context, resourceType string, filter url.Values) ([]fhir_dto.RawResource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, SearchCall{ResourceType: resourceType, Filter: filter})
	if err := f.searchErrors[resourceType]; err != nil {
		return nil, err
	}
	return append([]fhir_dto.RawResource{}, f.results[resourceType]...), nil
}

func (f *FakeSession) Read(ctx context.Context, resourceType, id string) (fhir_dto.RawResource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := resourceType + "/" + id
	f.reads = append(f.reads, key)
	if err := f.readErrors[key]; err != nil {
		return fhir_dto.RawResource{}, err
	}
	raw, ok := f.resources[key]
	if !ok {
		return fhir_dto.RawResource{}, &NotFoundError{Key: key}
	}
	return raw, nil
}

type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string { return e.Key + " not found" }

// FakeFactory hands out one prepared session and records how it was opened.
type FakeFactory struct {
	Session *FakeSession
	Err     error

	mu     sync.Mutex
	opened []SessionOpen
}

type SessionOpen struct {
	ServiceURL  string
	AccessToken string
}

func (f *FakeFactory) NewSession(serviceURL, accessToken string) (contracts.FhirSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, SessionOpen{ServiceURL: serviceURL, AccessToken: accessToken})
	if f.Err != nil {
		return nil, f.Err
	}
	f.Session.Token = accessToken
	return f.Session, nil
}

func (f *FakeFactory) Opened() []SessionOpen {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SessionOpen(nil), f.opened...)
}
