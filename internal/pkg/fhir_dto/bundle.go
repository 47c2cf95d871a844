package fhir_dto

type FHIRBundle struct {
	ResourceType string       `json:"resourceType"`
	ID           string       `json:"id,omitempty"`
	Type         string       `json:"type,omitempty"`
	Total        int          `json:"total,omitempty"`
	Link         []BundleLink `json:"link,omitempty"`
	Entry        []Entry      `json:"entry,omitempty"`
}

type BundleLink struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}

type Entry struct {
	FullUrl  string       `json:"fullUrl,omitempty"`
	Resource RawResource  `json:"resource"`
	Search   *EntrySearch `json:"search,omitempty"`
}

type EntrySearch struct {
	Mode string `json:"mode,omitempty"`
}

// NextLink returns the url of the next page, or "" on the last page.
func (b *FHIRBundle) NextLink(relation string) string {
	for _, link := range b.Link {
		if link.Relation == relation {
			return link.URL
		}
	}
	return ""
}
