package exceptions

import "errors"

// Kinds classify failures independently of the HTTP status they map to.
// Match them with errors.Is.
var (
	KindUnsupportedResourceType  = errors.New("unsupported resource type")
	KindAuthenticationIncomplete = errors.New("authentication incomplete")
	KindSearchFailed             = errors.New("search failed")
	KindInvalidEndpoint          = errors.New("invalid endpoint")
)
