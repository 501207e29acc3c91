package api

import "context"

// PathResolver resolves relative resource paths against the helpdesk base
// URL. Splitting this from HTTP execution lets services build paths without
// knowing the base URL details, and lets tests exercise path construction
// on its own.
type PathResolver interface {
	// resourcePath returns the absolute URL for a resource path.
	// Example: resourcePath("contacts/7.json") -> "https://x.freshdesk.com/contacts/7.json"
	resourcePath(path string) string
}

// HTTPExecutor executes HTTP requests: JSON serialization, error translation
// and the empty-object sentinel for unparseable bodies all live behind it.
// Mocking it isolates services from the network in tests.
type HTTPExecutor interface {
	// do executes a request, marshaling body and unmarshaling into result
	// when they are non-nil.
	do(ctx context.Context, method, url string, body any, result any) error

	// doRaw executes a request and returns the raw response bytes.
	doRaw(ctx context.Context, method, url string, body any) ([]byte, error)
}

// Requester combines PathResolver and HTTPExecutor into the full request
// surface the resource services depend on.
type Requester interface {
	PathResolver
	HTTPExecutor
}
