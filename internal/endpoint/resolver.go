// Package endpoint decides which backend address to use for a given
// execution context.
package endpoint

import "strings"

// ExecContext is where a backend address will be dereferenced.
type ExecContext int

const (
	// Browser: the address is written into a page and used by the user's browser.
	Browser ExecContext = iota
	// PreRender: the gateway calls the backend itself while rendering a page.
	PreRender
)

const (
	DefaultBrowserURL  = "http://localhost:8000"
	DefaultInternalURL = "http://backend:8000"
)

type Resolver struct {
	publicURL   string
	internalURL string
}

// NewResolver takes the operator-configured addresses. Blank values are
// treated as not configured.
func NewResolver(publicURL, internalURL string) *Resolver {
	return &Resolver{
		publicURL:   strings.TrimSpace(publicURL),
		internalURL: strings.TrimSpace(internalURL),
	}
}

// Resolve returns the backend base address for ctx. A browser never gets
// the internal address: that one is only reachable from inside the
// deployment network.
func (r *Resolver) Resolve(ctx ExecContext) string {
	if ctx == Browser {
		return firstNonEmpty(r.publicURL, DefaultBrowserURL)
	}
	return firstNonEmpty(r.internalURL, r.publicURL, DefaultInternalURL)
}

// BuildURL joins the base for ctx and endpoint with exactly one slash.
func (r *Resolver) BuildURL(ctx ExecContext, endpoint string) string {
	return Join(r.Resolve(ctx), endpoint)
}

// Join concatenates base and path with exactly one separating slash.
func Join(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
