package ports

import "context"

// PageFetcher returns the markup of a share page. Implementations own retries,
// timeouts and status handling; a nil error means the body of a successful response.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
