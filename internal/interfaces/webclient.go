package interfaces

import (
	"context"

	"github.com/seolens/seolens/internal/model"
)

// WebClient abstracts the HTTP transport used by the fetcher so the
// plain net/http backend and the chromedp rendering backend are
// interchangeable.
type WebClient interface {
	Do(ctx context.Context, req *model.Request) (*model.Response, error)

	// Get is a convenience method for simple GET requests
	Get(ctx context.Context, url string) (*model.Response, error)

	Close() error
}
