package capture

import (
	"context"

	"github.com/aleister1102/visualreg/internal/models"
)

// Backend renders a page and returns its pixels as an encoded PNG payload.
// It is treated as an opaque, possibly unreliable remote operation: calls may
// fail transiently and are retried by the engine.
type Backend interface {
	// Render navigates to url with the given viewport and returns PNG bytes
	Render(ctx context.Context, url string, viewport models.Viewport, browserEngine string) ([]byte, error)
	// Cleanup releases any resources held by the backend
	Cleanup()
}
