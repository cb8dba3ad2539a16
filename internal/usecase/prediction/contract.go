package prediction

import (
	"context"

	"github.com/kailas-cloud/foldcall/internal/domain"
)

// Poster sends an encoded request to the prediction service.
type Poster interface {
	Post(ctx context.Context, endpoint domain.Endpoint, body []byte) (domain.Response, error)
}
