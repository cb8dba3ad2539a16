package domain

import "context"

// Poster sends an encoded request body to a service endpoint.
// It is the shared transport contract between layers.
type Poster interface {
	Post(ctx context.Context, endpoint Endpoint, body []byte) (Response, error)
}

// Response is a raw service response, whatever its status.
type Response struct {
	StatusCode int
	Body       []byte
	RequestID  string
	Cached     bool // served from the response cache, no network call was made
}
