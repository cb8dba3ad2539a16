package health

import "context"

// CachePinger checks response cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// ServiceProber checks that the prediction service accepts connections.
type ServiceProber interface {
	Probe(ctx context.Context) error
}
