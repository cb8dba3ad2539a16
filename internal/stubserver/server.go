// Package stubserver runs an in-process fake of the prediction service for tests.
package stubserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kailas-cloud/foldcall/internal/domain"
)

// Reply is the canned response for an endpoint.
type Reply struct {
	Status int
	Body   string
	Delay  time.Duration
}

// Recorded is a request received by the stub.
type Recorded struct {
	Endpoint domain.Endpoint
	Header   http.Header
	Body     []byte
}

// Server is a fake prediction service serving both endpoint paths.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	replies  map[domain.Endpoint]Reply
	requests []Recorded
}

// New starts a stub that answers each endpoint with its reply.
// Endpoints without a reply answer 200 {}. The server is closed on test cleanup.
func New(t testing.TB, replies map[domain.Endpoint]Reply) *Server {
	t.Helper()

	s := &Server{replies: make(map[domain.Endpoint]Reply, len(replies))}
	for ep, r := range replies {
		s.replies[ep] = r
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Post(domain.MSAPath, s.handle(domain.EndpointMSA))
	r.Post(domain.StructurePath, s.handle(domain.EndpointStructure))

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// SetReply replaces the reply of an endpoint.
func (s *Server) SetReply(ep domain.Endpoint, r Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[ep] = r
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recorded, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) handle(ep domain.Endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		s.mu.Lock()
		s.requests = append(s.requests, Recorded{Endpoint: ep, Header: r.Header.Clone(), Body: body})
		reply, ok := s.replies[ep]
		s.mu.Unlock()

		if !ok {
			reply = Reply{Status: http.StatusOK, Body: "{}"}
		}
		if reply.Delay > 0 {
			select {
			case <-time.After(reply.Delay):
			case <-r.Context().Done():
				return
			}
		}
		if reply.Status == 0 {
			reply.Status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(reply.Status)
		_, _ = io.WriteString(w, reply.Body)
	}
}

// ClosedURL returns the URL of a listener that has already been shut down,
// so connecting to it is refused.
func ClosedURL(t testing.TB) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}
