// Package httpx gives the ops listener one handler signature that can be
// served by either net/http or fasthttp. The ops surface is tiny
// (liveness, readiness, runtime stats) so the abstraction stays minimal:
// no routing, no middleware, just a request view and a writer.
package httpx

import (
	"context"
	"io"
	"net/http"
)

// Request is the transport-neutral request view handed to ops handlers.
type Request struct {
	Ctx        context.Context
	Method     string
	Path       string
	Header     http.Header
	Body       io.ReadCloser
	RemoteAddr string
}

// ResponseWriter is the subset of http.ResponseWriter semantics both
// adapters provide. Headers set after the first Write are lost.
type ResponseWriter interface {
	Header() http.Header
	Write([]byte) (int, error)
	WriteHeader(status int)
}

// HandlerFunc is the handler signature shared across adapters.
type HandlerFunc func(w ResponseWriter, r *Request)
