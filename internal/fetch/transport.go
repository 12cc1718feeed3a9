// Package fetch implements the HTTP retrieval pipeline used to pull boot
// artifacts: adaptive response-buffer sizing driven by HEAD requests, a
// single resize-and-retry on undersized GETs, and best-effort parsing of
// raw response header blobs.
package fetch

import (
	"context"
	"errors"
)

// Method is the request method understood by the pipeline.
type Method int

const (
	MethodGet Method = iota
	MethodHead
)

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodHead:
		return "HEAD"
	}
	return "unknown"
}

// Pipeline errors. DoRequest reports transport failures uniformly as
// ErrRequestFailed after its one resize retry is exhausted.
var (
	// ErrAborted indicates a malformed pipeline call.
	ErrAborted = errors.New("aborted")
	// ErrUnsupported indicates a method the pipeline does not implement.
	ErrUnsupported = errors.New("unsupported method")
	// ErrRequestFailed indicates the transport failed outright.
	ErrRequestFailed = errors.New("request failed")
	// ErrOutOfResources indicates the response buffer could not be sized.
	ErrOutOfResources = errors.New("out of resources")
)

// Request is the descriptor handed across the transport boundary. The
// caller fills Method and BufferSize; the transport fills the response
// fields.
type Request struct {
	Method Method

	// BufferSize is the capacity ceiling for the response body.
	BufferSize int

	// ContentLength is the length declared by the server, or -1 when the
	// server did not declare one. Filled by the transport.
	ContentLength int64
	// FileSize is the number of body bytes actually stored in the caller
	// buffer. Filled by the transport.
	FileSize int64
	// StatusCode is the HTTP status code. Filled by the transport.
	StatusCode int
	// Headers is the raw response header blob, status line first, lines
	// CRLF-terminated. Filled by the transport.
	Headers []byte
}

// Transport issues one request and stores the response body in buf. It is
// the pipeline's only collaborator; the concrete implementation decides how
// bytes actually move.
type Transport interface {
	RoundTrip(ctx context.Context, buf []byte, url string, req *Request) error
}
