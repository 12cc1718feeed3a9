package fetch

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	// bufferFloor is the minimum response buffer allocation.
	bufferFloor = 64 * 1024
	// bufferCeiling caps a single response allocation.
	bufferCeiling = 512 * 1024 * 1024
)

// Response is the outcome of one pipeline request.
type Response struct {
	// Body is the response buffer; FileSize bytes of it are valid.
	Body []byte
	// FileSize is the number of body bytes received.
	FileSize int64
	// StatusCode is the HTTP status code.
	StatusCode int
	// RawHeaders is the unparsed response header blob.
	RawHeaders []byte
}

// Client drives GET/HEAD requests through a Transport. A HEAD request
// records the server's declared content length so the next GET can size its
// buffer up front; that carry-over is the only state kept between requests.
type Client struct {
	transport Transport

	lastHead       bool
	declaredLength int64
}

// NewClient builds a pipeline client over t.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// DoRequest issues one GET or HEAD request against url.
//
// A GET allocates its buffer from the previous HEAD's declared content
// length (with a 64 KiB floor). If the server then declares more than the
// allocation holds, the buffer is discarded and the request reissued once
// at the declared size; a failure of that retry, or any transport failure
// without a size mismatch, reports ErrRequestFailed.
//
// A HEAD reports a zero file size; the caller is expected to follow up
// with a GET.
func (c *Client) DoRequest(ctx context.Context, url string, method Method) (*Response, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty url", ErrAborted)
	}

	switch method {
	case MethodGet:
		return c.doGet(ctx, url)
	case MethodHead:
		return c.doHead(ctx, url)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, method)
	}
}

func (c *Client) doGet(ctx context.Context, url string) (*Response, error) {
	var sizeHint int64
	if c.lastHead {
		sizeHint = c.declaredLength
	}
	buf, err := allocBuffer(sizeHint)
	if err != nil {
		return nil, err
	}

	req := &Request{Method: MethodGet, BufferSize: len(buf)}
	rtErr := c.transport.RoundTrip(ctx, buf, url, req)

	if req.ContentLength > int64(len(buf)) {
		// The declared length did not fit; try again with a buffer sized
		// to what the server reported.
		slog.Debug("response buffer undersized, retrying",
			"allocated", len(buf), "declared", req.ContentLength)
		buf, err = allocBuffer(req.ContentLength)
		if err != nil {
			return nil, err
		}
		req.BufferSize = len(buf)
		if err := c.transport.RoundTrip(ctx, buf, url, req); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
		}
	} else if rtErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, rtErr)
	}

	c.lastHead = false
	return &Response{
		Body:       buf,
		FileSize:   req.FileSize,
		StatusCode: req.StatusCode,
		RawHeaders: req.Headers,
	}, nil
}

func (c *Client) doHead(ctx context.Context, url string) (*Response, error) {
	buf, err := allocBuffer(0)
	if err != nil {
		return nil, err
	}

	req := &Request{Method: MethodHead, BufferSize: len(buf)}
	if err := c.transport.RoundTrip(ctx, buf, url, req); err != nil {
		// Best effort: the follow-up GET will surface a persistent
		// transport failure.
		slog.Debug("head request failed", "url", url, "error", err)
	}

	c.lastHead = true
	c.declaredLength = req.ContentLength
	return &Response{
		Body:       buf,
		FileSize:   0,
		StatusCode: req.StatusCode,
		RawHeaders: req.Headers,
	}, nil
}

// allocBuffer sizes a response buffer with the 64 KiB floor applied.
func allocBuffer(size int64) ([]byte, error) {
	if size < bufferFloor {
		size = bufferFloor
	}
	if size > bufferCeiling {
		return nil, fmt.Errorf("%w: %d byte response buffer", ErrOutOfResources, size)
	}
	return make([]byte, size), nil
}
