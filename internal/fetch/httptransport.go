package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// HTTPTransport is the net/http backed Transport used outside of tests.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport builds a transport with the given overall timeout.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		client: &http.Client{Timeout: timeout},
	}
}

// RoundTrip issues the request and stores up to len(buf) body bytes in buf.
// A body that overflows buf is only an error when the server declared no
// content length; otherwise the declared length in req lets the caller
// resize and retry.
func (t *HTTPTransport) RoundTrip(ctx context.Context, buf []byte, url string, req *Request) error {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method.String(), url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("issuing request: %w", err)
	}
	defer resp.Body.Close()

	req.StatusCode = resp.StatusCode
	req.ContentLength = resp.ContentLength
	req.Headers = rawHeaderBlob(resp)
	req.FileSize = 0

	if req.Method == MethodHead {
		return nil
	}

	n, err := io.ReadFull(resp.Body, buf)
	switch err {
	case nil:
		// Buffer filled exactly or the body continues past it.
		if resp.ContentLength < 0 {
			var probe [1]byte
			if m, _ := resp.Body.Read(probe[:]); m > 0 {
				return fmt.Errorf("response exceeds %d byte buffer with no declared length", len(buf))
			}
		}
	case io.ErrUnexpectedEOF, io.EOF:
		// Body was shorter than the buffer.
	default:
		return fmt.Errorf("reading response body: %w", err)
	}

	req.FileSize = int64(n)
	return nil
}

// rawHeaderBlob reconstructs the response head as a CRLF-separated blob,
// status line first, the way a caller of the protocol surface expects to
// parse it.
func rawHeaderBlob(resp *http.Response) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s %s\r\n", resp.Proto, resp.Status)

	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range resp.Header[name] {
			fmt.Fprintf(&b, "%s: %s\r\n", name, value)
		}
	}
	b.WriteString("\r\n")
	return b.Bytes()
}
