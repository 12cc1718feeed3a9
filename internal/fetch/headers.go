package fetch

import "bytes"

// Header length caps. Entries exceeding either cap are skipped outright
// rather than truncated.
const (
	maxHeaderNameLen  = 128
	maxHeaderValueLen = 512
)

// Header is one parsed response header.
type Header struct {
	Name  string
	Value string
}

// ParseHeaders parses a raw response header blob into at most maxHeaders
// entries. The first line (the status line) is skipped; parsing stops at
// the first empty line.
//
// The parse is best-effort and never fails: lines without a colon and
// entries breaching the name/value length caps are dropped silently, so
// malformed input just yields fewer headers.
func ParseHeaders(blob []byte, maxHeaders int) []Header {
	headers := []Header{}
	if len(blob) == 0 || maxHeaders <= 0 {
		return headers
	}

	rest := blob
	if i := bytes.Index(rest, []byte("\r\n")); i >= 0 {
		rest = rest[i+2:]
	}

	for {
		i := bytes.Index(rest, []byte("\r\n"))
		if i < 0 {
			break
		}
		line := rest[:i]
		rest = rest[i+2:]

		if len(line) == 0 || len(headers) >= maxHeaders {
			break
		}

		sep := bytes.IndexByte(line, ':')
		if sep < 0 {
			continue
		}
		name := line[:sep]
		value := line[sep+1:]
		for len(value) > 0 && value[0] == ' ' {
			value = value[1:]
		}
		if len(name) >= maxHeaderNameLen || len(value) >= maxHeaderValueLen {
			continue
		}
		headers = append(headers, Header{Name: string(name), Value: string(value)})
	}
	return headers
}
