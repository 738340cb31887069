package api

import (
	"bufio"
	"bytes"
	"strings"
)

// Response holds the Key=Value fields of an auth response body.
type Response map[string]string

// ParseResponse parses a newline-separated Key=Value body. Lines without '='
// are ignored; values may themselves contain '='.
func ParseResponse(body []byte) Response {
	resp := make(Response)

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 4096), maxResponseSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, "=")
		if !ok || key == "" {
			continue
		}
		resp[key] = value
	}
	return resp
}

// Get returns the value for key, or "" when absent.
func (r Response) Get(key string) string {
	return r[key]
}
