// Package api provides the HTTP client for the Android auth endpoint. It
// posts form-encoded requests, parses the newline-separated Key=Value reply
// and retries transient failures with exponential backoff.
//
// # Requests
//
// Two exchanges are supported:
//
//   - [Client.MasterLogin] sends an encrypted credential and receives a
//     master token (the Token field).
//   - [Client.ExchangeToken] sends a master token and receives a
//     service-scoped OAuth token (the Auth field).
//
// # Retry Behavior
//
// Transport errors and these status codes are retried up to 3 times by
// default:
//
//   - 408 Request Timeout
//   - 429 Too Many Requests
//   - 500, 502, 503, 504
//
// The delay doubles with each attempt (1s, 2s, 4s, ...) with 20% jitter.
//
// # Error Handling
//
// Rejections are returned as [*APIError] carrying the Error code of the
// reply. Use errors.Is with the sentinels:
//
//	if errors.Is(err, api.ErrNeedsBrowser) {
//	    // Send the user to apiErr.URL
//	}
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use.
package api
