// Error codes for the operations API.
//
// These are the machine-readable values carried in the error envelope's
// "code" field; fail and Fail take one alongside the HTTP status. Clients
// branch on the code, never on the message text. Codes are lowercase
// snake_case: the generic ones mirror HTTP status semantics, stats_failed
// and list_failed pin down which message-log query broke when the status
// alone would be ambiguous.
//
// Middleware that writes the same envelope from outside this package keeps
// its codes local: panic recovery emits internal_error, the rate limiter
// emits rate_limited.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Failures of the backing message-log queries.
	ErrCodeStatsFailed = "stats_failed"
	ErrCodeListFailed  = "list_failed"
)
