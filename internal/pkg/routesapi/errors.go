package routesapi

import (
	"net/http"

	"github.com/propferry/route-search-gateway/internal/pkg/exception"
)

// Taxonomy for upstream failures. Network and protocol faults carry
// fixed, non-leaky messages; application errors from the backend are
// built ad hoc so the server's own message reaches the client.
var ErrUpstreamUnreachable = exception.BadGateway("route search backend is unreachable")

var ErrUpstreamNotJSON = exception.BadGateway("route search backend returned a non-JSON response")

var ErrUpstreamFailed = exception.BadGateway("route search backend request failed")

var ErrRateLimitExceeded = exception.ApplicationError{
	StatusCode: http.StatusTooManyRequests,
	Message:    "search rate limit exceeded",
}
