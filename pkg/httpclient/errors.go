package httpclient

import (
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	apperrors "github.com/utafrali/shopstate/pkg/errors"
)

// remoteError is the error body shape used by public JSON APIs such as the
// product catalog: {"message": "..."}.
type remoteError struct {
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx response and maps it to an
// AppError named after the remote dependency. The body is consumed and closed.
func ParseResponseError(resp *http.Response, dependency string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", dependency, resp.StatusCode, err)
	}

	message := string(body)
	var remote remoteError
	if json.Unmarshal(body, &remote) == nil && remote.Message != "" {
		message = remote.Message
	}

	return mapStatus(resp.StatusCode, dependency, message)
}

func mapStatus(status int, dependency, message string) error {
	cause := fmt.Errorf("%s returned status %d: %s", dependency, status, message)
	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(dependency, "resource")
	case status == http.StatusTooManyRequests, status >= 500:
		return apperrors.Unavailable(dependency, cause)
	case IsClientError(status):
		return apperrors.InvalidInput(fmt.Sprintf("%s: %s", dependency, message))
	default:
		return cause
	}
}

// IsClientError reports whether status is a 4xx code.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
