package apperror

import (
	"errors"
	"net/http"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP flattens any error into the envelope fields written by response.Error.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return HTTPError{Status: status, Code: appErr.Code, Message: appErr.Message}
	}

	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return HTTPError{
			Status:  http.StatusBadGateway,
			Code:    CodeUpstream,
			Message: "The HRMS backend rejected the request",
			Details: map[string]any{"status": upErr.StatusCode},
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "Internal server error",
	}
}
