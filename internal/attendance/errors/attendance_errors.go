package attendanceerrors

import (
	"net/http"

	"hrms-lite/internal/shared/apperror"
)

const (
	MsgFetchFailed  = "Failed to fetch attendance records."
	MsgMarkFailed   = "An error occurred while marking attendance."
	MsgMarkRejected = "Attendance may already be marked for this employee on this date, or the input is invalid."
	MsgEmpty        = "No attendance records found for this date/employee."
)

var (
	ErrFutureDate = apperror.New(
		apperror.CodeInvalidInput,
		"Attendance cannot be marked for a future date",
		http.StatusBadRequest,
	)
)
