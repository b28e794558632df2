package employeeerrors

import (
	"net/http"

	"hrms-lite/internal/shared/apperror"
)

const (
	MsgFetchFailed  = "Failed to fetch employees. Please check the backend connection."
	MsgCreateFailed = "An error occurred while adding the employee."
	MsgDeleteFailed = "Failed to delete employee."
	MsgEmpty        = "No employees found."
)

var (
	ErrDeleteNotConfirmed = apperror.New(
		apperror.CodeInvalidInput,
		"Deletion was not confirmed",
		http.StatusBadRequest,
	)
	ErrDeleteNotRequested = apperror.New(
		apperror.CodeConflict,
		"This employee is not awaiting delete confirmation",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
)
