package employee

import "hrms-lite/internal/fetch"

type Employee struct {
	ID         int64  `json:"id"`
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is posted to the backend exactly as the form filled it.
type CreateEmployeeRequest struct {
	EmployeeID string `json:"employee_id" form:"employee_id" validate:"required"`
	FullName   string `json:"full_name" form:"full_name" validate:"required"`
	Email      string `json:"email" form:"email" validate:"required"`
	Department string `json:"department" form:"department" validate:"required"`
}

type Modal struct {
	Open           bool                  `json:"open"`
	Form           CreateEmployeeRequest `json:"form"`
	Error          string                `json:"error,omitempty"`
	IdempotencyKey string                `json:"idempotency_key,omitempty"`
}

type View struct {
	Phase         fetch.Phase `json:"phase"`
	Error         string      `json:"error,omitempty"`
	Employees     []Employee  `json:"employees"`
	Total         int         `json:"total"`
	Search        string      `json:"search"`
	Modal         Modal       `json:"modal"`
	PendingDelete *Employee   `json:"pending_delete,omitempty"`
	Notice        string      `json:"notice,omitempty"`
}
