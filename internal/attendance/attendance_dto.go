package attendance

import "hrms-lite/internal/fetch"

const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"

	dateLayout = "2006-01-02"
)

type EmployeeDetails struct {
	ID         int64  `json:"id"`
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

type Record struct {
	ID              int64           `json:"id"`
	EmployeeDetails EmployeeDetails `json:"employee_details"`
	Date            string          `json:"date"`
	Status          string          `json:"status"`
	CreatedAt       string          `json:"created_at,omitempty"`
}

// EmployeeOption feeds the employee selects of the filter and the mark form.
type EmployeeOption struct {
	ID         int64  `json:"id"`
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
}

// MarkAttendanceRequest is posted as-is. EmployeeID is the server id of the
// employee, as the select submits it.
type MarkAttendanceRequest struct {
	EmployeeID string `json:"employee_id" form:"employee_id" validate:"required"`
	Date       string `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	Status     string `json:"status" form:"status" validate:"required,oneof=Present Absent"`
}

// Filter is the current attendance query. An empty Date asks for every date.
type Filter struct {
	Date       string `json:"date" form:"date"`
	EmployeeID string `json:"employee_id" form:"employee_id"`
}

type Modal struct {
	Open           bool                  `json:"open"`
	Form           MarkAttendanceRequest `json:"form"`
	Error          string                `json:"error,omitempty"`
	IdempotencyKey string                `json:"idempotency_key,omitempty"`
}

type View struct {
	Phase     fetch.Phase      `json:"phase"`
	Error     string           `json:"error,omitempty"`
	Records   []Record         `json:"records"`
	Filter    Filter           `json:"filter"`
	Employees []EmployeeOption `json:"employees"`
	Modal     Modal            `json:"modal"`
	Today     string           `json:"today"`
}
