package dashboard

import "hrms-lite/internal/fetch"

const (
	MsgFetchFailed = "Failed to load dashboard data."
	MsgEmpty       = "No employees found."
)

type EmployeeStat struct {
	EmployeeID   string `json:"employee_id"`
	FullName     string `json:"full_name"`
	Department   string `json:"department"`
	TotalPresent int    `json:"total_present"`
}

// Snapshot is shown exactly as the backend computed it; the counters are not
// expected to add up to TotalEmployees.
type Snapshot struct {
	TotalEmployees int            `json:"total_employees"`
	PresentToday   int            `json:"present_today"`
	AbsentToday    int            `json:"absent_today"`
	EmployeeStats  []EmployeeStat `json:"employee_stats"`
}

type View struct {
	Phase        fetch.Phase `json:"phase"`
	Error        string      `json:"error,omitempty"`
	Snapshot     *Snapshot   `json:"snapshot,omitempty"`
	EmptyMessage string      `json:"-"`
}
