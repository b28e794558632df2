package employee

import (
	"io"

	"hrms-lite/internal/shared/spreadsheet"
)

var exportHeader = []string{"ID", "Employee ID", "Full Name", "Email", "Department", "Created At"}

// WriteEmployeesXLSX exports the given rows, usually the currently displayed
// (search-filtered) list.
func WriteEmployeesXLSX(w io.Writer, employees []Employee) error {
	rows := make([][]any, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []any{e.ID, e.EmployeeID, e.FullName, e.Email, e.Department, e.CreatedAt})
	}
	return spreadsheet.Write(w, "Employees", exportHeader, rows)
}
