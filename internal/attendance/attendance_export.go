package attendance

import (
	"io"

	"hrms-lite/internal/shared/spreadsheet"
)

var exportHeader = []string{"Date", "Employee ID", "Full Name", "Department", "Status"}

func WriteAttendanceXLSX(w io.Writer, records []Record) error {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{
			r.Date,
			r.EmployeeDetails.EmployeeID,
			r.EmployeeDetails.FullName,
			r.EmployeeDetails.Department,
			r.Status,
		})
	}
	return spreadsheet.Write(w, "Attendance", exportHeader, rows)
}
