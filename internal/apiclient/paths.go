package apiclient

import "strconv"

const (
	EmployeesPath   = "/employees/"
	AttendancesPath = "/attendances/"
	DashboardPath   = "/dashboard/"
)

func EmployeePath(id int64) string {
	return EmployeesPath + strconv.FormatInt(id, 10) + "/"
}
