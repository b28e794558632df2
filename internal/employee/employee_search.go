package employee

import "strings"

// FilterEmployees keeps the employees whose full name, employee code or
// department contains term, ignoring case. The input slice is not modified.
func FilterEmployees(list []Employee, term string) []Employee {
	needle := strings.ToLower(term)
	out := make([]Employee, 0, len(list))
	for _, e := range list {
		if strings.Contains(strings.ToLower(e.FullName), needle) ||
			strings.Contains(strings.ToLower(e.EmployeeID), needle) ||
			strings.Contains(strings.ToLower(e.Department), needle) {
			out = append(out, e)
		}
	}
	return out
}
