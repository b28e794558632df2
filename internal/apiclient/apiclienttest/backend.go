// Package apiclienttest provides an in-memory HRMS backend speaking the same
// REST dialect as the real service, for exercising the console end to end.
package apiclienttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

type Employee struct {
	ID         int64  `json:"id"`
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	CreatedAt  string `json:"created_at"`
}

type Attendance struct {
	ID              int64    `json:"id"`
	EmployeeDetails Employee `json:"employee_details"`
	Date            string   `json:"date"`
	Status          string   `json:"status"`
	CreatedAt       string   `json:"created_at"`
}

type failure struct {
	status int
	body   string
}

type hold struct {
	started chan struct{}
	release chan struct{}
}

type Backend struct {
	Server *httptest.Server
	Today  string

	mu             sync.Mutex
	nextEmployee   int64
	nextAttendance int64
	employees      []Employee
	attendances    []Attendance
	requests       []string
	failures       map[string]failure
	holds          map[string]*hold
}

func NewBackend(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		Today:    time.Now().Format("2006-01-02"),
		failures: make(map[string]failure),
		holds:    make(map[string]*hold),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/employees/", b.employeesRoute)
	mux.HandleFunc("/api/attendances/", b.attendancesRoute)
	mux.HandleFunc("/api/dashboard/", b.dashboardRoute)
	b.Server = httptest.NewServer(b.record(mux))
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the API base URL, equivalent to HRMS_API_BASE_URL.
func (b *Backend) URL() string {
	return b.Server.URL + "/api"
}

// Requests lists "METHOD /path?query" for every request served so far.
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

// FailNext makes the next request for method and path answer status with body.
func (b *Backend) FailNext(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, body: body}
}

// HoldNext makes the next request for method and path compute its answer and
// then wait until release is called before sending it. started is closed once
// the answer has been computed. release is safe to call more than once and
// runs at cleanup.
func (b *Backend) HoldNext(t testing.TB, method, path string) (started <-chan struct{}, release func()) {
	h := &hold{started: make(chan struct{}), release: make(chan struct{})}
	b.mu.Lock()
	b.holds[method+" "+path] = h
	b.mu.Unlock()

	var once sync.Once
	release = func() { once.Do(func() { close(h.release) }) }
	t.Cleanup(release)
	return h.started, release
}

func (b *Backend) SeedEmployee(employeeID, fullName, email, department string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insertEmployee(Employee{EmployeeID: employeeID, FullName: fullName, Email: email, Department: department}).ID
}

func (b *Backend) SeedAttendance(employeeID int64, date, status string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	emp, _ := b.findEmployee(employeeID)
	b.nextAttendance++
	b.attendances = append(b.attendances, Attendance{
		ID:              b.nextAttendance,
		EmployeeDetails: emp,
		Date:            date,
		Status:          status,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339Nano),
	})
	return b.nextAttendance
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		line := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")
		if r.URL.RawQuery != "" {
			line += "?" + r.URL.RawQuery
		}
		b.mu.Lock()
		b.requests = append(b.requests, line)
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")
		f, failing := b.failures[key]
		if failing {
			delete(b.failures, key)
		}
		h, held := b.holds[key]
		if held {
			delete(b.holds, key)
		}
		b.mu.Unlock()

		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		if held {
			rec := httptest.NewRecorder()
			next.ServeHTTP(rec, r)
			close(h.started)
			<-h.release
			for k, v := range rec.Header() {
				w.Header()[k] = v
			}
			w.WriteHeader(rec.Code)
			_, _ = w.Write(rec.Body.Bytes())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) employeesRoute(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/employees/"), "/")
	switch {
	case rest == "" && r.Method == http.MethodGet:
		b.mu.Lock()
		out := make([]Employee, 0, len(b.employees))
		for i := len(b.employees) - 1; i >= 0; i-- {
			out = append(out, b.employees[i])
		}
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, out)
	case rest == "" && r.Method == http.MethodPost:
		b.createEmployee(w, r)
	case rest != "" && r.Method == http.MethodDelete:
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || !b.deleteEmployee(id) {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No Employee matches the given query."})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": fmt.Sprintf("Method %q not allowed.", r.Method)})
	}
}

func (b *Backend) createEmployee(w http.ResponseWriter, r *http.Request) {
	var in Employee
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	missing := map[string][]string{}
	for field, value := range map[string]string{
		"employee_id": in.EmployeeID,
		"full_name":   in.FullName,
		"email":       in.Email,
		"department":  in.Department,
	} {
		if strings.TrimSpace(value) == "" {
			missing[field] = []string{"This field may not be blank."}
		}
	}
	if len(missing) > 0 {
		writeJSON(w, http.StatusBadRequest, missing)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.employees {
		if e.EmployeeID == in.EmployeeID || strings.EqualFold(e.Email, in.Email) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Employee with this ID or Email already exists."})
			return
		}
	}
	writeJSON(w, http.StatusCreated, b.insertEmployee(in))
}

func (b *Backend) attendancesRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		date := r.URL.Query().Get("date")
		employeeID := r.URL.Query().Get("employee_id")
		b.mu.Lock()
		out := make([]Attendance, 0)
		for _, a := range b.attendances {
			if date != "" && a.Date != date {
				continue
			}
			if employeeID != "" && strconv.FormatInt(a.EmployeeDetails.ID, 10) != employeeID {
				continue
			}
			out = append(out, a)
		}
		b.mu.Unlock()
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Date != out[j].Date {
				return out[i].Date > out[j].Date
			}
			return out[i].ID > out[j].ID
		})
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		b.createAttendance(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": fmt.Sprintf("Method %q not allowed.", r.Method)})
	}
}

func (b *Backend) createAttendance(w http.ResponseWriter, r *http.Request) {
	var in struct {
		EmployeeID json.RawMessage `json:"employee_id"`
		Date       string          `json:"date"`
		Status     string          `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	pk := strings.Trim(string(in.EmployeeID), `"`)
	id, err := strconv.ParseInt(pk, 10, 64)

	b.mu.Lock()
	defer b.mu.Unlock()
	emp, ok := b.findEmployee(id)
	if err != nil || !ok {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"employee_id": {fmt.Sprintf("Invalid pk %q - object does not exist.", pk)}})
		return
	}
	if in.Status != "Present" && in.Status != "Absent" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"status": {fmt.Sprintf("%q is not a valid choice.", in.Status)}})
		return
	}
	for _, a := range b.attendances {
		if a.EmployeeDetails.ID == id && a.Date == in.Date {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Attendance record for this employee on this date already exists."})
			return
		}
	}
	b.nextAttendance++
	rec := Attendance{
		ID:              b.nextAttendance,
		EmployeeDetails: emp,
		Date:            in.Date,
		Status:          in.Status,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339Nano),
	}
	b.attendances = append(b.attendances, rec)
	writeJSON(w, http.StatusCreated, rec)
}

func (b *Backend) dashboardRoute(w http.ResponseWriter, r *http.Request) {
	type stat struct {
		EmployeeID   string `json:"employee_id"`
		FullName     string `json:"full_name"`
		Department   string `json:"department"`
		TotalPresent int    `json:"total_present"`
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	out := struct {
		TotalEmployees int    `json:"total_employees"`
		PresentToday   int    `json:"present_today"`
		AbsentToday    int    `json:"absent_today"`
		EmployeeStats  []stat `json:"employee_stats"`
	}{TotalEmployees: len(b.employees), EmployeeStats: []stat{}}

	present := map[int64]int{}
	for _, a := range b.attendances {
		if a.Status == "Present" {
			present[a.EmployeeDetails.ID]++
		}
		if a.Date != b.Today {
			continue
		}
		if a.Status == "Present" {
			out.PresentToday++
		} else {
			out.AbsentToday++
		}
	}
	for _, e := range b.employees {
		out.EmployeeStats = append(out.EmployeeStats, stat{
			EmployeeID:   e.EmployeeID,
			FullName:     e.FullName,
			Department:   e.Department,
			TotalPresent: present[e.ID],
		})
	}
	sort.SliceStable(out.EmployeeStats, func(i, j int) bool {
		return out.EmployeeStats[i].TotalPresent > out.EmployeeStats[j].TotalPresent
	})
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) insertEmployee(e Employee) Employee {
	b.nextEmployee++
	e.ID = b.nextEmployee
	e.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	b.employees = append(b.employees, e)
	return e
}

func (b *Backend) findEmployee(id int64) (Employee, bool) {
	for _, e := range b.employees {
		if e.ID == id {
			return e, true
		}
	}
	return Employee{}, false
}

func (b *Backend) deleteEmployee(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.employees {
		if e.ID != id {
			continue
		}
		b.employees = append(b.employees[:i], b.employees[i+1:]...)
		kept := b.attendances[:0]
		for _, a := range b.attendances {
			if a.EmployeeDetails.ID != id {
				kept = append(kept, a)
			}
		}
		b.attendances = kept
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
