package attendance

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"time"

	"hrms-lite/internal/apiclient"
	attendanceerrors "hrms-lite/internal/attendance/errors"
	"hrms-lite/internal/events"
	"hrms-lite/internal/fetch"
	"hrms-lite/internal/shared/apperror"
	"hrms-lite/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Controller owns the attendance page: the filtered records, the employee
// options for the selects and the mark-attendance modal.
type Controller struct {
	client    apiclient.Client
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
	records   *fetch.Tracker[[]Record]

	mu        sync.Mutex
	mounted   bool
	filter    Filter
	employees []EmployeeOption
	modal     Modal
}

func NewController(client apiclient.Client, publisher events.Publisher, logger ...*zap.Logger) *Controller {
	l := zap.L().Named("attendance.controller")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.controller")
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Controller{
		client:    client,
		publisher: publisher,
		logger:    l,
		now:       time.Now,
		records:   fetch.NewTracker(func(v []Record) int { return len(v) }),
	}
}

// SetClock replaces the clock used for "today".
func (c *Controller) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Controller) today() string {
	return c.now().Format(dateLayout)
}

// DefaultFilter is the filter a fresh mount starts from: today, every employee.
func (c *Controller) DefaultFilter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Filter{Date: c.today()}
}

// Filter returns the active filter, or the default one before mounting.
func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return Filter{Date: c.today()}
	}
	return c.filter
}

func (c *Controller) Mount(ctx context.Context) error {
	return c.mount(ctx, c.DefaultFilter())
}

// mount loads the employee options and the records for f concurrently. A
// failure to load the options is only logged.
func (c *Controller) mount(ctx context.Context, f Filter) error {
	c.mu.Lock()
	c.mounted = true
	c.filter = f
	c.modal = Modal{Form: c.blankForm()}
	c.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error {
		c.loadEmployees(ctx)
		return nil
	})
	g.Go(func() error {
		return c.Refresh(ctx)
	})
	return g.Wait()
}

func (c *Controller) loadEmployees(ctx context.Context) {
	var out []EmployeeOption
	if err := c.client.Get(ctx, apiclient.EmployeesPath, nil, &out); err != nil {
		contextutil.GetLogger(ctx, c.logger).Warn("fetch employee options failed", zap.Error(err))
		return
	}
	c.mu.Lock()
	c.employees = out
	c.mu.Unlock()
}

// SetFilter applies f. An unchanged filter does not refetch; changed
// reports whether a new cycle ran.
func (c *Controller) SetFilter(ctx context.Context, f Filter) (changed bool, err error) {
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return true, c.mount(ctx, f)
	}
	if c.filter == f {
		c.mu.Unlock()
		return false, nil
	}
	c.filter = f
	c.mu.Unlock()

	return true, c.Refresh(ctx)
}

// Refresh re-runs the read for the active filter.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	f := c.filter
	c.mu.Unlock()

	err := c.records.Run(ctx, func(ctx context.Context) ([]Record, error) {
		return c.fetchRecords(ctx, f)
	}, attendanceerrors.MsgFetchFailed)
	if err != nil && !errors.Is(err, fetch.ErrStale) {
		contextutil.GetLogger(ctx, c.logger).Warn("fetch attendance failed",
			zap.String("date", f.Date),
			zap.String("employee_id", f.EmployeeID),
			zap.Error(err),
		)
	}
	return err
}

func (c *Controller) fetchRecords(ctx context.Context, f Filter) ([]Record, error) {
	var out []Record
	if err := c.client.Get(ctx, apiclient.AttendancesPath, Query(f), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Record{}
	}
	return out, nil
}

// Query is the backend query for f. date is always sent; employee_id only
// when an employee is selected.
func Query(f Filter) url.Values {
	q := url.Values{"date": {f.Date}}
	if f.EmployeeID != "" {
		q.Set("employee_id", f.EmployeeID)
	}
	return q
}

func (c *Controller) OpenModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal.Open = true
	if c.modal.Form == (MarkAttendanceRequest{}) {
		c.modal.Form = c.blankForm()
	}
	if c.modal.IdempotencyKey == "" {
		c.modal.IdempotencyKey = uuid.NewString()
	}
}

func (c *Controller) CloseModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal.Open = false
}

// Submit marks attendance. The form is checked locally first (required
// fields, known status, no future date); a rejected submit keeps the modal
// open with its error and leaves the records as they were.
func (c *Controller) Submit(ctx context.Context, req MarkAttendanceRequest) error {
	log := contextutil.GetLogger(ctx, c.logger)

	c.mu.Lock()
	if c.modal.IdempotencyKey == "" {
		c.modal.IdempotencyKey = uuid.NewString()
	}
	c.modal.Open = true
	c.modal.Form = req
	c.modal.Error = ""
	today := c.today()
	c.mu.Unlock()

	if err := c.validate(req, today); err != nil {
		c.setModalError(apperror.BackendMessage(err, attendanceerrors.MsgMarkFailed))
		return err
	}

	var created Record
	if err := c.client.Post(ctx, apiclient.AttendancesPath, req, &created); err != nil {
		log.Warn("mark attendance failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("date", req.Date),
			zap.Error(err),
		)
		c.setModalError(apperror.BackendMessage(err, attendanceerrors.MsgMarkFailed,
			apperror.Detail(),
			apperror.FirstOf("non_field_errors"),
			apperror.FirstOf("employee_id"),
			apperror.Fixed(attendanceerrors.MsgMarkRejected),
		))
		return err
	}

	c.mu.Lock()
	c.modal = Modal{Form: c.blankForm()}
	c.mu.Unlock()

	log.Info("attendance marked", zap.Int64("id", created.ID), zap.String("date", req.Date))
	if err := c.publisher.Publish(ctx, events.New(ctx, events.AttendanceMarked, strconv.FormatInt(created.ID, 10), map[string]string{
		"employee_id": req.EmployeeID,
		"date":        req.Date,
		"status":      req.Status,
	})); err != nil {
		log.Warn("audit publish failed", zap.String("event_type", events.AttendanceMarked), zap.Error(err))
	}

	_ = c.Refresh(ctx)
	return nil
}

func (c *Controller) validate(req MarkAttendanceRequest, today string) error {
	if err := apperror.ValidateStruct(req); err != nil {
		return err
	}
	// Both sides are YYYY-MM-DD, so string order is date order.
	if req.Date > today {
		return attendanceerrors.ErrFutureDate
	}
	return nil
}

func (c *Controller) View() View {
	st, phase := c.records.View()

	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Phase:     phase,
		Error:     st.Error,
		Filter:    c.filter,
		Employees: c.employees,
		Modal:     c.modal,
		Today:     c.today(),
	}
	if phase == fetch.PhaseSuccess || phase == fetch.PhaseEmpty {
		v.Records = st.Data
	}
	return v
}

func (c *Controller) Close() {
	c.records.Close()
}

// blankForm is the reset state of the mark form. Callers hold c.mu.
func (c *Controller) blankForm() MarkAttendanceRequest {
	return MarkAttendanceRequest{Date: c.today(), Status: StatusPresent}
}

func (c *Controller) setModalError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal.Open = true
	c.modal.Error = msg
}
