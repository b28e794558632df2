package employee

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"hrms-lite/internal/apiclient"
	employeeerrors "hrms-lite/internal/employee/errors"
	"hrms-lite/internal/events"
	"hrms-lite/internal/fetch"
	"hrms-lite/internal/shared/apperror"
	"hrms-lite/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Controller owns the employee directory page: the fetched list, the search
// term, the add-employee modal and the delete confirmation.
type Controller struct {
	client    apiclient.Client
	publisher events.Publisher
	logger    *zap.Logger
	list      *fetch.Tracker[[]Employee]

	mu            sync.Mutex
	search        string
	modal         Modal
	pendingDelete int64
	notice        string
}

func NewController(client apiclient.Client, publisher events.Publisher, logger ...*zap.Logger) *Controller {
	l := zap.L().Named("employee.controller")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.controller")
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Controller{
		client:    client,
		publisher: publisher,
		logger:    l,
		list:      fetch.NewTracker(func(v []Employee) int { return len(v) }),
	}
}

func (c *Controller) Mount(ctx context.Context) error {
	return c.Refresh(ctx)
}

// Refresh re-runs the list read. The page-level error is set on failure.
func (c *Controller) Refresh(ctx context.Context) error {
	err := c.list.Run(ctx, c.fetchEmployees, employeeerrors.MsgFetchFailed)
	if err != nil && !errors.Is(err, fetch.ErrStale) {
		contextutil.GetLogger(ctx, c.logger).Warn("fetch employees failed", zap.Error(err))
	}
	return err
}

func (c *Controller) fetchEmployees(ctx context.Context) ([]Employee, error) {
	var out []Employee
	if err := c.client.Get(ctx, apiclient.EmployeesPath, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Employee{}
	}
	return out, nil
}

// Search only changes the derived view; it never refetches.
func (c *Controller) Search(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
}

func (c *Controller) OpenModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal.Open = true
	if c.modal.IdempotencyKey == "" {
		c.modal.IdempotencyKey = uuid.NewString()
	}
}

func (c *Controller) CloseModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal.Open = false
}

// Submit creates an employee. Missing fields stop it before any request is
// sent. A failure keeps the modal open with its own error; success closes and
// resets the modal and refreshes the list.
func (c *Controller) Submit(ctx context.Context, req CreateEmployeeRequest) error {
	log := contextutil.GetLogger(ctx, c.logger)

	c.mu.Lock()
	if c.modal.IdempotencyKey == "" {
		c.modal.IdempotencyKey = uuid.NewString()
	}
	c.modal.Open = true
	c.modal.Form = req
	c.modal.Error = ""
	c.mu.Unlock()

	if err := apperror.ValidateStruct(req); err != nil {
		c.setModalError(apperror.BackendMessage(err, employeeerrors.MsgCreateFailed))
		return err
	}

	var created Employee
	if err := c.client.Post(ctx, apiclient.EmployeesPath, req, &created); err != nil {
		log.Warn("create employee failed", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		c.setModalError(apperror.BackendMessage(err, employeeerrors.MsgCreateFailed,
			apperror.Detail(),
			apperror.RawBody(),
		))
		return err
	}

	c.mu.Lock()
	c.modal = Modal{}
	c.mu.Unlock()

	log.Info("employee created", zap.Int64("id", created.ID), zap.String("employee_id", req.EmployeeID))
	c.publish(ctx, events.New(ctx, events.EmployeeCreated, strconv.FormatInt(created.ID, 10), map[string]string{
		"employee_id": req.EmployeeID,
		"department":  req.Department,
	}))

	_ = c.Refresh(ctx)
	return nil
}

// RequestDelete asks for confirmation; nothing is sent yet.
func (c *Controller) RequestDelete(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = id
	c.notice = ""
}

func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = 0
}

// Delete removes an employee once confirmed. Only the id passed to the last
// RequestDelete can be deleted. A failure is reported through the notice and
// the list is left as it was.
func (c *Controller) Delete(ctx context.Context, id int64, confirmed bool) error {
	c.mu.Lock()
	pending := c.pendingDelete
	c.pendingDelete = 0
	c.notice = ""
	c.mu.Unlock()

	if !confirmed {
		return employeeerrors.ErrDeleteNotConfirmed
	}
	if id <= 0 {
		return employeeerrors.ErrInvalidEmployeeID
	}
	if id != pending {
		return employeeerrors.ErrDeleteNotRequested
	}

	log := contextutil.GetLogger(ctx, c.logger)
	if err := c.client.Delete(ctx, apiclient.EmployeePath(id)); err != nil {
		log.Warn("delete employee failed", zap.Int64("id", id), zap.Error(err))
		c.mu.Lock()
		c.notice = employeeerrors.MsgDeleteFailed
		c.mu.Unlock()
		return err
	}

	log.Info("employee deleted", zap.Int64("id", id))
	c.publish(ctx, events.New(ctx, events.EmployeeDeleted, strconv.FormatInt(id, 10), nil))

	_ = c.Refresh(ctx)
	return nil
}

func (c *Controller) View() View {
	st, phase := c.list.View()

	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Phase:  phase,
		Error:  st.Error,
		Search: c.search,
		Modal:  c.modal,
		Notice: c.notice,
		Total:  len(st.Data),
	}

	if phase == fetch.PhaseSuccess || phase == fetch.PhaseEmpty {
		v.Employees = FilterEmployees(st.Data, c.search)
		if len(v.Employees) == 0 {
			v.Phase = fetch.PhaseEmpty
		}
	}

	if c.pendingDelete != 0 {
		pending := Employee{ID: c.pendingDelete}
		for _, e := range st.Data {
			if e.ID == c.pendingDelete {
				pending = e
				break
			}
		}
		v.PendingDelete = &pending
	}
	return v
}

// Close unmounts the controller.
func (c *Controller) Close() {
	c.list.Close()
}

func (c *Controller) setModalError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal.Open = true
	c.modal.Error = msg
}

func (c *Controller) publish(ctx context.Context, event events.ConsoleEvent) {
	if err := c.publisher.Publish(ctx, event); err != nil {
		contextutil.GetLogger(ctx, c.logger).Warn("audit publish failed",
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
	}
}
