package attendance_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"hrms-lite/internal/apiclient"
	"hrms-lite/internal/apiclient/mock"
	"hrms-lite/internal/attendance"
	attendanceerrors "hrms-lite/internal/attendance/errors"
	"hrms-lite/internal/fetch"
	"hrms-lite/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const today = "2026-10-19"

func fixedClock() time.Time {
	return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
}

var (
	options = []attendance.EmployeeOption{
		{ID: 1, EmployeeID: "HR-001", FullName: "Ada Lovelace"},
		{ID: 2, EmployeeID: "OPS-002", FullName: "Grace Hopper"},
	}
	adaToday = attendance.Record{
		ID:              10,
		EmployeeDetails: attendance.EmployeeDetails{ID: 1, EmployeeID: "HR-001", FullName: "Ada Lovelace"},
		Date:            today,
		Status:          attendance.StatusPresent,
	}
)

func returnOptions(list []attendance.EmployeeOption) func(context.Context, string, url.Values, any) error {
	return func(_ context.Context, _ string, _ url.Values, out any) error {
		*out.(*[]attendance.EmployeeOption) = list
		return nil
	}
}

func returnRecords(list ...attendance.Record) func(context.Context, string, url.Values, any) error {
	return func(_ context.Context, _ string, _ url.Values, out any) error {
		*out.(*[]attendance.Record) = list
		return nil
	}
}

func newController(client apiclient.Client) *attendance.Controller {
	c := attendance.NewController(client, nil, zap.NewNop())
	c.SetClock(fixedClock)
	return c
}

func expectOptions(client *mock.MockClient) *gomock.Call {
	return client.EXPECT().
		Get(gomock.Any(), apiclient.EmployeesPath, gomock.Nil(), gomock.Any()).
		DoAndReturn(returnOptions(options))
}

func TestController_MountScenario(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})
	expectOptions(client)
	client.EXPECT().
		Get(gomock.Any(), apiclient.AttendancesPath, url.Values{"date": {today}}, gomock.Any()).
		DoAndReturn(func(ctx context.Context, path string, q url.Values, out any) error {
			close(started)
			<-release
			return returnRecords(adaToday)(ctx, path, q, out)
		})

	c := newController(client)
	done := make(chan error, 1)
	go func() { done <- c.Mount(context.Background()) }()

	<-started
	v := c.View()
	assert.Equal(t, fetch.PhaseLoading, v.Phase)
	assert.Empty(t, v.Error)
	assert.Nil(t, v.Records)

	close(release)
	assert.NoError(t, <-done)

	v = c.View()
	assert.Equal(t, fetch.PhaseSuccess, v.Phase)
	assert.Empty(t, v.Error)
	assert.Equal(t, []attendance.Record{adaToday}, v.Records)
	assert.Equal(t, attendance.Filter{Date: today}, v.Filter)
	assert.Equal(t, options, v.Employees)
	assert.Equal(t, attendance.MarkAttendanceRequest{Date: today, Status: attendance.StatusPresent}, v.Modal.Form)
	assert.False(t, v.Modal.Open)
}

func TestController_OptionsFailureIsOnlyLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	client.EXPECT().
		Get(gomock.Any(), apiclient.EmployeesPath, gomock.Nil(), gomock.Any()).
		Return(&apperror.UpstreamError{StatusCode: http.StatusInternalServerError})
	client.EXPECT().
		Get(gomock.Any(), apiclient.AttendancesPath, gomock.Any(), gomock.Any()).
		DoAndReturn(returnRecords())

	c := newController(client)
	assert.NoError(t, c.Mount(context.Background()))

	v := c.View()
	assert.Equal(t, fetch.PhaseEmpty, v.Phase)
	assert.Empty(t, v.Error)
	assert.Empty(t, v.Employees)
}

func TestController_RecordsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	expectOptions(client)
	client.EXPECT().
		Get(gomock.Any(), apiclient.AttendancesPath, gomock.Any(), gomock.Any()).
		Return(apperror.Wrap(errors.New("dial tcp"), apperror.CodeServiceUnavailable, "down", http.StatusServiceUnavailable))

	c := newController(client)
	assert.Error(t, c.Mount(context.Background()))

	v := c.View()
	assert.Equal(t, fetch.PhaseFailure, v.Phase)
	assert.Equal(t, attendanceerrors.MsgFetchFailed, v.Error)
	assert.Equal(t, options, v.Employees)
}

func TestController_SetFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	expectOptions(client)
	gomock.InOrder(
		client.EXPECT().
			Get(gomock.Any(), apiclient.AttendancesPath, url.Values{"date": {today}}, gomock.Any()).
			DoAndReturn(returnRecords(adaToday)),
		client.EXPECT().
			Get(gomock.Any(), apiclient.AttendancesPath, url.Values{"date": {today}, "employee_id": {"2"}}, gomock.Any()).
			DoAndReturn(returnRecords()),
		client.EXPECT().
			Get(gomock.Any(), apiclient.AttendancesPath, url.Values{"date": {""}, "employee_id": {"2"}}, gomock.Any()).
			DoAndReturn(returnRecords()),
	)

	ctx := context.Background()
	c := newController(client)
	assert.NoError(t, c.Mount(ctx))

	changed, err := c.SetFilter(ctx, attendance.Filter{Date: today})
	assert.NoError(t, err)
	assert.False(t, changed)

	changed, err = c.SetFilter(ctx, attendance.Filter{Date: today, EmployeeID: "2"})
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, fetch.PhaseEmpty, c.View().Phase)

	changed, err = c.SetFilter(ctx, attendance.Filter{EmployeeID: "2"})
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, attendance.Filter{EmployeeID: "2"}, c.Filter())
}

func TestController_SubmitValidation(t *testing.T) {
	tests := []struct {
		name string
		req  attendance.MarkAttendanceRequest
		want string
	}{
		{
			name: "employee required",
			req:  attendance.MarkAttendanceRequest{Date: today, Status: attendance.StatusPresent},
			want: "Employee Id is required",
		},
		{
			name: "date required",
			req:  attendance.MarkAttendanceRequest{EmployeeID: "1", Status: attendance.StatusPresent},
			want: "Date is required",
		},
		{
			name: "date must parse",
			req:  attendance.MarkAttendanceRequest{EmployeeID: "1", Date: "19/10/2026", Status: attendance.StatusPresent},
			want: "Date is invalid",
		},
		{
			name: "unknown status",
			req:  attendance.MarkAttendanceRequest{EmployeeID: "1", Date: today, Status: "Late"},
			want: "Status is invalid",
		},
		{
			name: "future date",
			req:  attendance.MarkAttendanceRequest{EmployeeID: "1", Date: "2026-10-20", Status: attendance.StatusAbsent},
			want: attendanceerrors.ErrFutureDate.Message,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock.NewMockClient(ctrl)

			c := newController(client)
			err := c.Submit(context.Background(), tt.req)
			assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))

			v := c.View()
			assert.True(t, v.Modal.Open)
			assert.Equal(t, tt.want, v.Modal.Error)
			assert.Equal(t, tt.req, v.Modal.Form)
		})
	}
}

func rejected(body string) error {
	return &apperror.UpstreamError{StatusCode: http.StatusBadRequest, Body: []byte(body)}
}

func TestController_SubmitRejected(t *testing.T) {
	req := attendance.MarkAttendanceRequest{EmployeeID: "1", Date: today, Status: attendance.StatusPresent}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "duplicate detail",
			err:  rejected(`{"detail":"Attendance record for this employee on this date already exists."}`),
			want: "Attendance record for this employee on this date already exists.",
		},
		{
			name: "non field errors",
			err:  rejected(`{"non_field_errors":["The fields employee, date must make a unique set."]}`),
			want: "The fields employee, date must make a unique set.",
		},
		{
			name: "employee id errors",
			err:  rejected(`{"employee_id":["Invalid pk \"9\" - object does not exist."]}`),
			want: `Invalid pk "9" - object does not exist.`,
		},
		{
			name: "anything else",
			err:  rejected(`{"status":["\"Late\" is not a valid choice."]}`),
			want: attendanceerrors.MsgMarkRejected,
		},
		{
			name: "transport",
			err:  apperror.Wrap(errors.New("dial tcp"), apperror.CodeServiceUnavailable, "down", http.StatusServiceUnavailable),
			want: attendanceerrors.MsgMarkFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock.NewMockClient(ctrl)
			expectOptions(client)
			client.EXPECT().
				Get(gomock.Any(), apiclient.AttendancesPath, gomock.Any(), gomock.Any()).
				DoAndReturn(returnRecords(adaToday)).
				Times(1)
			client.EXPECT().
				Post(gomock.Any(), apiclient.AttendancesPath, req, gomock.Any()).
				Return(tt.err)

			ctx := context.Background()
			c := newController(client)
			assert.NoError(t, c.Mount(ctx))
			c.OpenModal()
			assert.Error(t, c.Submit(ctx, req))

			v := c.View()
			assert.True(t, v.Modal.Open)
			assert.Equal(t, tt.want, v.Modal.Error)
			assert.Equal(t, fetch.PhaseSuccess, v.Phase)
			assert.Empty(t, v.Error)
			assert.Equal(t, []attendance.Record{adaToday}, v.Records)
		})
	}
}

func TestController_SubmitSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	req := attendance.MarkAttendanceRequest{EmployeeID: "2", Date: today, Status: attendance.StatusAbsent}
	graceToday := attendance.Record{
		ID:              11,
		EmployeeDetails: attendance.EmployeeDetails{ID: 2, EmployeeID: "OPS-002", FullName: "Grace Hopper"},
		Date:            today,
		Status:          attendance.StatusAbsent,
	}

	expectOptions(client)
	gomock.InOrder(
		client.EXPECT().
			Get(gomock.Any(), apiclient.AttendancesPath, url.Values{"date": {today}}, gomock.Any()).
			DoAndReturn(returnRecords(adaToday)),
		client.EXPECT().
			Post(gomock.Any(), apiclient.AttendancesPath, req, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ any, out any) error {
				*out.(*attendance.Record) = graceToday
				return nil
			}),
		client.EXPECT().
			Get(gomock.Any(), apiclient.AttendancesPath, url.Values{"date": {today}}, gomock.Any()).
			DoAndReturn(returnRecords(graceToday, adaToday)),
	)

	ctx := context.Background()
	c := newController(client)
	assert.NoError(t, c.Mount(ctx))
	c.OpenModal()
	assert.NoError(t, c.Submit(ctx, req))

	v := c.View()
	assert.False(t, v.Modal.Open)
	assert.Empty(t, v.Modal.Error)
	assert.Equal(t, attendance.MarkAttendanceRequest{Date: today, Status: attendance.StatusPresent}, v.Modal.Form)
	assert.Equal(t, []attendance.Record{graceToday, adaToday}, v.Records)
}

func TestQuery(t *testing.T) {
	assert.Equal(t, "date=2026-10-19", attendance.Query(attendance.Filter{Date: today}).Encode())
	assert.Equal(t, "date=&employee_id=7", attendance.Query(attendance.Filter{EmployeeID: "7"}).Encode())
}
