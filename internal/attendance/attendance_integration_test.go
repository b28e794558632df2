package attendance_test

import (
	"context"
	"strconv"
	"testing"

	"hrms-lite/internal/apiclient"
	"hrms-lite/internal/apiclient/apiclienttest"
	"hrms-lite/internal/attendance"
	"hrms-lite/internal/fetch"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAttendance_DisplayedSetMatchesBackendQuery(t *testing.T) {
	ctx := context.Background()
	backend := apiclienttest.NewBackend(t)
	backend.Today = today
	client := apiclient.New(apiclient.Config{BaseURL: backend.URL()}, zap.NewNop())

	ada := backend.SeedEmployee("HR-001", "Ada Lovelace", "ada@example.com", "Engineering")
	grace := backend.SeedEmployee("OPS-002", "Grace Hopper", "grace@example.com", "Operations")
	backend.SeedAttendance(ada, today, attendance.StatusPresent)
	backend.SeedAttendance(grace, today, attendance.StatusAbsent)
	backend.SeedAttendance(ada, "2026-10-18", attendance.StatusPresent)

	c := newController(client)
	t.Cleanup(c.Close)
	assert.NoError(t, c.Mount(ctx))
	assert.Len(t, c.View().Employees, 2)

	filters := []attendance.Filter{
		{Date: today},
		{Date: today, EmployeeID: strconv.FormatInt(grace, 10)},
		{Date: "2026-10-18"},
		{Date: "2026-10-17"},
		{EmployeeID: strconv.FormatInt(ada, 10)},
	}
	for _, f := range filters {
		_, err := c.SetFilter(ctx, f)
		assert.NoError(t, err)

		var want []attendance.Record
		assert.NoError(t, client.Get(ctx, apiclient.AttendancesPath, attendance.Query(f), &want))

		v := c.View()
		if len(want) == 0 {
			assert.Equal(t, fetch.PhaseEmpty, v.Phase, "filter %+v", f)
			assert.Empty(t, v.Records)
			continue
		}
		assert.Equal(t, fetch.PhaseSuccess, v.Phase, "filter %+v", f)
		assert.Equal(t, want, v.Records, "filter %+v", f)
	}
}

func TestAttendance_DuplicateMarkKeepsModalOpen(t *testing.T) {
	ctx := context.Background()
	backend := apiclienttest.NewBackend(t)
	client := apiclient.New(apiclient.Config{BaseURL: backend.URL()}, zap.NewNop())

	ada := backend.SeedEmployee("HR-001", "Ada Lovelace", "ada@example.com", "Engineering")
	backend.SeedAttendance(ada, today, attendance.StatusPresent)

	c := newController(client)
	t.Cleanup(c.Close)
	assert.NoError(t, c.Mount(ctx))
	before := c.View().Records

	c.OpenModal()
	err := c.Submit(ctx, attendance.MarkAttendanceRequest{
		EmployeeID: strconv.FormatInt(ada, 10),
		Date:       today,
		Status:     attendance.StatusAbsent,
	})
	assert.Error(t, err)

	v := c.View()
	assert.True(t, v.Modal.Open)
	assert.NotEmpty(t, v.Modal.Error)
	assert.Equal(t, before, v.Records)
	assert.Len(t, v.Records, 1)
}

func TestAttendance_MarkThenListed(t *testing.T) {
	ctx := context.Background()
	backend := apiclienttest.NewBackend(t)
	client := apiclient.New(apiclient.Config{BaseURL: backend.URL()}, zap.NewNop())
	grace := backend.SeedEmployee("OPS-002", "Grace Hopper", "grace@example.com", "Operations")

	c := newController(client)
	t.Cleanup(c.Close)
	assert.NoError(t, c.Mount(ctx))
	assert.Equal(t, fetch.PhaseEmpty, c.View().Phase)

	assert.NoError(t, c.Submit(ctx, attendance.MarkAttendanceRequest{
		EmployeeID: strconv.FormatInt(grace, 10),
		Date:       today,
		Status:     attendance.StatusPresent,
	}))

	v := c.View()
	assert.Len(t, v.Records, 1)
	assert.Equal(t, "OPS-002", v.Records[0].EmployeeDetails.EmployeeID)
	assert.False(t, v.Modal.Open)
}
