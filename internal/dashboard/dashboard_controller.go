package dashboard

import (
	"context"
	"errors"

	"hrms-lite/internal/apiclient"
	"hrms-lite/internal/fetch"
	"hrms-lite/internal/shared/contextutil"

	"go.uber.org/zap"
)

type Controller struct {
	client   apiclient.Client
	logger   *zap.Logger
	snapshot *fetch.Tracker[*Snapshot]
}

func NewController(client apiclient.Client, logger ...*zap.Logger) *Controller {
	l := zap.L().Named("dashboard.controller")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.controller")
	}
	// A snapshot is never "empty"; an empty stats table is rendered inside it.
	return &Controller{
		client:   client,
		logger:   l,
		snapshot: fetch.NewTracker[*Snapshot](nil),
	}
}

func (c *Controller) Mount(ctx context.Context) error {
	err := c.snapshot.Run(ctx, c.fetchSnapshot, MsgFetchFailed)
	if err != nil && !errors.Is(err, fetch.ErrStale) {
		contextutil.GetLogger(ctx, c.logger).Warn("fetch dashboard failed", zap.Error(err))
	}
	return err
}

func (c *Controller) fetchSnapshot(ctx context.Context) (*Snapshot, error) {
	var out Snapshot
	if err := c.client.Get(ctx, apiclient.DashboardPath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Controller) View() View {
	st, phase := c.snapshot.View()
	v := View{
		Phase:        phase,
		Error:        st.Error,
		EmptyMessage: MsgEmpty,
	}
	if v.Phase == fetch.PhaseSuccess {
		v.Snapshot = st.Data
	}
	return v
}

func (c *Controller) Close() {
	c.snapshot.Close()
}
