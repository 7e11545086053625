package amocrm_go

import (
	"context"

	"github.com/block/amocrm-go/dashboard"
	"github.com/block/amocrm-go/state"
	"github.com/block/amocrm-go/types"
)

// Dashboard loads leads, their contacts and tasks through a queue that keeps
// the client under amoCRM's rate limit. See dashboard.Fetcher.
type Dashboard struct {
	config  dashboardConfig
	fetcher *dashboard.Fetcher
}

// NewDashboard fails with queue.ErrInvalidCapacity when
// WithDashboardPermitsPerSecond is given a value below 1.
//
// Call Start before loading anything: until then the queue never regains
// a permit, so Leads stalls once the first round of requests is spent.
// Stop when done.
func NewDashboard(client *Client, opts ...DashboardConfigOption) (*Dashboard, error) {
	dConfig := defaultDashboardConfig()
	for _, o := range opts {
		o(&dConfig)
	}

	permits := dConfig.permitsPerSecond
	if permits == 0 {
		// 0 would mean "default" to the fetcher, here it was asked for explicitly
		permits = -1
	}

	f, err := dashboard.NewFetcher(
		client.Leads(),
		client.Contacts(),
		client.Tasks(),
		dConfig.store,
		dashboard.FetcherConfig{
			PermitsPerSecond: permits,
			PageLimit:        dConfig.pageLimit,
			MaxRetries:       dConfig.retryTimes,
			Retry:            dConfig.retry,
			TaskCacheSize:    dConfig.taskCacheSize,
			Clock:            dConfig.clock,
			Logger:           dConfig.logger,
		},
	)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		config:  dConfig,
		fetcher: f,
	}, nil
}

func (d *Dashboard) Start() {
	d.fetcher.Start()
}

func (d *Dashboard) Stop() {
	d.fetcher.Stop()
}

func (d *Dashboard) Store() *state.Store {
	return d.fetcher.Store()
}

func (d *Dashboard) Leads(ctx context.Context) ([]types.Lead, error) {
	return d.fetcher.Leads(ctx)
}

func (d *Dashboard) Task(ctx context.Context, leadId int64) (types.Task, error) {
	return d.fetcher.Task(ctx, leadId)
}

func (d *Dashboard) OpenCard(ctx context.Context, leadId int64) (types.Task, bool, error) {
	return d.fetcher.OpenCard(ctx, leadId)
}
