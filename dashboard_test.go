package amocrm_go

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/block/amocrm-go/logger"
	"github.com/block/amocrm-go/queue"
	"github.com/block/amocrm-go/retry"
	"github.com/block/amocrm-go/state"
)

func Test_newDashboard(t *testing.T) {
	c := NewClient(accessToken, WithBaseUrl(baseUrl), WithTransport(&fakeTransport{}))
	d, err := NewDashboard(c)
	require.NoError(t, err)
	assert.NotNil(t, d.Store())
	assert.Equal(t, defaultDashboardConfig().permitsPerSecond, d.config.permitsPerSecond)

	d.Start()
	d.Stop()
}

func Test_newDashboard_opts(t *testing.T) {
	c := NewClient(accessToken, WithBaseUrl(baseUrl), WithTransport(&fakeTransport{}))
	l := &logger.Noop{}
	r := retry.NewExponentialRetry()
	mock := clock.NewMock()
	store := state.NewStore()
	d, err := NewDashboard(c,
		WithDashboardPermitsPerSecond(5),
		WithDashboardPageLimit(101),
		WithDashboardRetryTimes(4),
		WithDashboardRetry(r),
		WithDashboardTaskCacheSize(6),
		WithDashboardClock(mock),
		WithDashboardStore(store),
		WithDashboardLogger(l),
	)
	require.NoError(t, err)
	assert.EqualValues(t,
		dashboardConfig{
			permitsPerSecond: 5,
			pageLimit:        101,
			retryTimes:       4,
			retry:            r,
			taskCacheSize:    6,
			clock:            mock,
			store:            store,
			logger:           l,
		},
		d.config,
	)
	assert.Same(t, store, d.Store())
}

func Test_newDashboard_invalidPermits(t *testing.T) {
	c := NewClient(accessToken, WithBaseUrl(baseUrl), WithTransport(&fakeTransport{}))

	for _, permits := range []int{0, -1} {
		d, err := NewDashboard(c, WithDashboardPermitsPerSecond(permits))
		assert.Nil(t, d)
		assert.ErrorIs(t, err, queue.ErrInvalidCapacity)
	}
}

func Test_Dashboard_endToEnd(t *testing.T) {
	tr := &routeTransport{handler: func(req *http.Request) (int, string) {
		if req.Header.Get("Authorization") != "Bearer "+accessToken {
			return http.StatusUnauthorized, `{"title":"Unauthorized","status":401}`
		}
		switch {
		case req.URL.Path == "/api/v4/leads" && req.URL.Query().Get("page") == "1":
			return http.StatusOK, `{
				"_page": 1,
				"_links": {"self": {"href": "x"}, "next": {"href": "y"}},
				"_embedded": {"leads": [
					{"id": 1, "name": "Website", "price": 1500,
					 "_embedded": {"contacts": [{"id": 11, "is_main": true}]}}
				]}
			}`
		case req.URL.Path == "/api/v4/leads" && req.URL.Query().Get("page") == "2":
			return http.StatusOK, `{
				"_page": 2,
				"_links": {"self": {"href": "y"}},
				"_embedded": {"leads": [{"id": 2, "name": "Referral", "price": 300}]}
			}`
		case req.URL.Path == "/api/v4/leads":
			return http.StatusNoContent, ""
		case req.URL.Path == "/api/v4/contacts/11":
			return http.StatusOK, `{
				"id": 11, "name": "Anna",
				"custom_fields_values": [
					{"field_id": 5, "field_name": "Phone", "field_code": "PHONE",
					 "values": [{"value": "+79161234567", "enum_code": "WORK"}]}
				]
			}`
		case req.URL.Path == "/api/v4/tasks" && req.URL.Query().Get("filter[entity_id]") == "1":
			return http.StatusOK, `{"_embedded": {"tasks": [
				{"id": 100, "entity_id": 1, "entity_type": "leads", "text": "Send offer", "complete_till": 1760000000}
			]}}`
		case req.URL.Path == "/api/v4/tasks":
			return http.StatusNoContent, ""
		}
		return http.StatusNotFound, `{"title":"Not Found","status":404}`
	}}

	c := NewClient(accessToken, WithBaseUrl(baseUrl), WithTransport(tr))
	d, err := NewDashboard(c,
		WithDashboardPermitsPerSecond(50),
		WithDashboardRetry(retry.NewExponentialRetry(retry.WithInitialDuration(0))),
	)
	require.NoError(t, err)
	d.Start()
	defer d.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	leads, err := d.Leads(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "Website", leads[0].Name)
	assert.Equal(t, "Anna", leads[0].ContactName)
	assert.Equal(t, "+7 916 123 45 67", leads[0].ContactPhone)
	assert.Equal(t, "No contact!", leads[1].ContactName)

	task, opened, err := d.OpenCard(ctx, 1)
	require.NoError(t, err)
	assert.True(t, opened)
	assert.Equal(t, "Send offer", task.Text)

	task, err = d.Task(ctx, 2)
	require.NoError(t, err)
	assert.True(t, task.IsPlaceholder())

	snap := d.Store().Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, int64(1), snap.OpenedLeadId)
	require.NotNil(t, snap.Leads[0].Task)
	assert.Equal(t, int64(100), snap.Leads[0].Task.Id)

	var leadPages, taskReqs int
	for _, r := range tr.requests() {
		switch {
		case strings.HasPrefix(r, "GET /api/v4/leads?"):
			leadPages++
			assert.Contains(t, r, "with=contacts")
		case strings.HasPrefix(r, "GET /api/v4/tasks?"):
			taskReqs++
		}
	}
	assert.Equal(t, 50, leadPages, "one round of pages, the second page has no next link")
	assert.Equal(t, 2, taskReqs)
}
