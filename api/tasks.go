package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/block/amocrm-go/types"
)

const (
	pathTasks = "tasks"
)

// Tasks implements the /api/v4/tasks methods,
// See: https://www.amocrm.com/developers/content/crm_platform/tasks-api
type Tasks struct {
	api *apiClient
}

func NewTasksApi(cfg Config) *Tasks {
	return &Tasks{
		api: newApiClient(cfg),
	}
}

// ByLead returns the first task attached to the lead, if there is one.
func (t *Tasks) ByLead(ctx context.Context, leadId int64) (*types.Task, bool, error) {
	q := url.Values{}
	q.Set("filter[entity_type]", types.EntityTypeLeads)
	q.Set("filter[entity_id]", strconv.FormatInt(leadId, 10))

	var res types.TasksResponse
	found, err := t.api.getJson(ctx, pathTasks+"?"+q.Encode(), &res)
	if err != nil {
		return nil, false, err
	}
	if !found || res.Embedded == nil || len(res.Embedded.Tasks) == 0 {
		return nil, false, nil
	}
	task := res.Embedded.Tasks[0]
	return &task, true, nil
}
