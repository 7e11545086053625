package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/block/amocrm-go/types"
)

const (
	pathLeads = "leads"
)

// Leads implements the /api/v4/leads methods,
// See: https://www.amocrm.com/developers/content/crm_platform/leads-api
type Leads struct {
	api *apiClient
}

func NewLeadsApi(cfg Config) *Leads {
	return &Leads{
		api: newApiClient(cfg),
	}
}

// Page loads one page of leads with their contacts embedded.
// It returns a nil page (and no error) once amoCRM has nothing more to
// send, which it signals with HTTP 204.
func (l *Leads) Page(ctx context.Context, page int, limit int) (*types.LeadsPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("with", "contacts")

	var res types.LeadsPage
	found, err := l.api.getJson(ctx, pathLeads+"?"+q.Encode(), &res)
	if err != nil || !found {
		return toNilErr[*types.LeadsPage](nil, err)
	}
	return &res, nil
}
