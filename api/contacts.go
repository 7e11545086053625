package api

import (
	"context"
	"strconv"

	"github.com/block/amocrm-go/types"
)

const (
	pathContact = "contacts/"
)

// Contacts implements the /api/v4/contacts methods,
// See: https://www.amocrm.com/developers/content/crm_platform/contacts-api
type Contacts struct {
	api *apiClient
}

func NewContactsApi(cfg Config) *Contacts {
	return &Contacts{
		api: newApiClient(cfg),
	}
}

// Get returns the contact and whether it exists.
func (c *Contacts) Get(ctx context.Context, id int64) (*types.Contact, bool, error) {
	var res types.Contact
	found, err := c.api.getJson(ctx, pathContact+strconv.FormatInt(id, 10), &res)
	if err != nil {
		return nil, false, err
	}
	if !found || res.Id == 0 {
		return nil, false, nil
	}
	return &res, true, nil
}
