package amocrm_go

import (
	"net/http"

	"github.com/block/amocrm-go/api"
)

type Client struct {
	httpClient *http.Client

	leads    *api.Leads
	contacts *api.Contacts
	tasks    *api.Tasks
}

// NewClient returns a client for the amoCRM account at the base url set
// with WithBaseUrl, authorised with a long-lived access token.
func NewClient(accessToken string, opts ...ConfigOption) *Client {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := &http.Client{}
	httpClient.Transport = cfg.transport
	httpClient.Timeout = cfg.timeout

	apiCfg := api.Config{
		BaseUrl:     cfg.baseUrl,
		AccessToken: accessToken,
		HttpClient:  httpClient,
		Limiter:     cfg.limiter,
		Logger:      cfg.logger,
	}

	return &Client{
		httpClient: httpClient,
		leads:      api.NewLeadsApi(apiCfg),
		contacts:   api.NewContactsApi(apiCfg),
		tasks:      api.NewTasksApi(apiCfg),
	}
}

func (c *Client) Leads() *api.Leads {
	return c.leads
}

func (c *Client) Contacts() *api.Contacts {
	return c.contacts
}

func (c *Client) Tasks() *api.Tasks {
	return c.tasks
}
