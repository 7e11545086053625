package types

type Lead struct {
	Id                int64  `json:"id"`
	Name              string `json:"name"`
	Price             int64  `json:"price"`
	ResponsibleUserId int64  `json:"responsible_user_id,omitempty"`
	StatusId          int64  `json:"status_id,omitempty"`
	PipelineId        int64  `json:"pipeline_id,omitempty"`
	CreatedAt         int64  `json:"created_at,omitempty"`
	UpdatedAt         int64  `json:"updated_at,omitempty"`
	ClosestTaskAt     int64  `json:"closest_task_at,omitempty"`

	Embedded *LeadEmbedded `json:"_embedded,omitempty"`

	// Filled in by the dashboard, not by amoCRM.
	ContactName  string `json:"contact_name,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	Task         *Task  `json:"task,omitempty"`
}

type LeadEmbedded struct {
	Contacts []LeadContact `json:"contacts,omitempty"`
	Tags     []Tag         `json:"tags,omitempty"`
}

// LeadContact is the short contact reference embedded into a lead
// when the lead is requested with "with=contacts".
type LeadContact struct {
	Id     int64 `json:"id"`
	IsMain bool  `json:"is_main"`
}

type Tag struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

// ContactIds returns the ids of the lead's contacts without duplicates.
// The main contact, if flagged, comes first; the others keep their order.
func (l Lead) ContactIds() []int64 {
	if l.Embedded == nil {
		return nil
	}

	var ids []int64
	seen := make(map[int64]struct{}, len(l.Embedded.Contacts))
	add := func(id int64) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, c := range l.Embedded.Contacts {
		if c.IsMain {
			add(c.Id)
		}
	}
	for _, c := range l.Embedded.Contacts {
		add(c.Id)
	}
	return ids
}

type LeadsEmbedded struct {
	Leads []Lead `json:"leads"`
}

// LeadsPage is one page of GET /api/v4/leads.
type LeadsPage struct {
	Page     int            `json:"_page"`
	Links    *Links         `json:"_links,omitempty"`
	Embedded *LeadsEmbedded `json:"_embedded,omitempty"`
}

func (p *LeadsPage) Leads() []Lead {
	if p == nil || p.Embedded == nil {
		return nil
	}
	return p.Embedded.Leads
}

// HasNext reports whether amoCRM linked another page after this one.
// An absent page (HTTP 204) or an empty one never has a next page.
func (p *LeadsPage) HasNext() bool {
	if p == nil || len(p.Leads()) == 0 {
		return false
	}
	return p.Links.HasNext()
}
