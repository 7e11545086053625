package types

import "time"

const (
	EntityTypeLeads    = "leads"
	EntityTypeContacts = "contacts"

	taskPlaceholderText = "No task!"
)

type Task struct {
	Id                int64  `json:"id"`
	EntityId          int64  `json:"entity_id,omitempty"`
	EntityType        string `json:"entity_type,omitempty"`
	Text              string `json:"text"`
	CompleteTill      int64  `json:"complete_till"`
	IsCompleted       bool   `json:"is_completed,omitempty"`
	TaskTypeId        int64  `json:"task_type_id,omitempty"`
	ResponsibleUserId int64  `json:"responsible_user_id,omitempty"`
}

type TasksEmbedded struct {
	Tasks []Task `json:"tasks"`
}

type TasksResponse struct {
	Page     int            `json:"_page"`
	Links    *Links         `json:"_links,omitempty"`
	Embedded *TasksEmbedded `json:"_embedded,omitempty"`
}

// TaskPlaceholder stands in for a lead that has no task,
// or whose task could not be loaded.
func TaskPlaceholder() Task {
	return Task{Text: taskPlaceholderText}
}

func (t Task) IsPlaceholder() bool {
	return t.Id == 0 && t.Text == taskPlaceholderText
}

// Due returns the deadline, or the zero time if the task has none.
func (t Task) Due() time.Time {
	if t.CompleteTill <= 0 {
		return time.Time{}
	}
	return time.Unix(t.CompleteTill, 0)
}

type DueStatus int

const (
	DueOverdue DueStatus = iota
	DueToday
	DueUpcoming
)

func (s DueStatus) String() string {
	switch s {
	case DueToday:
		return "today"
	case DueUpcoming:
		return "upcoming"
	default:
		return "overdue"
	}
}

// DueStatus classifies the deadline against the calendar day of now
// (in now's location). No deadline counts as overdue.
func (t Task) DueStatus(now time.Time) DueStatus {
	if t.CompleteTill <= 0 {
		return DueOverdue
	}
	due := t.Due().In(now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	switch {
	case due.Before(today):
		return DueOverdue
	case due.Before(tomorrow):
		return DueToday
	default:
		return DueUpcoming
	}
}
