package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TasksResponse_unmarshal(t *testing.T) {
	body := `{"_page":1,"_embedded":{"tasks":[{"id":9,"entity_id":101,"entity_type":"leads","text":"Call back","complete_till":1700000000}]}}`

	var res TasksResponse
	require.NoError(t, json.Unmarshal([]byte(body), &res))
	require.Len(t, res.Embedded.Tasks, 1)
	assert.Equal(t, Task{
		Id:           9,
		EntityId:     101,
		EntityType:   EntityTypeLeads,
		Text:         "Call back",
		CompleteTill: 1700000000,
	}, res.Embedded.Tasks[0])
}

func Test_TaskPlaceholder(t *testing.T) {
	p := TaskPlaceholder()
	assert.True(t, p.IsPlaceholder())
	assert.Equal(t, "No task!", p.Text)
	assert.True(t, p.Due().IsZero())
	assert.False(t, Task{Id: 1, Text: "No task!"}.IsPlaceholder())
}

func Test_Task_DueStatus(t *testing.T) {
	loc := time.FixedZone("MSK", 3*3600)
	now := time.Date(2024, 5, 10, 15, 30, 0, 0, loc)

	testCases := []struct {
		name   string
		due    time.Time
		expect DueStatus
	}{
		{"yesterday", time.Date(2024, 5, 9, 23, 59, 0, 0, loc), DueOverdue},
		{"earlier today", time.Date(2024, 5, 10, 0, 0, 0, 0, loc), DueToday},
		{"later today", time.Date(2024, 5, 10, 23, 59, 59, 0, loc), DueToday},
		{"tomorrow", time.Date(2024, 5, 11, 0, 0, 0, 0, loc), DueUpcoming},
		{"next month", time.Date(2024, 6, 1, 12, 0, 0, 0, loc), DueUpcoming},
		{"utc input, local today", time.Date(2024, 5, 9, 22, 0, 0, 0, time.UTC), DueToday},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{Id: 1, CompleteTill: tt.due.Unix()}
			assert.Equal(t, tt.expect, task.DueStatus(now))
		})
	}

	assert.Equal(t, DueOverdue, TaskPlaceholder().DueStatus(now))
}

func Test_DueStatus_String(t *testing.T) {
	assert.Equal(t, "overdue", DueOverdue.String())
	assert.Equal(t, "today", DueToday.String())
	assert.Equal(t, "upcoming", DueUpcoming.String())
}
