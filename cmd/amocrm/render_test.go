package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/block/amocrm-go/state"
	"github.com/block/amocrm-go/types"
)

func Test_formatLead(t *testing.T) {
	out := formatLead(types.Lead{
		Id:           42,
		Name:         "Website order",
		Price:        1500,
		ContactName:  "Anna",
		ContactPhone: "+7 916 123 45 67",
	})
	for _, part := range []string{"42", "Website order", "1500", "Anna", "+7 916 123 45 67"} {
		assert.Contains(t, out, part)
	}
}

func Test_formatTask(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name   string
		task   types.Task
		expect []string
	}{
		{
			name:   "placeholder",
			task:   types.TaskPlaceholder(),
			expect: []string{"No task!"},
		},
		{
			name:   "due today",
			task:   types.Task{Id: 7, Text: "Call", CompleteTill: now.Add(3 * time.Hour).Unix()},
			expect: []string{"Call", "Fri, 10 May 2024 15:00", "#7"},
		},
		{
			name:   "no due date",
			task:   types.Task{Id: 8, Text: "Email"},
			expect: []string{"Email", "no due date", "#8"},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			out := formatTask(tt.task, now)
			for _, part := range tt.expect {
				assert.Contains(t, out, part)
			}
		})
	}
}

func Test_printLeads(t *testing.T) {
	store := state.NewStore()
	updates := store.Subscribe()

	store.SetLeads([]types.Lead{{Id: 1, Name: "first"}}, true)
	store.SetLeads([]types.Lead{{Id: 1, Name: "first"}, {Id: 2, Name: "second"}}, false)
	store.Unsubscribe(updates)

	var buf bytes.Buffer
	printLeads(&buf, store, updates)

	out := buf.String()
	assert.Equal(t, 1, bytes.Count([]byte(out), []byte("first")), "each lead is printed once")
	assert.Contains(t, out, "second")
}
