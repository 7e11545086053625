package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss/v2"

	"github.com/block/amocrm-go/types"
)

var (
	nameStyle = lipgloss.NewStyle().
		Bold(true)

	mutedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	dueStyles = map[types.DueStatus]lipgloss.Style{
		types.DueOverdue:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		types.DueToday:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		types.DueUpcoming: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	}
)

const dueLayout = "Mon, 02 Jan 2006 15:04"

func formatLead(lead types.Lead) string {
	return fmt.Sprintf("%s  %s  %s  %s  %s",
		mutedStyle.Render(strconv.FormatInt(lead.Id, 10)),
		nameStyle.Render(lead.Name),
		strconv.FormatInt(lead.Price, 10),
		lead.ContactName,
		lead.ContactPhone,
	)
}

// formatTask prints the task with a coloured due date. Placeholders have no date.
func formatTask(task types.Task, now time.Time) string {
	if task.IsPlaceholder() {
		return mutedStyle.Render(task.Text)
	}

	status := task.DueStatus(now)
	due := "no due date"
	if task.CompleteTill > 0 {
		due = task.Due().In(now.Location()).Format(dueLayout)
	}
	return fmt.Sprintf("%s  %s  %s",
		task.Text,
		dueStyles[status].Render("● "+due),
		mutedStyle.Render("#"+strconv.FormatInt(task.Id, 10)),
	)
}
