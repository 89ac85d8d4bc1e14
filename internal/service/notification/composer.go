package notification

import (
	"fmt"

	"github.com/upkeephq/upkeep-api/internal/config"
	"github.com/upkeephq/upkeep-api/internal/model"
)

const (
	titleOverdue  = "Overdue Maintenance"
	titleUpcoming = "Upcoming Maintenance"
	titleMixed    = "Maintenance Updates"
)

// Composer renders push payloads. Icon, badge and the navigation target are
// fixed per deployment; there are no per-task deep links.
type Composer struct {
	icon       string
	badge      string
	defaultURL string
}

func NewComposer(cfg config.PushConfig) *Composer {
	return &Composer{
		icon:       cfg.IconPath,
		badge:      cfg.BadgePath,
		defaultURL: cfg.DefaultURL,
	}
}

func (c *Composer) payload(title, body string) *model.PushPayload {
	return &model.PushPayload{
		Title: title,
		Body:  body,
		Icon:  c.icon,
		Badge: c.badge,
		Data:  model.PushPayloadData{URL: c.defaultURL},
	}
}

// Individual renders a payload for a single due task.
func (c *Composer) Individual(dt model.DueTask) *model.PushPayload {
	title := titleUpcoming
	if dt.IsOverdue {
		title = titleOverdue
	}
	body := fmt.Sprintf("%s due for %s %s", dt.TaskType.Name, dt.Equipment.Name, timeframe(dt.DaysUntilDue))
	return c.payload(title, body)
}

// Batched renders a single summary payload for a group of 3+ due tasks.
func (c *Composer) Batched(g dueGroup) *model.PushPayload {
	overdue := 0
	for _, dt := range g.Tasks {
		if dt.IsOverdue {
			overdue++
		}
	}
	upcoming := len(g.Tasks) - overdue

	switch {
	case overdue > 0 && upcoming > 0:
		body := fmt.Sprintf("%d overdue and %d upcoming maintenance tasks", overdue, upcoming)
		return c.payload(titleMixed, body)
	case overdue > 0:
		body := fmt.Sprintf("%d maintenance tasks are overdue", overdue)
		return c.payload(titleOverdue, body)
	default:
		var when string
		switch g.Bucket {
		case bucketToday:
			when = "today"
		case bucketThisWeek:
			when = "this week"
		default:
			when = "soon"
		}
		body := fmt.Sprintf("%d maintenance tasks are due %s", upcoming, when)
		return c.payload(titleUpcoming, body)
	}
}

// Test renders the fixed payload used by the test broadcast endpoint.
func (c *Composer) Test() *model.PushPayload {
	return c.payload("Test Notification", "Push notifications are working")
}

// timeframe phrases a signed day count relative to today.
func timeframe(days int) string {
	switch {
	case days == -1:
		return "yesterday"
	case days < -1:
		return fmt.Sprintf("%d days ago", -days)
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}
