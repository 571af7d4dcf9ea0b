package dashboard

import (
	"strings"
	"time"

	"factoryfloor/internal/domain"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// TaskDisplayStatus renders a task for the planning table: its completion
// date when completed, else Ready or Pending.
func TaskDisplayStatus(n *domain.ProjectNotes, task domain.Task) string {
	st, completedAt := n.TaskStatus(task)
	if completedAt != nil && *completedAt != "" {
		t, ok := parseTimestamp(*completedAt)
		if !ok {
			return "Completed (Invalid Date)"
		}
		return "Completed (" + t.Format("02.01.06") + ")"
	}
	if st != nil && *st == domain.StatusReady {
		return domain.StatusReady
	}
	return "Pending"
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// latest returns the greatest non-empty timestamp. ISO-8601 strings compare
// chronologically.
func latest(values ...*string) *string {
	var best *string
	for _, v := range values {
		if v == nil || *v == "" {
			continue
		}
		if best == nil || *v > *best {
			best = v
		}
	}
	return best
}
