// Package schedule decides which tasks show up on a given day or month.
// Nothing here touches the store: callers pass candidate tasks and the
// functions apply the carry-forward rules to them.
package schedule

import (
	"sort"

	"github.com/rajeev-sr/iPlanFarmHouse/entities"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/civil"
)

// Entry is a task as seen from a reference date.
type Entry struct {
	Task         entities.Task
	CarryForward bool
}

// IsCarryForward reports whether a task scheduled on scheduled with the
// given status is overdue and still open as of ref.
func IsCarryForward(scheduled civil.Date, status string, ref civil.Date) bool {
	return scheduled.Before(ref) && status == entities.StatusPending
}

// Resolve returns the checklist for day: pending tasks from earlier days
// first (oldest first, then by id), then every task scheduled on day (by id).
// Candidates matching neither rule are dropped; repeated ids are kept once.
func Resolve(day civil.Date, candidates []entities.Task) []Entry {
	var carried, sameDay []entities.Task
	seen := make(map[uint]bool, len(candidates))
	for _, t := range candidates {
		if seen[t.ID] {
			continue
		}
		switch {
		case t.ScheduledDate == day:
			sameDay = append(sameDay, t)
		case IsCarryForward(t.ScheduledDate, t.Status, day):
			carried = append(carried, t)
		default:
			continue
		}
		seen[t.ID] = true
	}
	SortByDate(carried)
	SortByDate(sameDay)

	out := make([]Entry, 0, len(carried)+len(sameDay))
	for _, t := range carried {
		out = append(out, Entry{Task: t, CarryForward: true})
	}
	for _, t := range sameDay {
		out = append(out, Entry{Task: t})
	}
	return out
}

// SortByDate orders tasks by scheduled date, then id.
func SortByDate(ts []entities.Task) {
	sort.SliceStable(ts, func(i, j int) bool {
		if c := ts[i].ScheduledDate.Compare(ts[j].ScheduledDate); c != 0 {
			return c < 0
		}
		return ts[i].ID < ts[j].ID
	})
}
