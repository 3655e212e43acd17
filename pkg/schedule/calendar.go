package schedule

import (
	"github.com/rajeev-sr/iPlanFarmHouse/entities"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/civil"
)

// Summary is one month of the calendar. Carried holds the pending tasks
// scheduled before the month started; they belong to no day of the month.
type Summary struct {
	Month   civil.Month
	Days    map[civil.Date][]entities.Task
	Carried []entities.Task
}

// Dates returns the bucket keys in ascending order.
func (s Summary) Dates() []civil.Date {
	out := make([]civil.Date, 0, len(s.Days))
	for d := s.Month.First(); !d.After(s.Month.Last()); d = d.AddDays(1) {
		if _, ok := s.Days[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Aggregate buckets inMonth by scheduled date and collects the overdue
// pending tasks from before. Tasks outside the month, completed tasks in
// before, and repeated ids are ignored.
func Aggregate(m civil.Month, inMonth, before []entities.Task) Summary {
	s := Summary{Month: m, Days: map[civil.Date][]entities.Task{}}

	seen := map[uint]bool{}
	days := make([]entities.Task, 0, len(inMonth))
	for _, t := range inMonth {
		if seen[t.ID] || !m.Contains(t.ScheduledDate) {
			continue
		}
		seen[t.ID] = true
		days = append(days, t)
	}
	SortByDate(days)
	for _, t := range days {
		s.Days[t.ScheduledDate] = append(s.Days[t.ScheduledDate], t)
	}

	start := m.First()
	for _, t := range before {
		if seen[t.ID] || !IsCarryForward(t.ScheduledDate, t.Status, start) {
			continue
		}
		seen[t.ID] = true
		s.Carried = append(s.Carried, t)
	}
	SortByDate(s.Carried)
	return s
}
