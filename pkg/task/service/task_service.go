package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rajeev-sr/iPlanFarmHouse/entities"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/civil"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/schedule"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/task/importer"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/task/repository"
)

type TaskService interface {
	Create(ctx context.Context, in CreateInput) (*entities.Task, error)
	// Complete is idempotent: a completed task is returned unchanged.
	Complete(ctx context.Context, id uint) (*entities.Task, error)
	ForDate(ctx context.Context, day civil.Date, assignee *uint) ([]DayTask, error)
	Calendar(ctx context.Context, m civil.Month, assignee *uint) (*CalendarSummary, error)
	Import(ctx context.Context, rows []importer.Row) ([]entities.Task, error)
	Export(ctx context.Context, m civil.Month, assignee *uint) ([]byte, error)
}

var (
	ErrNotFound   = repository.ErrNotFound
	ErrValidation = errors.New("validation failed")
)

// ValidationError lists the problems with a request. It matches ErrValidation.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// Err returns nil when nothing was added.
func (e *ValidationError) Err() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

type CreateInput struct {
	Title          string `json:"title"`
	AssignedUserID uint   `json:"assigned_user_id"`
	ScheduledDate  string `json:"scheduled_date"`
}

// Validate checks required fields and returns the parsed date.
func (in CreateInput) Validate() (civil.Date, error) {
	verr := &ValidationError{}
	if strings.TrimSpace(in.Title) == "" {
		verr.Add("title is required")
	}
	if in.AssignedUserID == 0 {
		verr.Add("assigned_user_id is required")
	}
	var d civil.Date
	if in.ScheduledDate == "" {
		verr.Add("scheduled_date is required")
	} else if v, err := civil.ParseDate(in.ScheduledDate); err != nil {
		verr.Add("scheduled_date: %v", err)
	} else {
		d = v
	}
	return d, verr.Err()
}

// DayTask is one line of a daily checklist.
type DayTask struct {
	ID               uint        `json:"id"`
	Title            string      `json:"title"`
	Type             string      `json:"type"`
	AssignedUserID   uint        `json:"assigned_user_id"`
	AssignedUserName string      `json:"assigned_user_name"`
	ScheduledDate    civil.Date  `json:"scheduled_date"`
	Status           string      `json:"status"`
	CompletionDate   *civil.Date `json:"completion_date,omitempty"`
	CarryForward     bool        `json:"carry_forward"`
}

func NewDayTask(t entities.Task, carryForward bool) DayTask {
	return DayTask{
		ID:               t.ID,
		Title:            t.Title,
		Type:             schedule.TaskType(t.Title),
		AssignedUserID:   t.AssignedUserID,
		AssignedUserName: t.AssigneeName(),
		ScheduledDate:    t.ScheduledDate,
		Status:           t.Status,
		CompletionDate:   t.CompletionDate,
		CarryForward:     carryForward,
	}
}

// CalendarEntry is the short form of a task shown inside a calendar cell.
type CalendarEntry struct {
	ID               uint   `json:"id"`
	Title            string `json:"title"`
	Type             string `json:"type"`
	AssignedUserName string `json:"assigned_user_name"`
	Status           string `json:"status"`
	CarryForward     bool   `json:"carry_forward"`
}

type CalendarSummary struct {
	Month             civil.Month                 `json:"month"`
	Calendar          map[string][]CalendarEntry  `json:"calendar"`
	Labels            map[string][]schedule.Label `json:"labels"`
	CarryForwardCount int                         `json:"carryForwardCount"`
	CarryForwardTasks []DayTask                   `json:"carryForwardTasks"`
	// Today is set only when the current day falls inside Month; the
	// carry-forward banner hangs off that cell.
	Today *civil.Date `json:"today,omitempty"`
}

// NewCalendarSummary shapes a schedule.Summary for the API.
func NewCalendarSummary(s schedule.Summary, today civil.Date) *CalendarSummary {
	out := &CalendarSummary{
		Month:             s.Month,
		Calendar:          make(map[string][]CalendarEntry, len(s.Days)),
		Labels:            make(map[string][]schedule.Label, len(s.Days)),
		CarryForwardCount: len(s.Carried),
		CarryForwardTasks: make([]DayTask, 0, len(s.Carried)),
	}
	for _, d := range s.Dates() {
		ts := s.Days[d]
		entries := make([]CalendarEntry, 0, len(ts))
		for _, t := range ts {
			entries = append(entries, CalendarEntry{
				ID:               t.ID,
				Title:            t.Title,
				Type:             schedule.TaskType(t.Title),
				AssignedUserName: t.AssigneeName(),
				Status:           t.Status,
			})
		}
		out.Calendar[d.String()] = entries
		out.Labels[d.String()] = schedule.Labels(ts)
	}
	for _, t := range s.Carried {
		out.CarryForwardTasks = append(out.CarryForwardTasks, NewDayTask(t, true))
	}
	if s.Month.Contains(today) {
		out.Today = &today
	}
	return out
}
