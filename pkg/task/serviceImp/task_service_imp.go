package serviceImp

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rajeev-sr/iPlanFarmHouse/entities"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/civil"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/logging"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/schedule"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/task/export"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/task/importer"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/task/repository"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/task/service"
	userRepo "github.com/rajeev-sr/iPlanFarmHouse/pkg/user/repository"
)

type taskSvc struct {
	tasks repository.TaskRepository
	users userRepo.UserRepository
	loc   *time.Location
	now   func() time.Time
	log   logrus.FieldLogger
}

type Option func(*taskSvc)

// WithClock replaces time.Now; completion dates and "today" come from it.
func WithClock(now func() time.Time) Option { return func(s *taskSvc) { s.now = now } }

func WithLogger(l logrus.FieldLogger) Option { return func(s *taskSvc) { s.log = l } }

func NewTaskService(tasks repository.TaskRepository, users userRepo.UserRepository, loc *time.Location, opts ...Option) service.TaskService {
	if loc == nil {
		loc = time.UTC
	}
	s := &taskSvc{tasks: tasks, users: users, loc: loc, now: time.Now, log: logrus.StandardLogger()}
	for _, o := range opts {
		o(s)
	}
	s.log = logging.For(s.log, "task")
	return s
}

func (s *taskSvc) today() civil.Date { return civil.Today(s.now(), s.loc) }

func (s *taskSvc) Create(ctx context.Context, in service.CreateInput) (*entities.Task, error) {
	day, err := in.Validate()
	if err != nil {
		return nil, err
	}
	t := &entities.Task{
		Title:          strings.TrimSpace(in.Title),
		AssignedUserID: in.AssignedUserID,
		ScheduledDate:  day,
		Status:         entities.StatusPending,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"task_id": t.ID, "date": day.String(), "assignee": t.AssignedUserID}).Info("task created")
	// reload so the assignee comes back with the row
	return s.tasks.FindByID(ctx, t.ID)
}

func (s *taskSvc) Complete(ctx context.Context, id uint) (*entities.Task, error) {
	today := s.today()
	changed, err := s.tasks.Complete(ctx, id, today)
	if err != nil {
		return nil, err
	}
	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if changed {
		s.log.WithFields(logrus.Fields{"task_id": id, "on": today.String()}).Info("task completed")
	} else {
		s.log.WithField("task_id", id).Debug("task already completed")
	}
	return t, nil
}

func (s *taskSvc) ForDate(ctx context.Context, day civil.Date, assignee *uint) ([]service.DayTask, error) {
	candidates, err := s.tasks.DueBy(ctx, day, repository.Filter{AssigneeID: assignee})
	if err != nil {
		return nil, err
	}
	entries := schedule.Resolve(day, candidates)
	out := make([]service.DayTask, 0, len(entries))
	for _, e := range entries {
		out = append(out, service.NewDayTask(e.Task, e.CarryForward))
	}
	return out, nil
}

func (s *taskSvc) Calendar(ctx context.Context, m civil.Month, assignee *uint) (*service.CalendarSummary, error) {
	sum, err := s.aggregate(ctx, m, assignee)
	if err != nil {
		return nil, err
	}
	return service.NewCalendarSummary(sum, s.today()), nil
}

func (s *taskSvc) Export(ctx context.Context, m civil.Month, assignee *uint) ([]byte, error) {
	sum, err := s.aggregate(ctx, m, assignee)
	if err != nil {
		return nil, err
	}
	return export.MonthWorkbook(sum)
}

// aggregate loads the month and the carried-in tasks side by side.
func (s *taskSvc) aggregate(ctx context.Context, m civil.Month, assignee *uint) (schedule.Summary, error) {
	f := repository.Filter{AssigneeID: assignee}
	var inMonth, before []entities.Task

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inMonth, err = s.tasks.Between(gctx, m.First(), m.Last(), f)
		return err
	})
	g.Go(func() error {
		var err error
		before, err = s.tasks.PendingBefore(gctx, m.First(), f)
		return err
	})
	if err := g.Wait(); err != nil {
		return schedule.Summary{}, err
	}
	return schedule.Aggregate(m, inMonth, before), nil
}

// Import validates every row before writing any, so a bad sheet leaves
// the store untouched.
func (s *taskSvc) Import(ctx context.Context, rows []importer.Row) ([]entities.Task, error) {
	verr := &service.ValidationError{}
	if len(rows) == 0 {
		verr.Add("sheet has no task rows")
		return nil, verr
	}

	byName := map[string]uint{}
	tasks := make([]entities.Task, 0, len(rows))
	for _, r := range rows {
		id, err := s.resolveAssignee(ctx, r.Assignee, byName)
		if err != nil && !errors.Is(err, userRepo.ErrNotFound) {
			return nil, err
		}
		if err != nil {
			verr.Add("row %d: unknown assignee %q", r.Line, r.Assignee)
			continue
		}
		in := service.CreateInput{Title: r.Title, AssignedUserID: id, ScheduledDate: r.Date}
		day, err := in.Validate()
		if err != nil {
			var ve *service.ValidationError
			if errors.As(err, &ve) {
				for _, p := range ve.Problems {
					verr.Add("row %d: %s", r.Line, p)
				}
			}
			continue
		}
		tasks = append(tasks, entities.Task{
			Title:          strings.TrimSpace(r.Title),
			AssignedUserID: id,
			ScheduledDate:  day,
			Status:         entities.StatusPending,
		})
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if err := s.tasks.BulkInsert(ctx, tasks); err != nil {
		return nil, err
	}
	s.log.WithField("count", len(tasks)).Info("tasks imported")
	return tasks, nil
}

// resolveAssignee accepts a user id or a user name. A blank cell resolves
// to 0 and is reported by CreateInput validation.
func (s *taskSvc) resolveAssignee(ctx context.Context, v string, cache map[string]uint) (uint, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	if id, ok := cache[strings.ToLower(v)]; ok {
		return id, nil
	}

	var u *entities.User
	var err error
	if n, perr := strconv.ParseUint(v, 10, 64); perr == nil {
		u, err = s.users.FindByID(ctx, uint(n))
	} else {
		u, err = s.users.FindByName(ctx, v)
	}
	if err != nil {
		return 0, err
	}
	cache[strings.ToLower(v)] = u.ID
	return u.ID, nil
}
