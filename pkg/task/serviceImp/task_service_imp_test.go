package serviceImp

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/rajeev-sr/iPlanFarmHouse/database"
	"github.com/rajeev-sr/iPlanFarmHouse/entities"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/civil"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/task/export"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/task/importer"
	taskRepoImp "github.com/rajeev-sr/iPlanFarmHouse/pkg/task/repositoryImp"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/task/service"
	userRepoImp "github.com/rajeev-sr/iPlanFarmHouse/pkg/user/repositoryImp"
)

type fixture struct {
	db    *gorm.DB
	svc   service.TaskService
	now   time.Time
	anil  entities.User
	sunny entities.User
	logs  *test.Hook
}

func newFixture(t *testing.T, now string) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "svc.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	f := &fixture{db: db}
	f.setNow(t, now)
	f.anil = entities.User{Name: "Anil", Role: entities.RoleWorker}
	f.sunny = entities.User{Name: "Sunita", Role: entities.RoleWorker}
	require.NoError(t, db.Create(&f.anil).Error)
	require.NoError(t, db.Create(&f.sunny).Error)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	f.logs = hook
	f.svc = NewTaskService(
		taskRepoImp.New(db), userRepoImp.New(db), time.UTC,
		WithClock(func() time.Time { return f.now }),
		WithLogger(logger),
	)
	return f
}

func (f *fixture) setNow(t *testing.T, day string) {
	t.Helper()
	d, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	f.now = d.Add(9 * time.Hour)
}

func (f *fixture) create(t *testing.T, title string, who entities.User, day string) *entities.Task {
	t.Helper()
	task, err := f.svc.Create(context.Background(), service.CreateInput{Title: title, AssignedUserID: who.ID, ScheduledDate: day})
	require.NoError(t, err)
	return task
}

func mustDate(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	require.NoError(t, err)
	return d
}

func mustMonth(t *testing.T, s string) civil.Month {
	t.Helper()
	m, err := civil.ParseMonth(s)
	require.NoError(t, err)
	return m
}

func TestCreate(t *testing.T) {
	f := newFixture(t, "2025-03-01")

	task := f.create(t, "  Irrigation - Zone 1  ", f.anil, "2025-03-05")
	assert.NotZero(t, task.ID)
	assert.Equal(t, "Irrigation - Zone 1", task.Title)
	assert.Equal(t, entities.StatusPending, task.Status)
	assert.Nil(t, task.CompletionDate)
	assert.Equal(t, "Anil", task.AssigneeName())
	assert.Equal(t, "task created", f.logs.LastEntry().Message)
}

func TestCreate_UnknownAssigneeHasNoName(t *testing.T) {
	f := newFixture(t, "2025-03-01")
	task, err := f.svc.Create(context.Background(), service.CreateInput{Title: "Fence repair", AssignedUserID: 99, ScheduledDate: "2025-03-05"})
	require.NoError(t, err)
	assert.Equal(t, uint(99), task.AssignedUserID)
	assert.Empty(t, task.AssigneeName())
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t, "2025-03-01")

	_, err := f.svc.Create(context.Background(), service.CreateInput{Title: " ", ScheduledDate: "03/05/2025"})
	require.ErrorIs(t, err, service.ErrValidation)

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 3)
	assert.Contains(t, err.Error(), "title is required")
	assert.Contains(t, err.Error(), "assigned_user_id is required")
	assert.Contains(t, err.Error(), "scheduled_date")

	var n int64
	require.NoError(t, f.db.Model(&entities.Task{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestForDate_CarryForwardScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "2025-03-05")
	a := f.create(t, "Pest spray Zone 1", f.anil, "2025-03-01")
	b := f.create(t, "Weeding Zone 2", f.anil, "2025-03-05")

	got, err := f.svc.ForDate(ctx, mustDate(t, "2025-03-05"), nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.True(t, got[0].CarryForward)
	assert.Equal(t, "Anil", got[0].AssignedUserName)
	assert.Equal(t, "pest", got[0].Type)
	assert.Equal(t, b.ID, got[1].ID)
	assert.False(t, got[1].CarryForward)

	done, err := f.svc.Complete(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusCompleted, done.Status)
	require.NotNil(t, done.CompletionDate)
	assert.Equal(t, "2025-03-05", done.CompletionDate.String())

	got, err = f.svc.ForDate(ctx, mustDate(t, "2025-03-06"), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
	assert.True(t, got[0].CarryForward)
}

func TestForDate_AssigneeFilter(t *testing.T) {
	f := newFixture(t, "2025-03-05")
	f.create(t, "Pest spray Zone 1", f.anil, "2025-03-01")
	mine := f.create(t, "Harvest Zone 2", f.sunny, "2025-03-02")
	f.create(t, "Sowing Zone 3", f.anil, "2025-03-05")

	got, err := f.svc.ForDate(context.Background(), mustDate(t, "2025-03-05"), &f.sunny.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)
	assert.Equal(t, "Sunita", got[0].AssignedUserName)
}

func TestComplete_SecondCallKeepsFirstDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "2025-03-05")
	task := f.create(t, "Irrigation Zone 1", f.anil, "2025-03-01")

	_, err := f.svc.Complete(ctx, task.ID)
	require.NoError(t, err)

	f.setNow(t, "2025-03-09")
	again, err := f.svc.Complete(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusCompleted, again.Status)
	assert.Equal(t, "2025-03-05", again.CompletionDate.String())
	assert.Equal(t, "task already completed", f.logs.LastEntry().Message)

	for _, day := range []string{"2025-03-06", "2025-04-01", "2026-01-01"} {
		got, err := f.svc.ForDate(ctx, mustDate(t, day), nil)
		require.NoError(t, err)
		assert.Empty(t, got, day)
	}
}

func TestComplete_NotFound(t *testing.T) {
	f := newFixture(t, "2025-03-05")
	_, err := f.svc.Complete(context.Background(), 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCalendar_Scenario(t *testing.T) {
	f := newFixture(t, "2025-03-12")
	feb := f.create(t, "Irrigation Zone 1", f.anil, "2025-02-20")
	mar := f.create(t, "Pest check Zone 2", f.sunny, "2025-03-10")

	sum, err := f.svc.Calendar(context.Background(), mustMonth(t, "2025-03"), nil)
	require.NoError(t, err)

	require.Len(t, sum.Calendar, 1)
	cell := sum.Calendar["2025-03-10"]
	require.Len(t, cell, 1)
	assert.Equal(t, mar.ID, cell[0].ID)
	assert.Equal(t, "Sunita", cell[0].AssignedUserName)
	assert.False(t, cell[0].CarryForward)
	assert.Equal(t, "Z2: Pest ×1", sum.Labels["2025-03-10"][0].Text)

	assert.Equal(t, 1, sum.CarryForwardCount)
	require.Len(t, sum.CarryForwardTasks, 1)
	assert.Equal(t, feb.ID, sum.CarryForwardTasks[0].ID)
	assert.True(t, sum.CarryForwardTasks[0].CarryForward)

	require.NotNil(t, sum.Today)
	assert.Equal(t, "2025-03-12", sum.Today.String())
}

func TestCalendar_CompletedDisappearsFromPastMonths(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "2025-06-01")
	old := f.create(t, "Weeding Zone 3", f.anil, "2025-01-15")

	sum, err := f.svc.Calendar(ctx, mustMonth(t, "2025-02"), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.CarryForwardCount)
	assert.Nil(t, sum.Today)

	_, err = f.svc.Complete(ctx, old.ID)
	require.NoError(t, err)

	for _, m := range []string{"2025-02", "2025-06", "2026-01"} {
		sum, err := f.svc.Calendar(ctx, mustMonth(t, m), nil)
		require.NoError(t, err)
		assert.Zero(t, sum.CarryForwardCount, m)
		assert.Empty(t, sum.CarryForwardTasks, m)
	}
}

func TestCalendar_LeapFebruary(t *testing.T) {
	f := newFixture(t, "2024-02-01")
	f.create(t, "Harvest Zone 1", f.anil, "2024-02-29")
	f.create(t, "Sowing Zone 1", f.anil, "2024-03-01")

	sum, err := f.svc.Calendar(context.Background(), mustMonth(t, "2024-02"), &f.anil.ID)
	require.NoError(t, err)
	assert.Contains(t, sum.Calendar, "2024-02-29")
	assert.NotContains(t, sum.Calendar, "2024-03-01")
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "2025-03-01")

	tasks, err := f.svc.Import(ctx, []importer.Row{
		{Line: 2, Title: "Irrigation Zone 1", Assignee: "anil", Date: "2025-03-10"},
		{Line: 3, Title: "Pest check Zone 2", Assignee: "2", Date: "2025-03-11"},
		{Line: 4, Title: "Sowing Zone 3", Assignee: "Anil", Date: "2025-03-12"},
	})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, f.anil.ID, tasks[0].AssignedUserID)
	assert.Equal(t, f.sunny.ID, tasks[1].AssignedUserID)
	for _, tk := range tasks {
		assert.NotZero(t, tk.ID)
		assert.Equal(t, entities.StatusPending, tk.Status)
	}
}

func TestImport_LargeSheet(t *testing.T) {
	f := newFixture(t, "2025-03-01")

	rows := make([]importer.Row, 6000)
	for i := range rows {
		rows[i] = importer.Row{Line: i + 2, Title: fmt.Sprintf("Irrigation Zone %d", i%4+1), Assignee: "Anil", Date: "2025-03-10"}
	}
	tasks, err := f.svc.Import(context.Background(), rows)
	require.NoError(t, err)
	assert.Len(t, tasks, len(rows))

	var n int64
	require.NoError(t, f.db.Model(&entities.Task{}).Count(&n).Error)
	assert.Equal(t, int64(len(rows)), n)
}

func TestImport_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "2025-03-01")

	_, err := f.svc.Import(ctx, []importer.Row{
		{Line: 2, Title: "Irrigation Zone 1", Assignee: "Anil", Date: "2025-03-10"},
		{Line: 3, Title: "Pest check", Assignee: "Ghost", Date: "2025-03-11"},
		{Line: 4, Title: "", Assignee: "Anil", Date: "tomorrow"},
		{Line: 5, Title: "Sowing", Assignee: "", Date: "2025-03-12"},
	})
	require.ErrorIs(t, err, service.ErrValidation)
	assert.Contains(t, err.Error(), `row 3: unknown assignee "Ghost"`)
	assert.Contains(t, err.Error(), "row 4: title is required")
	assert.Contains(t, err.Error(), "row 4: scheduled_date")
	assert.Contains(t, err.Error(), "row 5: assigned_user_id is required")

	var n int64
	require.NoError(t, f.db.Model(&entities.Task{}).Count(&n).Error)
	assert.Zero(t, n)

	_, err = f.svc.Import(ctx, nil)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestExport(t *testing.T) {
	f := newFixture(t, "2025-03-01")
	f.create(t, "Irrigation Zone 1", f.anil, "2025-02-20")
	f.create(t, "Pest check Zone 2", f.sunny, "2025-03-10")

	b, err := f.svc.Export(context.Background(), mustMonth(t, "2025-03"), nil)
	require.NoError(t, err)

	x, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer x.Close()

	rows, err := x.GetRows(export.CalendarSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Pest check Zone 2", rows[1][2])

	rows, err = x.GetRows(export.CarriedSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-02-20", rows[1][0])
}
