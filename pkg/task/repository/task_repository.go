package repository

import (
	"context"
	"errors"

	"github.com/rajeev-sr/iPlanFarmHouse/entities"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/civil"
)

var ErrNotFound = errors.New("task not found")

// Filter narrows a listing to one worker when AssigneeID is set.
type Filter struct {
	AssigneeID *uint
}

type TaskRepository interface {
	Create(ctx context.Context, t *entities.Task) error
	BulkInsert(ctx context.Context, ts []entities.Task) error
	FindByID(ctx context.Context, id uint) (*entities.Task, error)

	// DueBy returns tasks scheduled on day plus pending tasks scheduled before it.
	DueBy(ctx context.Context, day civil.Date, f Filter) ([]entities.Task, error)
	// Between returns tasks scheduled in [from, to], ordered by date then id.
	Between(ctx context.Context, from, to civil.Date, f Filter) ([]entities.Task, error)
	// PendingBefore returns pending tasks scheduled strictly before day.
	PendingBefore(ctx context.Context, day civil.Date, f Filter) ([]entities.Task, error)

	// Complete flips a pending task to completed on the given date. It
	// reports false when the task was already completed.
	Complete(ctx context.Context, id uint, on civil.Date) (bool, error)

	CountByStatus(ctx context.Context) (map[string]int64, error)
}
