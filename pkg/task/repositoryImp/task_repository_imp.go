package repositoryImp

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rajeev-sr/iPlanFarmHouse/entities"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/civil"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/task/repository"
)

type taskRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.TaskRepository { return &taskRepo{db} }

func (r *taskRepo) Create(ctx context.Context, t *entities.Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// insertBatch keeps each INSERT well under SQLite's bound-variable limit.
const insertBatch = 500

// BulkInsert writes the rows in batches inside one transaction, so either
// every task lands or none.
func (r *taskRepo) BulkInsert(ctx context.Context, ts []entities.Task) error {
	if len(ts) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&ts, insertBatch).Error
	})
	if err != nil {
		return fmt.Errorf("bulk insert tasks: %w", err)
	}
	return nil
}

func (r *taskRepo) FindByID(ctx context.Context, id uint) (*entities.Task, error) {
	var t entities.Task
	if err := r.db.WithContext(ctx).Preload("AssignedUser").First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find task %d: %w", id, err)
	}
	return &t, nil
}

func (r *taskRepo) DueBy(ctx context.Context, day civil.Date, f repository.Filter) ([]entities.Task, error) {
	q := r.scoped(ctx, f).
		Where("(scheduled_date = ? OR (scheduled_date < ? AND status = ?))", day, day, entities.StatusPending)
	return r.find(q, "due tasks")
}

func (r *taskRepo) Between(ctx context.Context, from, to civil.Date, f repository.Filter) ([]entities.Task, error) {
	q := r.scoped(ctx, f).Where("scheduled_date >= ? AND scheduled_date <= ?", from, to)
	return r.find(q, "tasks in range")
}

func (r *taskRepo) PendingBefore(ctx context.Context, day civil.Date, f repository.Filter) ([]entities.Task, error) {
	q := r.scoped(ctx, f).Where("scheduled_date < ? AND status = ?", day, entities.StatusPending)
	return r.find(q, "carried tasks")
}

func (r *taskRepo) Complete(ctx context.Context, id uint, on civil.Date) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entities.Task{}).
		Where("id = ? AND status = ?", id, entities.StatusPending).
		Updates(map[string]any{"status": entities.StatusCompleted, "completion_date": on})
	if res.Error != nil {
		return false, fmt.Errorf("complete task %d: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var n int64
	if err := r.db.WithContext(ctx).Model(&entities.Task{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("complete task %d: %w", id, err)
	}
	if n == 0 {
		return false, repository.ErrNotFound
	}
	return false, nil
}

func (r *taskRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&entities.Task{}).
		Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	out := map[string]int64{entities.StatusPending: 0, entities.StatusCompleted: 0}
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *taskRepo) scoped(ctx context.Context, f repository.Filter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&entities.Task{}).Preload("AssignedUser")
	if f.AssigneeID != nil {
		q = q.Where("assigned_user_id = ?", *f.AssigneeID)
	}
	return q
}

func (r *taskRepo) find(q *gorm.DB, what string) ([]entities.Task, error) {
	var out []entities.Task
	if err := q.Order("scheduled_date ASC, id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}
	return out, nil
}
