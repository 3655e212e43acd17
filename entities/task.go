package entities

import (
	"time"

	"github.com/rajeev-sr/iPlanFarmHouse/pkg/civil"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

type Task struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	Title          string      `gorm:"not null" json:"title"`
	AssignedUserID uint        `gorm:"index;not null" json:"assigned_user_id"`
	AssignedUser   *User       `gorm:"foreignKey:AssignedUserID" json:"-"`
	ScheduledDate  civil.Date  `gorm:"type:text;index;not null" json:"scheduled_date"`
	Status         string      `gorm:"index;not null;default:pending" json:"status"` // pending|completed
	CompletionDate *civil.Date `gorm:"type:text" json:"completion_date"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// AssigneeName is empty when the user row was not loaded or no longer exists.
func (t *Task) AssigneeName() string {
	if t.AssignedUser == nil {
		return ""
	}
	return t.AssignedUser.Name
}

func (t *Task) Completed() bool { return t.Status == StatusCompleted }
