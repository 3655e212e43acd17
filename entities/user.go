package entities

import "time"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleWorker  = "worker"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `gorm:"index;not null;default:worker" json:"role"` // admin|manager|worker
	CreatedAt time.Time `json:"-"`
}

func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleWorker:
		return true
	}
	return false
}
