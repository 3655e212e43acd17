package repository

import (
	"context"
	"errors"

	"github.com/rajeev-sr/iPlanFarmHouse/entities"
)

var ErrNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, u *entities.User) error
	FindByID(ctx context.Context, id uint) (*entities.User, error)
	FirstByRole(ctx context.Context, role string) (*entities.User, error)
	// FindByName matches case-insensitively; the lowest id wins on duplicates.
	FindByName(ctx context.Context, name string) (*entities.User, error)
	List(ctx context.Context) ([]entities.User, error)
}
