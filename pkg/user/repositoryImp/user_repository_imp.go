package repositoryImp

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rajeev-sr/iPlanFarmHouse/entities"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/user/repository"
)

type userRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.UserRepository { return &userRepo{db} }

func (r *userRepo) Create(ctx context.Context, u *entities.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id uint) (*entities.User, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *userRepo) FirstByRole(ctx context.Context, role string) (*entities.User, error) {
	return r.first(r.db.WithContext(ctx).Where("role = ?", role).Order("id ASC"))
}

func (r *userRepo) FindByName(ctx context.Context, name string) (*entities.User, error) {
	return r.first(r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).Order("id ASC"))
}

// List orders by role then name, the way the login screen groups people.
func (r *userRepo) List(ctx context.Context) ([]entities.User, error) {
	var out []entities.User
	if err := r.db.WithContext(ctx).Order("role ASC, name ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (r *userRepo) first(q *gorm.DB) (*entities.User, error) {
	var u entities.User
	if err := q.First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}
