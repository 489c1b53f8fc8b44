package user

import (
	"context"
)

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateEmail(ctx context.Context, id int64, email string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	ListWithoutEmployee(ctx context.Context) ([]User, error)
}
