package repository

import (
	"context"

	"douyin-manager/domain/model"
)

// IUser defines persistence operations for local user accounts.
type IUser interface {
	GetById(ctx context.Context, id int64) (model.User, error)
	GetByUserName(ctx context.Context, userName string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	CreateUser(ctx context.Context, user model.User) error
}
