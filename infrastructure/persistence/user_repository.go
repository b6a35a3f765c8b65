package persistence

import (
	"context"
	"database/sql"
	"time"

	"douyin-manager/domain/model"
	"douyin-manager/infrastructure/logger"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const selectUserColumns = `SELECT u.id, u.name, u.user_name, u.email, u.password, u.created_at, u.updated_at
	FROM users AS u `

func (r *UserRepository) GetById(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	stmt, err := r.db.PrepareContext(ctx, selectUserColumns+`WHERE u.id = $1`)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while preparing statement")
		return user, err
	}
	defer stmt.Close()

	row := stmt.QueryRowContext(ctx, id)
	if err := row.Scan(&user.ID, &user.Name, &user.UserName, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByUserName(ctx context.Context, userName string) (model.User, error) {
	var user model.User
	stmt, err := r.db.PrepareContext(ctx, selectUserColumns+`WHERE u.user_name = $1`)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while preparing statement")
		return user, err
	}
	defer stmt.Close()

	row := stmt.QueryRowContext(ctx, userName)
	if err := row.Scan(&user.ID, &user.Name, &user.UserName, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	stmt, err := r.db.PrepareContext(ctx, selectUserColumns+`WHERE u.email = $1`)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while preparing statement")
		return user, err
	}
	defer stmt.Close()

	row := stmt.QueryRowContext(ctx, email)
	if err := row.Scan(&user.ID, &user.Name, &user.UserName, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user model.User) error {
	stmt, err := r.db.PrepareContext(ctx, `INSERT INTO users (name, user_name, email, password, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $5)`)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while preparing statement")
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, user.Name, user.UserName, user.Email, user.Password, time.Now().UTC())
	return err
}
