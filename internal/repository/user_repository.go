package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"perevalFSTR/internal/models"
)

const (
	queryUserByEmail = `SELECT id, email, first_name, last_name, middle_name, phone FROM users WHERE email = $1`
	queryUserByID    = `SELECT id, email, first_name, last_name, middle_name, phone FROM users WHERE id = $1`
	queryInsertUser  = `INSERT INTO users (email, first_name, last_name, middle_name, phone) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	queryUpdateUser  = `UPDATE users SET first_name = $1, last_name = $2, middle_name = $3, phone = $4 WHERE id = $5`
)

// Методы принимают sqlx.ExtContext, чтобы работать и на *sqlx.DB,
// и внутри транзакции перевала (*sqlx.Tx).
type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) GetByEmail(ctx context.Context, q sqlx.ExtContext, email string) (*models.User, error) {
	var user models.User

	err := sqlx.GetContext(ctx, q, &user, queryUserByEmail, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка при получении пользователя по email: %w", err)
	}

	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, q sqlx.ExtContext, user *models.User) error {
	err := sqlx.GetContext(ctx, q, &user.ID, queryInsertUser,
		user.Email, user.FirstName, user.LastName, user.MiddleName, user.Phone)
	if err != nil {
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	return nil
}

func (r *userRepository) Update(ctx context.Context, q sqlx.ExtContext, user *models.User) error {
	result, err := q.ExecContext(ctx, queryUpdateUser,
		user.FirstName, user.LastName, user.MiddleName, user.Phone, user.ID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении пользователя: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
