package repository

import (
	"context"
	"fmt"

	"github.com/harry-torres/gbarber-backend/internal/model"
	"github.com/harry-torres/gbarber-backend/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	*base.Repository
	appURL string
}

func NewUserRepository(pool *pgxpool.Pool, appURL string) *UserRepository {
	return &UserRepository{
		Repository: base.NewRepository(pool),
		appURL:     appURL,
	}
}

const userColumns = `
	u.id, u.name, u.email, u.provider, u.telegram_chat_id, u.avatar_id, u.created_at,
	f.path
`

// GetByID получает пользователя по ID вместе с аватаром
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN files f ON f.id = u.avatar_id
		WHERE u.id = $1
	`

	user, err := r.scanUser(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Пользователь не найден
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// ListProviders получает всех провайдеров, отсортированных по имени
func (r *UserRepository) ListProviders(ctx context.Context) ([]*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN files f ON f.id = u.avatar_id
		WHERE u.provider = true
		ORDER BY u.name, u.id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get providers: %w", err)
	}
	defer rows.Close()

	var providers []*model.User
	for rows.Next() {
		provider, err := r.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		providers = append(providers, provider)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate providers: %w", err)
	}

	return providers, nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*model.User, error) {
	var (
		user       model.User
		avatarPath *string
	)
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.IsProvider,
		&user.TelegramChatID,
		&user.AvatarID,
		&user.CreatedAt,
		&avatarPath,
	)
	if err != nil {
		return nil, err
	}

	if user.AvatarID != nil && avatarPath != nil {
		user.Avatar = newFile(r.appURL, *user.AvatarID, *avatarPath)
	}

	return &user, nil
}
