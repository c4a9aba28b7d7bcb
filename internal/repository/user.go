package repository

import (
	"bloghub/internal/logger"
	"bloghub/internal/models"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	logger.Log.Info("Создание пользователя (repo)", zap.String("username", user.Username), zap.String("email", user.Email))
	user.ID = uuid.NewString()
	query := `
	INSERT INTO users (id, username, email, password_hash, first_name, last_name, is_active, is_admin)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.IsActive,
		user.IsAdmin,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	logger.Log.Debug("Проверка username на уникальность (repo)", zap.String("username", username))
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, username).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки username (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	logger.Log.Debug("Проверка email на уникальность (repo)", zap.String("email", email))
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки email (repo)", zap.Error(err))
	}
	return exists, err
}

const userColumns = `id, username, email, password_hash, first_name, last_name, is_active, is_admin, created_at, updated_at, last_login`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.IsActive,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.LastLogin,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	logger.Log.Debug("Получение пользователя по username (repo)", zap.String("username", username))
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		logger.Log.Warn("Пользователь по username не найден (repo)", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	logger.Log.Debug("Получение пользователя по email (repo)", zap.String("email", email))
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		logger.Log.Warn("Пользователь по email не найден (repo)", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	logger.Log.Debug("Получение пользователя по ID (repo)", zap.String("user_id", id))
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		logger.Log.Warn("Пользователь по ID не найден (repo)", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID string) error {
	logger.Log.Debug("Обновление last_login (repo)", zap.String("user_id", userID))
	query := `UPDATE users SET last_login = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		logger.Log.Error("Ошибка обновления last_login (repo)", zap.Error(err))
	}
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	logger.Log.Info("Смена пароля (repo)", zap.String("user_id", userID))
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, passwordHash, userID)
	if err != nil {
		logger.Log.Error("Ошибка смены пароля (repo)", zap.Error(err))
	}
	return err
}

func (r *UserRepository) SaveRefreshToken(ctx context.Context, userID string, token string) error {
	logger.Log.Debug("Сохранение refresh токена (repo)", zap.String("user_id", userID))
	query := `INSERT INTO refresh_tokens (user_id, token) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, userID, token)
	if err != nil {
		logger.Log.Error("Ошибка сохранения refresh токена (repo)", zap.Error(err))
	}
	return err
}

func (r *UserRepository) IsRefreshTokenValid(ctx context.Context, userID string, token string) (bool, error) {
	logger.Log.Debug("Проверка refresh токена (repo)", zap.String("user_id", userID))
	query := `SELECT EXISTS(SELECT 1 FROM refresh_tokens WHERE user_id = $1 AND token = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, token).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки refresh токена (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) DeleteRefreshToken(ctx context.Context, userID string, token string) error {
	logger.Log.Debug("Удаление refresh токена (repo)", zap.String("user_id", userID))
	query := `DELETE FROM refresh_tokens WHERE user_id = $1 AND token = $2`
	_, err := r.db.Exec(ctx, query, userID, token)
	if err != nil {
		logger.Log.Error("Ошибка удаления refresh токена (repo)", zap.Error(err))
	}
	return err
}

func (r *UserRepository) GetAllUsersPaginated(ctx context.Context, limit, offset int) ([]*models.User, int, error) {
	logger.Log.Debug("Получение пользователей постранично (repo)", zap.Int("limit", limit), zap.Int("offset", offset))

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		logger.Log.Error("Ошибка подсчёта пользователей (repo)", zap.Error(err))
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		logger.Log.Error("Ошибка получения пользователей (repo)", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			logger.Log.Error("Ошибка сканирования пользователя (repo)", zap.Error(err))
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) UpdateUserFields(ctx context.Context, id string, input *models.UpdateUserRequest) error {
	logger.Log.Info("Обновление пользователя (repo)", zap.String("user_id", id))
	query := `UPDATE users SET`
	var args []interface{}
	argNum := 1

	if input.FirstName != nil {
		query += fmt.Sprintf(" first_name = $%d,", argNum)
		args = append(args, *input.FirstName)
		argNum++
	}
	if input.LastName != nil {
		query += fmt.Sprintf(" last_name = $%d,", argNum)
		args = append(args, *input.LastName)
		argNum++
	}
	if input.Email != nil {
		query += fmt.Sprintf(" email = $%d,", argNum)
		args = append(args, *input.Email)
		argNum++
	}
	if input.IsActive != nil {
		query += fmt.Sprintf(" is_active = $%d,", argNum)
		args = append(args, *input.IsActive)
		argNum++
	}
	if input.IsAdmin != nil {
		query += fmt.Sprintf(" is_admin = $%d,", argNum)
		args = append(args, *input.IsAdmin)
		argNum++
	}

	if len(args) == 0 {
		logger.Log.Warn("Нет полей для обновления пользователя (repo)", zap.String("user_id", id))
		return nil // ничего не обновляем
	}

	query += fmt.Sprintf(" updated_at = NOW() WHERE id = $%d", argNum)
	args = append(args, id)

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Ошибка обновления пользователя (repo)", zap.Error(err), zap.String("user_id", id))
	}
	return err
}

// DeleteUserCascade удаляет пользователя и всё зависимое одной транзакцией:
// комментарии к его постам, связи постов с тегами, посты, его комментарии,
// refresh-токены и сам пользователь.
func (r *UserRepository) DeleteUserCascade(ctx context.Context, userID string) error {
	logger.Log.Info("Каскадное удаление пользователя (repo)", zap.String("user_id", userID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	steps := []string{
		`DELETE FROM comments WHERE post_id IN (SELECT id FROM posts WHERE user_id = $1)`,
		`DELETE FROM post_tags WHERE post_id IN (SELECT id FROM posts WHERE user_id = $1)`,
		`DELETE FROM posts WHERE user_id = $1`,
		`DELETE FROM comments WHERE user_id = $1`,
		`DELETE FROM refresh_tokens WHERE user_id = $1`,
		`DELETE FROM users WHERE id = $1`,
	}
	for _, q := range steps {
		if _, err := tx.Exec(ctx, q, userID); err != nil {
			logger.Log.Error("Ошибка каскадного удаления (repo)", zap.Error(err), zap.String("user_id", userID))
			return err
		}
	}

	return tx.Commit(ctx)
}
