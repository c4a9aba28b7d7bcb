package services

import (
	"bloghub/internal/logger"
	"bloghub/internal/models"
	"bloghub/internal/utils"
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

type AuthService struct {
	repo UserRepo
}

func NewAuthService(repo UserRepo) *AuthService {
	return &AuthService{repo: repo}
}

type UserRepo interface {
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	SaveRefreshToken(ctx context.Context, userID string, token string) error
	IsRefreshTokenValid(ctx context.Context, userID string, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID string, token string) error
	GetAllUsersPaginated(ctx context.Context, limit, offset int) ([]*models.User, int, error)
	UpdateUserFields(ctx context.Context, id string, input *models.UpdateUserRequest) error
	DeleteUserCascade(ctx context.Context, userID string) error
}

func (s *AuthService) RegisterUser(ctx context.Context, input *models.User, plainPassword string) error {
	logger.WithCtx(ctx).Info("Регистрация пользователя (service)", zap.String("username", input.Username), zap.String("email", input.Email))
	if exists, err := s.repo.IsUsernameTaken(ctx, input.Username); exists || err != nil {
		if err != nil {
			logger.Log.Error("Ошибка проверки username", zap.Error(err))
			return err
		}
		return ErrUsernameTaken
	}
	if exists, err := s.repo.IsEmailTaken(ctx, input.Email); exists || err != nil {
		if err != nil {
			logger.Log.Error("Ошибка проверки email", zap.Error(err))
			return err
		}
		return ErrEmailTaken
	}

	hashed, err := utils.HashPassword(plainPassword)
	if err != nil {
		logger.Log.Error("Ошибка хеширования пароля", zap.Error(err))
		return err
	}

	input.PasswordHash = hashed
	input.IsActive = true

	if err := s.repo.CreateUser(ctx, input); err != nil {
		logger.Log.Error("Ошибка создания пользователя", zap.Error(err))
		return err
	}
	logger.WithCtx(ctx).Info("Пользователь зарегистрирован (service)", zap.String("username", input.Username))
	return nil
}

// LoginUser проверяет учётные данные по username или email,
// отвергает деактивированные аккаунты и фиксирует last_login.
func (s *AuthService) LoginUser(ctx context.Context, identifier, password string) (*models.User, error) {
	logger.WithCtx(ctx).Info("Попытка входа (service)", zap.String("identifier", identifier))

	user, err := s.findUserByIdentifier(ctx, identifier)
	if err != nil {
		logger.Log.Warn("Пользователь не найден (service)", zap.String("identifier", identifier), zap.Error(err))
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Log.Warn("Неверный пароль (service)", zap.String("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		logger.Log.Warn("Вход в деактивированный аккаунт (service)", zap.String("user_id", user.ID))
		return nil, ErrAccountInactive
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Log.Error("Ошибка обновления last_login", zap.Error(err))
		return nil, err
	}

	logger.WithCtx(ctx).Info("Вход выполнен (service)", zap.String("user_id", user.ID))
	return user, nil
}

func (s *AuthService) findUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	id := strings.TrimSpace(identifier)
	// простая эвристика: email содержит '@', иначе это username
	if strings.Contains(id, "@") {
		return s.repo.GetUserByEmail(ctx, id)
	}
	return s.repo.GetByUsername(ctx, id)
}

// IssueTokens генерирует пару access/refresh и сохраняет refresh в хранилище.
func (s *AuthService) IssueTokens(
	ctx context.Context,
	user *models.User,
	jwtSecret string,
	accessTTL, refreshTTL time.Duration,
) (string, string, error) {
	accessToken, err := utils.GenerateToken(jwtSecret, user.ID, user.IsAdmin, accessTTL, "access")
	if err != nil {
		logger.Log.Error("Ошибка генерации access-токена", zap.Error(err))
		return "", "", err
	}

	refreshToken, err := utils.GenerateToken(jwtSecret, user.ID, user.IsAdmin, refreshTTL, "refresh")
	if err != nil {
		logger.Log.Error("Ошибка генерации refresh-токена", zap.Error(err))
		return "", "", err
	}

	if err := s.repo.SaveRefreshToken(ctx, user.ID, refreshToken); err != nil {
		logger.Log.Error("Ошибка сохранения refresh-токена", zap.Error(err))
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *AuthService) ValidateRefreshToken(ctx context.Context, userID string, token string) (bool, error) {
	logger.Log.Debug("Проверка refresh токена (service)", zap.String("user_id", userID))
	return s.repo.IsRefreshTokenValid(ctx, userID, token)
}

func (s *AuthService) Logout(ctx context.Context, userID string, token string) error {
	logger.WithCtx(ctx).Info("Выход пользователя (service)", zap.String("user_id", userID))
	return s.repo.DeleteRefreshToken(ctx, userID, token)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	logger.WithCtx(ctx).Info("Смена пароля (service)", zap.String("user_id", userID))

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return ErrNotFound
	}
	if !utils.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		logger.Log.Error("Ошибка хеширования пароля", zap.Error(err))
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, hashed)
}

func (s *AuthService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		logger.Log.Warn("Пользователь не найден по ID (service)", zap.String("user_id", id), zap.Error(err))
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *AuthService) GetUsersPaginated(ctx context.Context, page, perPage int) (*models.UserListResponse, error) {
	users, total, err := s.repo.GetAllUsersPaginated(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return &models.UserListResponse{
		Users:       users,
		Total:       total,
		Pages:       TotalPages(total, perPage),
		CurrentPage: page,
	}, nil
}

func (s *AuthService) UpdateUser(ctx context.Context, id string, input *models.UpdateUserRequest) (*models.User, error) {
	logger.WithCtx(ctx).Info("Обновление пользователя (service)", zap.String("user_id", id))
	if _, err := s.repo.GetUserByID(ctx, id); err != nil {
		return nil, ErrNotFound
	}
	if err := s.repo.UpdateUserFields(ctx, id, input); err != nil {
		logger.Log.Error("Ошибка при обновлении пользователя (service)", zap.Error(err), zap.String("user_id", id))
		return nil, err
	}
	return s.repo.GetUserByID(ctx, id)
}

func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	logger.WithCtx(ctx).Info("Удаление пользователя (service)", zap.String("user_id", id))
	if _, err := s.repo.GetUserByID(ctx, id); err != nil {
		return ErrNotFound
	}
	err := s.repo.DeleteUserCascade(ctx, id)
	if err != nil {
		logger.Log.Error("Ошибка удаления пользователя (service)", zap.String("user_id", id), zap.Error(err))
	}
	return err
}

// TotalPages — число страниц при данном размере; 0 элементов — 0 страниц.
func TotalPages(total, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
