package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bloghub/internal/models"
	"bloghub/internal/utils"
)

// Мок-репозиторий (заглушка)
type mockUserRepo struct {
	users    map[string]*models.User
	tokens   map[string]string
	lastUser *models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:  make(map[string]*models.User),
		tokens: make(map[string]string),
	}
}

func (m *mockUserRepo) IsUsernameTaken(_ context.Context, username string) (bool, error) {
	_, exists := m.users[username]
	return exists, nil
}

func (m *mockUserRepo) IsEmailTaken(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "u-" + user.Username
	}
	m.users[user.Username] = user
	m.lastUser = user
	return nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockUserRepo) UpdateLastLogin(_ context.Context, userID string) error {
	for _, u := range m.users {
		if u.ID == userID {
			now := time.Now()
			u.LastLogin = &now
		}
	}
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, userID string, passwordHash string) error {
	for _, u := range m.users {
		if u.ID == userID {
			u.PasswordHash = passwordHash
		}
	}
	return nil
}

func (m *mockUserRepo) SaveRefreshToken(_ context.Context, userID string, token string) error {
	m.tokens[userID] = token
	return nil
}

func (m *mockUserRepo) IsRefreshTokenValid(_ context.Context, userID string, token string) (bool, error) {
	return m.tokens[userID] == token, nil
}

func (m *mockUserRepo) DeleteRefreshToken(_ context.Context, userID string, token string) error {
	if m.tokens[userID] == token {
		delete(m.tokens, userID)
	}
	return nil
}

func (m *mockUserRepo) GetAllUsersPaginated(_ context.Context, limit, offset int) ([]*models.User, int, error) {
	all := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, u)
	}
	total := len(all)
	if offset >= total {
		return []*models.User{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) UpdateUserFields(_ context.Context, id string, input *models.UpdateUserRequest) error {
	for _, u := range m.users {
		if u.ID == id {
			if input.IsActive != nil {
				u.IsActive = *input.IsActive
			}
			if input.IsAdmin != nil {
				u.IsAdmin = *input.IsAdmin
			}
		}
	}
	return nil
}

func (m *mockUserRepo) DeleteUserCascade(_ context.Context, userID string) error {
	for name, u := range m.users {
		if u.ID == userID {
			delete(m.users, name)
		}
	}
	delete(m.tokens, userID)
	return nil
}

func TestRegisterUser(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	user := &models.User{
		Username:  "testuser",
		Email:     "test@example.com",
		FirstName: "Тест",
	}

	err := service.RegisterUser(context.Background(), user, "secret")
	if err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}

	if repo.lastUser == nil || repo.lastUser.PasswordHash == "" {
		t.Fatal("пароль не захеширован или пользователь не сохранён")
	}
	if repo.lastUser.PasswordHash == "secret" {
		t.Fatal("пароль сохранён открытым текстом")
	}
	if !repo.lastUser.IsActive {
		t.Fatal("новый пользователь должен быть активен")
	}
}

func TestRegisterUser_DuplicateUsername(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	repo.users["taken"] = &models.User{ID: "u-1", Username: "taken", Email: "a@example.com"}

	err := service.RegisterUser(context.Background(), &models.User{Username: "taken", Email: "b@example.com"}, "pass")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("ожидалась ErrUsernameTaken, получено: %v", err)
	}
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	repo.users["someone"] = &models.User{ID: "u-1", Username: "someone", Email: "dup@example.com"}

	err := service.RegisterUser(context.Background(), &models.User{Username: "other", Email: "dup@example.com"}, "pass")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("ожидалась ErrEmailTaken, получено: %v", err)
	}
}

func TestLoginUser_Success(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	hashed, _ := utils.HashPassword("secret")
	repo.users["testuser"] = &models.User{
		ID:           "u-1",
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: hashed,
		IsActive:     true,
	}

	user, err := service.LoginUser(context.Background(), "testuser", "secret")
	if err != nil {
		t.Fatalf("ошибка логина: %v", err)
	}
	if user.LastLogin == nil {
		t.Fatal("last_login не обновлён")
	}

	// вход по email через тот же эндпоинт
	if _, err := service.LoginUser(context.Background(), "test@example.com", "secret"); err != nil {
		t.Fatalf("ошибка логина по email: %v", err)
	}
}

func TestLoginUser_InvalidCredentials(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	hashed, _ := utils.HashPassword("secret")
	repo.users["testuser"] = &models.User{ID: "u-1", Username: "testuser", PasswordHash: hashed, IsActive: true}

	if _, err := service.LoginUser(context.Background(), "unknown", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("ожидалась ErrInvalidCredentials для незнакомого логина, получено: %v", err)
	}
	if _, err := service.LoginUser(context.Background(), "testuser", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("ожидалась ErrInvalidCredentials для неверного пароля, получено: %v", err)
	}
}

func TestLoginUser_Inactive(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	hashed, _ := utils.HashPassword("secret")
	repo.users["sleeper"] = &models.User{ID: "u-1", Username: "sleeper", PasswordHash: hashed, IsActive: false}

	_, err := service.LoginUser(context.Background(), "sleeper", "secret")
	if !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("ожидалась ErrAccountInactive, получено: %v", err)
	}
}

func TestIssueTokens(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	user := &models.User{ID: "u-1", Username: "testuser"}
	access, refresh, err := service.IssueTokens(context.Background(), user, "mysecret", 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("ошибка выпуска токенов: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("токены не сгенерированы")
	}

	claims, err := utils.ParseToken("mysecret", access)
	if err != nil {
		t.Fatalf("access-токен не парсится: %v", err)
	}
	userID, _, tokenType, ok := utils.TokenSubject(claims)
	if !ok || userID != "u-1" || tokenType != "access" {
		t.Fatalf("неверные клеймы access-токена: user_id=%q type=%q", userID, tokenType)
	}

	valid, err := service.ValidateRefreshToken(context.Background(), "u-1", refresh)
	if err != nil || !valid {
		t.Fatalf("refresh-токен не сохранён в хранилище: valid=%v err=%v", valid, err)
	}

	if err := service.Logout(context.Background(), "u-1", refresh); err != nil {
		t.Fatalf("ошибка выхода: %v", err)
	}
	valid, _ = service.ValidateRefreshToken(context.Background(), "u-1", refresh)
	if valid {
		t.Fatal("refresh-токен должен быть удалён после выхода")
	}
}

func TestChangePassword(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	hashed, _ := utils.HashPassword("oldpass")
	repo.users["testuser"] = &models.User{ID: "u-1", Username: "testuser", PasswordHash: hashed, IsActive: true}

	if err := service.ChangePassword(context.Background(), "u-1", "wrong", "newpass"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("ожидалась ErrWrongPassword, получено: %v", err)
	}

	if err := service.ChangePassword(context.Background(), "u-1", "oldpass", "newpass"); err != nil {
		t.Fatalf("ошибка смены пароля: %v", err)
	}
	if !utils.CheckPasswordHash("newpass", repo.users["testuser"].PasswordHash) {
		t.Fatal("новый пароль не сохранён")
	}
}

func TestGetUsersPaginated(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		repo.users[name] = &models.User{ID: "u-" + name, Username: name}
	}

	resp, err := service.GetUsersPaginated(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if resp.Total != 5 || resp.Pages != 3 || resp.CurrentPage != 1 {
		t.Fatalf("неверная пагинация: total=%d pages=%d current=%d", resp.Total, resp.Pages, resp.CurrentPage)
	}
	if len(resp.Users) != 2 {
		t.Fatalf("ожидалось 2 пользователя на странице, получено %d", len(resp.Users))
	}
}

func TestGetUsersPaginated_Empty(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	resp, err := service.GetUsersPaginated(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if resp.Total != 0 || resp.Pages != 0 || resp.CurrentPage != 1 {
		t.Fatalf("пустая выборка: total=%d pages=%d current=%d", resp.Total, resp.Pages, resp.CurrentPage)
	}
	if resp.Users == nil {
		t.Fatal("users не должен быть nil")
	}
}

func TestDeleteUser_NotFound(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	if err := service.DeleteUser(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидалась ErrNotFound, получено: %v", err)
	}
}
