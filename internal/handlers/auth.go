package handlers

import (
	"bloghub/internal/config"
	"bloghub/internal/logger"
	"bloghub/internal/middleware"
	"bloghub/internal/models"
	"bloghub/internal/services"
	"bloghub/internal/utils"
	helpers "bloghub/internal/utils/helpers"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

type authResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Register godoc
// @Summary Регистрация нового пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body registerRequest true "Данные регистрации"
// @Success 201 {object} authResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в Register", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		helpers.Error(w, http.StatusBadRequest, "Требуются username, email и password")
		return
	}
	if !validEmail(req.Email) {
		helpers.Error(w, http.StatusBadRequest, "Некорректный формат email")
		return
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	if err := h.authService.RegisterUser(r.Context(), user, req.Password); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка регистрации пользователя", zap.Error(err))
		writeServiceError(w, err)
		return
	}

	cfg, _ := config.LoadConfig()
	accessTTL, _ := time.ParseDuration(cfg.AccessTokenTTL)
	refreshTTL, _ := time.ParseDuration(cfg.RefreshTokenTTL)

	access, refresh, err := h.authService.IssueTokens(r.Context(), user, cfg.JWTSecret, accessTTL, refreshTTL)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.JSON(w, http.StatusCreated, authResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// Login godoc
// @Summary Авторизация пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Данные для входа"
// @Success 200 {object} authResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в Login", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if req.UsernameOrEmail == "" || req.Password == "" {
		helpers.Error(w, http.StatusBadRequest, "Требуются username_or_email и password")
		return
	}

	user, err := h.authService.LoginUser(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	cfg, _ := config.LoadConfig()
	accessTTL, _ := time.ParseDuration(cfg.AccessTokenTTL)
	refreshTTL, _ := time.ParseDuration(cfg.RefreshTokenTTL)

	access, refresh, err := h.authService.IssueTokens(r.Context(), user, cfg.JWTSecret, accessTTL, refreshTTL)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, authResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// Refresh godoc
// @Summary Обновление access-токена
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} helpers.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		logger.WithCtx(r.Context()).Warn("Отсутствует refresh token в Refresh")
		helpers.Error(w, http.StatusUnauthorized, "Отсутствует refresh token")
		return
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	cfg, _ := config.LoadConfig()
	claims, err := utils.ParseToken(cfg.JWTSecret, tokenString)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("Неверный или просроченный refresh token", zap.Error(err))
		helpers.Error(w, http.StatusUnauthorized, "Неверный или просроченный refresh token")
		return
	}

	userID, _, tokenType, ok := utils.TokenSubject(claims)
	if !ok || tokenType != "refresh" {
		logger.WithCtx(r.Context()).Warn("Неверный payload токена", zap.Any("claims", claims))
		helpers.Error(w, http.StatusUnauthorized, "Неверный payload токена")
		return
	}

	isValid, err := h.authService.ValidateRefreshToken(r.Context(), userID, tokenString)
	if err != nil || !isValid {
		logger.WithCtx(r.Context()).Warn("Недействительный refresh token", zap.Error(err))
		helpers.Error(w, http.StatusUnauthorized, "Недействительный refresh token")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil || !user.IsActive {
		helpers.Error(w, http.StatusUnauthorized, "Пользователь не найден или деактивирован")
		return
	}

	accessTTL, _ := time.ParseDuration(cfg.AccessTokenTTL)
	accessToken, err := utils.GenerateToken(cfg.JWTSecret, user.ID, user.IsAdmin, accessTTL, "access")
	if err != nil {
		logger.Log.Error("Ошибка генерации токена", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка генерации токена")
		return
	}

	logger.WithCtx(r.Context()).Info("Токен обновлён", zap.String("user_id", userID))
	helpers.JSON(w, http.StatusOK, map[string]string{"access_token": accessToken})
}

// Me godoc
// @Summary Текущий пользователь
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.User
// @Failure 404 {object} helpers.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.ContextUserID).(string)

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, user)
}

// Logout godoc
// @Summary Выход (удаление refresh токена)
// @Tags auth
// @Security ApiKeyAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} helpers.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.ContextUserID).(string)

	// если клиент прислал refresh-токен — удалим его из хранилища
	refreshToken := r.Header.Get("X-Refresh-Token")
	if refreshToken != "" {
		if err := h.authService.Logout(r.Context(), userID, refreshToken); err != nil {
			logger.WithCtx(r.Context()).Warn("Ошибка удаления refresh токена", zap.Error(err))
		}
	}

	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Выход выполнен"})
}

// ChangePassword godoc
// @Summary Смена пароля
// @Tags auth
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body changePasswordRequest true "Текущий и новый пароль"
// @Success 200 {object} map[string]string
// @Failure 400 {object} helpers.ErrorResponse
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.ContextUserID).(string)

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		helpers.Error(w, http.StatusBadRequest, "Требуются current_password и new_password")
		return
	}

	if err := h.authService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Пароль изменён"})
}
