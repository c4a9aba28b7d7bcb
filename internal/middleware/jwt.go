package middleware

import (
	"bloghub/internal/config"
	"bloghub/internal/logger"
	"bloghub/internal/reqctx"
	"bloghub/internal/utils"
	helpers "bloghub/internal/utils/helpers"
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type ContextKey string

const (
	ContextUserID    ContextKey = "user_id"
	ContextIsAdmin   ContextKey = "is_admin"
	ContextRequestID ContextKey = "request_id"
)

// JWTAuth пускает дальше только запросы с валидным access-токеном (401 иначе).
func JWTAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		cfg, _ := config.LoadConfig()
		authHeader := r.Header.Get("Authorization")

		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			logger.WithCtx(r.Context()).Warn("JWTAuth: отсутствует access token")
			helpers.Error(w, http.StatusUnauthorized, "Отсутствует access token")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.ParseToken(cfg.JWTSecret, tokenString)
		if err != nil {
			logger.WithCtx(r.Context()).Warn("JWTAuth: неверный или просроченный токен", zap.Error(err))
			helpers.Error(w, http.StatusUnauthorized, "Неверный или просроченный токен")
			return
		}

		userID, isAdmin, tokenType, ok := utils.TokenSubject(claims)
		if !ok || tokenType != "access" {
			logger.WithCtx(r.Context()).Warn("JWTAuth: недопустимый payload", zap.Any("claims", claims))
			helpers.Error(w, http.StatusUnauthorized, "Недопустимый payload")
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserID, userID)
		ctx = context.WithValue(ctx, ContextIsAdmin, isAdmin)
		ctx = reqctx.WithUserID(ctx, userID)

		logger.WithCtx(ctx).Debug("JWTAuth: токен валиден",
			zap.String("user_id", userID), zap.Bool("is_admin", isAdmin))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalJWT — мягкая проверка для публичных маршрутов (комментарии):
// валидный access-токен привязывает пользователя, любой сбой разбора
// трактуется как отсутствие токена, запрос продолжается анонимно.
func OptionalJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}

		cfg, _ := config.LoadConfig()
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.ParseToken(cfg.JWTSecret, tokenString)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, isAdmin, tokenType, ok := utils.TokenSubject(claims)
		if !ok || tokenType != "access" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserID, userID)
		ctx = context.WithValue(ctx, ContextIsAdmin, isAdmin)
		ctx = reqctx.WithUserID(ctx, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
