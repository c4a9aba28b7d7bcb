package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bloghub/internal/utils"
)

const testSecret = "test-secret"

// adminChain собирает цепочку как в роутере: сначала аутентификация,
// затем проверка прав. Неаутентифицированный запрос должен получить 401,
// аутентифицированный без админ-флага — 403.
func adminChain(reached *bool) http.Handler {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		w.WriteHeader(http.StatusOK)
	})
	return JWTAuth(OnlyAdmin(final))
}

func doAdminRequest(t *testing.T, token string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)

	reached := false
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	adminChain(&reached).ServeHTTP(rec, req)
	return rec, reached
}

func TestAdminChain_NoToken(t *testing.T) {
	rec, reached := doAdminRequest(t, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("статус = %d, ожидалось 401 без токена", rec.Code)
	}
	if reached {
		t.Fatal("хендлер не должен вызываться без токена")
	}
}

func TestAdminChain_GarbageToken(t *testing.T) {
	rec, reached := doAdminRequest(t, "not-a-jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("статус = %d, ожидалось 401 для мусорного токена", rec.Code)
	}
	if reached {
		t.Fatal("хендлер не должен вызываться с мусорным токеном")
	}
}

func TestAdminChain_ExpiredToken(t *testing.T) {
	token, err := utils.GenerateToken(testSecret, "u-1", true, -time.Minute, "access")
	if err != nil {
		t.Fatalf("ошибка генерации токена: %v", err)
	}
	rec, reached := doAdminRequest(t, token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("статус = %d, ожидалось 401 для просроченного токена", rec.Code)
	}
	if reached {
		t.Fatal("хендлер не должен вызываться с просроченным токеном")
	}
}

func TestAdminChain_RefreshTokenRejected(t *testing.T) {
	token, err := utils.GenerateToken(testSecret, "u-1", true, time.Hour, "refresh")
	if err != nil {
		t.Fatalf("ошибка генерации токена: %v", err)
	}
	rec, reached := doAdminRequest(t, token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("статус = %d, ожидалось 401 для refresh-токена на access-маршруте", rec.Code)
	}
	if reached {
		t.Fatal("refresh-токен не должен проходить аутентификацию")
	}
}

func TestAdminChain_NonAdminForbidden(t *testing.T) {
	// валидный access-токен без админ-флага: аутентификация проходит,
	// авторизация возвращает 403, а не 401
	token, err := utils.GenerateToken(testSecret, "u-1", false, time.Hour, "access")
	if err != nil {
		t.Fatalf("ошибка генерации токена: %v", err)
	}
	rec, reached := doAdminRequest(t, token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("статус = %d, ожидалось 403 для не-админа", rec.Code)
	}
	if reached {
		t.Fatal("хендлер не должен вызываться для не-админа")
	}
}

func TestAdminChain_AdminAllowed(t *testing.T) {
	token, err := utils.GenerateToken(testSecret, "admin-1", true, time.Hour, "access")
	if err != nil {
		t.Fatalf("ошибка генерации токена: %v", err)
	}
	rec, reached := doAdminRequest(t, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидалось 200 для админа", rec.Code)
	}
	if !reached {
		t.Fatal("хендлер должен вызываться для админа")
	}
}

func TestOptionalJWT_LenientProbe(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	var gotUserID string
	var hadUserID bool
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, hadUserID = r.Context().Value(ContextUserID).(string)
		w.WriteHeader(http.StatusCreated)
	})
	handler := OptionalJWT(final)

	// сломанный токен не блокирует запрос — он просто анонимный
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/p-1/comments", nil)
	req.Header.Set("Authorization", "Bearer broken")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("статус = %d, сломанный токен должен трактоваться как его отсутствие", rec.Code)
	}
	if hadUserID {
		t.Fatal("сломанный токен не должен привязывать пользователя")
	}

	// валидный токен привязывает пользователя
	token, _ := utils.GenerateToken(testSecret, "u-7", false, time.Hour, "access")
	req = httptest.NewRequest(http.MethodPost, "/api/v1/posts/p-1/comments", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !hadUserID || gotUserID != "u-7" {
		t.Fatalf("валидный токен должен привязывать пользователя, got %q", gotUserID)
	}
}
