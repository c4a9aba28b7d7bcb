package middleware

import (
	helpers "bloghub/internal/utils/helpers"
	"net/http"
)

// OnlyAdmin ставится ПОСЛЕ JWTAuth: актор аутентифицирован,
// но без админ-флага получает 403, а не 401.
func OnlyAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isAdmin, ok := r.Context().Value(ContextIsAdmin).(bool)
		if !ok || !isAdmin {
			helpers.Error(w, http.StatusForbidden, "Требуются права администратора")
			return
		}
		next.ServeHTTP(w, r)
	})
}
